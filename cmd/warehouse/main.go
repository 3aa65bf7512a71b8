package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"warehouse/internal/config"
	"warehouse/internal/core"
	"warehouse/internal/data"
	"warehouse/internal/logger"
	"warehouse/internal/service"

	// Drivers
	_ "github.com/alexbrainman/odbc"
)

func main() {
	if args := os.Args[1:]; len(args) > 0 {
		switch args[0] {
		case "run":
			// default behaviour
		case "check":
			os.Exit(handleCheck(os.Stdout))
		case "history":
			os.Exit(handleHistory(args[1:], os.Stdout))
		case "help", "--help", "-h":
			printHelp(os.Stdout)
			return
		default:
			fmt.Printf("Unknown command: %s\n", args[0])
			printHelp(os.Stdout)
			os.Exit(1)
		}
	}

	os.Exit(run(os.Stdout))
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "warehouse - query the employees table of a SQL Server data warehouse")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  warehouse                  Run the employees query")
	fmt.Fprintln(w, "  warehouse check            Connect and ping the warehouse only")
	fmt.Fprintln(w, "  warehouse history [-n N]   Show the N most recent runs (needs AUDIT_DB)")
	fmt.Fprintln(w, "  warehouse help             Show this help")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment (or .env):")
	fmt.Fprintln(w, "  TENANT_ID, CLIENT_ID, CLIENT_SECRET, SERVER, DATABASE   required")
	fmt.Fprintln(w, "  ODBC_DRIVER, BACKEND (odbc|mssql), AUDIT_DB, LOG_DIR, FAIL_ON_ERROR")
}

// setup loads and validates the config and initialises logging. A nil config
// means the process must exit with status 1.
func setup(w io.Writer) (*config.Config, service.OpenFunc, io.Closer) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(w, "Failed to load config: %v\n", err)
		return nil, nil, nil
	}

	logFile, err := logger.Init(cfg.LogDir)
	if err != nil {
		fmt.Fprintf(w, "Failed to init logger: %v\n", err)
		return nil, nil, nil
	}

	cfg.Print(w)

	if err := cfg.Validate(); err != nil {
		logger.Error.Printf("%v", err)
		logFile.Close()
		return nil, nil, nil
	}

	open, err := service.OpenerFor(cfg.Backend)
	if err != nil {
		logger.Error.Printf("%v", err)
		logFile.Close()
		return nil, nil, nil
	}

	return cfg, open, logFile
}

// run returns the process exit status.
func run(w io.Writer) int {
	cfg, open, logFile := setup(w)
	if cfg == nil {
		return 1
	}
	defer logFile.Close()

	var runRepo core.RunRepository
	if cfg.AuditDB != "" {
		auditDB, err := data.InitDB(cfg.AuditDB)
		if err != nil {
			logger.Error.Printf("Failed to init audit database: %v", err)
			return 1
		}
		defer auditDB.Close()
		runRepo = data.NewRunRepo(auditDB)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err := service.NewRunner(cfg, open, runRepo).Run(ctx, w)
	return exitStatus(err, cfg.FailOnError)
}

// exitStatus maps a run error to the process status. Driver errors are reported
// but only fail the process when failOnError is set.
func exitStatus(err error, failOnError bool) int {
	if err == nil {
		return 0
	}
	var derr *service.DriverError
	if errors.As(err, &derr) && !failOnError {
		return 0
	}
	return 1
}

func handleCheck(w io.Writer) int {
	cfg, open, logFile := setup(w)
	if cfg == nil {
		return 1
	}
	defer logFile.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := service.NewRunner(cfg, open, nil).Check(ctx); err != nil {
		fmt.Fprintf(w, "Error connecting to the database: %v\n", err)
		return 1
	}
	fmt.Fprintf(w, "Connected to %s/%s\n", cfg.Server, cfg.Database)
	return 0
}

func handleHistory(args []string, w io.Writer) int {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(w)
	limit := fs.Int("n", 20, "Number of runs to show")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(w, "Failed to load config: %v\n", err)
		return 1
	}
	if cfg.AuditDB == "" {
		fmt.Fprintln(w, "AUDIT_DB is not set, no run history is recorded.")
		return 1
	}

	db, err := data.InitDB(cfg.AuditDB)
	if err != nil {
		fmt.Fprintf(w, "Failed to init audit database: %v\n", err)
		return 1
	}
	defer db.Close()

	return printHistory(db, *limit, w)
}

func printHistory(db *sql.DB, limit int, w io.Writer) int {
	recs, err := data.NewRunRepo(db).GetRecent(limit)
	if err != nil {
		fmt.Fprintf(w, "Failed to read run history: %v\n", err)
		return 1
	}
	if len(recs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return 0
	}

	for _, r := range recs {
		line := fmt.Sprintf("%s  %-7s  %-5s  %s/%s  rows=%d  %dms",
			r.Timestamp.Format("2006-01-02 15:04:05"), r.Status, r.Backend, r.Server, r.Database, r.RowCount, r.DurationMs)
		if r.ErrorMessage != "" {
			line += "  " + r.ErrorMessage
		}
		fmt.Fprintln(w, line)
	}
	return 0
}
