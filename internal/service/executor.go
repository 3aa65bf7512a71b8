package service

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"warehouse/internal/config"
	"warehouse/internal/core"
	"warehouse/internal/logger"
)

const (
	StageOpen    = "open"
	StageConnect = "connect"
	StageQuery   = "query"
	StageScan    = "scan"
)

// DriverError reports a failure raised by the database driver at one stage of a run.
type DriverError struct {
	Stage string
	Err   error
}

func (e *DriverError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *DriverError) Unwrap() error {
	return e.Err
}

type Runner struct {
	cfg     *config.Config
	open    OpenFunc
	runRepo core.RunRepository
}

// NewRunner builds a Runner. runRepo may be nil to skip the run history.
func NewRunner(cfg *config.Config, open OpenFunc, runRepo core.RunRepository) *Runner {
	return &Runner{
		cfg:     cfg,
		open:    open,
		runRepo: runRepo,
	}
}

// Run executes the employees query and prints a header plus one line per row to w.
// A driver error is printed to w and returned as a *DriverError.
func (r *Runner) Run(ctx context.Context, w io.Writer) (result *core.ResultSet, err error) {
	startTime := time.Now()

	defer func() {
		if r.runRepo == nil {
			return
		}

		rec := &core.RunRecord{
			Timestamp:  startTime,
			Server:     r.cfg.Server,
			Database:   r.cfg.Database,
			Backend:    r.cfg.Backend,
			DurationMs: time.Since(startTime).Milliseconds(),
			Status:     core.StatusSuccess,
		}
		if result != nil {
			rec.RowCount = int64(len(result.Rows))
		}
		if err != nil {
			rec.Status = core.StatusError
			rec.ErrorMessage = err.Error()
		}
		if auditErr := r.runRepo.Create(rec); auditErr != nil {
			logger.Error.Printf("Failed to record run: %v", auditErr)
		}
	}()

	result, err = r.fetch(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error connecting to the database: %v\n", err)
		logger.Error.Printf("Query against %s/%s failed: %v", r.cfg.Server, r.cfg.Database, err)
		return nil, err
	}

	fmt.Fprintln(w, "Employee Data:")
	for _, row := range result.Rows {
		fmt.Fprintln(w, core.FormatRow(row))
	}

	logger.Info.Printf("Fetched %d rows from %s/%s in %v", len(result.Rows), r.cfg.Server, r.cfg.Database, time.Since(startTime))
	return result, nil
}

// fetch opens one session, runs the query and reads the whole result set.
// Everything acquired here is released before it returns.
func (r *Runner) fetch(ctx context.Context) (*core.ResultSet, error) {
	db, err := r.open(ctx, r.cfg)
	if err != nil {
		return nil, &DriverError{Stage: StageOpen, Err: err}
	}
	defer closeLogged("database handle", db)

	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, &DriverError{Stage: StageConnect, Err: err}
	}
	defer closeLogged("connection", conn)

	rows, err := conn.QueryContext(ctx, core.EmployeesQuery)
	if err != nil {
		return nil, &DriverError{Stage: StageQuery, Err: err}
	}
	defer closeLogged("cursor", rows)

	columns, err := rows.Columns()
	if err != nil {
		return nil, &DriverError{Stage: StageScan, Err: err}
	}

	resultRows := []core.Row{}

	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range columns {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, &DriverError{Stage: StageScan, Err: err}
		}

		for i, val := range values {
			if b, ok := val.([]byte); ok {
				values[i] = string(b)
			}
		}
		resultRows = append(resultRows, core.Row(values))
	}
	if err := rows.Err(); err != nil {
		return nil, &DriverError{Stage: StageScan, Err: err}
	}

	return &core.ResultSet{
		Columns: columns,
		Rows:    resultRows,
	}, nil
}

// Check opens one session and pings it, without running the query.
func (r *Runner) Check(ctx context.Context) error {
	db, err := r.open(ctx, r.cfg)
	if err != nil {
		return &DriverError{Stage: StageOpen, Err: err}
	}
	defer closeLogged("database handle", db)

	conn, err := db.Conn(ctx)
	if err != nil {
		return &DriverError{Stage: StageConnect, Err: err}
	}
	defer closeLogged("connection", conn)

	if err := conn.PingContext(ctx); err != nil {
		return &DriverError{Stage: StageConnect, Err: err}
	}
	return nil
}

func closeLogged(what string, c io.Closer) {
	if err := c.Close(); err != nil && err != sql.ErrConnDone {
		logger.Error.Printf("Failed to close %s: %v", what, err)
	}
}
