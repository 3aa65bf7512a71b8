package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultODBCDriver = "ODBC Driver 17 for SQL Server"

	BackendODBC  = "odbc"
	BackendMSSQL = "mssql"
)

// ErrMissing is matched by errors.Is for every MissingError.
var ErrMissing = errors.New("one or more environment variables are missing")

// MissingError lists the required variables that were absent or empty.
type MissingError struct {
	Vars []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("%v: %s. Check your .env file", ErrMissing, strings.Join(e.Vars, ", "))
}

func (e *MissingError) Unwrap() error {
	return ErrMissing
}

type Config struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	Server       string
	Database     string

	ODBCDriver  string
	Backend     string
	AuditDB     string
	LogDir      string
	FailOnError bool
}

// Load reads the configuration from the environment, after loading .env if present.
// Presence of the required values is not checked here, see Validate.
func Load() (*Config, error) {
	// Try loading .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function such as os.Getenv.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		TenantID:     getenv("TENANT_ID"),
		ClientID:     getenv("CLIENT_ID"),
		ClientSecret: getenv("CLIENT_SECRET"),
		Server:       getenv("SERVER"),
		Database:     getenv("DATABASE"),
		ODBCDriver:   getenv("ODBC_DRIVER"),
		Backend:      strings.ToLower(strings.TrimSpace(getenv("BACKEND"))),
		AuditDB:      getenv("AUDIT_DB"),
		LogDir:       getenv("LOG_DIR"),
	}

	if cfg.ODBCDriver == "" {
		cfg.ODBCDriver = DefaultODBCDriver
	}

	switch cfg.Backend {
	case "":
		cfg.Backend = BackendODBC
	case BackendODBC, BackendMSSQL:
	default:
		return nil, fmt.Errorf("unsupported BACKEND %q (want %q or %q)", cfg.Backend, BackendODBC, BackendMSSQL)
	}

	if s := getenv("FAIL_ON_ERROR"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("invalid FAIL_ON_ERROR %q: %w", s, err)
		}
		cfg.FailOnError = v
	}

	return cfg, nil
}

// Validate returns a *MissingError naming every required value that is empty.
func (c *Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"TENANT_ID", c.TenantID},
		{"CLIENT_ID", c.ClientID},
		{"CLIENT_SECRET", c.ClientSecret},
		{"SERVER", c.Server},
		{"DATABASE", c.Database},
	}

	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.name)
		}
	}
	if len(missing) > 0 {
		return &MissingError{Vars: missing}
	}
	return nil
}

// Print writes the loaded values to w. The client secret is never written.
func (c *Config) Print(w io.Writer) {
	fmt.Fprintf(w, "TENANT_ID: %s\n", c.TenantID)
	fmt.Fprintf(w, "CLIENT_ID: %s\n", c.ClientID)
	fmt.Fprintf(w, "SERVER: %s\n", c.Server)
	fmt.Fprintf(w, "DATABASE: %s\n", c.Database)
}
