package service

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strings"

	"warehouse/internal/config"
	"warehouse/internal/core"

	mssql "github.com/denisenkom/go-mssqldb"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	authorityHost = "https://login.microsoftonline.com"
	databaseScope = "https://database.windows.net/.default"
)

// OpenFunc returns a handle for the configured warehouse. It must not require
// network access; the first session is established by the caller.
type OpenFunc func(ctx context.Context, cfg *config.Config) (*sql.DB, error)

// OpenerFor picks the opener for a config.Backend* value.
func OpenerFor(backend string) (OpenFunc, error) {
	switch backend {
	case config.BackendODBC:
		return OpenODBC, nil
	case config.BackendMSSQL:
		return OpenMSSQL, nil
	default:
		return nil, fmt.Errorf("unsupported backend %q", backend)
	}
}

// OpenODBC opens the warehouse through the "odbc" database/sql driver, which the
// binary must register.
func OpenODBC(_ context.Context, cfg *config.Config) (*sql.DB, error) {
	connStr := core.BuildConnString(cfg.ODBCDriver, cfg.Server, cfg.Database, cfg.ClientID, cfg.TenantID, cfg.ClientSecret)
	return sql.Open("odbc", connStr)
}

// OpenMSSQL opens the warehouse with the native TDS driver, authenticating with an
// Azure AD access token obtained through the client-credentials grant.
func OpenMSSQL(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	ts := tokenConfig(cfg).TokenSource(ctx)

	connector, err := mssql.NewAccessTokenConnector(NativeDSN(cfg.Server, cfg.Database), func() (string, error) {
		tok, err := ts.Token()
		if err != nil {
			return "", fmt.Errorf("failed to acquire access token: %w", err)
		}
		return tok.AccessToken, nil
	})
	if err != nil {
		return nil, err
	}

	return sql.OpenDB(connector), nil
}

func tokenConfig(cfg *config.Config) *clientcredentials.Config {
	return &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     fmt.Sprintf("%s/%s/oauth2/v2.0/token", authorityHost, url.PathEscape(cfg.TenantID)),
		Scopes:       []string{databaseScope},
		AuthStyle:    oauth2.AuthStyleInParams,
	}
}

// NativeDSN converts an ODBC style server ("tcp:host,1433") into a sqlserver:// URL.
func NativeDSN(server, database string) string {
	host := strings.TrimPrefix(server, "tcp:")
	if h, port, ok := strings.Cut(host, ","); ok {
		host = net.JoinHostPort(strings.TrimSpace(h), strings.TrimSpace(port))
	}

	u := &url.URL{
		Scheme: "sqlserver",
		Host:   host,
	}
	q := url.Values{}
	q.Set("database", database)
	u.RawQuery = q.Encode()
	return u.String()
}
