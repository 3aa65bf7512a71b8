package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildConnString(t *testing.T) {
	got := BuildConnString("ODBC Driver 17 for SQL Server", "ws.sql.azuresynapse.net", "dw", "client", "tenant", "pw")
	assert.Equal(t,
		"DRIVER={ODBC Driver 17 for SQL Server};SERVER=ws.sql.azuresynapse.net;DATABASE=dw;UID=client@tenant;PWD=pw;Authentication=ActiveDirectoryServicePrincipal",
		got)
}

func TestConnStringRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		server   string
		database string
		clientID string
		tenantID string
		secret   string
	}{
		{"guids", "tcp:ws.sql.azuresynapse.net,1433", "warehouse", "6f1d2c3a-0000-4a4b-9c9d-111111111111", "72f988bf-86f1-41af-91ab-2d7cd011db47", "abc~DEF.123"},
		{"short", "localhost", "db", "c", "t", "s"},
		{"email-like client", "srv", "db", "app@contoso", "tenant", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			connStr := BuildConnString("ODBC Driver 17 for SQL Server", tt.server, tt.database, tt.clientID, tt.tenantID, tt.secret)
			attrs := ParseConnString(connStr)

			assert.Equal(t, "ODBC Driver 17 for SQL Server", attrs["DRIVER"])
			assert.Equal(t, tt.server, attrs["SERVER"])
			assert.Equal(t, tt.database, attrs["DATABASE"])
			assert.Equal(t, tt.secret, attrs["PWD"])
			assert.Equal(t, AuthServicePrincipal, attrs["AUTHENTICATION"])

			clientID, tenantID := SplitUID(attrs["UID"])
			assert.Equal(t, tt.clientID, clientID)
			assert.Equal(t, tt.tenantID, tenantID)
		})
	}
}

func TestParseConnStringIgnoresEmptyParts(t *testing.T) {
	attrs := ParseConnString("a=1;;b=2;")
	require.Len(t, attrs, 2)
	assert.Equal(t, "1", attrs["A"])
	assert.Equal(t, "2", attrs["B"])
}

func TestSplitUIDWithoutTenant(t *testing.T) {
	c, tn := SplitUID("client")
	assert.Equal(t, "client", c)
	assert.Empty(t, tn)
}

func TestFormatRow(t *testing.T) {
	ts := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	got := FormatRow(Row{int64(7), "Ada Lovelace", nil, []byte("eng"), 12.5, true, ts})
	assert.Equal(t, `(7, "Ada Lovelace", NULL, "eng", 12.5, true, 2024-03-01T09:30:00Z)`, got)
	assert.Equal(t, "()", FormatRow(Row{}))
}
