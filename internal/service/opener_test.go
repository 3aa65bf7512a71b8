package service

import (
	"context"
	"testing"

	"warehouse/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestNativeDSN(t *testing.T) {
	tests := []struct {
		server string
		want   string
	}{
		{"ws.sql.azuresynapse.net", "sqlserver://ws.sql.azuresynapse.net?database=dw"},
		{"tcp:ws.database.windows.net,1433", "sqlserver://ws.database.windows.net:1433?database=dw"},
		{"localhost:1434", "sqlserver://localhost:1434?database=dw"},
	}
	for _, tt := range tests {
		t.Run(tt.server, func(t *testing.T) {
			assert.Equal(t, tt.want, NativeDSN(tt.server, "dw"))
		})
	}
}

func TestTokenConfig(t *testing.T) {
	tc := tokenConfig(testConfig())
	assert.Equal(t, "client", tc.ClientID)
	assert.Equal(t, "secret", tc.ClientSecret)
	assert.Equal(t, "https://login.microsoftonline.com/tenant/oauth2/v2.0/token", tc.TokenURL)
	assert.Equal(t, []string{"https://database.windows.net/.default"}, tc.Scopes)
	assert.Equal(t, oauth2.AuthStyleInParams, tc.AuthStyle)
}

func TestOpenMSSQLIsLazy(t *testing.T) {
	db, err := OpenMSSQL(context.Background(), testConfig())
	require.NoError(t, err)
	require.NotNil(t, db)
	assert.NoError(t, db.Close())
}

func TestOpenerFor(t *testing.T) {
	_, err := OpenerFor(config.BackendODBC)
	assert.NoError(t, err)
	_, err = OpenerFor(config.BackendMSSQL)
	assert.NoError(t, err)
	_, err = OpenerFor("db2")
	assert.Error(t, err)
}
