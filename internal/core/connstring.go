package core

import (
	"fmt"
	"strings"
)

// AuthServicePrincipal is the ODBC authentication mode for Azure AD application credentials.
const AuthServicePrincipal = "ActiveDirectoryServicePrincipal"

// BuildConnString renders the ODBC connection string for service-principal login.
// Values are embedded verbatim, nothing is escaped.
func BuildConnString(driver, server, database, clientID, tenantID, secret string) string {
	return fmt.Sprintf(
		"DRIVER={%s};SERVER=%s;DATABASE=%s;UID=%s@%s;PWD=%s;Authentication=%s",
		driver, server, database, clientID, tenantID, secret, AuthServicePrincipal,
	)
}

// ParseConnString splits an ODBC connection string into its attributes.
// Keys are upper-cased and a value wrapped in braces is unwrapped.
func ParseConnString(connStr string) map[string]string {
	attrs := make(map[string]string)
	for _, part := range strings.Split(connStr, ";") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		k = strings.ToUpper(strings.TrimSpace(k))
		if strings.HasPrefix(v, "{") && strings.HasSuffix(v, "}") {
			v = v[1 : len(v)-1]
		}
		attrs[k] = v
	}
	return attrs
}

// SplitUID separates a clientId@tenantId identity at its last '@'.
func SplitUID(uid string) (clientID, tenantID string) {
	i := strings.LastIndex(uid, "@")
	if i < 0 {
		return uid, ""
	}
	return uid[:i], uid[i+1:]
}
