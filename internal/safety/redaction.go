// suitability-mcp: MCP server for district branch-suitability scoring
// SPDX-License-Identifier: MIT
//
// Sensitive data redaction for DSN and connection strings.

package safety

import (
	"net/url"
	"strings"
)

// RedactDSN masks the password of URL DSNs (postgres://, redis://) and of
// go-sql-driver style DSNs (user:pass@tcp(host)/db).
func RedactDSN(dsn string) string {
	if strings.Contains(dsn, "://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "***"
		}
		if u.User != nil {
			if _, hasPwd := u.User.Password(); hasPwd {
				u.User = url.UserPassword(u.User.Username(), "***")
			}
		}
		return u.String()
	}
	at := strings.LastIndex(dsn, "@")
	if at < 0 {
		return dsn
	}
	creds := dsn[:at]
	if i := strings.Index(creds, ":"); i >= 0 {
		return creds[:i] + ":***" + dsn[at:]
	}
	return dsn
}
