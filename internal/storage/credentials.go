package storage

import (
	"net/url"
	"strings"
)

// IsPostgresConnString reports whether config names a PostgreSQL database
// rather than a SQLite file path
func IsPostgresConnString(config string) bool {
	return strings.HasPrefix(config, "postgres://") || strings.HasPrefix(config, "postgresql://")
}

// HasEmbeddedCredentials reports whether a PostgreSQL connection string
// carries a password, in either URL or DSN form
func HasEmbeddedCredentials(connStr string) bool {
	if IsPostgresConnString(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			return false
		}
		if _, isSet := u.User.Password(); isSet {
			return true
		}
		return u.Query().Get("password") != ""
	}

	for _, pair := range strings.Fields(connStr) {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) == 2 && strings.EqualFold(strings.TrimSpace(parts[0]), "password") {
			return true
		}
	}
	return false
}
