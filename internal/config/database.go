// internal/config/database.go
package config

import (
	"fmt"
	"strings"
)

// DSN returns the connection string for the configured driver. For sqlite
// it is the file path, or an in-memory URI when Path is empty.
func (d *DatabaseConfig) DSN() string {
	if d.Driver == "sqlite" {
		if strings.TrimSpace(d.Path) == "" {
			return "file::memory:?cache=shared"
		}
		return d.Path
	}

	parts := []string{
		"host=" + d.Host,
		"port=" + d.Port,
		"user=" + d.User,
		"dbname=" + d.Database,
		"sslmode=" + d.SSLMode,
		"TimeZone=UTC",
	}
	if d.Password != "" {
		parts = append(parts, fmt.Sprintf("password=%s", d.Password))
	}
	return strings.Join(parts, " ")
}
