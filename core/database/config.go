package database

import (
	"fmt"
	"strings"
)

const (
	// DriverPostgres selects the lib/pq driver with a server-side database.
	DriverPostgres = "postgres"
	// DriverSQLite selects the embedded go-sqlite3 driver with a file database.
	DriverSQLite = "sqlite3"
)

// Config holds database connection settings.
// Postgres fields are ignored for sqlite; Path is ignored for postgres.
type Config struct {
	Driver         string `yaml:"driver" envconfig:"DB_DRIVER"`
	Host           string `yaml:"host" envconfig:"DB_HOST"`
	Port           string `yaml:"port" envconfig:"DB_PORT"`
	User           string `yaml:"user" envconfig:"DB_USER"`
	Password       string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name           string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode        string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	Path           string `yaml:"path" envconfig:"DB_PATH"`
	MaxConnections int    `yaml:"max_connections" envconfig:"DB_MAX_CONNECTIONS"`
}

// Normalize validates driver selection and fills defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil database config")
	}
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	switch driver {
	case "", DriverPostgres:
		driver = DriverPostgres
	case "sqlite", DriverSQLite:
		driver = DriverSQLite
		if strings.TrimSpace(cfg.Path) == "" {
			return fmt.Errorf("database.path is required when database.driver is 'sqlite3'")
		}
	default:
		return fmt.Errorf("invalid database.driver %q; allowed: postgres, sqlite3", cfg.Driver)
	}
	cfg.Driver = driver
	if cfg.MaxConnections <= 0 {
		cfg.MaxConnections = 4
	}
	return nil
}
