package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"lexibot/core/logger"
	"log/slog"
)

// DSN builds the driver-specific data source name.
func DSN(cfg Config) string {
	if cfg.Driver == DriverSQLite {
		// Busy timeout keeps concurrent writers from failing immediately.
		return fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=on", cfg.Path)
	}
	return fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name, cfg.SSLMode,
	)
}

func locationAttrs(cfg Config) []any {
	if cfg.Driver == DriverSQLite {
		return []any{
			slog.String("driver", DriverSQLite),
			slog.String("path", cfg.Path),
		}
	}
	return []any{
		slog.String("driver", DriverPostgres),
		slog.String("host", cfg.Host),
		slog.String("port", cfg.Port),
		slog.String("db", cfg.Name),
	}
}

// Connect opens the database connection, configures the pool, and verifies connectivity.
func Connect(cfg Config) (*sqlx.DB, error) {
	if err := Normalize(&cfg); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	db, err := sqlx.ConnectContext(ctx, cfg.Driver, DSN(cfg))
	took := time.Since(start)
	if err != nil {
		logger.DB.Error("db connect failed",
			append(locationAttrs(cfg),
				slog.String("event", "db.connect"),
				slog.Duration("duration", logger.RoundMS(took)),
				slog.String("err", err.Error()),
			)...,
		)
		return nil, fmt.Errorf("db connect: %w", err)
	}

	if pingErr := db.PingContext(ctx); pingErr != nil {
		logger.DB.Error("db ping failed",
			append(locationAttrs(cfg),
				slog.String("event", "db.ping"),
				slog.String("err", pingErr.Error()),
			)...,
		)
		return nil, fmt.Errorf("db ping: %w", pingErr)
	}

	pool := cfg.MaxConnections
	if cfg.Driver == DriverSQLite {
		// A single writer avoids SQLITE_BUSY churn on the words table.
		pool = 1
	}
	db.SetMaxOpenConns(pool)
	db.SetMaxIdleConns(pool)
	logger.DB.Debug("db pool configured",
		slog.String("event", "db.pool"),
		slog.Int("pool_open", pool),
	)

	logger.DB.Info("db connected",
		append(locationAttrs(cfg),
			slog.String("event", "db.connect"),
			slog.Int("pool_open", pool),
			slog.Duration("duration", logger.RoundMS(took)),
		)...,
	)

	return db, nil
}

// WaitForDB tries to connect until the database is ready or timeout is reached.
// Sqlite files are always "ready"; the wait loop matters for server databases
// starting alongside the bot.
func WaitForDB(cfg Config, timeout time.Duration) error {
	if cfg.Driver == DriverSQLite {
		return nil
	}
	start := time.Now()
	var lastErr error
	for {
		db, err := sql.Open(cfg.Driver, DSN(cfg))
		if err == nil {
			if err = db.Ping(); err == nil {
				_ = db.Close()
				return nil
			}
			_ = db.Close()
		}
		lastErr = err
		if time.Since(start) > timeout {
			return fmt.Errorf("timeout reached waiting for database: %w", lastErr)
		}
		time.Sleep(2 * time.Second)
	}
}
