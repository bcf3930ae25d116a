// Package database opens the memo store's PostgreSQL pool.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/XSAM/otelsql"
	_ "github.com/jackc/pgx/v5/stdlib"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"memoapi/internal/config"
)

const pingTimeout = 5 * time.Second

var sqlOpen = sql.Open

var errIncompleteConfig = errors.New("invalid database config: DATABASE_URL or DB_HOST, DB_PORT, DB_USER and DB_NAME are required")

// BuildPostgresDSN returns DATABASE_URL when set, filling in DB_SSLMODE if the URL
// carries no sslmode. Otherwise the DSN is assembled from the DB_* components.
func BuildPostgresDSN(c config.DatabaseConfig) (string, error) {
	var u *url.URL
	if c.URL != "" {
		parsed, err := url.Parse(c.URL)
		if err != nil {
			return "", fmt.Errorf("parse DATABASE_URL: %w", err)
		}
		if parsed.Scheme != "postgres" && parsed.Scheme != "postgresql" {
			return "", fmt.Errorf("DATABASE_URL scheme %q is not postgres", parsed.Scheme)
		}
		u = parsed
	} else {
		if c.Host == "" || c.Port == "" || c.User == "" || c.Name == "" {
			return "", errIncompleteConfig
		}
		u = &url.URL{Scheme: "postgres", Host: c.Host + ":" + c.Port, Path: c.Name}
		u.User = url.User(c.User)
		if c.Password != "" {
			u.User = url.UserPassword(c.User, c.Password)
		}
	}

	q := u.Query()
	if c.SSLMode != "" && q.Get("sslmode") == "" {
		q.Set("sslmode", c.SSLMode)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// NewPostgres opens a traced pgx pool, sizes it from c and pings it once.
func NewPostgres(ctx context.Context, c config.DatabaseConfig, log *slog.Logger) (*sql.DB, error) {
	dsn, err := BuildPostgresDSN(c)
	if err != nil {
		return nil, err
	}

	driverName, err := otelsql.Register("pgx",
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithSQLCommenter(true),
	)
	if err != nil {
		return nil, fmt.Errorf("register otelsql: %w", err)
	}

	db, err := sqlOpen(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	configurePool(db, c)

	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	log.Info("database_connected",
		slog.String("dsn", redact(dsn)),
		slog.Int("max_open_conns", c.MaxOpenConns),
		slog.Int("max_idle_conns", c.MaxIdleConns),
	)
	return db, nil
}

// configurePool applies the positive pool settings; zero keeps the database/sql default.
func configurePool(db *sql.DB, c config.DatabaseConfig) {
	if c.MaxOpenConns > 0 {
		db.SetMaxOpenConns(c.MaxOpenConns)
	}
	if c.MaxIdleConns > 0 {
		db.SetMaxIdleConns(c.MaxIdleConns)
	}
	if c.ConnMaxLifetimeSec > 0 {
		db.SetConnMaxLifetime(time.Duration(c.ConnMaxLifetimeSec) * time.Second)
	}
}

func redact(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "invalid"
	}
	return u.Redacted()
}
