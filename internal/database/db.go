package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/iliyamo/cinema-seat-map/internal/config"
)

// DriverName maps a catalog source to its database/sql driver.
func DriverName(source string) (string, error) {
	switch source {
	case config.CatalogMySQL:
		return "mysql", nil
	case config.CatalogPostgres:
		return "pgx", nil
	}
	return "", fmt.Errorf("catalog source %q has no sql driver", source)
}

// DSN builds the connection string for the configured source.
func DSN(cfg config.CatalogConfig) (string, error) {
	switch cfg.Source {
	case config.CatalogMySQL:
		auth := cfg.DBUser
		if cfg.DBPass != "" {
			auth = fmt.Sprintf("%s:%s", cfg.DBUser, cfg.DBPass)
		}
		// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
		return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
			auth, cfg.DBHost, cfg.DBPort, cfg.DBName), nil
	case config.CatalogPostgres:
		u := url.URL{
			Scheme:   "postgres",
			Host:     cfg.DBHost + ":" + cfg.DBPort,
			Path:     "/" + cfg.DBName,
			RawQuery: "sslmode=disable",
		}
		if cfg.DBPass != "" {
			u.User = url.UserPassword(cfg.DBUser, cfg.DBPass)
		} else {
			u.User = url.User(cfg.DBUser)
		}
		return u.String(), nil
	}
	return "", fmt.Errorf("catalog source %q has no dsn", cfg.Source)
}

// Open connects to the catalog database and verifies the connection. The
// service only reads, so the pool is kept small.
func Open(ctx context.Context, cfg config.CatalogConfig) (*sql.DB, error) {
	driver, err := DriverName(cfg.Source)
	if err != nil {
		return nil, err
	}
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
