package config

import "time"

// Catalog sources.
const (
	CatalogHTTP     = "http"
	CatalogMySQL    = "mysql"
	CatalogPostgres = "postgres"
)

// CatalogConfig tells the service where show records and booked seats come
// from. With the http source the booking backend's REST API is used; the
// sql sources read the backend's tables directly and never write to them.
type CatalogConfig struct {
	Source         string        // http, mysql or postgres
	BackendURL     string        // booking backend base URL
	BackendTimeout time.Duration // per request timeout for the backend client
	DBUser         string        // database username
	DBPass         string        // database password (optional)
	DBHost         string        // database host address
	DBPort         string        // database port number
	DBName         string        // database name
}

func LoadCatalogConfig() CatalogConfig {
	cfg := CatalogConfig{
		Source:         envStr("CATALOG_SOURCE", CatalogHTTP),
		BackendURL:     envStr("BOOKING_API_URL", "http://localhost:8000"),
		BackendTimeout: envDur("BOOKING_API_TIMEOUT", 5*time.Second),
		DBUser:         envStr("DB_USER", "root"),
		DBPass:         envStr("DB_PASS", ""),
		DBHost:         envStr("DB_HOST", "localhost"),
		DBName:         envStr("DB_NAME", "cinema"),
	}
	defPort := "3306"
	if cfg.Source == CatalogPostgres {
		defPort = "5432"
	}
	cfg.DBPort = envStr("DB_PORT", defPort)
	return cfg
}
