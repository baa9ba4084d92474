package config // package config loads application configuration from environment variables

import (
	"fmt"
	"os"
	"strings"
)

// Config holds the process-wide settings. Feature specific settings live in
// their own structs (CacheConfig, RateLimitConfig, SeatConfig, ...) and are
// loaded separately so each component only sees what it uses.
type Config struct {
	Env         string   // application environment (e.g. "dev", "prod")
	Port        string   // HTTP port to listen on
	JWTSecret   string   // secret used to verify HS256 access tokens
	LogLevel    string   // logrus level name
	LogFormat   string   // "json" or "text"
	CORSOrigins []string // allowed browser origins
}

// Load reads the base configuration. Missing required variables are
// reported together in one error.
func Load() (Config, error) {
	var missing []string
	must := func(key string) string {
		v, ok := os.LookupEnv(key)
		if !ok || strings.TrimSpace(v) == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg := Config{
		Env:         envStr("APP_ENV", "dev"),
		Port:        must("APP_PORT"),
		JWTSecret:   must("JWT_SECRET"),
		LogLevel:    envStr("LOG_LEVEL", "info"),
		LogFormat:   envStr("LOG_FORMAT", "json"),
		CORSOrigins: envList("CORS_ORIGINS", "http://localhost:5173"),
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}
