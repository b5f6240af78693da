package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string // "development" | "production"
	HTTPAddr string

	DBDriver string
	DBDSN    string

	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	BcryptCost    int

	AIBaseURL string
	AIAPIKey  string
	AIModel   string
	AITimeout time.Duration

	CORSOrigins []string
}

// FromEnv loads .env (if present) and builds the config from environment
// variables, with defaults suitable for local development.
func FromEnv() Config {
	_ = godotenv.Load()

	return Config{
		Env:      envOr("APP_ENV", "development"),
		HTTPAddr: envOr("HTTP_ADDR", ":8080"),

		DBDriver: envOr("DB_DRIVER", "sqlite"),
		DBDSN:    envOr("DB_DSN", ""),

		AccessSecret:  envOr("JWT_ACCESS_SECRET", "dev-access-secret"),
		RefreshSecret: envOr("JWT_REFRESH_SECRET", "dev-refresh-secret"),
		AccessTTL:     envDuration("JWT_ACCESS_TTL", time.Hour),
		RefreshTTL:    envDuration("JWT_REFRESH_TTL", 7*24*time.Hour),
		BcryptCost:    12,

		AIBaseURL: os.Getenv("AI_BASE_URL"),
		AIAPIKey:  os.Getenv("AI_API_KEY"),
		AIModel:   envOr("AI_MODEL", "gpt-4o-mini"),
		AITimeout: envDuration("AI_TIMEOUT", 45*time.Second),

		CORSOrigins: csvOr("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
