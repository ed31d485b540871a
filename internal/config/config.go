package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds service configuration.
type Config struct {
	DatabaseURL   string
	ListenAddr    string
	AdminAddr     string
	DraftFile     string
	ShutdownGrace time.Duration
}

// Load reads configuration from environment.
func Load() (*Config, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		user := getenv("POSTGRES_USER", "draftboard")
		pass := getenv("POSTGRES_PASSWORD", "draftboard_pass")
		db := getenv("POSTGRES_DB", "draftboard")
		host := getenv("POSTGRES_HOST", "localhost")
		port := getenv("POSTGRES_PORT", "5432")
		sslmode := getenv("DATABASE_SSLMODE", "disable")
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, pass, host, port, db, sslmode)
	}
	listen := getenv("LISTEN_ADDR", "0.0.0.0:8888")
	admin := getenv("ADMIN_ADDR", "0.0.0.0:8080")
	draftFile := getenv("DRAFT_FILE", "local_draft.gob")
	grace := parseDuration(getenv("SHUTDOWN_GRACE", "1s"), time.Second)

	return &Config{
		DatabaseURL:   dsn,
		ListenAddr:    listen,
		AdminAddr:     admin,
		DraftFile:     draftFile,
		ShutdownGrace: grace,
	}, nil
}

func getenv(key, def string) string {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	return val
}

func parseDuration(val string, def time.Duration) time.Duration {
	if val == "" {
		return def
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return def
	}
	return d
}
