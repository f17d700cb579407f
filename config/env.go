package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Config carries every process-level setting. It is built once in main and
// handed to constructors; nothing reads the environment after that.
type Config struct {
	Env         string
	APIURL      string
	HTTPTimeout time.Duration
	ListenAddr  string
	Concurrency int

	RedisURL      string
	RedisPassword string
	RedisDB       int

	DatabaseURL string
}

// LoadDotEnv loads .env if present. The returned bool reports whether a file
// was found.
func LoadDotEnv(filenames ...string) bool {
	return godotenv.Load(filenames...) == nil
}

// FromEnv builds a Config from environment variables, falling back to the
// defaults in constants.go.
func FromEnv() (Config, error) {
	cfg := Config{
		Env:           getenv("APP_ENV", EnvLocal),
		APIURL:        getenv("PROOFPLAY_API_URL", DefaultAPIURL),
		HTTPTimeout:   DefaultHTTPTimeout,
		ListenAddr:    getenv("LISTEN_ADDR", DefaultListenAddr),
		Concurrency:   DefaultConcurrency,
		RedisURL:      os.Getenv("REDIS_URL"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
	}

	if v := os.Getenv("HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid HTTP_TIMEOUT %q: %w", v, err)
		}
		cfg.HTTPTimeout = d
	}

	if v := os.Getenv("VERIFY_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return cfg, fmt.Errorf("invalid VERIFY_CONCURRENCY %q", v)
		}
		cfg.Concurrency = n
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid REDIS_DB %q: %w", v, err)
		}
		cfg.RedisDB = n
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
