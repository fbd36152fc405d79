package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/Simplici0/oficina/internal/pricing"
)

const (
	defaultDBPath   = "./dev.db"
	defaultPort     = "8080"
	defaultEnv      = "dev"
	defaultLogLevel = "info"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env      string
	DBPath   string
	Port     string
	LogLevel string
	LogFile  string

	// WorkingDays seeds the business settings of a fresh database.
	WorkingDays float64
	Seed        bool
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: load local dev environment variables.
	// We don't fail if the file is missing; production should use real env injection.
	if err := loadDotEnv(".env"); err != nil {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg := Config{
		Env:      getEnv("APP_ENV", defaultEnv),
		DBPath:   getEnv("DB_PATH", defaultDBPath),
		Port:     getEnv("PORT", defaultPort),
		LogLevel: getEnv("LOG_LEVEL", defaultLogLevel),
		LogFile:  os.Getenv("LOG_FILE"),
	}

	cfg.WorkingDays = pricing.DefaultWorkingDays
	if raw := os.Getenv("WORKING_DAYS"); raw != "" {
		days, err := strconv.ParseFloat(raw, 64)
		if err != nil || days < 0 {
			slog.Warn("ignoring invalid WORKING_DAYS", "value", raw)
		} else {
			cfg.WorkingDays = days
		}
	}

	cfg.Seed = cfg.IsDev()
	if raw := os.Getenv("SEED"); raw != "" {
		seed, err := strconv.ParseBool(raw)
		if err != nil {
			slog.Warn("ignoring invalid SEED", "value", raw)
		} else {
			cfg.Seed = seed
		}
	}

	return cfg
}

// IsDev reports whether the application runs in the development environment.
func (c Config) IsDev() bool {
	return c.Env == "dev"
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
