// Package config loads service configuration from the environment, with an
// optional .env file for local runs.
package config

import (
	"os"
	"strconv"

	"github.com/google/logger"
	"github.com/joho/godotenv"
)

// Config is the runtime configuration of the dashboard service.
type Config struct {
	ListenAddr string

	// CSV source paths; empty means that source only arrives via upload.
	TicketsCSV   string
	RechargesCSV string
	ResultsCSV   string

	// RefreshCron re-loads the CSV sources on a schedule; empty disables it.
	RefreshCron string

	// BatchSize is how many tickets/contests a computation processes between
	// cancellation checks.
	BatchSize int
}

// Load reads the configuration. A missing .env file is not an error.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		logger.Infof("Loaded configuration from .env")
	}

	return &Config{
		ListenAddr:   getEnv("LISTEN_ADDR", ":8080"),
		TicketsCSV:   getEnv("TICKETS_CSV", ""),
		RechargesCSV: getEnv("RECHARGES_CSV", ""),
		ResultsCSV:   getEnv("RESULTS_CSV", ""),
		RefreshCron:  getEnv("REFRESH_CRON", ""),
		BatchSize:    getEnvInt("BATCH_SIZE", 200),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		logger.Infof("Ignoring invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}
