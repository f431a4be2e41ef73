package config

import (
	"os"
	"time"
)

// Environment variables recognized by the client. A .env file loaded by the
// binary (godotenv) ends up here as well.
const (
	envAPIBaseURL     = "PORTAL_API_URL"
	envDeviceName     = "PORTAL_DEVICE_NAME"
	envDatabasePath   = "PORTAL_DB_PATH"
	envRequestTimeout = "PORTAL_REQUEST_TIMEOUT"
)

// parseEnv overlays Config with values from the environment. Unset or
// malformed variables leave the current value untouched.
func parseEnv(cfg *Config) {
	if v := os.Getenv(envAPIBaseURL); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv(envDeviceName); v != "" {
		cfg.DeviceName = v
	}
	if v := os.Getenv(envDatabasePath); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv(envRequestTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
}
