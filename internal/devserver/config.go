package devserver

import (
	"os"
	"time"
)

// Config captures the dev server's runtime settings, loaded from environment
// variables. A .env file loaded by the binary (godotenv) ends up here too.
type Config struct {
	Addr        string
	TokenSecret string
	Env         string
	LogLevel    string
	OTPTTL      time.Duration
	TokenTTL    time.Duration
}

const (
	defaultAddr     = ":8000"
	defaultSecret   = "dev-secret-change-me"
	defaultEnv      = "development"
	defaultLogLevel = "info"
	defaultOTPTTL   = 5 * time.Minute
	defaultTokenTTL = 24 * time.Hour
)

// LoadConfig reads configuration from the environment, falling back to
// development defaults.
func LoadConfig() Config {
	cfg := Config{
		Addr:        getEnv("DEVSERVER_ADDR", defaultAddr),
		TokenSecret: getEnv("DEVSERVER_TOKEN_SECRET", defaultSecret),
		Env:         getEnv("APP_ENV", defaultEnv),
		LogLevel:    getEnv("LOG_LEVEL", defaultLogLevel),
		OTPTTL:      defaultOTPTTL,
		TokenTTL:    defaultTokenTTL,
	}

	if v := os.Getenv("DEVSERVER_OTP_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.OTPTTL = d
		}
	}
	if v := os.Getenv("DEVSERVER_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.TokenTTL = d
		}
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
