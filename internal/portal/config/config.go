// Package config holds runtime settings for the portal CLI.
package config

import "time"

// Config holds runtime settings for the portal client.
//
// Fields:
//   - APIBaseURL: base URL of the portal backend, including the /api prefix.
//   - DeviceName: label sent with credential exchanges so the backend can
//     attribute issued tokens.
//   - DatabasePath: sqlite file holding the persisted session.
//   - RequestTimeout: per-request timeout for outbound calls.
type Config struct {
	APIBaseURL     string
	DeviceName     string
	DatabasePath   string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000/api"
	c.DeviceName = "cdc-cli"
	c.DatabasePath = "portal.db"
	c.RequestTimeout = 15 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, a JSON file (if given), and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
