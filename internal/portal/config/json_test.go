package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("overlays given fields, keeps the rest", func(t *testing.T) {
		path := writeConfigFile(t, `{
  "api_base_url": "https://api.cdc.sn/api",
  "request_timeout": "45s"
}`)
		os.Args = []string{"testbin", "-c", path}

		c := &Config{}
		c.LoadDefaults()
		parseJson(c)

		assert.Equal(t, "https://api.cdc.sn/api", c.APIBaseURL)
		assert.Equal(t, 45*time.Second, c.RequestTimeout)
		assert.Equal(t, "cdc-cli", c.DeviceName)
		assert.Equal(t, "portal.db", c.DatabasePath)
	})

	t.Run("no config flag is a no-op", func(t *testing.T) {
		os.Args = []string{"testbin"}

		c := &Config{}
		c.LoadDefaults()
		parseJson(c)

		assert.Equal(t, "http://localhost:8000/api", c.APIBaseURL)
	})

	t.Run("missing file panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", "/does/not/exist.json"}

		c := &Config{}
		c.LoadDefaults()
		require.Panics(t, func() { parseJson(c) })
	})

	t.Run("malformed json panics", func(t *testing.T) {
		path := writeConfigFile(t, `{broken`)
		os.Args = []string{"testbin", "-c", path}

		c := &Config{}
		c.LoadDefaults()
		require.Panics(t, func() { parseJson(c) })
	})
}
