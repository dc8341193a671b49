package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for name := range envKeys {
		if v, ok := os.LookupEnv(name); ok {
			os.Unsetenv(name)
			t.Cleanup(func() { os.Setenv(name, v) })
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFrom("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 5*time.Second, cfg.Rating.Timeout)
	assert.False(t, cfg.Email.Enabled())
}

func TestLoadFileAndEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "cine-lens.yaml")
	yaml := `
data:
  catalog_path: /srv/catalog.csv
rating:
  timeout: 2s
email:
  smtp_host: smtp.example.test
  recipient: ops@example.test
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	t.Setenv("OMDB_API_KEY", "from-env")
	t.Setenv("EMAIL_SMTP_PORT", "2525")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/catalog.csv", cfg.Data.CatalogPath)
	assert.Equal(t, "./data", cfg.Data.Path)
	assert.Equal(t, 2*time.Second, cfg.Rating.Timeout)
	assert.Equal(t, "from-env", cfg.Rating.APIKey)
	assert.Equal(t, 2525, cfg.Email.SMTPPort)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.True(t, cfg.Email.Enabled())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.Data.CatalogPath = " "
	cfg.Rating.Timeout = 0
	cfg.Email.SMTPPort = 70000

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data.catalog_path")
	assert.Contains(t, err.Error(), "rating.timeout")
	assert.Contains(t, err.Error(), "email.smtp_port")
}

func TestInvalidTimeoutFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("OMDB_TIMEOUT", "0s")

	_, err := LoadFrom("")
	assert.Error(t, err)
}
