package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.NotNil(t, cfg)
	assert.NotEmpty(t, cfg.ListenAddr)
	assert.NotEmpty(t, cfg.UploadDir)
	assert.NotEmpty(t, cfg.CORSOrigins)
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, ":8000", cfg.ListenAddr)
	assert.Empty(t, cfg.DatabaseURL, "the store is optional")
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoadCustomValues(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("DATABASE_URL", "mongodb://localhost:27017")
	t.Setenv("DATABASE_NAME", "listings")
	t.Setenv("UPLOAD_DIR", "/data/uploads")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "mongodb://localhost:27017", cfg.DatabaseURL)
	assert.Equal(t, "listings", cfg.DatabaseName)
	assert.Equal(t, "/data/uploads", cfg.UploadDir)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoadPortFallback(t *testing.T) {
	t.Setenv("PORT", "3000")
	require.NoError(t, os.Unsetenv("LISTEN_ADDR"))

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.ListenAddr)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inmuebles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen_addr: ":7000"
database_url: "sqlite://from-yaml.db"
upload_dir: "yaml-uploads"
log_level: "debug"
`), 0o600))
	t.Setenv("UPLOAD_DIR", "env-uploads")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite://from-yaml.db", cfg.DatabaseURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "env-uploads", cfg.UploadDir, "environment overrides YAML")
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen_addr: [unterminated"), 0o600))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}
