package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("PORT", "")
	t.Setenv("CART_BACKEND", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "sql", cfg.CartBackend)
	require.Equal(t, 60, cfg.RateLimit)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shop.yaml")
	yml := "port: \"9000\"\ncart_backend: redis\ncors_origins: [\"https://mymat.test\"]\nrate_limit: 30\n"
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9100")
	t.Setenv("CART_BACKEND", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "9100", cfg.Port, "env overrides the file")
	require.Equal(t, "redis", cfg.CartBackend)
	require.Equal(t, []string{"https://mymat.test"}, cfg.CORSOrigins)
	require.Equal(t, 30, cfg.RateLimit)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("CART_BACKEND", "localstorage")
	_, err := Load()
	require.Error(t, err)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := Load()
	require.Error(t, err)
}

// chdir changes the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
