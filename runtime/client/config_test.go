package client

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetConfig(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Chdir(t.TempDir())

	// Make the variables absent for the test while still restoring the
	// caller's values afterwards.
	for _, key := range []string{"DATABASE_URL", "MODELGO_PROVIDER", "MODELGO_DATABASE_URL", "MODELGO_MAX_OPEN_CONNS"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	resetConfig(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Provider)
	assert.Equal(t, "", cfg.DatabaseURL)
	assert.Equal(t, 1, cfg.MaxOpenConns)
	assert.Equal(t, 1, cfg.MaxIdleConns)
	assert.False(t, cfg.Debug)
	assert.Equal(t, 100*time.Millisecond, cfg.SlowQueryThreshold)
}

func TestLoadConfig_Environment(t *testing.T) {
	resetConfig(t)
	t.Setenv("MODELGO_PROVIDER", "mysql")
	t.Setenv("MODELGO_MAX_OPEN_CONNS", "5")
	t.Setenv("DATABASE_URL", "user:pass@tcp(localhost:3306)/app")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.Provider)
	assert.Equal(t, 5, cfg.MaxOpenConns)
	assert.Equal(t, "user:pass@tcp(localhost:3306)/app", cfg.DatabaseURL)
}

func TestLoadConfig_PrefixedDatabaseURL(t *testing.T) {
	resetConfig(t)
	t.Setenv("MODELGO_DATABASE_URL", "postgres://localhost/app")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/app", cfg.DatabaseURL)
	assert.Equal(t, "postgres", cfg.Provider, "provider is inferred from the URL")
}

func TestLoadConfig_ConfigFile(t *testing.T) {
	resetConfig(t)

	yaml := []byte("provider: postgres\ndatabase_url: postgres://localhost/app\nmax_open_conns: 10\ndebug: true\n")
	require.NoError(t, os.WriteFile("modelgo.yaml", yaml, 0644))

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Provider)
	assert.Equal(t, "postgres://localhost/app", cfg.DatabaseURL)
	assert.Equal(t, 10, cfg.MaxOpenConns)
	assert.True(t, cfg.Debug)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	resetConfig(t)

	require.NoError(t, os.WriteFile(".env", []byte("DATABASE_URL=postgres://dotenv/app\n"), 0644))
	require.NoError(t, os.WriteFile(".env.local", []byte("DATABASE_URL=postgres://local/app\n"), 0644))

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres://local/app", cfg.DatabaseURL, ".env.local overrides .env")
}

func TestSaveConfig(t *testing.T) {
	resetConfig(t)

	homedir.DisableCache = true
	defer func() { homedir.DisableCache = false }()
	t.Setenv("HOME", "/home/tester")

	AppFs = afero.NewMemMapFs()
	defer func() { AppFs = afero.NewOsFs() }()

	cfg := &Config{
		Provider:     "postgres",
		DatabaseURL:  "postgres://localhost/app",
		MaxOpenConns: 4,
	}
	require.NoError(t, SaveConfig(cfg))

	written := filepath.Join("/home/tester", ".config", "modelgo", "modelgo.yaml")
	exists, err := afero.Exists(AppFs, written)
	require.NoError(t, err)
	assert.True(t, exists)
}
