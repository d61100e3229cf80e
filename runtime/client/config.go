package client

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/satishbabariya/modelgo/internal/debug"
)

var AppFs = afero.NewOsFs()

// Config holds the client configuration
type Config struct {
	Provider           string
	DatabaseURL        string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetime    time.Duration
	Debug              bool
	SlowQueryThreshold time.Duration
}

// LoadConfig loads configuration from various sources
func LoadConfig() (*Config, error) {
	// Find home directory
	home, err := homedir.Dir()
	if err != nil {
		return nil, err
	}

	viper.SetFs(AppFs)

	// Set config file paths
	viper.SetConfigName("modelgo")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath(home)
	viper.AddConfigPath(filepath.Join(home, ".config", "modelgo"))

	// Set environment variable prefix
	viper.SetEnvPrefix("MODELGO")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("max_open_conns", 1)
	viper.SetDefault("max_idle_conns", 1)
	viper.SetDefault("debug", false)
	viper.SetDefault("slow_query_threshold", 100*time.Millisecond)

	// Try to read config file (ignore if not found)
	_ = viper.ReadInConfig()

	// Load .env file if it exists
	if _, err := AppFs.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}

	// Load .env.local if it exists (higher priority)
	if _, err := AppFs.Stat(".env.local"); err == nil {
		_ = godotenv.Overload(".env.local")
	}

	cfg := &Config{
		Provider:           viper.GetString("provider"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		MaxOpenConns:       viper.GetInt("max_open_conns"),
		MaxIdleConns:       viper.GetInt("max_idle_conns"),
		ConnMaxLifetime:    viper.GetDuration("conn_max_lifetime"),
		Debug:              viper.GetBool("debug"),
		SlowQueryThreshold: viper.GetDuration("slow_query_threshold"),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = viper.GetString("database_url")
	}
	if cfg.Provider == "" {
		cfg.Provider = inferProvider(cfg.DatabaseURL)
	}

	return cfg, nil
}

// SaveConfig saves configuration to file
func SaveConfig(cfg *Config) error {
	viper.SetFs(AppFs)
	viper.Set("provider", cfg.Provider)
	viper.Set("database_url", cfg.DatabaseURL)
	viper.Set("max_open_conns", cfg.MaxOpenConns)
	viper.Set("max_idle_conns", cfg.MaxIdleConns)
	viper.Set("conn_max_lifetime", cfg.ConnMaxLifetime)
	viper.Set("debug", cfg.Debug)
	viper.Set("slow_query_threshold", cfg.SlowQueryThreshold)

	home, err := homedir.Dir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(home, ".config", "modelgo")
	if err := AppFs.MkdirAll(configPath, 0755); err != nil {
		return err
	}

	configFile := filepath.Join(configPath, "modelgo.yaml")
	return viper.WriteConfigAs(configFile)
}

// WatchConfig reloads the configuration whenever the config file changes
// and passes the result to onChange. It is a no-op when no config file
// was found by LoadConfig.
func WatchConfig(onChange func(Config)) {
	viper.OnConfigChange(func(e fsnotify.Event) {
		debug.Debug("Config file changed", "file", e.Name)
		cfg, err := LoadConfig()
		if err != nil {
			debug.Error("Reloading config failed", "error", err)
			return
		}
		onChange(*cfg)
	})
	viper.WatchConfig()
}

// inferProvider guesses the provider from the connection string when the
// configuration does not name one explicitly.
func inferProvider(url string) string {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return "postgres"
	case strings.HasPrefix(url, "mysql://"), strings.Contains(url, "@tcp("):
		return "mysql"
	case strings.HasPrefix(url, "file:"), strings.HasSuffix(url, ".db"), url == ":memory:":
		return "sqlite"
	default:
		return ""
	}
}
