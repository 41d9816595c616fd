package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/engkufizz/NetworkChanges-Tracker/internal/paths"
	"github.com/spf13/viper"
)

// DefaultFileName is the workbook file name.
const DefaultFileName = "network_changes.xlsx"

// Config holds the application configuration. It is constructed once at
// process start and passed down explicitly — no package-level path state.
type Config struct {
	DataDir           string        `mapstructure:"data_dir"`   // overrides dir_policy when set
	DirPolicy         string        `mapstructure:"dir_policy"` // "appdata" or "portable"
	FileName          string        `mapstructure:"file_name"`
	LockTimeout       time.Duration `mapstructure:"lock_timeout"`
	LockRetryInterval time.Duration `mapstructure:"lock_retry_interval"`
}

// Load reads configuration from file, environment variables, and defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("data_dir", "")
	v.SetDefault("dir_policy", paths.PolicyAppData)
	v.SetDefault("file_name", DefaultFileName)
	v.SetDefault("lock_timeout", "10s")
	v.SetDefault("lock_retry_interval", "200ms")

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "nctracker"))
		}
		if dataDir, err := paths.DataDir(paths.PolicyAppData); err == nil {
			v.AddConfigPath(dataDir)
		}
		v.SetConfigName("config")
		v.SetConfigType("toml")
	}

	// Environment variables: NCTRACKER_DATA_DIR, NCTRACKER_DIR_POLICY, etc.
	v.SetEnvPrefix("NCTRACKER")
	v.AutomaticEnv()

	// Read config file (ignore not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if configPath != "" {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WorkbookPath resolves the full path of the live workbook from the
// configured data directory or placement policy.
func (c *Config) WorkbookPath() (string, error) {
	dir := c.DataDir
	if dir == "" {
		resolved, err := paths.DataDir(c.DirPolicy)
		if err != nil {
			return "", fmt.Errorf("resolving data directory: %w", err)
		}
		dir = resolved
	}
	name := c.FileName
	if name == "" {
		name = DefaultFileName
	}
	return filepath.Join(dir, name), nil
}
