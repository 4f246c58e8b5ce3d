// Package config resolves the journal settings from .journal.yaml, JOURNAL_*
// environment variables and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	DefaultPath      = "~/.journal"
	DefaultDebounce  = time.Second
	DefaultLogLevel  = "warn"
	DefaultExportDir = "."

	// PathEnv overrides the directory searched for .journal.yaml.
	PathEnv = "JOURNAL_CONFIG_PATH"
)

// Config is the resolved configuration.
type Config struct {
	Path      string        `mapstructure:"path"`
	Debounce  time.Duration `mapstructure:"debounce"`
	LogLevel  string        `mapstructure:"log_level"`
	ExportDir string        `mapstructure:"export_dir"`
}

// BasePath is the directory holding the journal collections.
func (c *Config) BasePath() string {
	return c.Path
}

// Load reads the configuration using a fresh viper instance.
func Load() (*Config, error) {
	return LoadWith(viper.New())
}

// LoadWith reads the configuration into v. A missing config file is not an
// error; a malformed one is.
func LoadWith(v *viper.Viper) (*Config, error) {
	v.SetDefault("path", DefaultPath)
	v.SetDefault("debounce", DefaultDebounce)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("export_dir", DefaultExportDir)

	v.SetConfigName(".journal") // .yaml is implicit
	v.SetEnvPrefix("JOURNAL")
	v.AutomaticEnv()

	if override := os.Getenv(PathEnv); override != "" {
		v.AddConfigPath(override)
	}
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: reading %s: %w", v.ConfigFileUsed(), err)
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	var err error
	if c.Path, err = homedir.Expand(c.Path); err != nil {
		return nil, fmt.Errorf("config: path: %w", err)
	}
	if c.ExportDir, err = homedir.Expand(c.ExportDir); err != nil {
		return nil, fmt.Errorf("config: export_dir: %w", err)
	}
	if c.Debounce <= 0 {
		c.Debounce = DefaultDebounce
	}
	return c, nil
}
