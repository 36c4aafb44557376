// This file defines the configuration structure for the application.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/vrsandeep/tokyo-links/internal/fetch"
)

// Config holds all configuration settings for the application.
// It maps directly to the structure of config.yml.
type Config struct {
	Site struct {
		BaseURL        string `mapstructure:"base_url"`
		UserAgent      string `mapstructure:"user_agent"`
		AcceptLanguage string `mapstructure:"accept_language"`
	} `mapstructure:"site"`
	Fetch struct {
		Timeout time.Duration `mapstructure:"timeout"`
		Workers int           `mapstructure:"workers"`
	} `mapstructure:"fetch"`
	Output struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"output"`
	Database struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`
	History struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"history"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

const (
	minWorkers = 1
	maxWorkers = 16
)

// Load reads configuration from path, or from "config.yml" in the current
// directory when path is empty, and unmarshals it into a Config struct.
// A missing default file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yml")
		v.AddConfigPath(".")
	}

	// e.g. TOKYO_FETCH_WORKERS overrides `fetch.workers`.
	v.SetEnvPrefix("TOKYO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Fetch.Workers = min(max(cfg.Fetch.Workers, minWorkers), maxWorkers)
	if cfg.Fetch.Timeout <= 0 {
		cfg.Fetch.Timeout = fetch.DefaultTimeout
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("site.base_url", "https://www.tokyoinsider.com")
	v.SetDefault("site.user_agent", fetch.DefaultUserAgent)
	v.SetDefault("site.accept_language", fetch.DefaultAcceptLanguage)
	v.SetDefault("fetch.timeout", fetch.DefaultTimeout)
	v.SetDefault("fetch.workers", 5)
	v.SetDefault("output.path", "links.txt")
	v.SetDefault("database.path", "./tokyo-links.db")
	v.SetDefault("history.enabled", true)
	v.SetDefault("log.level", "info")
}
