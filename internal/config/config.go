// Package config provides configuration management for the application.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"deltaspread/internal/errors"
)

// Config holds all application configuration.
type Config struct {
	Data    DataConfig    `mapstructure:"data"`
	Tradier TradierConfig `mapstructure:"tradier"`
	Storage StorageConfig `mapstructure:"storage"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// DataConfig selects and bounds the market data source.
type DataConfig struct {
	UseRealData bool   `mapstructure:"use_real_data"` // false = deterministic mock
	Symbol      string `mapstructure:"symbol"`
	MaxExpiries int    `mapstructure:"max_expiries"`
}

// TradierConfig holds Tradier API configuration.
type TradierConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Token   string `mapstructure:"token"`
}

// StorageConfig holds trade persistence configuration.
type StorageConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Console  bool   `mapstructure:"console"`
	File     bool   `mapstructure:"file"`
	FilePath string `mapstructure:"file_path"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/deltaspread"
	}
	return filepath.Join(home, ".config", "deltaspread")
}

// DefaultDBPath returns the default trades database path.
func DefaultDBPath() string {
	return filepath.Join(DefaultConfigDir(), "trades.db")
}

// Load loads configuration from the specified directory, falling back
// to defaults when no config file exists. If configDir is empty, the
// default config directory is used. TRADIER_TOKEN overrides the stored
// token.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	v.SetDefault("data.use_real_data", false)
	v.SetDefault("data.symbol", "SPY")
	v.SetDefault("data.max_expiries", 30)
	v.SetDefault("tradier.base_url", "https://api.tradier.com/v1")
	v.SetDefault("storage.db_path", DefaultDBPath())
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", true)
	v.SetDefault("logging.file_path", filepath.Join(configDir, "logs", "deltaspread.log"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if token := os.Getenv("TRADIER_TOKEN"); token != "" {
		cfg.Tradier.Token = token
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.Data.MaxExpiries <= 0 {
		return errors.Wrap(errors.ErrConfigInvalid, "data.max_expiries must be positive")
	}
	if c.Data.UseRealData && c.Tradier.Token == "" {
		return errors.Wrap(errors.ErrConfigInvalid, "tradier.token required when data.use_real_data is set")
	}
	return nil
}
