package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	LPA      LPAConfig
	QR       QRConfig
	Scans    ScansConfig
	UI       UIConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path       string `mapstructure:"path"`
	Migrations string `mapstructure:"migrations"`
}

// LPAConfig holds activation-string validation bounds. The minimum code
// length is deliberately a setting: carrier data disagrees on whether short
// codes are legal, and 5 is the permissive default.
type LPAConfig struct {
	MinCodeLength int `mapstructure:"min_code_length"`
	MaxCodeLength int `mapstructure:"max_code_length"`
}

// QRConfig holds QR rendering settings.
type QRConfig struct {
	Size int `mapstructure:"size"` // PNG pixel size
}

// ScansConfig holds scan-log retention. Zero keeps entries forever.
type ScansConfig struct {
	RetentionDays int `mapstructure:"retention_days"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	DateFormat string `mapstructure:"date_format"`
}

// Load reads configuration from file and env. Env var overrides use prefix ESIMQR_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "esimqr", "esimqr.db"))
	v.SetDefault("database.migrations", "internal/database/migrations")
	v.SetDefault("lpa.min_code_length", 5)
	v.SetDefault("lpa.max_code_length", 50)
	v.SetDefault("qr.size", 256)
	v.SetDefault("scans.retention_days", 0)
	v.SetDefault("ui.date_format", "02/01/2006")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("ESIMQR_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "esimqr"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("ESIMQR")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if
// needed.
func Save(cfg Config) error {
	path := os.Getenv("ESIMQR_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "esimqr", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("database.migrations", cfg.Database.Migrations)
	v.Set("lpa.min_code_length", cfg.LPA.MinCodeLength)
	v.Set("lpa.max_code_length", cfg.LPA.MaxCodeLength)
	v.Set("qr.size", cfg.QR.Size)
	v.Set("scans.retention_days", cfg.Scans.RetentionDays)
	v.Set("ui.date_format", cfg.UI.DateFormat)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
