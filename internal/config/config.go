package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration. Values come from
// defaults, an optional YAML file, and AUTOCLICKER_* environment
// variables, in that order of precedence (lowest to highest).
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Browser   BrowserConfig   `mapstructure:"browser"`
	Recording RecordingConfig `mapstructure:"recording"`
	Clicker   ClickerConfig   `mapstructure:"clicker"`
	Overlay   OverlayConfig   `mapstructure:"overlay"`
}

// LoggerConfig configures the zap logger and the optional rotated file sink.
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"` // "console" or "json"
	LogFile    string `mapstructure:"log_file"`
	MaxSize    int    `mapstructure:"max_size"` // megabytes
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
	Compress   bool   `mapstructure:"compress"`
}

// BrowserConfig controls how sessions are launched and driven.
type BrowserConfig struct {
	Width        int           `mapstructure:"width"`
	Height       int           `mapstructure:"height"`
	WindowOffset int           `mapstructure:"window_offset"` // tiling step per session index
	FindTimeout  time.Duration `mapstructure:"find_timeout"`  // default element lookup timeout
}

// RecordingConfig controls session recording persistence.
type RecordingConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
}

// ClickerConfig controls the periodic multi-target click loop.
type ClickerConfig struct {
	Interval  time.Duration `mapstructure:"interval"`
	MaxErrors int           `mapstructure:"max_errors"`
}

// OverlayConfig controls the coordinate-selection bridge polling loop.
type OverlayConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
	PollAttempts int           `mapstructure:"poll_attempts"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", false)

	v.SetDefault("browser.width", 1280)
	v.SetDefault("browser.height", 720)
	v.SetDefault("browser.window_offset", 50)
	v.SetDefault("browser.find_timeout", 10*time.Second)

	v.SetDefault("recording.enabled", true)
	v.SetDefault("recording.dir", "browser_recordings")

	v.SetDefault("clicker.interval", time.Second)
	v.SetDefault("clicker.max_errors", 5)

	v.SetDefault("overlay.poll_interval", 100*time.Millisecond)
	v.SetDefault("overlay.poll_attempts", 100)
}

// Load builds a Config from defaults, the given file (optional, empty path
// means "no file") and the environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("AUTOCLICKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %q: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// Default returns the built-in configuration without touching disk.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		// Defaults alone cannot fail to unmarshal.
		panic(err)
	}
	return cfg
}
