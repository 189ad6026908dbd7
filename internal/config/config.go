// Package config loads layerctl and layerview settings with viper.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"l14layers/pkg/layer"
)

// EnvPrefix is prepended to environment overrides, e.g. LAYERS_RENDER_SCALE.
const EnvPrefix = "LAYERS"

// Config is the root of the configuration file.
type Config struct {
	Logger LoggerConfig `mapstructure:"logger" yaml:"logger"`
	Render RenderConfig `mapstructure:"render" yaml:"render"`
	Layers LayersConfig `mapstructure:"layers" yaml:"layers"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig names the console colour of each log level.
type ColorConfig struct {
	Debug string `mapstructure:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" yaml:"warn"`
	Error string `mapstructure:"error" yaml:"error"`
}

// RenderConfig controls rasterizing and comparing scenes.
type RenderConfig struct {
	// Scale resizes the painted image before it is written.
	Scale float64 `mapstructure:"scale" yaml:"scale"`
	// Background fills the canvas of scenes that set no background.
	Background          string  `mapstructure:"background" yaml:"background"`
	Concurrency         int     `mapstructure:"concurrency" yaml:"concurrency"`
	Tolerance           int     `mapstructure:"tolerance" yaml:"tolerance"`
	FuzzyRadius         int     `mapstructure:"fuzzy_radius" yaml:"fuzzy_radius"`
	MaxDifferentPercent float64 `mapstructure:"max_different_percent" yaml:"max_different_percent"`
}

// LayersConfig tunes the layer tree.
type LayersConfig struct {
	DebugAssertions    bool    `mapstructure:"debug_assertions" yaml:"debug_assertions"`
	OverlayScrollbars  bool    `mapstructure:"overlay_scrollbars" yaml:"overlay_scrollbars"`
	ScrollbarThickness float64 `mapstructure:"scrollbar_thickness" yaml:"scrollbar_thickness"`
}

// Options returns tree options for this configuration.
func (c LayersConfig) Options(logger *zap.Logger) layer.Options {
	return layer.Options{
		DebugAssertions: c.DebugAssertions,
		ScrollbarHost: layer.BasicScrollbarHost{
			Thickness: c.ScrollbarThickness,
			Overlay:   c.OverlayScrollbars,
		},
		Logger: logger,
	}
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for every key.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "layers")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")

	// -- Render --
	v.SetDefault("render.scale", 1.0)
	v.SetDefault("render.background", "white")
	v.SetDefault("render.concurrency", 4)
	v.SetDefault("render.tolerance", 2)
	v.SetDefault("render.fuzzy_radius", 0)
	v.SetDefault("render.max_different_percent", 0.0)

	// -- Layers --
	v.SetDefault("layers.debug_assertions", false)
	v.SetDefault("layers.overlay_scrollbars", false)
	v.SetDefault("layers.scrollbar_thickness", layer.DefaultScrollbarThickness)
}

// BindEnv makes LAYERS_SECTION_KEY override section.key.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads path (or ./layers.yaml when path is empty and the file exists)
// on top of the defaults and environment.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)
	BindEnv(v)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("layers")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return NewConfigFromViper(v)
}

// NewConfigFromViper creates a validated configuration from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	switch c.Logger.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logger.format must be console or json, got %q", c.Logger.Format)
	}
	if c.Render.Scale <= 0 {
		return fmt.Errorf("render.scale must be positive")
	}
	if c.Render.Concurrency <= 0 {
		return fmt.Errorf("render.concurrency must be a positive integer")
	}
	if c.Render.Tolerance < 0 || c.Render.Tolerance > 255 {
		return fmt.Errorf("render.tolerance must be within 0..255")
	}
	if c.Render.FuzzyRadius < 0 {
		return fmt.Errorf("render.fuzzy_radius must not be negative")
	}
	if c.Render.MaxDifferentPercent < 0 || c.Render.MaxDifferentPercent > 100 {
		return fmt.Errorf("render.max_different_percent must be within 0..100")
	}
	if c.Layers.ScrollbarThickness < 0 {
		return fmt.Errorf("layers.scrollbar_thickness must not be negative")
	}
	return nil
}
