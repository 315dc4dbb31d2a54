// Package config loads keysound settings from file, environment and flags through viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/lixenwraith/keysound/audio"
	"github.com/lixenwraith/keysound/logging"
	"github.com/lixenwraith/keysound/soundbank"
)

const (
	FileName  = "keysound"
	EnvPrefix = "KEYSOUND"
)

// Config is the application configuration
type Config struct {
	Bank  string         `mapstructure:"bank"`
	Theme string         `mapstructure:"theme"`
	Audio audio.Config   `mapstructure:"audio"`
	Log   logging.Config `mapstructure:"log"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Bank:  soundbank.DefaultSource,
		Audio: *audio.DefaultConfig(),
		Log:   logging.Config{Dir: logging.DefaultDir, Level: "debug"},
	}
}

// New creates a viper instance with defaults, env binding and the standard search path
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, FileName))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// SetDefaults registers every key so env overrides and Unmarshal see them
func SetDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("bank", def.Bank)
	v.SetDefault("theme", def.Theme)
	v.SetDefault("audio.backend", def.Audio.Backend)
	v.SetDefault("audio.volume", def.Audio.Volume)
	v.SetDefault("audio.sample_rate", def.Audio.SampleRate)
	v.SetDefault("audio.buffer_ms", def.Audio.BufferMs)
	v.SetDefault("audio.max_concurrent", def.Audio.MaxConcurrent)
	v.SetDefault("audio.cache_size", def.Audio.CacheSize)
	v.SetDefault("audio.max_asset_bytes", def.Audio.MaxAssetBytes)
	v.SetDefault("log.debug", def.Log.Debug)
	v.SetDefault("log.dir", def.Log.Dir)
	v.SetDefault("log.level", def.Log.Level)
}

// Load reads the config file if one exists and decodes all sources
// A missing file is not an error; a malformed one is
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Audio.Normalize()
	return cfg, nil
}

// Validate rejects settings that cannot be normalized
func (c *Config) Validate() error {
	if c.Bank == "" {
		return fmt.Errorf("bank: %w", soundbank.ErrInvalidSource)
	}
	switch c.Audio.Backend {
	case "", audio.BackendAuto, audio.BackendBeep, audio.BackendSystem, audio.BackendBell, audio.BackendNone:
	default:
		return fmt.Errorf("audio.backend: unknown backend %q", c.Audio.Backend)
	}
	return nil
}
