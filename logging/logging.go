// Package logging routes zerolog output to a rotated file under the log directory.
// The terminal belongs to the typing pad, so nothing is written to stdout or stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	DefaultDir  = "logs"
	FileName    = "keysound.log"
	MaxFileSize = 10 * 1024 * 1024 // 10MB
)

// Config selects where and how much to log
type Config struct {
	Debug bool   `mapstructure:"debug"`
	Dir   string `mapstructure:"dir"`
	Level string `mapstructure:"level"`
}

// Setup installs the global logger
// With Debug off all output is discarded and the returned file is nil
// The caller closes the returned file on exit
func Setup(cfg Config) (*os.File, error) {
	if !cfg.Debug {
		log.Logger = zerolog.New(io.Discard)
		zerolog.SetGlobalLevel(zerolog.Disabled)
		return nil, nil
	}

	level := zerolog.DebugLevel
	if cfg.Level != "" {
		parsed, err := zerolog.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		level = parsed
	}

	dir := cfg.Dir
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	path := filepath.Join(dir, FileName)
	if err := rotate(path); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(f).With().Timestamp().Logger()
	log.Info().Str("level", level.String()).Msg("logging started")
	return f, nil
}

// rotate renames an oversized log file with a timestamp suffix
func rotate(path string) error {
	info, err := os.Stat(path)
	if err != nil || info.Size() <= MaxFileSize {
		return nil
	}
	ext := filepath.Ext(path)
	rotated := path[:len(path)-len(ext)] + "_" + time.Now().Format("20060102_150405") + ext
	if err := os.Rename(path, rotated); err != nil {
		return fmt.Errorf("rotate log file: %w", err)
	}
	return nil
}
