package audio

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// Detect builds the player named by cfg.Backend and returns it with the backend actually used
// BackendAuto tries the in-process mixer, then OS commands, then falls back to silence;
// the bell backend is only used when asked for by name
func Detect(cfg *Config) (Player, string, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.Normalize()

	switch cfg.Backend {
	case BackendBeep:
		p, err := NewBeepPlayer(cfg)
		if err != nil {
			return nil, "", err
		}
		return p, BackendBeep, nil
	case BackendSystem:
		p, err := NewSystemPlayer(cfg)
		if err != nil {
			return nil, "", err
		}
		return p, BackendSystem, nil
	case BackendBell:
		return NewBellPlayer(cfg), BackendBell, nil
	case BackendNone:
		return NoopPlayer{}, BackendNone, nil
	case BackendAuto:
		if p, err := NewBeepPlayer(cfg); err == nil {
			return p, BackendBeep, nil
		} else {
			log.Debug().Err(err).Msg("speaker backend unavailable")
		}
		if p, err := NewSystemPlayer(cfg); err == nil {
			return p, BackendSystem, nil
		} else {
			log.Debug().Err(err).Msg("system audio backend unavailable")
		}
		return NoopPlayer{}, BackendNone, nil
	}
	return nil, "", fmt.Errorf("unknown audio backend %q", cfg.Backend)
}
