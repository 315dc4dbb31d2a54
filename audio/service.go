package audio

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// Service wraps backend detection as a hub service
// Handles graceful degradation when no audio backend is available
type Service struct {
	cfg *Config

	mu       sync.RWMutex
	player   Player
	backend  string
	disabled atomic.Bool
}

// NewService creates an audio service using cfg, or defaults when nil
func NewService(cfg *Config) *Service {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Service{cfg: cfg}
}

// Name implements service.Service
func (s *Service) Name() string {
	return "audio"
}

// Dependencies implements service.Service
func (s *Service) Dependencies() []string {
	return nil
}

// Init implements service.Service
// Detects the backend; on failure the service plays silently and no error is returned
func (s *Service) Init(_ context.Context) error {
	player, backend, err := Detect(s.cfg)
	if err != nil {
		log.Warn().Err(err).Str("backend", s.cfg.Backend).Msg("audio disabled")
		player, backend = NoopPlayer{}, BackendNone
	}
	s.disabled.Store(backend == BackendNone)

	s.mu.Lock()
	s.player = player
	s.backend = backend
	s.mu.Unlock()

	log.Info().Str("backend", backend).Msg("audio backend selected")
	return nil
}

// Start implements service.Service
func (s *Service) Start() error {
	return nil
}

// Stop implements service.Service
func (s *Service) Stop() error {
	s.mu.Lock()
	p := s.player
	s.player = nil
	s.mu.Unlock()

	if p == nil {
		return nil
	}
	return p.Close()
}

// Player returns the active player; a silent one before Init or after Stop
func (s *Service) Player() Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.player == nil {
		return NoopPlayer{}
	}
	return s.player
}

// Backend returns the backend chosen by Init
func (s *Service) Backend() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.backend
}

// Describe names the backend, with the external command for the system backend
func (s *Service) Describe() string {
	backend := s.Backend()
	if sp, ok := s.Player().(*SystemPlayer); ok {
		return backend + ":" + sp.Command()
	}
	if s.IsDisabled() {
		return backend + " (muted)"
	}
	return backend
}

// InFlight returns the number of sounds the player is loading or playing
func (s *Service) InFlight() int {
	p, ok := s.Player().(interface{ InFlight() int })
	if !ok {
		return 0
	}
	return p.InFlight()
}

// IsDisabled reports whether no audible backend was found
func (s *Service) IsDisabled() bool {
	return s.disabled.Load()
}
