package session

import (
	"context"
	"sync"

	"github.com/lixenwraith/keysound/audio"
	"github.com/lixenwraith/keysound/soundbank"
)

// Service builds a Controller once the audio service has selected a player
// Init loads the sound bank; a failed load is reported through LoadErr instead of failing
// the hub, so the UI can offer a reload
type Service struct {
	engine *soundbank.Engine
	events EventSource
	audio  *audio.Service
	opts   []Option

	mu      sync.RWMutex
	ctrl    *Controller
	loadErr error
}

// NewService creates a session service bound to the given audio service
func NewService(engine *soundbank.Engine, events EventSource, audioSvc *audio.Service, opts ...Option) *Service {
	return &Service{engine: engine, events: events, audio: audioSvc, opts: opts}
}

// Name implements service.Service
func (s *Service) Name() string {
	return "session"
}

// Dependencies implements service.Service
func (s *Service) Dependencies() []string {
	return []string{"audio"}
}

// Init implements service.Service
// Only a controller that cannot be built fails Init
func (s *Service) Init(ctx context.Context) error {
	ctrl, err := New(s.engine, s.events, s.audio.Player(), s.opts...)
	if err != nil {
		return err
	}
	err = ctrl.Load(ctx)

	s.mu.Lock()
	s.ctrl = ctrl
	s.loadErr = err
	s.mu.Unlock()
	return nil
}

// Start implements service.Service
// Begins listening when the bank loaded
func (s *Service) Start() error {
	ctrl := s.Controller()
	if ctrl == nil || !ctrl.IsLoaded() {
		return nil
	}
	return ctrl.Start()
}

// Stop implements service.Service
func (s *Service) Stop() error {
	ctrl := s.Controller()
	if ctrl == nil || !ctrl.IsLoaded() {
		return nil
	}
	return ctrl.Stop()
}

// Controller returns the controller built by Init
func (s *Service) Controller() *Controller {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ctrl
}

// LoadErr returns the error of the most recent load, nil on success
func (s *Service) LoadErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

// Reload retries the sound bank load and starts listening on success
func (s *Service) Reload(ctx context.Context) error {
	ctrl := s.Controller()
	if ctrl == nil {
		return soundbank.ErrNotLoaded
	}
	err := ctrl.Load(ctx)

	s.mu.Lock()
	s.loadErr = err
	s.mu.Unlock()

	if err != nil {
		return err
	}
	return ctrl.Start()
}
