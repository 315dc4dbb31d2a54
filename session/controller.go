// Package session connects a key event source to the sound bank and a player.
package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lixenwraith/keysound/audio"
	"github.com/lixenwraith/keysound/input"
	"github.com/lixenwraith/keysound/soundbank"
)

// Fetcher retrieves a sound bank document
type Fetcher interface {
	Fetch(ctx context.Context, source string) (*soundbank.Document, error)
}

// EventSource delivers input events to a subscribed handler until cancelled
type EventSource interface {
	Subscribe(h input.Handler) (cancel func())
}

// Stats holds event counters since the controller was created
type Stats struct {
	Dispatched  uint64 // sent to the player
	Skipped     uint64 // classified as no sound
	Failed      uint64 // resolution or playback failures
	Dropped     uint64 // rejected by the player's concurrency limit
	Interrupted uint64 // stopped before completion
}

type counters struct {
	dispatched  atomic.Uint64
	skipped     atomic.Uint64
	failed      atomic.Uint64
	dropped     atomic.Uint64
	interrupted atomic.Uint64
}

// Controller owns the listening state for one event source
// State machine: Uninitialized -> Loaded (Load) -> Listening (Start) <-> Loaded (Stop)
type Controller struct {
	id      uuid.UUID
	engine  *soundbank.Engine
	fetcher Fetcher
	player  audio.Player
	events  EventSource
	onError func(error)
	theme   soundbank.Theme
	logger  zerolog.Logger

	mu        sync.Mutex
	listening atomic.Bool
	cancel    func()

	stats counters
}

// Option configures a Controller
type Option func(*Controller)

// WithFetcher replaces the default document loader
func WithFetcher(f Fetcher) Option {
	return func(c *Controller) {
		if f != nil {
			c.fetcher = f
		}
	}
}

// WithErrorHandler receives resolution and playback failures
// Called from player goroutines; must not block
func WithErrorHandler(fn func(error)) Option {
	return func(c *Controller) {
		c.onError = fn
	}
}

// WithTheme selects t after every successful load instead of the bank's default theme
// An unknown theme is reported to the error handler and the default is kept
func WithTheme(t soundbank.Theme) Option {
	return func(c *Controller) {
		c.theme = t
	}
}

// New creates a controller; a nil player plays nothing
// Fails with InvalidSource when events is nil
func New(engine *soundbank.Engine, events EventSource, player audio.Player, opts ...Option) (*Controller, error) {
	if events == nil {
		return nil, &soundbank.Error{Kind: soundbank.KindInvalidSource, Detail: "no event source"}
	}
	if engine == nil {
		engine = soundbank.NewEngine()
	}
	if player == nil {
		player = audio.NoopPlayer{}
	}
	c := &Controller{
		id:      uuid.New(),
		engine:  engine,
		fetcher: soundbank.NewLoader(),
		player:  player,
		events:  events,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = log.With().Str("session", c.id.String()).Logger()
	return c, nil
}

// ID identifies the controller in logs
func (c *Controller) ID() uuid.UUID {
	return c.id
}

// Load fetches the engine's source document and loads it
// Transport failures are AudiosNoFetched; shape and validation failures are InvalidAudiosJSON
// A failed load keeps any previously loaded bank
func (c *Controller) Load(ctx context.Context) error {
	source := c.engine.Source()
	doc, err := c.fetcher.Fetch(ctx, source)
	if err != nil {
		if soundbank.KindOf(err) == soundbank.KindNone {
			err = &soundbank.Error{Kind: soundbank.KindAudiosNoFetched, Err: err}
		}
		c.logger.Error().Err(err).Str("source", source).Msg("sound bank load failed")
		return err
	}
	if err := c.engine.LoadDocument(doc); err != nil {
		c.logger.Error().Err(err).Str("source", source).Msg("sound bank rejected")
		return err
	}

	if c.theme != "" {
		if err := c.engine.ChangeTheme(c.theme); err != nil {
			c.report(err, "theme override ignored")
		}
	}

	theme, _ := c.engine.CurrentTheme()
	c.logger.Info().Str("source", source).Str("theme", string(theme)).Msg("sound bank ready")
	return nil
}

// Start subscribes to the event source
// Fails with NotLoaded before the first successful load; no-op while listening
func (c *Controller) Start() error {
	if !c.engine.IsLoaded() {
		return soundbank.ErrNotLoaded
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.listening.Load() {
		return nil
	}
	c.listening.Store(true)
	c.cancel = c.events.Subscribe(c.HandleEvent)
	c.logger.Debug().Msg("listening started")
	return nil
}

// Stop unsubscribes from the event source
// Fails with NotLoaded before the first successful load; no-op when not listening
func (c *Controller) Stop() error {
	if !c.engine.IsLoaded() {
		return soundbank.ErrNotLoaded
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.listening.Load() {
		return nil
	}
	c.listening.Store(false)
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.logger.Debug().Msg("listening stopped")
	return nil
}

// ChangeTheme switches the engine's theme; listening is not required
func (c *Controller) ChangeTheme(t soundbank.Theme) error {
	if err := c.engine.ChangeTheme(t); err != nil {
		return err
	}
	c.logger.Debug().Str("theme", string(t)).Msg("theme changed")
	return nil
}

// HandleEvent classifies ev and dispatches one sound
// Failures are logged and counted, never returned; events arriving while not listening are ignored
func (c *Controller) HandleEvent(ev input.Event) {
	if !c.listening.Load() {
		return
	}

	asset, ok, err := c.engine.ResolveWith(func(preferred soundbank.Category, available soundbank.CategorySet) (soundbank.Category, bool) {
		return input.Classify(ev, preferred, available)
	})
	if err != nil {
		c.fail(err)
		return
	}
	if !ok {
		c.stats.skipped.Add(1)
		return
	}

	c.stats.dispatched.Add(1)
	c.player.Play(asset, func(err error) {
		c.played(asset, err)
	})
}

func (c *Controller) played(asset string, err error) {
	switch {
	case err == nil:
	case audio.IsInterruption(err):
		c.stats.interrupted.Add(1)
		c.logger.Debug().Str("asset", asset).Msg("playback interrupted")
	case errors.Is(err, audio.ErrDropped):
		c.stats.dropped.Add(1)
		c.logger.Debug().Str("asset", asset).Msg("playback dropped")
	default:
		c.fail(soundbank.PlaybackError(asset, err))
	}
}

func (c *Controller) fail(err error) {
	c.stats.failed.Add(1)
	c.report(err, "key sound failed")
}

func (c *Controller) report(err error, msg string) {
	c.logger.Warn().Err(err).Msg(msg)
	if c.onError != nil {
		c.onError(err)
	}
}

// IsListening reports whether events are being observed
func (c *Controller) IsListening() bool {
	return c.listening.Load()
}

// IsLoaded reports whether a sound bank is loaded
func (c *Controller) IsLoaded() bool {
	return c.engine.IsLoaded()
}

// CurrentTheme returns the engine's current theme
func (c *Controller) CurrentTheme() (soundbank.Theme, error) {
	return c.engine.CurrentTheme()
}

// AvailableCategories returns the current theme's categories
func (c *Controller) AvailableCategories() (soundbank.CategorySet, error) {
	return c.engine.AvailableCategories()
}

// Themes returns theme names in document order
func (c *Controller) Themes() ([]soundbank.Theme, error) {
	return c.engine.Themes()
}

// Stats returns a snapshot of the event counters
func (c *Controller) Stats() Stats {
	return Stats{
		Dispatched:  c.stats.dispatched.Load(),
		Skipped:     c.stats.skipped.Load(),
		Failed:      c.stats.failed.Load(),
		Dropped:     c.stats.dropped.Load(),
		Interrupted: c.stats.interrupted.Load(),
	}
}
