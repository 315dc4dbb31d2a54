package audio

import (
	"errors"
)

// Player plays sound assets by path
// Play returns immediately; done is called exactly once from another goroutine
// with nil on completion, ErrInterrupted when playback was cut short, or the failure
type Player interface {
	Play(path string, done func(error))
	Close() error
}

// Sentinel errors
var (
	ErrNoAudioBackend    = errors.New("no compatible audio backend found")
	ErrInterrupted       = errors.New("playback interrupted")
	ErrPlayerClosed      = errors.New("player closed")
	ErrDropped           = errors.New("concurrent playback limit reached")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrAssetTooLarge     = errors.New("audio asset exceeds size limit")
)

// IsInterruption reports whether err means playback was stopped rather than failed
func IsInterruption(err error) bool {
	return errors.Is(err, ErrInterrupted) || errors.Is(err, ErrPlayerClosed)
}

// NoopPlayer reports every sound as played without producing output
type NoopPlayer struct{}

func (NoopPlayer) Play(_ string, done func(error)) {
	if done != nil {
		go done(nil)
	}
}

func (NoopPlayer) Close() error { return nil }
