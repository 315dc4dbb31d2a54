package audio

import (
	"hash/fnv"
	"path"
	"sync"

	"github.com/gen2brain/beeep"
)

// bellTones are the pitches a BellPlayer maps asset names onto
var bellTones = [...]float64{523.25, 587.33, 659.25, 698.46, 783.99}

const bellDurationMs = 40

// BellPlayer stands in for real playback with a short system tone
// The pitch is derived from the asset name so different keys stay distinguishable
type BellPlayer struct {
	gate *gate
	beep func(freq float64, ms int) error

	mu     sync.Mutex
	closed bool
}

// NewBellPlayer creates a tone player
func NewBellPlayer(cfg *Config) *BellPlayer {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.Normalize()
	return &BellPlayer{
		gate: newGate(cfg.MaxConcurrent),
		beep: beeep.Beep,
	}
}

func (p *BellPlayer) Play(asset string, done func(error)) {
	if done == nil {
		done = func(error) {}
	}

	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		go done(ErrPlayerClosed)
		return
	}
	if !p.gate.acquire() {
		go done(ErrDropped)
		return
	}

	go func() {
		defer p.gate.release()
		done(p.beep(toneFor(asset), bellDurationMs))
	}()
}

func (p *BellPlayer) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	return nil
}

// InFlight returns the number of tones playing
func (p *BellPlayer) InFlight() int {
	return p.gate.inFlight()
}

func toneFor(asset string) float64 {
	h := fnv.New32a()
	h.Write([]byte(path.Base(asset)))
	return bellTones[h.Sum32()%uint32(len(bellTones))]
}

var _ Player = (*BellPlayer)(nil)
