package audio

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/rs/zerolog/log"
)

// BeepPlayer decodes assets with beep and mixes them into the speaker
// Overlapping plays are summed by one shared mixer
type BeepPlayer struct {
	sr     beep.SampleRate
	volume float64
	client *http.Client
	limit  int64

	mixer *beep.Mixer
	cache *assetCache[*beep.Buffer]
	gate  *gate

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	closed   bool
	inflight map[uint64]func(error)
	nextID   uint64
}

// NewBeepPlayer initializes the speaker and starts the mixer
func NewBeepPlayer(cfg *Config) (*BeepPlayer, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.Normalize()

	sr := beep.SampleRate(cfg.SampleRate)
	if err := speaker.Init(sr, sr.N(time.Duration(cfg.BufferMs)*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("%w: speaker: %v", ErrNoAudioBackend, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &BeepPlayer{
		sr:       sr,
		volume:   cfg.MasterVolume(),
		client:   &http.Client{Timeout: 10 * time.Second},
		limit:    cfg.MaxAssetBytes,
		mixer:    &beep.Mixer{},
		cache:    newAssetCache[*beep.Buffer](cfg.CacheSize, nil),
		gate:     newGate(cfg.MaxConcurrent),
		ctx:      ctx,
		cancel:   cancel,
		inflight: make(map[uint64]func(error)),
	}
	speaker.Play(p.mixer)
	return p, nil
}

// Play fetches, decodes (cached) and mixes the asset at path
func (p *BeepPlayer) Play(path string, done func(error)) {
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
		buf, release, err := p.cache.get(p.ctx, path, p.load)
		if err != nil {
			p.gate.release()
			if p.ctx.Err() != nil {
				err = ErrInterrupted
			}
			done(err)
			return
		}
		// Decoded buffers are never mutated, so eviction cannot affect a started stream
		release()
		p.start(buf, done)
	}()
}

func (p *BeepPlayer) load(ctx context.Context, path string) (*beep.Buffer, error) {
	data, err := readAsset(ctx, p.client, path, p.limit)
	if err != nil {
		return nil, err
	}
	buf, err := bufferAsset(path, data, p.sr)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("path", path).Int("samples", buf.Len()).Msg("asset decoded")
	return buf, nil
}

func (p *BeepPlayer) start(buf *beep.Buffer, done func(error)) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.gate.release()
		done(ErrInterrupted)
		return
	}
	id := p.nextID
	p.nextID++
	p.inflight[id] = done
	p.mu.Unlock()

	s := beep.Seq(p.applyVolume(buf.Streamer(0, buf.Len())), beep.Callback(func() {
		// Runs on the speaker goroutine with the speaker lock held
		go p.finish(id, nil)
	}))

	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

func (p *BeepPlayer) applyVolume(s beep.Streamer) beep.Streamer {
	if p.volume >= 1 {
		return s
	}
	return &effects.Volume{
		Streamer: s,
		Base:     2,
		Volume:   math.Log2(p.volume),
		Silent:   p.volume <= 0,
	}
}

func (p *BeepPlayer) finish(id uint64, err error) {
	p.mu.Lock()
	done, ok := p.inflight[id]
	delete(p.inflight, id)
	p.mu.Unlock()

	if ok {
		p.gate.release()
		done(err)
	}
}

// Close stops all sounds, reporting ErrInterrupted for those still playing
func (p *BeepPlayer) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	pending := p.inflight
	p.inflight = make(map[uint64]func(error))
	p.mu.Unlock()

	p.cancel()

	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()

	for _, done := range pending {
		p.gate.release()
		done(ErrInterrupted)
	}
	p.cache.purge()
	return nil
}

// InFlight returns the number of sounds loading or playing
func (p *BeepPlayer) InFlight() int {
	return p.gate.inFlight()
}

var _ Player = (*BeepPlayer)(nil)
