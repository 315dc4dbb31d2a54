package audio

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// SystemPlayer plays assets through an OS audio command, one process per sound
// Remote assets are downloaded once into temp files
type SystemPlayer struct {
	commands []Command
	client   *http.Client
	limit    int64
	gate     *gate
	cache    *assetCache[string]

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewSystemPlayer detects available commands
func NewSystemPlayer(cfg *Config) (*SystemPlayer, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.Normalize()

	cmds, err := DetectCommands()
	if err != nil {
		return nil, err
	}

	log.Debug().Str("command", cmds[0].Name).Int("available", len(cmds)).Msg("system audio backend detected")
	return newSystemPlayer(cfg, cmds), nil
}

func newSystemPlayer(cfg *Config, cmds []Command) *SystemPlayer {
	ctx, cancel := context.WithCancel(context.Background())
	return &SystemPlayer{
		commands: cmds,
		client:   &http.Client{Timeout: 10 * time.Second},
		limit:    cfg.MaxAssetBytes,
		gate:     newGate(cfg.MaxConcurrent),
		cache: newAssetCache(cfg.CacheSize, func(file string) {
			_ = os.Remove(file)
		}),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Play runs the first command that supports the asset's format
func (p *SystemPlayer) Play(path string, done func(error)) {
	if done == nil {
		done = func(error) {}
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		go done(ErrPlayerClosed)
		return
	}
	p.wg.Add(1)
	p.mu.Unlock()

	if !p.gate.acquire() {
		p.wg.Done()
		go done(ErrDropped)
		return
	}

	go func() {
		defer p.wg.Done()
		err := p.run(path)
		p.gate.release()
		if err != nil && p.ctx.Err() != nil {
			err = ErrInterrupted
		}
		done(err)
	}()
}

func (p *SystemPlayer) run(path string) error {
	cmd := p.commandFor(assetExt(path))
	if cmd == nil {
		return fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}

	file := strings.TrimPrefix(path, "file://")
	if isRemote(path) {
		local, release, err := p.cache.get(p.ctx, path, p.download)
		if err != nil {
			return err
		}
		// Keeps the temp file on disk while the command reads it
		defer release()
		file = local
	}

	c := exec.CommandContext(p.ctx, cmd.Path, cmd.argv(file)...) //nolint:gosec // command resolved by DetectCommands
	if err := c.Run(); err != nil {
		return fmt.Errorf("%s: %w", cmd.Name, err)
	}
	return nil
}

func (p *SystemPlayer) commandFor(ext string) *Command {
	for i := range p.commands {
		if p.commands[i].Supports(ext) {
			return &p.commands[i]
		}
	}
	return nil
}

// download stores a remote asset in a temp file keeping its extension
func (p *SystemPlayer) download(ctx context.Context, path string) (string, error) {
	data, err := readAsset(ctx, p.client, path, p.limit)
	if err != nil {
		return "", err
	}
	f, err := os.CreateTemp("", "keysound-*"+assetExt(path))
	if err != nil {
		return "", err
	}
	name := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(name)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", err
	}
	return name, nil
}

// Close kills running commands and removes downloaded files
func (p *SystemPlayer) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	p.cancel()
	p.wg.Wait()
	p.cache.purge()
	return nil
}

// Command returns the preferred detected command name
func (p *SystemPlayer) Command() string {
	return p.commands[0].Name
}

// InFlight returns the number of running commands
func (p *SystemPlayer) InFlight() int {
	return p.gate.inFlight()
}

var _ Player = (*SystemPlayer)(nil)
