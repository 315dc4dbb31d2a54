package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/keysound/audio"
	"github.com/lixenwraith/keysound/input"
	"github.com/lixenwraith/keysound/service"
	"github.com/lixenwraith/keysound/session"
	"github.com/lixenwraith/keysound/soundbank"
)

const (
	statusRefresh = 250 * time.Millisecond
	padHint       = "F1 listen/pause | F2/F3 theme | esc quit"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Open a typing pad that plays a sound for every key",
	RunE:  runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var lastErr atomic.Value
	lastErr.Store("")
	reportErr := func(err error) { lastErr.Store(err.Error()) }

	src := input.NewSource()
	engine := soundbank.NewEngine(soundbank.WithSource(cfg.Bank))
	audioSvc := audio.NewService(&cfg.Audio)
	opts := []session.Option{session.WithErrorHandler(reportErr)}
	if cfg.Theme != "" {
		opts = append(opts, session.WithTheme(soundbank.Theme(cfg.Theme)))
	}
	sessSvc := session.NewService(engine, src, audioSvc, opts...)

	hub := service.NewHub()
	for _, svc := range []service.Service{audioSvc, sessSvc} {
		if err := hub.Register(svc); err != nil {
			return err
		}
	}
	loadCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	err := hub.InitAll(loadCtx)
	cancel()
	if err != nil {
		return err
	}
	defer hub.StopAll()

	if err := sessSvc.LoadErr(); err != nil {
		reportErr(err)
	}
	if err := hub.StartAll(); err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()

	p := &pad{
		screen:  screen,
		src:     src,
		sess:    sessSvc,
		audio:   audioSvc,
		buf:     newTextBuffer(),
		lastErr: &lastErr,
	}
	unsubscribe := src.Subscribe(p.buf.apply)
	defer unsubscribe()
	return p.run(ctx)
}

type pad struct {
	screen  tcell.Screen
	src     *input.Source
	sess    *session.Service
	audio   *audio.Service
	buf     *textBuffer
	lastErr *atomic.Value
}

func (p *pad) run(ctx context.Context) error {
	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := p.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(statusRefresh)
	defer ticker.Stop()

	p.redraw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				p.screen.Sync()
			case *tcell.EventKey:
				if !p.handleKey(ctx, ev) {
					return nil
				}
			}
			p.redraw()
		case <-ticker.C:
			p.redraw()
		}
	}
}

// handleKey returns false to quit
func (p *pad) handleKey(ctx context.Context, ev *tcell.EventKey) bool {
	ctrl := p.sess.Controller()

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyF1:
		p.toggleListening(ctrl)
		return true
	case tcell.KeyF2:
		p.stepTheme(ctrl, -1)
		return true
	case tcell.KeyF3:
		p.stepTheme(ctrl, 1)
		return true
	}

	if !ctrl.IsLoaded() {
		if ev.Key() == tcell.KeyRune && ev.Rune() == 'r' {
			p.reload(ctx)
		}
		return true
	}

	p.src.EmitKey(ev)
	return true
}

func (p *pad) toggleListening(ctrl *session.Controller) {
	var err error
	if ctrl.IsListening() {
		err = ctrl.Stop()
	} else {
		err = ctrl.Start()
	}
	if err != nil {
		p.lastErr.Store(err.Error())
	}
}

func (p *pad) stepTheme(ctrl *session.Controller, step int) {
	themes, err := ctrl.Themes()
	if err != nil {
		p.lastErr.Store(err.Error())
		return
	}
	cur, _ := ctrl.CurrentTheme()
	if err := ctrl.ChangeTheme(cycleTheme(themes, cur, step)); err != nil {
		p.lastErr.Store(err.Error())
	}
}

func (p *pad) reload(ctx context.Context) {
	loadCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	p.lastErr.Store("")
	if err := p.sess.Reload(loadCtx); err != nil {
		log.Warn().Err(err).Msg("reload failed")
		p.lastErr.Store(err.Error())
	}
}

func (p *pad) redraw() {
	status := statusLine(p.sess.Controller(), p.audio.Describe(), p.audio.InFlight())
	draw(p.screen, p.buf, status, padHint, p.lastErr.Load().(string))
}
