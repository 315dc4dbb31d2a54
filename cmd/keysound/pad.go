package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/keysound/input"
	"github.com/lixenwraith/keysound/session"
	"github.com/lixenwraith/keysound/soundbank"
)

const maxPadLines = 500

// textBuffer holds the typed lines shown in the pad
type textBuffer struct {
	lines [][]rune
}

func newTextBuffer() *textBuffer {
	return &textBuffer{lines: [][]rune{nil}}
}

// apply edits the buffer the way a plain text field would
func (b *textBuffer) apply(ev input.Event) {
	last := len(b.lines) - 1
	switch ev.Type {
	case input.InsertText:
		b.lines[last] = append(b.lines[last], []rune(ev.Data)...)
	case input.InsertLineBreak:
		b.lines = append(b.lines, nil)
		if len(b.lines) > maxPadLines {
			b.lines = b.lines[len(b.lines)-maxPadLines:]
		}
	case input.DeleteContentBackward:
		switch {
		case len(b.lines[last]) > 0:
			b.lines[last] = b.lines[last][:len(b.lines[last])-1]
		case last > 0:
			b.lines = b.lines[:last]
		}
	}
}

func (b *textBuffer) String() string {
	parts := make([]string, len(b.lines))
	for i, l := range b.lines {
		parts[i] = string(l)
	}
	return strings.Join(parts, "\n")
}

// cycleTheme returns the theme step positions away from cur, wrapping around
func cycleTheme(themes []soundbank.Theme, cur soundbank.Theme, step int) soundbank.Theme {
	if len(themes) == 0 {
		return cur
	}
	i := slices.Index(themes, cur)
	if i < 0 {
		return themes[0]
	}
	n := len(themes)
	return themes[((i+step)%n+n)%n]
}

var (
	padStyle    = tcell.StyleDefault
	statusStyle = tcell.StyleDefault.Reverse(true)
	errStyle    = tcell.StyleDefault.Foreground(tcell.ColorRed)
	hintStyle   = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// statusLine summarizes the controller for the bottom bar
func statusLine(ctrl *session.Controller, backend string, playing int) string {
	if !ctrl.IsLoaded() {
		return " not loaded | r reload | esc quit"
	}
	theme, _ := ctrl.CurrentTheme()
	state := "paused"
	if ctrl.IsListening() {
		state = "listening"
	}
	st := ctrl.Stats()
	return fmt.Sprintf(" %s | %s | %s playing %d | played %d skipped %d failed %d dropped %d",
		theme, state, backend, playing, st.Dispatched, st.Skipped, st.Failed, st.Dropped)
}

// draw renders the tail of the buffer above a hint line and the status bar
func draw(s tcell.Screen, buf *textBuffer, status, hint, lastErr string) {
	s.Clear()
	w, h := s.Size()
	if w <= 0 || h < 3 {
		s.Show()
		return
	}

	textRows := h - 2
	if lastErr != "" {
		textRows--
	}
	textRows = max(textRows, 1)
	lines := buf.lines
	if len(lines) > textRows {
		lines = lines[len(lines)-textRows:]
	}
	for y, l := range lines {
		drawText(s, 0, y, w, string(l), padStyle)
	}
	cy := len(lines) - 1
	s.ShowCursor(min(len(lines[cy]), w-1), cy)

	row := h - 2
	if lastErr != "" {
		drawText(s, 0, row-1, w, lastErr, errStyle)
	}
	drawText(s, 0, row, w, hint, hintStyle)
	drawText(s, 0, h-1, w, fmt.Sprintf("%-*s", w, status), statusStyle)
	s.Show()
}

func drawText(s tcell.Screen, x, y, w int, text string, style tcell.Style) {
	for _, r := range text {
		if x >= w {
			return
		}
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
