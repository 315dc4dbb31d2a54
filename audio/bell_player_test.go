package audio

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitDone(t *testing.T, ch <-chan error) error {
	t.Helper()
	select {
	case err := <-ch:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("done callback not called")
		return nil
	}
}

func newTestBell(beep func(float64, int) error) *BellPlayer {
	p := NewBellPlayer(&Config{MaxConcurrent: 2})
	p.beep = beep
	return p
}

func TestBellPlayerPlays(t *testing.T) {
	var (
		mu    sync.Mutex
		freqs []float64
	)
	p := newTestBell(func(freq float64, ms int) error {
		mu.Lock()
		freqs = append(freqs, freq)
		mu.Unlock()
		assert.Equal(t, bellDurationMs, ms)
		return nil
	})

	done := make(chan error, 1)
	p.Play("sounds/mech/enter.wav", func(err error) { done <- err })
	require.NoError(t, waitDone(t, done))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, freqs, 1)
	assert.Equal(t, toneFor("enter.wav"), freqs[0])
}

func TestBellPlayerReportsFailure(t *testing.T) {
	boom := errors.New("no bell")
	p := newTestBell(func(float64, int) error { return boom })

	done := make(chan error, 1)
	p.Play("a.wav", func(err error) { done <- err })
	assert.ErrorIs(t, waitDone(t, done), boom)
}

func TestBellPlayerDropsOverLimit(t *testing.T) {
	release := make(chan struct{})
	p := newTestBell(func(float64, int) error {
		<-release
		return nil
	})

	results := make(chan error, 3)
	for i := 0; i < 3; i++ {
		p.Play("a.wav", func(err error) { results <- err })
	}

	// The third call is rejected before any tone finishes
	assert.ErrorIs(t, waitDone(t, results), ErrDropped)
	close(release)
	assert.NoError(t, waitDone(t, results))
	assert.NoError(t, waitDone(t, results))
}

func TestBellPlayerClosed(t *testing.T) {
	p := newTestBell(func(float64, int) error { return nil })
	require.NoError(t, p.Close())

	done := make(chan error, 1)
	p.Play("a.wav", func(err error) { done <- err })
	assert.ErrorIs(t, waitDone(t, done), ErrPlayerClosed)
}

func TestToneForStable(t *testing.T) {
	assert.Equal(t, toneFor("/x/enter.wav"), toneFor("/y/enter.wav"))
	assert.Contains(t, bellTones[:], toneFor("space.mp3"))
}

func TestNoopPlayer(t *testing.T) {
	done := make(chan error, 1)
	NoopPlayer{}.Play("a.wav", func(err error) { done <- err })
	assert.NoError(t, waitDone(t, done))
	assert.NoError(t, NoopPlayer{}.Close())

	// nil callback is tolerated
	NoopPlayer{}.Play("a.wav", nil)
}
