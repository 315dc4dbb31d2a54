package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/keysound/audio"
	"github.com/lixenwraith/keysound/input"
	"github.com/lixenwraith/keysound/soundbank"
)

const bankJSON = `{
  "path": "snd",
  "typeKeyboardSoundDefault": "t1",
  "typeKeyPref": "space",
  "files": {
    "t1": {"space": ["a.mp3", "b.mp3"], "enter": ["enter.mp3"], "backspace": ["bs.mp3"]},
    "t2": {"enter": ["ret.wav"]}
  }
}`

type mockPlayer struct {
	mock.Mock
}

func (m *mockPlayer) Play(path string, done func(error)) {
	args := m.Called(path)
	done(args.Error(0))
}

func (m *mockPlayer) Close() error {
	return m.Called().Error(0)
}

type stubFetcher struct {
	body string
	err  error
}

func (f *stubFetcher) Fetch(_ context.Context, _ string) (*soundbank.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	return soundbank.Parse([]byte(f.body), soundbank.FormatJSON)
}

type errorSink struct {
	mu   sync.Mutex
	errs []error
}

func (s *errorSink) add(err error) {
	s.mu.Lock()
	s.errs = append(s.errs, err)
	s.mu.Unlock()
}

func (s *errorSink) all() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]error(nil), s.errs...)
}

func newController(t *testing.T, player audio.Player, opts ...Option) (*Controller, *input.Source) {
	t.Helper()
	src := input.NewSource()
	engine := soundbank.NewEngine(soundbank.WithPicker(func(int) int { return 0 }))
	opts = append([]Option{WithFetcher(&stubFetcher{body: bankJSON})}, opts...)
	c, err := New(engine, src, player, opts...)
	require.NoError(t, err)
	return c, src
}

func loadedController(t *testing.T, player audio.Player, opts ...Option) (*Controller, *input.Source) {
	t.Helper()
	c, src := newController(t, player, opts...)
	require.NoError(t, c.Load(context.Background()))
	return c, src
}

func TestControllerBeforeLoad(t *testing.T) {
	c, _ := newController(t, nil)

	assert.False(t, c.IsLoaded())
	assert.False(t, c.IsListening())
	assert.ErrorIs(t, c.Start(), soundbank.ErrNotLoaded)
	assert.ErrorIs(t, c.Stop(), soundbank.ErrNotLoaded)
	assert.ErrorIs(t, c.ChangeTheme("t1"), soundbank.ErrNotLoaded)

	_, err := c.CurrentTheme()
	assert.ErrorIs(t, err, soundbank.ErrNotLoaded)
	_, err = c.AvailableCategories()
	assert.ErrorIs(t, err, soundbank.ErrNotLoaded)
}

func TestControllerLoad(t *testing.T) {
	c, _ := loadedController(t, nil)

	assert.True(t, c.IsLoaded())
	theme, err := c.CurrentTheme()
	require.NoError(t, err)
	assert.Equal(t, soundbank.Theme("t1"), theme)

	cats, err := c.AvailableCategories()
	require.NoError(t, err)
	assert.Equal(t, []soundbank.Category{"backspace", "enter", "space"}, cats.Sorted())

	themes, err := c.Themes()
	require.NoError(t, err)
	assert.Equal(t, []soundbank.Theme{"t1", "t2"}, themes)
}

func TestControllerLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		fetcher Fetcher
		kind    soundbank.Kind
	}{
		{"plain transport error", &stubFetcher{err: errors.New("connection refused")}, soundbank.KindAudiosNoFetched},
		{"typed transport error", &stubFetcher{err: &soundbank.Error{Kind: soundbank.KindAudiosNoFetched}}, soundbank.KindAudiosNoFetched},
		{"malformed", &stubFetcher{body: `{"path":`}, soundbank.KindInvalidAudiosJSON},
		{"invalid bank", &stubFetcher{body: `{"path":"","typeKeyboardSoundDefault":"t1","typeKeyPref":"space","files":{}}`}, soundbank.KindInvalidAudiosJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newController(t, nil, WithFetcher(tt.fetcher))
			err := c.Load(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.kind, soundbank.KindOf(err))
			assert.False(t, c.IsLoaded())
		})
	}
}

// TestControllerFailedReloadKeepsState verifies a bad reload leaves the loaded bank in place
func TestControllerFailedReloadKeepsState(t *testing.T) {
	fetcher := &stubFetcher{body: bankJSON}
	c, _ := newController(t, nil, WithFetcher(fetcher))
	require.NoError(t, c.Load(context.Background()))
	require.NoError(t, c.ChangeTheme("t2"))

	fetcher.body = `{"path":"x","typeKeyboardSoundDefault":"nope","typeKeyPref":"space","files":{"t1":{"space":["a"]}}}`
	err := c.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, soundbank.ErrInvalidDefaultTheme)

	theme, err := c.CurrentTheme()
	require.NoError(t, err)
	assert.Equal(t, soundbank.Theme("t2"), theme)
}

func TestControllerStartStop(t *testing.T) {
	c, src := loadedController(t, nil)

	require.NoError(t, c.Start())
	require.NoError(t, c.Start())
	assert.True(t, c.IsListening())
	assert.Equal(t, 1, src.Subscribers(), "second Start must not subscribe again")

	require.NoError(t, c.Stop())
	require.NoError(t, c.Stop())
	assert.False(t, c.IsListening())
	assert.Equal(t, 0, src.Subscribers())

	require.NoError(t, c.Start())
	assert.Equal(t, 1, src.Subscribers())
}

func TestControllerDispatch(t *testing.T) {
	player := &mockPlayer{}
	player.On("Play", "snd/t1/enter.mp3").Return(nil).Once()
	player.On("Play", "snd/t1/bs.mp3").Return(nil).Once()
	player.On("Play", "snd/t1/a.mp3").Return(nil).Twice()

	c, src := loadedController(t, player)
	require.NoError(t, c.Start())

	src.Emit(input.Event{Type: input.InsertLineBreak})
	src.Emit(input.Event{Type: input.DeleteContentBackward})
	src.Emit(input.Event{Type: input.InsertText, Data: " "})
	src.Emit(input.Event{Type: input.InsertText, Data: "q"}) // falls back to space
	src.Emit(input.Event{Type: ""})

	player.AssertExpectations(t)
	stats := c.Stats()
	assert.Equal(t, uint64(4), stats.Dispatched)
	assert.Equal(t, uint64(1), stats.Skipped)
	assert.Zero(t, stats.Failed)
}

func TestControllerIgnoresEventsWhenStopped(t *testing.T) {
	player := &mockPlayer{}
	c, src := loadedController(t, player)

	src.Emit(input.Event{Type: input.InsertLineBreak})
	c.HandleEvent(input.Event{Type: input.InsertLineBreak})

	player.AssertNotCalled(t, "Play", mock.Anything)
	assert.Zero(t, c.Stats().Dispatched)
}

func TestControllerThemeChangeAffectsDispatch(t *testing.T) {
	player := &mockPlayer{}
	player.On("Play", "snd/t2/ret.wav").Return(nil).Once()

	c, src := loadedController(t, player)
	require.NoError(t, c.ChangeTheme("t2"))
	require.NoError(t, c.Start())

	src.Emit(input.Event{Type: input.InsertLineBreak})
	player.AssertExpectations(t)

	assert.ErrorIs(t, c.ChangeTheme("unknown"), soundbank.ErrInvalidTheme)
	theme, _ := c.CurrentTheme()
	assert.Equal(t, soundbank.Theme("t2"), theme)
}

// TestControllerMissingPreferredInTheme covers a theme lacking the preferred category
func TestControllerMissingPreferredInTheme(t *testing.T) {
	sink := &errorSink{}
	player := &mockPlayer{}
	c, src := loadedController(t, player, WithErrorHandler(sink.add))
	require.NoError(t, c.ChangeTheme("t2"))
	require.NoError(t, c.Start())

	// t2 has no space category, so the fallback cannot resolve
	src.Emit(input.Event{Type: input.InsertText, Data: "x"})

	player.AssertNotCalled(t, "Play", mock.Anything)
	errs := sink.all()
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], soundbank.ErrFilePathInvalid)
	assert.True(t, c.IsListening(), "a failed event must not stop the listener")
	assert.Equal(t, uint64(1), c.Stats().Failed)
}

func TestControllerPlaybackOutcomes(t *testing.T) {
	sink := &errorSink{}
	player := &mockPlayer{}
	player.On("Play", "snd/t1/enter.mp3").Return(audio.ErrInterrupted).Once()
	player.On("Play", "snd/t1/bs.mp3").Return(audio.ErrDropped).Once()
	player.On("Play", "snd/t1/a.mp3").Return(errors.New("device lost")).Once()

	c, src := loadedController(t, player, WithErrorHandler(sink.add))
	require.NoError(t, c.Start())

	src.Emit(input.Event{Type: input.InsertLineBreak})
	src.Emit(input.Event{Type: input.DeleteContentForward})
	src.Emit(input.Event{Type: input.InsertText, Data: " "})

	player.AssertExpectations(t)

	errs := sink.all()
	require.Len(t, errs, 1, "only the real failure is reported")
	assert.ErrorIs(t, errs[0], soundbank.ErrAudioPlaybackError)
	assert.True(t, strings.Contains(errs[0].Error(), "snd/t1/a.mp3"))

	stats := c.Stats()
	assert.Equal(t, uint64(3), stats.Dispatched)
	assert.Equal(t, uint64(1), stats.Interrupted)
	assert.Equal(t, uint64(1), stats.Dropped)
	assert.Equal(t, uint64(1), stats.Failed)
	assert.True(t, c.IsListening())
}

func TestControllerID(t *testing.T) {
	a, _ := newController(t, nil)
	b, _ := newController(t, nil)
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestNewRequiresEventSource(t *testing.T) {
	c, err := New(soundbank.NewEngine(), nil, nil)
	require.ErrorIs(t, err, soundbank.ErrInvalidSource)
	assert.Nil(t, c)

	// A nil engine gets a fresh unloaded one
	c, err = New(nil, input.NewSource(), nil)
	require.NoError(t, err)
	assert.False(t, c.IsLoaded())
}

func TestControllerThemeOverride(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("offline")}
	c, _ := newController(t, nil, WithFetcher(fetcher), WithTheme("t2"))

	require.Error(t, c.Load(context.Background()))

	// The override applies to a later successful load too
	fetcher.err, fetcher.body = nil, bankJSON
	require.NoError(t, c.Load(context.Background()))
	theme, err := c.CurrentTheme()
	require.NoError(t, err)
	assert.Equal(t, soundbank.Theme("t2"), theme)

	// and again after a reload that reset the theme
	require.NoError(t, c.ChangeTheme("t1"))
	require.NoError(t, c.Load(context.Background()))
	theme, _ = c.CurrentTheme()
	assert.Equal(t, soundbank.Theme("t2"), theme)
}

func TestControllerUnknownThemeOverride(t *testing.T) {
	sink := &errorSink{}
	c, _ := newController(t, nil, WithTheme("neon"), WithErrorHandler(sink.add))

	require.NoError(t, c.Load(context.Background()))
	theme, _ := c.CurrentTheme()
	assert.Equal(t, soundbank.Theme("t1"), theme, "default theme is kept")

	errs := sink.all()
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], soundbank.ErrInvalidTheme)
	assert.Zero(t, c.Stats().Failed)
}

// TestControllerThemeChangeDuringEvents verifies events resolve against one consistent theme
func TestControllerThemeChangeDuringEvents(t *testing.T) {
	const bank = `{"path":"snd","typeKeyboardSoundDefault":"t1","typeKeyPref":"space","files":{
  "t1":{"space":["s1.wav"],"enter":["e1.wav"]},
  "t2":{"space":["s2.wav"]}
}}`
	sink := &errorSink{}
	c, src := newController(t, audio.NoopPlayer{}, WithFetcher(&stubFetcher{body: bank}), WithErrorHandler(sink.add))
	require.NoError(t, c.Load(context.Background()))
	require.NoError(t, c.Start())

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		themes := []soundbank.Theme{"t1", "t2"}
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			_ = c.ChangeTheme(themes[i%2])
		}
	}()

	const events = 2000
	for i := 0; i < events; i++ {
		src.Emit(input.Event{Type: input.InsertLineBreak})
	}
	close(stop)
	wg.Wait()

	assert.Empty(t, sink.all())
	assert.Equal(t, uint64(events), c.Stats().Dispatched)
	assert.Zero(t, c.Stats().Failed)
}
