package soundbank

import (
	"math/rand/v2"
	"sync"

	"github.com/rs/zerolog/log"
)

// DefaultSource is the document location used when none is given
const DefaultSource = "keyboard-sounds.json"

// Picker returns an index in [0, n)
type Picker func(n int) int

// Engine owns a loaded sound bank and the current theme selection
// Accessors fail with ErrNotLoaded until the first successful Load; a failed
// Load leaves the previous state untouched
type Engine struct {
	mu sync.RWMutex

	source string
	pick   Picker

	loaded    bool
	basePath  string
	themes    []Theme
	files     map[Theme]map[Category][]string
	current   Theme
	available CategorySet
	defTheme  Theme
	preferred Category
}

// Option configures an Engine
type Option func(*Engine)

// WithPicker replaces the uniform random index source
func WithPicker(p Picker) Option {
	return func(e *Engine) {
		if p != nil {
			e.pick = p
		}
	}
}

// WithSource sets the document location reported by Source
func WithSource(src string) Option {
	return func(e *Engine) {
		if src != "" {
			e.source = src
		}
	}
}

// NewEngine creates an unloaded engine
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		source: DefaultSource,
		pick:   rand.IntN,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load adopts cfg, replacing any prior state
// The current theme resets to the default theme
func (e *Engine) Load(cfg *Config) error {
	if cfg == nil {
		return newError(KindInvalidAudiosJSON, "nil config")
	}
	if err := cfg.Validate(); err != nil {
		return wrapError(KindInvalidAudiosJSON, err)
	}

	own := cfg.Clone()
	files := make(map[Theme]map[Category][]string, len(own.Themes))
	for _, t := range own.Themes {
		cats := make(map[Category][]string, len(t.Categories))
		for _, c := range t.Categories {
			cats[c.Name] = c.Assets
		}
		files[t.Name] = cats
	}

	e.mu.Lock()
	e.basePath = own.BasePath
	e.themes = own.ThemeNames()
	e.files = files
	e.defTheme = own.DefaultTheme
	e.preferred = own.PreferredCategory
	e.setTheme(own.DefaultTheme)
	e.loaded = true
	e.mu.Unlock()

	log.Debug().
		Str("source", e.Source()).
		Str("theme", string(own.DefaultTheme)).
		Int("themes", len(own.Themes)).
		Msg("sound bank loaded")
	return nil
}

// LoadDocument validates doc and loads the result
// Validation failures are returned as InvalidAudiosJSON wrapping the specific kind
func (e *Engine) LoadDocument(doc *Document) error {
	cfg, err := Validate(doc)
	if err != nil {
		return wrapError(KindInvalidAudiosJSON, err)
	}
	return e.Load(cfg)
}

// setTheme must be called with the write lock held
func (e *Engine) setTheme(t Theme) {
	e.current = t
	cats := e.files[t]
	e.available = make(CategorySet, len(cats))
	for c := range cats {
		e.available[c] = struct{}{}
	}
}

// ResolveAsset picks one asset of category under the current theme
// Returns basePath/theme/file; each call is an independent uniform pick
func (e *Engine) ResolveAsset(cat Category) (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.loaded {
		return "", ErrNotLoaded
	}
	return e.resolve(cat)
}

// Classifier maps the preferred category and the current theme's categories to
// the category to play; false means no sound
type Classifier func(preferred Category, available CategorySet) (Category, bool)

// ResolveWith classifies and resolves under one read lock, so a concurrent theme
// change cannot split the two steps; classify must not retain or modify available
// Returns ok false with no error when classify skips
func (e *Engine) ResolveWith(classify Classifier) (path string, ok bool, err error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.loaded {
		return "", false, ErrNotLoaded
	}
	cat, ok := classify(e.preferred, e.available)
	if !ok {
		return "", false, nil
	}
	path, err = e.resolve(cat)
	if err != nil {
		return "", false, err
	}
	return path, true, nil
}

// resolve must be called with the read lock held
func (e *Engine) resolve(cat Category) (string, error) {
	files := e.files[e.current][cat]
	if len(files) == 0 {
		return "", newError(KindFilePathInvalid, string(e.current)+"/"+string(cat))
	}
	file := files[e.pick(len(files))]
	return e.basePath + "/" + string(e.current) + "/" + file, nil
}

// ChangeTheme switches the current theme and recomputes available categories
func (e *Engine) ChangeTheme(t Theme) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		return ErrNotLoaded
	}
	if _, ok := e.files[t]; !ok {
		return newError(KindInvalidTheme, string(t))
	}
	e.setTheme(t)
	return nil
}

// IsLoaded is always readable
func (e *Engine) IsLoaded() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.loaded
}

// Source is always readable
func (e *Engine) Source() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.source
}

// SetSource changes the document location used by the next load
func (e *Engine) SetSource(src string) error {
	if src == "" {
		return newError(KindInvalidSource, "")
	}
	e.mu.Lock()
	e.source = src
	e.mu.Unlock()
	return nil
}

// CurrentTheme returns the selected theme
func (e *Engine) CurrentTheme() (Theme, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.loaded {
		return "", ErrNotLoaded
	}
	return e.current, nil
}

// AvailableCategories returns a copy of the current theme's categories
func (e *Engine) AvailableCategories() (CategorySet, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.loaded {
		return nil, ErrNotLoaded
	}
	return cloneSet(e.available), nil
}

// Themes returns theme names in document order
func (e *Engine) Themes() ([]Theme, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.loaded {
		return nil, ErrNotLoaded
	}
	out := make([]Theme, len(e.themes))
	copy(out, e.themes)
	return out, nil
}

// BasePath returns the asset root
func (e *Engine) BasePath() (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.loaded {
		return "", ErrNotLoaded
	}
	return e.basePath, nil
}

// DefaultTheme returns the theme selected on load
func (e *Engine) DefaultTheme() (Theme, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.loaded {
		return "", ErrNotLoaded
	}
	return e.defTheme, nil
}

// SetDefaultTheme records t as the default; the current theme is not changed
func (e *Engine) SetDefaultTheme(t Theme) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		return ErrNotLoaded
	}
	if _, ok := e.files[t]; !ok {
		return newError(KindInvalidTheme, string(t))
	}
	e.defTheme = t
	return nil
}

// PreferredCategory returns the fallback category
func (e *Engine) PreferredCategory() (Category, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.loaded {
		return "", ErrNotLoaded
	}
	return e.preferred, nil
}

// SetPreferredCategory changes the fallback; c must exist in the current theme
func (e *Engine) SetPreferredCategory(c Category) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		return ErrNotLoaded
	}
	if !e.available.Has(c) {
		return newError(KindInvalidCategory, string(c))
	}
	e.preferred = c
	return nil
}

func cloneSet(s CategorySet) CategorySet {
	out := make(CategorySet, len(s))
	for c := range s {
		out[c] = struct{}{}
	}
	return out
}
