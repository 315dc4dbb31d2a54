package input

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Handler receives events from a Source
type Handler func(Event)

// Source fans events out to subscribed handlers
// Handlers run synchronously on the emitting goroutine
type Source struct {
	mu       sync.RWMutex
	handlers map[uint64]Handler
	nextID   uint64
}

// NewSource creates a source with no subscribers
func NewSource() *Source {
	return &Source{handlers: make(map[uint64]Handler)}
}

// Subscribe registers h and returns its cancel function
// Cancel is idempotent
func (s *Source) Subscribe(h Handler) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.handlers[id] = h
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.handlers, id)
			s.mu.Unlock()
		})
	}
}

// Emit delivers ev to every current subscriber
func (s *Source) Emit(ev Event) {
	s.mu.RLock()
	hs := make([]Handler, 0, len(s.handlers))
	for _, h := range s.handlers {
		hs = append(hs, h)
	}
	s.mu.RUnlock()

	for _, h := range hs {
		h(ev)
	}
}

// EmitKey translates a terminal key and emits it; false when the key produced no event
func (s *Source) EmitKey(ev *tcell.EventKey) bool {
	in, ok := FromTcell(ev)
	if !ok {
		return false
	}
	s.Emit(in)
	return true
}

// Subscribers returns the number of active handlers
func (s *Source) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.handlers)
}
