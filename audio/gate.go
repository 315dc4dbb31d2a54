package audio

import "sync/atomic"

// gate caps simultaneous playbacks
type gate struct {
	limit  int32
	active atomic.Int32
}

func newGate(limit int) *gate {
	return &gate{limit: int32(limit)}
}

// acquire increments then checks, backing out when over the limit
func (g *gate) acquire() bool {
	if g.active.Add(1) > g.limit {
		g.active.Add(-1)
		return false
	}
	return true
}

func (g *gate) release() {
	g.active.Add(-1)
}

func (g *gate) inFlight() int {
	return int(g.active.Load())
}
