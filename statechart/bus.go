package statechart

import "sync"

// Bus pairs one statechart with one rendering surface so that each side can
// reach the other without owning it. Build it once at startup and hand it
// to both constructors.
type Bus struct {
	mu      sync.RWMutex
	surface Surface
	chart   *Statechart
}

// NewBus returns a bus with a NopSurface registered
func NewBus() *Bus {
	return &Bus{surface: NopSurface{}}
}

// RegisterSurface binds the rendering surface. A nil surface resets it to NopSurface.
func (b *Bus) RegisterSurface(s Surface) {
	if s == nil {
		s = NopSurface{}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.surface = s
}

// RegisterStatechart binds the statechart. New calls it.
func (b *Bus) RegisterStatechart(c *Statechart) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.chart = c
}

// Surface returns the registered surface
func (b *Bus) Surface() Surface {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.surface
}

// Statechart returns the registered statechart, nil before New
func (b *Bus) Statechart() *Statechart {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.chart
}

// Post queues an event on the registered statechart. Events posted before a
// statechart is registered are dropped.
func (b *Bus) Post(e Event) {
	if c := b.Statechart(); c != nil {
		c.Post(e)
	}
}
