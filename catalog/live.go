package catalog

import "sync/atomic"

// Live holds the current catalog. Readers call Current for every lookup
// batch; reloads publish a new catalog with Swap.
type Live struct {
	current atomic.Pointer[Catalog]
}

// NewLive creates a holder publishing c.
func NewLive(c *Catalog) *Live {
	l := &Live{}
	l.current.Store(c)
	return l
}

// Current returns the published catalog.
func (l *Live) Current() *Catalog {
	return l.current.Load()
}

// Swap publishes c and returns the previous catalog.
func (l *Live) Swap(c *Catalog) *Catalog {
	return l.current.Swap(c)
}
