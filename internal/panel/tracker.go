package panel

import "sync"

// Tracker remembers the last content known to be displayed per message, so
// the dispatcher can skip no-op edits. It is owned by the controller and
// passed in explicitly; there is no process-wide instance.
type Tracker struct {
	mu   sync.RWMutex
	last map[MessageRef]Content
}

func NewTracker() *Tracker {
	return &Tracker{last: make(map[MessageRef]Content)}
}

func (t *Tracker) Get(ref MessageRef) (Content, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c, ok := t.last[ref]
	return c, ok
}

func (t *Tracker) Set(ref MessageRef, c Content) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last[ref] = c
}

func (t *Tracker) Forget(ref MessageRef) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.last, ref)
}
