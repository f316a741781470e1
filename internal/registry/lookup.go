package registry

import "sync"

// Lookup maps handler ids to the definitions the engine applied. The
// drain populates it; dispatch failure logs resolve ids through it to
// name the content object. Entries live for the whole session,
// nothing is ever removed.
type Lookup struct {
	mu   sync.RWMutex
	byID map[int64]*Registration
}

// NewLookup returns an empty lookup table.
func NewLookup() *Lookup {
	return &Lookup{byID: make(map[int64]*Registration)}
}

// Put records an applied registration under its handler id.
func (l *Lookup) Put(reg *Registration) {
	l.mu.Lock()
	l.byID[reg.HandlerID] = reg
	l.mu.Unlock()
}

// Get resolves a handler id, comma-ok style.
func (l *Lookup) Get(handlerID int64) (*Registration, bool) {
	l.mu.RLock()
	reg, ok := l.byID[handlerID]
	l.mu.RUnlock()
	return reg, ok
}

// Len reports the number of applied registrations.
func (l *Lookup) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.byID)
}
