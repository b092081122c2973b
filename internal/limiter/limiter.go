// Package limiter caps concurrent work per key within the process. Each
// generation request holds one slot for its duration; saturated keys reject
// immediately instead of queueing.
package limiter

import "sync"

type Inflight struct {
	mu  sync.Mutex
	max int
	sem map[string]chan struct{}
}

// New returns a limiter allowing max concurrent holders per key.
func New(max int) *Inflight {
	if max <= 0 {
		max = 8
	}
	return &Inflight{max: max, sem: map[string]chan struct{}{}}
}

// Allow tries to reserve a slot for key. Returns a release function and true
// if a slot was free; otherwise a no-op function and false.
func (l *Inflight) Allow(key string) (func(), bool) {
	l.mu.Lock()
	ch, ok := l.sem[key]
	if !ok {
		ch = make(chan struct{}, l.max)
		l.sem[key] = ch
	}
	l.mu.Unlock()
	select {
	case ch <- struct{}{}:
		return func() { <-ch }, true
	default:
		return func() {}, false
	}
}
