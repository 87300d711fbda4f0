package itinerary

import (
	"sync"

	"github.com/google/uuid"
)

// tripLocks hands out one mutex per trip ID and forgets it once no caller
// holds or waits for it.
type tripLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*tripLock
}

type tripLock struct {
	mu   sync.Mutex
	refs int
}

func newTripLocks() *tripLocks {
	return &tripLocks{locks: make(map[uuid.UUID]*tripLock)}
}

func (l *tripLocks) lock(id uuid.UUID) func() {
	l.mu.Lock()
	tl, ok := l.locks[id]
	if !ok {
		tl = &tripLock{}
		l.locks[id] = tl
	}
	tl.refs++
	l.mu.Unlock()

	tl.mu.Lock()
	return func() {
		tl.mu.Unlock()
		l.mu.Lock()
		tl.refs--
		if tl.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

func (l *tripLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
