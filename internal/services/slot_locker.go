package services

import "sync"

// slotLocker serializes claims per slot id inside this process.
// Different slots never share a mutex; entries are dropped once unused.
type slotLocker struct {
	mu    sync.Mutex
	locks map[string]*slotLock
}

type slotLock struct {
	mu   sync.Mutex
	refs int
}

func newSlotLocker() *slotLocker {
	return &slotLocker{locks: make(map[string]*slotLock)}
}

// Lock blocks until slotID is free and returns its unlock function
func (l *slotLocker) Lock(slotID string) func() {
	l.mu.Lock()
	lock, ok := l.locks[slotID]
	if !ok {
		lock = &slotLock{}
		l.locks[slotID] = lock
	}
	lock.refs++
	l.mu.Unlock()

	lock.mu.Lock()

	return func() {
		lock.mu.Unlock()

		l.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(l.locks, slotID)
		}
		l.mu.Unlock()
	}
}
