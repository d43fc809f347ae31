package usecase

import "sync"

// keyLocker hands out one mutex per identifier. Entries are reference counted
// and dropped once no goroutine holds or waits for them.
type keyLocker struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyLocker() *keyLocker {
	return &keyLocker{locks: make(map[string]*lockEntry)}
}

// Lock blocks until identifier is free and returns its unlock function.
func (l *keyLocker) Lock(identifier string) func() {
	l.mu.Lock()
	entry, ok := l.locks[identifier]
	if !ok {
		entry = &lockEntry{}
		l.locks[identifier] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, identifier)
		}
		l.mu.Unlock()
	}
}

// size returns the number of tracked identifiers.
func (l *keyLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
