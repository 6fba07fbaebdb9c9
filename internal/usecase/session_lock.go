package usecase

import "sync"

type sessionLockEntry struct {
	mu   sync.Mutex
	refs int
}

// sessionLocks hands out one mutex per session id. An entry lives only while some caller
// holds or waits on it, so ids that are no longer in use take no memory.
type sessionLocks struct {
	mu      sync.Mutex
	entries map[string]*sessionLockEntry
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{
		entries: make(map[string]*sessionLockEntry),
	}
}

// lock blocks until the session is free and returns the matching unlock.
func (that *sessionLocks) lock(sessionID string) func() {
	that.mu.Lock()
	entry, ok := that.entries[sessionID]
	if !ok {
		entry = &sessionLockEntry{}
		that.entries[sessionID] = entry
	}
	entry.refs++
	that.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		that.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(that.entries, sessionID)
		}
		that.mu.Unlock()
	}
}

func (that *sessionLocks) size() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.entries)
}

// holders returns how many callers hold or wait on the session's lock.
func (that *sessionLocks) holders(sessionID string) int {
	that.mu.Lock()
	defer that.mu.Unlock()

	if entry, ok := that.entries[sessionID]; ok {
		return entry.refs
	}

	return 0
}
