package requests

import "sync"

// recordLocks serialises mutations of the requests belonging to one record.
// Entries are dropped once no caller holds or waits on them.
type recordLocks struct {
	mu    sync.Mutex
	locks map[string]*recordLock
}

type recordLock struct {
	mu   sync.Mutex
	refs int
}

func newRecordLocks() *recordLocks {
	return &recordLocks{locks: make(map[string]*recordLock)}
}

// lock blocks until the record is free and returns the matching unlock func.
func (l *recordLocks) lock(recordID string) func() {
	l.mu.Lock()
	entry, ok := l.locks[recordID]
	if !ok {
		entry = &recordLock{}
		l.locks[recordID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, recordID)
		}
		l.mu.Unlock()
	}
}
