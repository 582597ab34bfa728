package game

import (
	"sync"

	"github.com/mcoot/battleship-go/internal/model"
)

// sessionLocks provides per-game mutual exclusion. Join and Fire on the
// same game serialize against each other; operations on different games
// never contend. Entries are never removed: a mutex replaced while a
// goroutine still waits on it would break exclusivity, and the table is
// bounded by the games touched over the process lifetime.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[model.GameID]*sync.Mutex
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{
		locks: make(map[model.GameID]*sync.Mutex),
	}
}

// acquire locks the mutex for the given game and returns its unlock func
func (l *sessionLocks) acquire(id model.GameID) func() {
	l.mu.Lock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
