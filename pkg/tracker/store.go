package tracker

import (
	"sync"
	"time"

	"github.com/travigo/stopwatch/pkg/departures"
)

// Store holds the currently installed snapshot.
// Readers get the whole snapshot handle and never see a mix of two cycles.
type Store struct {
	mutex    sync.RWMutex
	snapshot departures.Snapshot
}

func NewStore() *Store {
	return &Store{
		snapshot: departures.NewSnapshot("", time.Time{}, nil),
	}
}

func (s *Store) Snapshot() departures.Snapshot {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.snapshot
}

// Update derives the next snapshot from the current one while holding the write lock
func (s *Store) Update(update func(current departures.Snapshot) departures.Snapshot) departures.Snapshot {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.snapshot = update(s.snapshot)

	return s.snapshot
}

// Merge installs a copy of the current snapshot with the given stop state replaced
func (s *Store) Merge(state *departures.StopState) departures.Snapshot {
	return s.Update(func(current departures.Snapshot) departures.Snapshot {
		return current.With(state)
	})
}
