package departures

import (
	"encoding/json"
	"maps"
	"time"

	"golang.org/x/exp/slices"
)

// Snapshot is the state of every successfully fetched stop at the end of one refresh cycle.
// It is never modified once built, derived snapshots are copies.
type Snapshot struct {
	cycleID   string
	createdAt time.Time
	stops     map[string]*StopState
}

func NewSnapshot(cycleID string, createdAt time.Time, states []*StopState) Snapshot {
	stops := make(map[string]*StopState, len(states))
	for _, state := range states {
		if state != nil {
			stops[state.StopID] = state
		}
	}

	return Snapshot{
		cycleID:   cycleID,
		createdAt: createdAt,
		stops:     stops,
	}
}

func (s Snapshot) CycleID() string {
	return s.cycleID
}

func (s Snapshot) CreatedAt() time.Time {
	return s.createdAt
}

func (s Snapshot) Len() int {
	return len(s.stops)
}

// Get returns the state of a stop. A missing stop has no data yet.
func (s Snapshot) Get(stopID string) (*StopState, bool) {
	state, ok := s.stops[stopID]
	return state, ok
}

// StopIDs returns the identifiers present in the snapshot, sorted
func (s Snapshot) StopIDs() []string {
	stopIDs := make([]string, 0, len(s.stops))
	for stopID := range s.stops {
		stopIDs = append(stopIDs, stopID)
	}
	slices.Sort(stopIDs)

	return stopIDs
}

// Stops returns the stop states ordered by identifier
func (s Snapshot) Stops() []*StopState {
	states := make([]*StopState, 0, len(s.stops))
	for _, stopID := range s.StopIDs() {
		states = append(states, s.stops[stopID])
	}

	return states
}

// With returns a copy of the snapshot where the given stop state replaces any previous state of that stop
func (s Snapshot) With(state *StopState) Snapshot {
	stops := maps.Clone(s.stops)
	if stops == nil {
		stops = map[string]*StopState{}
	}
	stops[state.StopID] = state

	return Snapshot{
		cycleID:   s.cycleID,
		createdAt: s.createdAt,
		stops:     stops,
	}
}

type snapshotRecord struct {
	CycleID   string       `json:"cycle_id"`
	CreatedAt time.Time    `json:"created_at"`
	Stops     []*StopState `json:"stops"`
}

func (s Snapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(snapshotRecord{
		CycleID:   s.cycleID,
		CreatedAt: s.createdAt,
		Stops:     s.Stops(),
	})
}

func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var record snapshotRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return err
	}

	*s = NewSnapshot(record.CycleID, record.CreatedAt, record.Stops)

	return nil
}
