package departures

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot(t *testing.T) {
	now := time.Now()
	snapshot := NewSnapshot("cycle-1", now, []*StopState{
		{StopID: "tampere:2"},
		nil,
		{StopID: "tampere:1"},
	})

	assert.Equal(t, "cycle-1", snapshot.CycleID())
	assert.Equal(t, now, snapshot.CreatedAt())
	assert.Equal(t, 2, snapshot.Len())
	assert.Equal(t, []string{"tampere:1", "tampere:2"}, snapshot.StopIDs())

	_, ok := snapshot.Get("tampere:3")
	assert.False(t, ok)

	stops := snapshot.Stops()
	require.Len(t, stops, 2)
	assert.Equal(t, "tampere:1", stops[0].StopID)
}

func TestSnapshotWithLeavesBaseUntouched(t *testing.T) {
	base := NewSnapshot("cycle-1", time.Now(), []*StopState{{StopID: "tampere:1", StopName: "old"}})

	derived := base.With(&StopState{StopID: "tampere:1", StopName: "new"})
	derived = derived.With(&StopState{StopID: "tampere:9"})

	state, _ := base.Get("tampere:1")
	assert.Equal(t, "old", state.StopName)
	assert.Equal(t, 1, base.Len())

	state, _ = derived.Get("tampere:1")
	assert.Equal(t, "new", state.StopName)
	assert.Equal(t, 2, derived.Len())
	assert.Equal(t, "cycle-1", derived.CycleID())
}

func TestZeroSnapshot(t *testing.T) {
	var snapshot Snapshot

	assert.Equal(t, 0, snapshot.Len())
	assert.Empty(t, snapshot.Stops())

	snapshot = snapshot.With(&StopState{StopID: "tampere:1"})
	assert.Equal(t, 1, snapshot.Len())
}

func TestSnapshotJSON(t *testing.T) {
	refreshed := time.Date(2026, time.June, 10, 12, 0, 0, 0, time.UTC)
	snapshot := NewSnapshot("cycle-7", refreshed, []*StopState{
		{
			StopID:        "tampere:0835",
			StopName:      "Keskustori H",
			Departures:    []Departure{{Line: "3", Time: "12:10", MinutesRemaining: 10, SecondsRemaining: 600}},
			LastRefreshed: refreshed,
		},
	})

	encoded, err := json.Marshal(snapshot)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"cycle_id":"cycle-7"`)

	var decoded Snapshot
	require.NoError(t, json.Unmarshal(encoded, &decoded))

	assert.Equal(t, "cycle-7", decoded.CycleID())
	assert.True(t, refreshed.Equal(decoded.CreatedAt()))
	state, ok := decoded.Get("tampere:0835")
	require.True(t, ok)
	assert.Equal(t, "Keskustori H", state.StopName)
	assert.Equal(t, int64(600), state.Departures[0].SecondsRemaining)
}
