package tracker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/stopwatch/pkg/departures"
	"golang.org/x/exp/slices"
)

var ErrNoRefreshRate = errors.New("refresh rate must be positive")

// Publisher receives every snapshot after it has been installed
type Publisher interface {
	Publish(ctx context.Context, snapshot departures.Snapshot) error
}

type Tracker struct {
	Orchestrator *Orchestrator
	Store        *Store
	RefreshRate  time.Duration
	Publishers   []Publisher

	stops        *stopRegistry
	publishMutex sync.Mutex
}

func NewTracker(source ScheduleSource, stops []departures.StopConfig, refreshRate time.Duration) *Tracker {
	return &Tracker{
		Orchestrator: &Orchestrator{
			Fetcher: &Fetcher{Source: source},
		},
		Store:       NewStore(),
		RefreshRate: refreshRate,
		stops:       newStopRegistry(stops),
	}
}

// Run refreshes every tracked stop until ctx is done, suspending for RefreshRate
// after each snapshot is installed
func (t *Tracker) Run(ctx context.Context) error {
	if t.RefreshRate <= 0 {
		return ErrNoRefreshRate
	}

	log.Info().
		Int("stops", len(t.Stops())).
		Dur("refreshrate", t.RefreshRate).
		Msg("Starting departure tracker")

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Stopping departure tracker")
			return nil
		case <-timer.C:
		}

		t.Refresh(ctx)

		timer.Reset(t.RefreshRate)
	}
}

// Refresh runs a single cycle and installs its snapshot
func (t *Tracker) Refresh(ctx context.Context) departures.Snapshot {
	cycleStops := t.Stops()
	collected := t.Orchestrator.Collect(ctx, cycleStops)

	snapshot := t.Store.Update(func(current departures.Snapshot) departures.Snapshot {
		next := collected

		// Stops tracked while the cycle was running keep their on-demand state
		for _, stop := range t.Stops() {
			if containsStop(cycleStops, stop.StopID) {
				continue
			}
			if state, ok := current.Get(stop.StopID); ok {
				next = next.With(state)
			}
		}

		return next
	})

	t.publish(ctx)

	return snapshot
}

// Track fetches a stop outside of the refresh cycle, merges it into the store,
// and keeps it in the set of stops refreshed by later cycles. A stop that fails
// its first fetch is not tracked.
func (t *Tracker) Track(ctx context.Context, stop departures.StopConfig) (*departures.StopState, error) {
	state, err := t.Orchestrator.Fetcher.Fetch(ctx, stop)
	if err != nil {
		log.Warn().Err(err).Str("stop", stop.StopID).Msg("Failed to fetch newly tracked stop")
		return nil, err
	}

	t.stops.add(stop)

	log.Info().
		Str("stop", stop.StopID).
		Str("lines", stop.Accept.String()).
		Msg("Tracking new stop")

	t.Store.Merge(state)
	t.publish(ctx)

	return state, nil
}

func (t *Tracker) Snapshot() departures.Snapshot {
	return t.Store.Snapshot()
}

// CurrentSnapshot lets the tracker serve readers that expect a fallible source
func (t *Tracker) CurrentSnapshot(context.Context) (departures.Snapshot, error) {
	return t.Store.Snapshot(), nil
}

// Stops returns the tracked stops in the order they were added
func (t *Tracker) Stops() []departures.StopConfig {
	return t.stops.list()
}

// publish hands the installed snapshot to every publisher. Publishing is serialized and reads
// the store under the lock, so the last publish always carries the newest snapshot.
func (t *Tracker) publish(ctx context.Context) {
	t.publishMutex.Lock()
	defer t.publishMutex.Unlock()

	snapshot := t.Store.Snapshot()
	for _, publisher := range t.Publishers {
		if err := publisher.Publish(ctx, snapshot); err != nil {
			log.Error().Err(err).Str("cycle", snapshot.CycleID()).Msg("Failed to publish snapshot")
		}
	}
}

func containsStop(stops []departures.StopConfig, stopID string) bool {
	return slices.ContainsFunc(stops, func(stop departures.StopConfig) bool {
		return stop.StopID == stopID
	})
}
