package tracker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/travigo/stopwatch/pkg/departures"
)

type Orchestrator struct {
	Fetcher *Fetcher
}

// Collect fetches every stop concurrently and waits for all of them.
// The snapshot only holds the stops whose fetch succeeded.
func (o *Orchestrator) Collect(ctx context.Context, stops []departures.StopConfig) departures.Snapshot {
	startTime := time.Now()
	cycleID := uuid.NewString()

	p := pool.NewWithResults[*departures.StopState]()

	for _, stop := range stops {
		p.Go(func() *departures.StopState {
			state, err := o.Fetcher.Fetch(ctx, stop)
			if err != nil {
				log.Warn().
					Err(err).
					Str("cycle", cycleID).
					Str("stop", stop.StopID).
					Msg("Failed to fetch stop")
				return nil
			}

			return state
		})
	}

	snapshot := departures.NewSnapshot(cycleID, time.Now(), p.Wait())

	log.Info().
		Str("cycle", cycleID).
		Int("stops", len(stops)).
		Int("succeeded", snapshot.Len()).
		Int("failed", len(stops)-snapshot.Len()).
		Str("duration", time.Since(startTime).String()).
		Msg("Refreshed stops")

	return snapshot
}
