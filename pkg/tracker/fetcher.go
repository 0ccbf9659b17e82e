package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/stopwatch/pkg/departures"
)

// ScheduleSource answers the schedule of a single stop
type ScheduleSource interface {
	StopDepartures(ctx context.Context, stopID string, count int) (*departures.StopSchedule, error)
}

type Fetcher struct {
	Source ScheduleSource

	// Clock returns the evaluation instant of a fetch, defaults to time.Now
	Clock func() time.Time
}

func (f *Fetcher) now() time.Time {
	if f.Clock == nil {
		return time.Now()
	}

	return f.Clock()
}

// Fetch retrieves and normalizes the departures of one stop.
// Any failure is returned as an error without a partial state.
func (f *Fetcher) Fetch(ctx context.Context, stop departures.StopConfig) (*departures.StopState, error) {
	schedule, err := f.Source.StopDepartures(ctx, stop.StopID, departures.RequestedDepartures)
	if err != nil {
		return nil, fmt.Errorf("fetch stop %s: %w", stop.StopID, err)
	}
	if schedule == nil {
		return nil, fmt.Errorf("fetch stop %s: empty response", stop.StopID)
	}

	// One instant for filtering, remaining time and last refreshed
	now := f.now()
	state := departures.NewStopState(stop, schedule, now)

	log.Debug().
		Str("stop", stop.StopID).
		Str("lines", stop.Accept.String()).
		Int("raw", len(schedule.Departures)).
		Int("departures", len(state.Departures)).
		Msg("Fetched stop")

	return state, nil
}
