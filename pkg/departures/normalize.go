package departures

import (
	"time"

	"golang.org/x/exp/slices"
)

// ClockFormat is the layout departure times are displayed with
const ClockFormat = "15:04"

// Normalize filters the raw schedule entries of a stop down to the accepted lines that have not yet
// departed at now, soonest first and bounded to MaxDepartures.
func Normalize(raw []RawDeparture, accept AcceptSet, now time.Time) []Departure {
	departures := []Departure{}

	for _, entry := range raw {
		if !accept.Accepts(entry.Line) {
			continue
		}

		departureTime := ResolveOffset(now, entry.EffectiveOffset())

		secondsRemaining := int64(departureTime.Sub(now) / time.Second)
		if secondsRemaining < 0 {
			continue
		}

		departures = append(departures, Departure{
			Line:             entry.Line,
			Destination:      entry.Destination,
			Time:             departureTime.Format(ClockFormat),
			MinutesRemaining: secondsRemaining / 60,
			SecondsRemaining: secondsRemaining,
			Realtime:         entry.Realtime,
		})
	}

	slices.SortStableFunc(departures, func(a, b Departure) int {
		switch {
		case a.SecondsRemaining < b.SecondsRemaining:
			return -1
		case a.SecondsRemaining > b.SecondsRemaining:
			return 1
		default:
			return 0
		}
	})

	if len(departures) > MaxDepartures {
		departures = departures[:MaxDepartures]
	}

	return departures
}

// NewStopState packages a normalized schedule as the current state of a stop
func NewStopState(stop StopConfig, schedule *StopSchedule, now time.Time) *StopState {
	return &StopState{
		StopID:        stop.StopID,
		StopName:      schedule.Name,
		Latitude:      schedule.Latitude,
		Longitude:     schedule.Longitude,
		Departures:    Normalize(schedule.Departures, stop.Accept, now),
		LastRefreshed: now,
	}
}
