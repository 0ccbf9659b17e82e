package departures

import "time"

// ResolveOffset turns an offset from the start of now's local day into an absolute instant.
// Wall clock times that do not exist or exist twice in now's location resolve to now.
func ResolveOffset(now time.Time, offsetSeconds int64) time.Time {
	location := now.Location()

	// Naive wall clock arithmetic, the same way the schedule source counts seconds past midnight
	wallClock := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).
		Add(time.Duration(offsetSeconds) * time.Second)

	var candidates []time.Time
	for _, probe := range []time.Time{wallClock.Add(-24 * time.Hour), wallClock.Add(24 * time.Hour)} {
		_, zoneOffset := time.Unix(probe.Unix(), 0).In(location).Zone()
		candidate := time.Unix(wallClock.Unix()-int64(zoneOffset), 0).In(location)

		if !sameWallClock(candidate, wallClock) {
			continue
		}
		if len(candidates) == 1 && candidates[0].Equal(candidate) {
			continue
		}

		candidates = append(candidates, candidate)
	}

	if len(candidates) != 1 {
		return now
	}

	return candidates[0]
}

func sameWallClock(t time.Time, wallClock time.Time) bool {
	return t.Year() == wallClock.Year() &&
		t.YearDay() == wallClock.YearDay() &&
		t.Hour() == wallClock.Hour() &&
		t.Minute() == wallClock.Minute() &&
		t.Second() == wallClock.Second()
}
