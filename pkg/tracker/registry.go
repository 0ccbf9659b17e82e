package tracker

import (
	"sync"

	"github.com/travigo/stopwatch/pkg/departures"
	"golang.org/x/exp/slices"
)

type stopRegistry struct {
	mutex sync.Mutex
	stops []departures.StopConfig
}

func newStopRegistry(stops []departures.StopConfig) *stopRegistry {
	registry := &stopRegistry{}
	for _, stop := range stops {
		registry.add(stop)
	}

	return registry
}

// add registers a stop, replacing the accept-set of an already known stop
func (r *stopRegistry) add(stop departures.StopConfig) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	index := slices.IndexFunc(r.stops, func(existing departures.StopConfig) bool {
		return existing.StopID == stop.StopID
	})
	if index >= 0 {
		r.stops[index] = stop
		return
	}

	r.stops = append(r.stops, stop)
}

func (r *stopRegistry) list() []departures.StopConfig {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return slices.Clone(r.stops)
}
