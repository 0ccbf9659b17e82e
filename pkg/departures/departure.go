package departures

import "time"

// MaxDepartures is the number of departures kept per stop
const MaxDepartures = 5

// RequestedDepartures is how many upcoming schedule entries are asked for per stop
const RequestedDepartures = 20

type RawDeparture struct {
	Line        string
	Destination string

	Realtime        bool
	RealtimeOffset  int64
	ScheduledOffset int64
}

// EffectiveOffset is the offset from local midnight, in seconds, that the departure should be displayed with
func (r RawDeparture) EffectiveOffset() int64 {
	if r.Realtime {
		return r.RealtimeOffset
	}

	return r.ScheduledOffset
}

type Departure struct {
	Line        string `groups:"basic,detailed" json:"line"`
	Destination string `groups:"basic,detailed" json:"destination"`

	Time             string `groups:"basic,detailed" json:"time"`
	MinutesRemaining int64  `groups:"basic,detailed" json:"minutes_remaining"`
	SecondsRemaining int64  `groups:"detailed" json:"seconds_remaining"`

	Realtime bool `groups:"basic,detailed" json:"realtime"`
}

// StopSchedule is the raw response of the schedule source for a single stop
type StopSchedule struct {
	Name      string
	Latitude  float64
	Longitude float64

	Departures []RawDeparture
}

type StopState struct {
	StopID    string  `groups:"basic,detailed" json:"stop_id"`
	StopName  string  `groups:"basic,detailed" json:"stop_name"`
	Latitude  float64 `groups:"basic,detailed" json:"latitude"`
	Longitude float64 `groups:"basic,detailed" json:"longitude"`

	Departures []Departure `groups:"detailed" json:"departures"`

	LastRefreshed time.Time `groups:"basic,detailed" json:"last_refreshed"`
}

// NextDeparture returns the soonest departure of the stop, if there is one
func (s *StopState) NextDeparture() (Departure, bool) {
	if len(s.Departures) == 0 {
		return Departure{}, false
	}

	return s.Departures[0], true
}

// StopCode is the agency part of the stop identifier, eg "0835" for "tampere:0835"
func (s *StopState) StopCode() string {
	return StopCode(s.StopID)
}
