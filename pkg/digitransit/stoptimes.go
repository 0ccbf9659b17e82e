package digitransit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/travigo/stopwatch/pkg/departures"
)

const stopDeparturesQuery = `{
  stop(id: %s) {
    name
    lat
    lon
    stoptimesWithoutPatterns(numberOfDepartures: %d) {
      realtimeDeparture
      scheduledDeparture
      realtime
      trip { route { shortName } tripHeadsign }
    }
  }
}`

type graphQLRequest struct {
	Query string `json:"query"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type stopResponse struct {
	Data struct {
		Stop *stopRecord `json:"stop"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type stopRecord struct {
	Name      string           `json:"name"`
	Lat       float64          `json:"lat"`
	Lon       float64          `json:"lon"`
	StopTimes []stopTimeRecord `json:"stoptimesWithoutPatterns"`
}

type stopTimeRecord struct {
	RealtimeDeparture  int64 `json:"realtimeDeparture"`
	ScheduledDeparture int64 `json:"scheduledDeparture"`
	Realtime           bool  `json:"realtime"`
	Trip               struct {
		Route struct {
			ShortName string `json:"shortName"`
		} `json:"route"`
		Headsign string `json:"tripHeadsign"`
	} `json:"trip"`
}

// StopDepartures queries the name, location and next count schedule entries of a stop
func (c *Client) StopDepartures(ctx context.Context, stopID string, count int) (*departures.StopSchedule, error) {
	query := fmt.Sprintf(stopDeparturesQuery, strconv.Quote(stopID), count)

	body, err := c.postGraphQL(ctx, query)
	if err != nil {
		return nil, err
	}

	return decodeStopResponse(body)
}

func decodeStopResponse(body []byte) (*departures.StopSchedule, error) {
	var response stopResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode stop response: %w", err)
	}

	if response.Data.Stop == nil {
		if len(response.Errors) > 0 {
			return nil, fmt.Errorf("query failed: %w", errors.New(response.Errors[0].Message))
		}

		return nil, ErrStopNotFound
	}

	stop := response.Data.Stop
	schedule := &departures.StopSchedule{
		Name:       stop.Name,
		Latitude:   stop.Lat,
		Longitude:  stop.Lon,
		Departures: make([]departures.RawDeparture, 0, len(stop.StopTimes)),
	}

	for _, stopTime := range stop.StopTimes {
		schedule.Departures = append(schedule.Departures, departures.RawDeparture{
			Line:            stopTime.Trip.Route.ShortName,
			Destination:     stopTime.Trip.Headsign,
			Realtime:        stopTime.Realtime,
			RealtimeOffset:  stopTime.RealtimeDeparture,
			ScheduledOffset: stopTime.ScheduledDeparture,
		})
	}

	return schedule, nil
}
