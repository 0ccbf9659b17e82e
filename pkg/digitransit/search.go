package digitransit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// SearchResultSize is the number of stops returned by a search
const SearchResultSize = 10

// Boundary limits geocoding searches to a rectangle
type Boundary struct {
	MinLatitude  float64
	MaxLatitude  float64
	MinLongitude float64
	MaxLongitude float64
}

var TampereBoundary = Boundary{
	MinLatitude:  61.4,
	MaxLatitude:  61.6,
	MinLongitude: 23.5,
	MaxLongitude: 24.0,
}

func (b Boundary) IsZero() bool {
	return b == Boundary{}
}

type SearchResult struct {
	Name  string `json:"name"`
	Label string `json:"label"`

	// GTFSID is the raw identifier of the geocoding feature, see CleanStopID
	GTFSID string `json:"gtfs_id"`
	Code   string `json:"code"`
}

// StopID returns the routing API identifier of the result
func (s SearchResult) StopID() string {
	return CleanStopID(s.GTFSID)
}

type geocodingResponse struct {
	Features []struct {
		Properties struct {
			Name     string  `json:"name"`
			Label    string  `json:"label"`
			ID       *string `json:"id"`
			Addendum *struct {
				GTFS *struct {
					Code *string `json:"code"`
				} `json:"GTFS"`
			} `json:"addendum"`
		} `json:"properties"`
	} `json:"features"`
}

// SearchStops looks up stops matching text within the search boundary
func (c *Client) SearchStops(ctx context.Context, text string) ([]SearchResult, error) {
	requestURL, err := url.Parse(c.GeocodingURL)
	if err != nil {
		return nil, err
	}

	query := requestURL.Query()
	query.Set("text", text)
	query.Set("size", strconv.Itoa(SearchResultSize))
	query.Set("layers", "stop")

	if !c.SearchBoundary.IsZero() {
		query.Set("boundary.rect.min_lat", formatCoordinate(c.SearchBoundary.MinLatitude))
		query.Set("boundary.rect.max_lat", formatCoordinate(c.SearchBoundary.MaxLatitude))
		query.Set("boundary.rect.min_lon", formatCoordinate(c.SearchBoundary.MinLongitude))
		query.Set("boundary.rect.max_lon", formatCoordinate(c.SearchBoundary.MaxLongitude))
	}
	requestURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL.String(), nil)
	if err != nil {
		return nil, err
	}

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	return decodeGeocodingResponse(body)
}

func decodeGeocodingResponse(body []byte) ([]SearchResult, error) {
	var response geocodingResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	results := make([]SearchResult, 0, len(response.Features))
	for _, feature := range response.Features {
		properties := feature.Properties

		result := SearchResult{
			Name:  properties.Name,
			Label: properties.Label,
		}
		if properties.ID != nil {
			result.GTFSID = *properties.ID
		}
		if properties.Addendum != nil && properties.Addendum.GTFS != nil && properties.Addendum.GTFS.Code != nil {
			result.Code = *properties.Addendum.GTFS.Code
		}

		results = append(results, result)
	}

	return results, nil
}

// CleanStopID turns a geocoding feature id like "GTFS:tampere:0835#0835" into "tampere:0835"
func CleanStopID(rawID string) string {
	stopID := strings.ReplaceAll(rawID, "GTFS:", "")
	stopID, _, _ = strings.Cut(stopID, "#")

	return stopID
}

func formatCoordinate(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
