package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/travigo/stopwatch/pkg/departures"
	"github.com/travigo/stopwatch/pkg/digitransit"
	"github.com/travigo/stopwatch/pkg/util"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "Settings.toml"
const DefaultTimezone = "Europe/Helsinki"
const DefaultRequestTimeout = 30

var ErrUnsupportedFormat = errors.New("unsupported settings format")

type Boundary struct {
	MinLatitude  float64 `toml:"min_lat" yaml:"min_lat" validate:"gte=-90,lte=90"`
	MaxLatitude  float64 `toml:"max_lat" yaml:"max_lat" validate:"gte=-90,lte=90,gtefield=MinLatitude"`
	MinLongitude float64 `toml:"min_lon" yaml:"min_lon" validate:"gte=-180,lte=180"`
	MaxLongitude float64 `toml:"max_lon" yaml:"max_lon" validate:"gte=-180,lte=180,gtefield=MinLongitude"`
}

type Settings struct {
	APIKey string `toml:"api_key" yaml:"api_key" validate:"required"`

	// UpdateInterval is the number of seconds between refresh cycles
	UpdateInterval int `toml:"update_interval" yaml:"update_interval" validate:"min=1"`

	Timezone string `toml:"timezone" yaml:"timezone" validate:"required"`

	RoutingURL     string    `toml:"routing_url" yaml:"routing_url" validate:"required,url"`
	GeocodingURL   string    `toml:"geocoding_url" yaml:"geocoding_url" validate:"required,url"`
	RequestTimeout int       `toml:"request_timeout" yaml:"request_timeout" validate:"min=1"`
	SearchBoundary *Boundary `toml:"search_boundary" yaml:"search_boundary"`

	Stops map[string][]string `toml:"stops" yaml:"stops" validate:"required,min=1,dive,keys,required,endkeys,min=1,dive,required"`
}

// Load reads the settings file at path, applies environment overrides and validates the result
func Load(path string) (*Settings, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	settings := &Settings{}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(contents, settings)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(contents, settings)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("decode settings %s: %w", path, err)
	}

	if err := settings.applyEnvironment(util.GetEnvironmentVariables()); err != nil {
		return nil, err
	}
	settings.applyDefaults()

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return settings, nil
}

func (s *Settings) applyEnvironment(env map[string]string) error {
	if env["STOPWATCH_API_KEY"] != "" {
		s.APIKey = env["STOPWATCH_API_KEY"]
	}

	if env["STOPWATCH_UPDATE_INTERVAL"] != "" {
		interval, err := strconv.Atoi(env["STOPWATCH_UPDATE_INTERVAL"])
		if err != nil {
			return fmt.Errorf("STOPWATCH_UPDATE_INTERVAL: %w", err)
		}
		s.UpdateInterval = interval
	}

	if env["STOPWATCH_TIMEZONE"] != "" {
		s.Timezone = env["STOPWATCH_TIMEZONE"]
	}

	return nil
}

func (s *Settings) applyDefaults() {
	if s.Timezone == "" {
		s.Timezone = DefaultTimezone
	}
	if s.RoutingURL == "" {
		s.RoutingURL = digitransit.DefaultRoutingURL
	}
	if s.GeocodingURL == "" {
		s.GeocodingURL = digitransit.DefaultGeocodingURL
	}
	if s.RequestTimeout == 0 {
		s.RequestTimeout = DefaultRequestTimeout
	}
	if s.SearchBoundary == nil {
		s.SearchBoundary = &Boundary{
			MinLatitude:  digitransit.TampereBoundary.MinLatitude,
			MaxLatitude:  digitransit.TampereBoundary.MaxLatitude,
			MinLongitude: digitransit.TampereBoundary.MinLongitude,
			MaxLongitude: digitransit.TampereBoundary.MaxLongitude,
		}
	}
}

func (s *Settings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	if _, err := time.LoadLocation(s.Timezone); err != nil {
		return fmt.Errorf("invalid settings: timezone %q: %w", s.Timezone, err)
	}

	return nil
}

func (s *Settings) RefreshRate() time.Duration {
	return time.Duration(s.UpdateInterval) * time.Second
}

func (s *Settings) Location() *time.Location {
	location, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.Local
	}

	return location
}

// UseLocation makes the configured timezone the process local time, which departure times are resolved in
func (s *Settings) UseLocation() {
	time.Local = s.Location()
}

// StopConfigs returns the configured stops ordered by identifier
func (s *Settings) StopConfigs() []departures.StopConfig {
	stopIDs := make([]string, 0, len(s.Stops))
	for stopID := range s.Stops {
		stopIDs = append(stopIDs, stopID)
	}
	slices.Sort(stopIDs)

	stops := make([]departures.StopConfig, 0, len(stopIDs))
	for _, stopID := range stopIDs {
		stops = append(stops, departures.StopConfig{
			StopID: stopID,
			Accept: departures.NewAcceptSet(s.Stops[stopID]),
		})
	}

	return stops
}

// DigitransitClient builds the API client described by the settings
func (s *Settings) DigitransitClient() *digitransit.Client {
	client := digitransit.NewClient(s.APIKey, time.Duration(s.RequestTimeout)*time.Second)
	client.RoutingURL = s.RoutingURL
	client.GeocodingURL = s.GeocodingURL

	if s.SearchBoundary != nil {
		client.SearchBoundary = digitransit.Boundary{
			MinLatitude:  s.SearchBoundary.MinLatitude,
			MaxLatitude:  s.SearchBoundary.MaxLatitude,
			MinLongitude: s.SearchBoundary.MinLongitude,
			MaxLongitude: s.SearchBoundary.MaxLongitude,
		}
	}

	return client
}
