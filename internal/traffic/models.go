// Package traffic provides the domain model and record store for
// historical commute travel-time observations on the Colombo route network.
package traffic

import (
	"errors"
	"fmt"
	"time"
)

// Repository errors.
var (
	ErrRouteNotFound = errors.New("route not found")
)

// DayType classifies a calendar day for matching purposes.
type DayType string

const (
	DayTypeWeekday DayType = "weekday"
	DayTypeWeekend DayType = "weekend"
)

// Valid reports whether the day type is a known value.
func (d DayType) Valid() bool {
	return d == DayTypeWeekday || d == DayTypeWeekend
}

// ParseDayType parses a day type string.
func ParseDayType(s string) (DayType, error) {
	d := DayType(s)
	if !d.Valid() {
		return "", fmt.Errorf("unknown day type %q", s)
	}
	return d, nil
}

// Weather represents the observed or assumed weather condition.
type Weather string

const (
	WeatherClear     Weather = "clear"
	WeatherRain      Weather = "rain"
	WeatherHeavyRain Weather = "heavy_rain"
	WeatherFog       Weather = "fog"
)

// Weathers lists every weather value in a fixed order.
func Weathers() []Weather {
	return []Weather{WeatherClear, WeatherRain, WeatherHeavyRain, WeatherFog}
}

// Valid reports whether the weather condition is a known value.
func (w Weather) Valid() bool {
	switch w {
	case WeatherClear, WeatherRain, WeatherHeavyRain, WeatherFog:
		return true
	}
	return false
}

// ParseWeather parses a weather condition string.
func ParseWeather(s string) (Weather, error) {
	w := Weather(s)
	if !w.Valid() {
		return "", fmt.Errorf("unknown weather condition %q", s)
	}
	return w, nil
}

// Season represents the Sri Lankan monsoon season bucket.
type Season string

const (
	SeasonRegular          Season = "regular"
	SeasonMonsoonSouthwest Season = "monsoon_southwest"
	SeasonMonsoonNortheast Season = "monsoon_northeast"
	SeasonInterMonsoon     Season = "inter_monsoon"
)

// Seasons lists every season value in a fixed order.
func Seasons() []Season {
	return []Season{SeasonRegular, SeasonMonsoonSouthwest, SeasonMonsoonNortheast, SeasonInterMonsoon}
}

// Valid reports whether the season is a known value.
func (s Season) Valid() bool {
	switch s {
	case SeasonRegular, SeasonMonsoonSouthwest, SeasonMonsoonNortheast, SeasonInterMonsoon:
		return true
	}
	return false
}

// ParseSeason parses a season string.
func ParseSeason(s string) (Season, error) {
	v := Season(s)
	if !v.Valid() {
		return "", fmt.Errorf("unknown season %q", s)
	}
	return v, nil
}

// Route is immutable reference data describing a named commute corridor.
type Route struct {
	Name            string
	Origin          string
	Destination     string
	DistanceKM      float64
	TypicalSpeedKMH float64
	RouteType       string
	FloodProne      bool
}

// NominalMinutes returns the free-flow travel time derived from distance
// and typical speed. Returns 0 when either field is unset.
func (r *Route) NominalMinutes() float64 {
	if r.DistanceKM <= 0 || r.TypicalSpeedKMH <= 0 {
		return 0
	}
	return r.DistanceKM / r.TypicalSpeedKMH * 60
}

// Record is a single historical travel-time observation. Records are
// append-only; once stored they are never mutated.
type Record struct {
	ID                string
	RouteName         string
	TravelTimeMinutes int
	Hour              int
	DayType           DayType
	Weather           Weather
	Season            Season
	RecordedAt        time.Time
}
