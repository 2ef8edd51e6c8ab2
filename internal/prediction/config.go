// Package prediction implements the travel-time estimation core: the
// prediction engine, route comparator, departure optimizer, and route
// analytics. All operations are pure functions of their inputs and the
// record store contents.
package prediction

import (
	"fmt"

	"github.com/routecast/routecast/internal/traffic"
)

// Tier identifies how specific the historical records backing an estimate
// were. More specific tiers produce higher-confidence estimates.
type Tier string

const (
	// TierExact matched hour, day type, weather, and season.
	TierExact Tier = "exact_conditions"
	// TierHourDay matched hour and day type only.
	TierHourDay Tier = "hour_day_type"
	// TierDayType matched day type only.
	TierDayType Tier = "day_type"
	// TierRoute used every record on the route.
	TierRoute Tier = "route_wide"
	// TierNominal used no records at all; the estimate came from route
	// distance and typical speed.
	TierNominal Tier = "nominal"
)

// Config collects every tuning constant the estimation core uses. A single
// explicit structure keeps the constants overridable in tests and validated
// once at startup.
type Config struct {
	// Rush-hour windows, inclusive hour ranges on weekdays.
	RushMorningStart int
	RushMorningEnd   int
	RushEveningStart int
	RushEveningEnd   int

	// RushHourMultiplier is applied when the departure hour falls in a rush
	// window on a weekday and the selected tier did not match on hour.
	RushHourMultiplier float64

	// WeatherMultipliers must cover every traffic.Weather value.
	WeatherMultipliers map[traffic.Weather]float64

	// SeasonMultipliers must cover every traffic.Season value. Monsoon
	// periods carry a smaller uplift than direct rain: they model background
	// risk, not observed rain.
	SeasonMultipliers map[traffic.Season]float64

	// MinimumMinutes floors every prediction.
	MinimumMinutes int

	// Confidence shaping.
	MaxConfidence         float64
	FallbackConfidence    float64
	TierConfidence        map[Tier]float64
	SampleConfidenceBonus float64
	SampleConfidenceCap   float64

	// Departure optimizer.
	StepMinutes      int
	AlternativeCount int
}

// DefaultConfig returns the calibrated defaults for the Colombo network.
func DefaultConfig() Config {
	return Config{
		RushMorningStart:   7,
		RushMorningEnd:     9,
		RushEveningStart:   17,
		RushEveningEnd:     19,
		RushHourMultiplier: 1.5,
		WeatherMultipliers: map[traffic.Weather]float64{
			traffic.WeatherClear:     1.0,
			traffic.WeatherRain:      1.25,
			traffic.WeatherHeavyRain: 1.45,
			traffic.WeatherFog:       1.15,
		},
		SeasonMultipliers: map[traffic.Season]float64{
			traffic.SeasonRegular:          1.0,
			traffic.SeasonMonsoonSouthwest: 1.10,
			traffic.SeasonMonsoonNortheast: 1.08,
			traffic.SeasonInterMonsoon:     1.04,
		},
		MinimumMinutes:     5,
		MaxConfidence:      0.90,
		FallbackConfidence: 0.20,
		TierConfidence: map[Tier]float64{
			TierExact:   0.60,
			TierHourDay: 0.45,
			TierDayType: 0.35,
			TierRoute:   0.25,
		},
		SampleConfidenceBonus: 0.02,
		SampleConfidenceCap:   0.25,
		StepMinutes:           5,
		AlternativeCount:      4,
	}
}

// Validate checks the configuration is internally consistent and that every
// enum variant has a defined multiplier. Called once at engine construction;
// a missing variant is a programming error, not a runtime condition.
func (c Config) Validate() error {
	for _, w := range traffic.Weathers() {
		m, ok := c.WeatherMultipliers[w]
		if !ok {
			return fmt.Errorf("no weather multiplier defined for %q", w)
		}
		if m < 1.0 {
			return fmt.Errorf("weather multiplier for %q is %.2f, must be >= 1", w, m)
		}
	}
	for _, s := range traffic.Seasons() {
		m, ok := c.SeasonMultipliers[s]
		if !ok {
			return fmt.Errorf("no season multiplier defined for %q", s)
		}
		if m < 1.0 {
			return fmt.Errorf("season multiplier for %q is %.2f, must be >= 1", s, m)
		}
	}
	for _, tier := range []Tier{TierExact, TierHourDay, TierDayType, TierRoute} {
		if _, ok := c.TierConfidence[tier]; !ok {
			return fmt.Errorf("no tier confidence defined for %q", tier)
		}
	}
	if c.RushHourMultiplier < 1.0 {
		return fmt.Errorf("rush hour multiplier is %.2f, must be >= 1", c.RushHourMultiplier)
	}
	if c.MinimumMinutes < 1 {
		return fmt.Errorf("minimum minutes is %d, must be >= 1", c.MinimumMinutes)
	}
	if c.MaxConfidence <= 0 || c.MaxConfidence > 1 {
		return fmt.Errorf("max confidence is %.2f, must be in (0, 1]", c.MaxConfidence)
	}
	if c.FallbackConfidence < 0 || c.FallbackConfidence > c.MaxConfidence {
		return fmt.Errorf("fallback confidence is %.2f, must be in [0, max confidence]", c.FallbackConfidence)
	}
	if c.StepMinutes < 1 {
		return fmt.Errorf("step minutes is %d, must be >= 1", c.StepMinutes)
	}
	if c.AlternativeCount < 0 {
		return fmt.Errorf("alternative count is %d, must be >= 0", c.AlternativeCount)
	}
	return nil
}

// isRushHour reports whether the hour falls in a weekday rush window.
func (c Config) isRushHour(hour int, day traffic.DayType) bool {
	if day != traffic.DayTypeWeekday {
		return false
	}
	return (hour >= c.RushMorningStart && hour <= c.RushMorningEnd) ||
		(hour >= c.RushEveningStart && hour <= c.RushEveningEnd)
}
