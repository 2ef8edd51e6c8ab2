package prediction

import (
	"errors"
	"fmt"

	"github.com/routecast/routecast/internal/traffic"
)

// Estimation errors.
var (
	// ErrInvalidWindow is returned by the optimizer for a non-positive
	// search window.
	ErrInvalidWindow = errors.New("optimization window must be positive")
)

// InvalidInputError reports an out-of-range or unrecognized request field.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Request asks for a travel-time prediction under specific conditions.
type Request struct {
	RouteName string
	DayType   traffic.DayType
	Hour      int
	Weather   traffic.Weather
	Season    traffic.Season
}

// Conditions are request parameters without a route, applied to every known
// route during comparison.
type Conditions struct {
	DayType traffic.DayType
	Hour    int
	Weather traffic.Weather
	Season  traffic.Season
}

// Result is a point estimate with its supporting evidence.
type Result struct {
	RouteName        string
	PredictedMinutes int
	Confidence       float64
	Factors          []string
	SampleSize       int
	Tier             Tier
}

// Comparison ranks every known route under identical conditions.
type Comparison struct {
	Conditions      Conditions
	BestRoute       string
	Predictions     []Result
	Recommendations []string
}

// Candidate is one evaluated departure time.
type Candidate struct {
	DepartureTime string
	ArrivalTime   string
	TravelMinutes int
	BufferMinutes int
	Confidence    float64

	departureMinutes int
}

// OptimizationResult is the outcome of a departure-time search.
type OptimizationResult struct {
	RouteName     string
	TargetArrival string
	DepartureTime string
	ArrivalTime   string
	TravelMinutes int
	BufferMinutes int
	// Feasible is false when no candidate in the window arrives on time;
	// the returned candidate is then the least-late option.
	Feasible     bool
	Alternatives []Candidate
}

func validateCommon(hour int, day traffic.DayType, weather traffic.Weather, season traffic.Season) error {
	if hour < 0 || hour > 23 {
		return &InvalidInputError{Field: "hour", Reason: fmt.Sprintf("%d is outside 0-23", hour)}
	}
	if !day.Valid() {
		return &InvalidInputError{Field: "day_type", Reason: fmt.Sprintf("unknown value %q", day)}
	}
	if !weather.Valid() {
		return &InvalidInputError{Field: "weather", Reason: fmt.Sprintf("unknown value %q", weather)}
	}
	if !season.Valid() {
		return &InvalidInputError{Field: "season", Reason: fmt.Sprintf("unknown value %q", season)}
	}
	return nil
}

// Validate checks the request fields are in range.
func (r Request) Validate() error {
	if r.RouteName == "" {
		return &InvalidInputError{Field: "route_name", Reason: "is required"}
	}
	return validateCommon(r.Hour, r.DayType, r.Weather, r.Season)
}

// Validate checks the condition fields are in range.
func (c Conditions) Validate() error {
	return validateCommon(c.Hour, c.DayType, c.Weather, c.Season)
}
