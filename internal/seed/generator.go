// Package seed produces the Colombo route catalog and synthetic
// historical traffic records for demo and development environments.
package seed

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/routecast/routecast/internal/traffic"
)

// Catalog returns the fixed Maharagama to Town Hall route set.
func Catalog() []traffic.Route {
	origin, destination := "Maharagama", "Town Hall, Colombo"
	return []traffic.Route{
		{Name: "High Level Road", Origin: origin, Destination: destination, DistanceKM: 12.5, TypicalSpeedKMH: 35, RouteType: "main"},
		{Name: "Low Level Road", Origin: origin, Destination: destination, DistanceKM: 14.2, TypicalSpeedKMH: 30, RouteType: "main", FloodProne: true},
		{Name: "Baseline Road", Origin: origin, Destination: destination, DistanceKM: 13.8, TypicalSpeedKMH: 32, RouteType: "main"},
		{Name: "Galle Road", Origin: origin, Destination: destination, DistanceKM: 15.1, TypicalSpeedKMH: 28, RouteType: "main"},
		{Name: "Marine Drive", Origin: origin, Destination: destination, DistanceKM: 16.3, TypicalSpeedKMH: 25, RouteType: "scenic", FloodProne: true},
		{Name: "Other Roads", Origin: origin, Destination: destination, DistanceKM: 11.8, TypicalSpeedKMH: 20, RouteType: "minor"},
	}
}

// GeneratorConfig tunes the synthetic record generator.
type GeneratorConfig struct {
	// Seed fixes the random source so generated data is reproducible.
	Seed int64

	// DaysBack is the span of history to synthesize. Default 90.
	DaysBack int

	// RecordsPerRouteDay caps records per route per day. Default 16.
	RecordsPerRouteDay int

	// Now anchors the history window, mainly for tests.
	Now func() time.Time
}

// Generator synthesizes traffic records with Colombo rush-hour and
// monsoon patterns.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// NewGenerator creates a record generator.
func NewGenerator(cfg GeneratorConfig) *Generator {
	if cfg.DaysBack <= 0 {
		cfg.DaysBack = 90
	}
	if cfg.RecordsPerRouteDay <= 0 {
		cfg.RecordsPerRouteDay = 16
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

// recordableHours are the commute-relevant observation slots.
var recordableHours = []int{6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21}

// Records synthesizes the history for every route in the catalog.
func (g *Generator) Records(routes []traffic.Route) []traffic.Record {
	start := g.cfg.Now().AddDate(0, 0, -g.cfg.DaysBack)

	var records []traffic.Record
	for _, route := range routes {
		for day := 0; day < g.cfg.DaysBack; day++ {
			date := start.AddDate(0, 0, day)
			for _, hour := range g.sampleHours() {
				records = append(records, g.record(route, date, hour))
			}
		}
	}
	return records
}

// sampleHours picks the day's observation slots without replacement.
func (g *Generator) sampleHours() []int {
	count := g.cfg.RecordsPerRouteDay
	if count > len(recordableHours) {
		count = len(recordableHours)
	}
	hours := make([]int, len(recordableHours))
	copy(hours, recordableHours)
	g.rng.Shuffle(len(hours), func(i, j int) {
		hours[i], hours[j] = hours[j], hours[i]
	})
	return hours[:count]
}

func (g *Generator) record(route traffic.Route, date time.Time, hour int) traffic.Record {
	weekday := date.Weekday()
	dayType := traffic.DayTypeWeekday
	if weekday == time.Saturday || weekday == time.Sunday {
		dayType = traffic.DayTypeWeekend
	}

	base := route.NominalMinutes()
	multiplier := g.timeMultiplier(hour)
	if dayType == traffic.DayTypeWeekend {
		multiplier *= 0.75
	}

	weather := g.sampleWeather(date.Month())
	switch weather {
	case traffic.WeatherHeavyRain:
		multiplier *= 1.3 + g.rng.Float64()*0.3
		if route.FloodProne {
			multiplier *= 1.2
		}
	case traffic.WeatherRain:
		multiplier *= 1.15 + g.rng.Float64()*0.15
	case traffic.WeatherFog:
		multiplier *= 1.05 + g.rng.Float64()*0.1
	}

	switch route.RouteType {
	case "minor":
		multiplier *= 1.15
	case "highway":
		multiplier *= 0.85
	}

	minutes := int(base * multiplier)
	if minutes < 5 {
		minutes = 5
	}

	recordedAt := time.Date(date.Year(), date.Month(), date.Day(), hour, g.rng.Intn(60), 0, 0, date.Location())

	return traffic.Record{
		ID:                "rec_" + uuid.NewString(),
		RouteName:         route.Name,
		TravelTimeMinutes: minutes,
		Hour:              hour,
		DayType:           dayType,
		Weather:           weather,
		Season:            traffic.SeasonForDate(recordedAt),
		RecordedAt:        recordedAt,
	}
}

// timeMultiplier models the Colombo congestion curve.
func (g *Generator) timeMultiplier(hour int) float64 {
	switch {
	case hour >= 7 && hour <= 9:
		return 1.6 + g.rng.Float64()*0.6
	case hour >= 17 && hour <= 19:
		return 1.7 + g.rng.Float64()*0.6
	case hour >= 10 && hour <= 16:
		return 1.1 + g.rng.Float64()*0.3
	default:
		return 0.85 + g.rng.Float64()*0.25
	}
}

// sampleWeather draws a condition from the month's seasonal mix.
func (g *Generator) sampleWeather(month time.Month) traffic.Weather {
	roll := g.rng.Float64()
	if month >= time.May {
		// Monsoon months rain roughly four days in ten.
		switch {
		case roll < 0.55:
			return traffic.WeatherClear
		case roll < 0.85:
			return traffic.WeatherRain
		case roll < 0.95:
			return traffic.WeatherHeavyRain
		default:
			return traffic.WeatherFog
		}
	}
	switch {
	case roll < 0.75:
		return traffic.WeatherClear
	case roll < 0.92:
		return traffic.WeatherRain
	case roll < 0.97:
		return traffic.WeatherHeavyRain
	default:
		return traffic.WeatherFog
	}
}
