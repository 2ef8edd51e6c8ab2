package prediction

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/routecast/routecast/internal/traffic"
)

// RouteAnalytics summarizes the historical record set of one route.
type RouteAnalytics struct {
	RouteName         string
	AverageMinutes    float64
	MinMinutes        int
	MaxMinutes        int
	PeakAverage       float64
	OffPeakAverage    float64
	WeekendAverage    float64
	WetWeatherAverage float64
	TotalRecords      int
	// Variability is the min-max spread as a percentage of the average.
	Variability float64
}

// Analyzer computes aggregate statistics over the record store.
type Analyzer struct {
	repo traffic.Repository
	cfg  Config
}

// NewAnalyzer creates a route analytics service.
func NewAnalyzer(repo traffic.Repository, cfg Config) *Analyzer {
	return &Analyzer{repo: repo, cfg: cfg}
}

// RouteAnalytics aggregates every record of the named route. A route with
// no records yields zeroed analytics, not an error.
func (a *Analyzer) RouteAnalytics(ctx context.Context, routeName string) (*RouteAnalytics, error) {
	route, err := a.repo.GetRoute(ctx, routeName)
	if err != nil {
		return nil, err
	}

	records, err := a.repo.FindRecords(ctx, routeName, traffic.Filters{})
	if err != nil {
		return nil, fmt.Errorf("find records: %w", err)
	}

	analytics := &RouteAnalytics{RouteName: route.Name, TotalRecords: len(records)}
	if len(records) == 0 {
		return analytics, nil
	}

	all := make([]float64, 0, len(records))
	var peak, offPeak, weekend, wet []float64

	analytics.MinMinutes = records[0].TravelTimeMinutes
	analytics.MaxMinutes = records[0].TravelTimeMinutes

	for _, rec := range records {
		minutes := float64(rec.TravelTimeMinutes)
		all = append(all, minutes)

		if rec.TravelTimeMinutes < analytics.MinMinutes {
			analytics.MinMinutes = rec.TravelTimeMinutes
		}
		if rec.TravelTimeMinutes > analytics.MaxMinutes {
			analytics.MaxMinutes = rec.TravelTimeMinutes
		}

		if a.cfg.isRushHour(rec.Hour, rec.DayType) {
			peak = append(peak, minutes)
		} else {
			offPeak = append(offPeak, minutes)
		}
		if rec.DayType == traffic.DayTypeWeekend {
			weekend = append(weekend, minutes)
		}
		if rec.Weather == traffic.WeatherRain || rec.Weather == traffic.WeatherHeavyRain {
			wet = append(wet, minutes)
		}
	}

	analytics.AverageMinutes = stat.Mean(all, nil)
	analytics.PeakAverage = meanOrZero(peak)
	analytics.OffPeakAverage = meanOrZero(offPeak)
	analytics.WeekendAverage = meanOrZero(weekend)
	analytics.WetWeatherAverage = meanOrZero(wet)
	if analytics.AverageMinutes > 0 {
		analytics.Variability = float64(analytics.MaxMinutes-analytics.MinMinutes) / analytics.AverageMinutes * 100
	}

	return analytics, nil
}

func meanOrZero(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}
