package prediction

import (
	"context"
	"fmt"
	"sort"

	"github.com/routecast/routecast/internal/traffic"
)

// Comparator ranks all known routes under identical conditions.
type Comparator struct {
	engine *Engine
	repo   traffic.Repository
}

// NewComparator creates a route comparator sharing the engine's record store.
func NewComparator(engine *Engine, repo traffic.Repository) *Comparator {
	return &Comparator{engine: engine, repo: repo}
}

// Compare predicts travel time for every known route under the given
// conditions and ranks them. Routes with no records participate via the
// engine's nominal fallback; output order is deterministic.
func (c *Comparator) Compare(ctx context.Context, cond Conditions) (*Comparison, error) {
	if err := cond.Validate(); err != nil {
		return nil, err
	}

	routes, err := c.repo.ListRoutes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}

	predictions := make([]Result, 0, len(routes))
	for _, route := range routes {
		result, err := c.engine.Predict(ctx, Request{
			RouteName: route.Name,
			DayType:   cond.DayType,
			Hour:      cond.Hour,
			Weather:   cond.Weather,
			Season:    cond.Season,
		})
		if err != nil {
			return nil, fmt.Errorf("predict %s: %w", route.Name, err)
		}
		predictions = append(predictions, *result)
	}

	// Ascending minutes; ties by higher confidence, then lexical route name.
	sort.SliceStable(predictions, func(i, j int) bool {
		if predictions[i].PredictedMinutes != predictions[j].PredictedMinutes {
			return predictions[i].PredictedMinutes < predictions[j].PredictedMinutes
		}
		if predictions[i].Confidence != predictions[j].Confidence {
			return predictions[i].Confidence > predictions[j].Confidence
		}
		return predictions[i].RouteName < predictions[j].RouteName
	})

	var best string
	if len(predictions) > 0 {
		best = predictions[0].RouteName
	}

	return &Comparison{
		Conditions:      cond,
		BestRoute:       best,
		Predictions:     predictions,
		Recommendations: c.recommendations(cond, predictions),
	}, nil
}

// recommendations derives textual hints from the conditions and ranking.
func (c *Comparator) recommendations(cond Conditions, predictions []Result) []string {
	if len(predictions) == 0 {
		return []string{"no routes available"}
	}

	var recs []string

	if c.engine.Config().isRushHour(cond.Hour, cond.DayType) {
		recs = append(recs, "rush hour window - consider leaving earlier to avoid the peak")
	}

	switch cond.Weather {
	case traffic.WeatherRain, traffic.WeatherHeavyRain:
		recs = append(recs, "wet weather - drive carefully and allow extra time")
	case traffic.WeatherFog:
		recs = append(recs, "reduced visibility - allow extra time")
	}

	if cond.DayType == traffic.DayTypeWeekend {
		recs = append(recs, "weekend travel - traffic is generally lighter")
	}

	best := predictions[0]
	recs = append(recs, fmt.Sprintf("best route: %s (%d minutes)", best.RouteName, best.PredictedMinutes))

	if len(predictions) > 1 {
		second := predictions[1]
		diff := second.PredictedMinutes - best.PredictedMinutes
		recs = append(recs, fmt.Sprintf("alternative: %s (+%d minutes)", second.RouteName, diff))
	}

	return recs
}
