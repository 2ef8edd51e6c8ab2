package prediction

import (
	"context"
	"fmt"
	"sort"

	"github.com/routecast/routecast/internal/traffic"
)

// Optimizer searches a departure window for the tightest on-time arrival.
type Optimizer struct {
	engine *Engine
}

// NewOptimizer creates a departure-time optimizer on top of the engine.
func NewOptimizer(engine *Engine) *Optimizer {
	return &Optimizer{engine: engine}
}

// OptimizeDeparture evaluates candidate departure times at a fixed step
// within windowMinutes before the target arrival. The candidate with the
// smallest non-negative buffer wins; if every candidate arrives late the
// least-late one is returned with Feasible set to false rather than an
// error. Output is deterministic for identical inputs.
func (o *Optimizer) OptimizeDeparture(ctx context.Context, routeName string, targetArrivalHour int, day traffic.DayType, weather traffic.Weather, season traffic.Season, windowMinutes int) (*OptimizationResult, error) {
	if windowMinutes <= 0 {
		return nil, ErrInvalidWindow
	}
	if targetArrivalHour < 0 || targetArrivalHour > 23 {
		return nil, &InvalidInputError{Field: "target_arrival_hour", Reason: fmt.Sprintf("%d is outside 0-23", targetArrivalHour)}
	}
	if routeName == "" {
		return nil, &InvalidInputError{Field: "route_name", Reason: "is required"}
	}

	target := targetArrivalHour * 60
	step := o.engine.Config().StepMinutes

	candidates, err := o.evaluateWindow(ctx, routeName, target, windowMinutes, step, day, weather, season)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, &InvalidInputError{
			Field:  "window_minutes",
			Reason: "no candidate departure times fall on the same day",
		}
	}

	chosen := pick(candidates)

	alternatives := rankAlternatives(candidates, chosen, o.engine.Config().AlternativeCount)

	return &OptimizationResult{
		RouteName:     routeName,
		TargetArrival: clockTime(target),
		DepartureTime: chosen.DepartureTime,
		ArrivalTime:   chosen.ArrivalTime,
		TravelMinutes: chosen.TravelMinutes,
		BufferMinutes: chosen.BufferMinutes,
		Feasible:      chosen.BufferMinutes >= 0,
		Alternatives:  alternatives,
	}, nil
}

// evaluateWindow predicts travel time for each candidate departure slot.
// Candidates before midnight are skipped; the search stays within one day.
func (o *Optimizer) evaluateWindow(ctx context.Context, routeName string, target, windowMinutes, step int, day traffic.DayType, weather traffic.Weather, season traffic.Season) ([]Candidate, error) {
	var candidates []Candidate
	for offset := step; offset <= windowMinutes; offset += step {
		departure := target - offset
		if departure < 0 {
			break
		}

		result, err := o.engine.Predict(ctx, Request{
			RouteName: routeName,
			DayType:   day,
			Hour:      departure / 60,
			Weather:   weather,
			Season:    season,
		})
		if err != nil {
			return nil, err
		}

		arrival := departure + result.PredictedMinutes
		candidates = append(candidates, Candidate{
			DepartureTime:    clockTime(departure),
			ArrivalTime:      clockTime(arrival),
			TravelMinutes:    result.PredictedMinutes,
			BufferMinutes:    target - arrival,
			Confidence:       result.Confidence,
			departureMinutes: departure,
		})
	}
	return candidates, nil
}

// pick selects the candidate with the minimum non-negative buffer, or the
// least-negative buffer when nothing arrives on time.
func pick(candidates []Candidate) Candidate {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if better(c, best) {
			best = c
		}
	}
	return best
}

func better(a, b Candidate) bool {
	aOnTime, bOnTime := a.BufferMinutes >= 0, b.BufferMinutes >= 0
	if aOnTime != bOnTime {
		return aOnTime
	}
	if aOnTime {
		// Both on time: tightest arrival wins, later departure breaks ties.
		if a.BufferMinutes != b.BufferMinutes {
			return a.BufferMinutes < b.BufferMinutes
		}
	} else {
		// Both late: least late wins.
		if a.BufferMinutes != b.BufferMinutes {
			return a.BufferMinutes > b.BufferMinutes
		}
	}
	return a.departureMinutes > b.departureMinutes
}

// rankAlternatives orders the remaining candidates by |buffer| ascending,
// ties broken by earlier departure.
func rankAlternatives(candidates []Candidate, chosen Candidate, limit int) []Candidate {
	rest := make([]Candidate, 0, len(candidates)-1)
	for _, c := range candidates {
		if c.departureMinutes == chosen.departureMinutes {
			continue
		}
		rest = append(rest, c)
	}

	sort.SliceStable(rest, func(i, j int) bool {
		ai, aj := abs(rest[i].BufferMinutes), abs(rest[j].BufferMinutes)
		if ai != aj {
			return ai < aj
		}
		return rest[i].departureMinutes < rest[j].departureMinutes
	})

	if len(rest) > limit {
		rest = rest[:limit]
	}
	return rest
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func clockTime(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
