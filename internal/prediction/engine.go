package prediction

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/routecast/routecast/internal/traffic"
)

// Engine produces travel-time estimates from historical records.
type Engine struct {
	repo   traffic.Repository
	cfg    Config
	logger zerolog.Logger
}

// NewEngine creates a prediction engine. The configuration is validated
// eagerly so a missing multiplier fails startup rather than a request.
func NewEngine(repo traffic.Repository, cfg Config, logger zerolog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("prediction config: %w", err)
	}
	return &Engine{repo: repo, cfg: cfg, logger: logger}, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Predict estimates travel time for the requested route and conditions.
// Records are partitioned into specificity tiers (exact conditions, then
// hour+day type, then day type, then route-wide) and the most specific
// non-empty tier supplies the base estimate. A route with no records at all
// falls back to its distance/speed nominal time; that path never errors.
func (e *Engine) Predict(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	route, err := e.repo.GetRoute(ctx, req.RouteName)
	if err != nil {
		return nil, err
	}

	records, err := e.repo.FindRecords(ctx, req.RouteName, traffic.Filters{})
	if err != nil {
		return nil, fmt.Errorf("find records: %w", err)
	}

	if len(records) == 0 {
		return e.nominalFallback(route), nil
	}

	tier, matched := selectTier(records, req)
	result := e.estimate(route.Name, req, tier, matched)

	e.logger.Debug().
		Str("route", route.Name).
		Str("tier", string(tier)).
		Int("sample_size", result.SampleSize).
		Int("predicted_minutes", result.PredictedMinutes).
		Msg("prediction computed")

	return result, nil
}

// selectTier partitions records by specificity and returns the most
// specific non-empty tier. The ladder degrades to coarser aggregates
// rather than failing on sparse data.
func selectTier(records []traffic.Record, req Request) (Tier, []traffic.Record) {
	var exact, hourDay, day []traffic.Record
	for _, rec := range records {
		if rec.DayType != req.DayType {
			continue
		}
		day = append(day, rec)
		if rec.Hour != req.Hour {
			continue
		}
		hourDay = append(hourDay, rec)
		if rec.Weather == req.Weather && rec.Season == req.Season {
			exact = append(exact, rec)
		}
	}

	switch {
	case len(exact) > 0:
		return TierExact, exact
	case len(hourDay) > 0:
		return TierHourDay, hourDay
	case len(day) > 0:
		return TierDayType, day
	default:
		return TierRoute, records
	}
}

// estimate computes the adjusted point estimate and confidence for a
// non-empty tier.
func (e *Engine) estimate(routeName string, req Request, tier Tier, matched []traffic.Record) *Result {
	durations := make([]float64, len(matched))
	for i, rec := range matched {
		durations[i] = float64(rec.TravelTimeMinutes)
	}
	estimate := stat.Mean(durations, nil)

	// A multiplier is only applied for dimensions the tier did not already
	// match on; records matched on hour and day already embody rush-hour
	// traffic, and exact-tier records embody the weather and season too.
	// The factor strings still name every condition that shaped the
	// estimate, whether through matching or through the multiplier.
	tierHasHour := tier == TierExact || tier == TierHourDay
	tierHasConditions := tier == TierExact

	var factors []string

	if e.cfg.isRushHour(req.Hour, req.DayType) {
		if !tierHasHour {
			estimate *= e.cfg.RushHourMultiplier
		}
		factors = append(factors, "rush hour adjustment")
	}

	if req.Weather != traffic.WeatherClear {
		if !tierHasConditions {
			estimate *= e.cfg.WeatherMultipliers[req.Weather]
		}
		factors = append(factors, weatherFactor(req.Weather))
	}

	if req.Season != traffic.SeasonRegular {
		if !tierHasConditions {
			estimate *= e.cfg.SeasonMultipliers[req.Season]
		}
		factors = append(factors, seasonFactor(req.Season))
	}

	minutes := int(math.Round(estimate))
	if minutes < e.cfg.MinimumMinutes {
		minutes = e.cfg.MinimumMinutes
	}

	return &Result{
		RouteName:        routeName,
		PredictedMinutes: minutes,
		Confidence:       e.confidence(tier, len(matched)),
		Factors:          factors,
		SampleSize:       len(matched),
		Tier:             tier,
	}
}

// confidence grows with tier specificity and sample size, capped so a
// prediction never claims certainty.
func (e *Engine) confidence(tier Tier, sampleSize int) float64 {
	base := e.cfg.TierConfidence[tier]
	bonus := float64(sampleSize) * e.cfg.SampleConfidenceBonus
	if bonus > e.cfg.SampleConfidenceCap {
		bonus = e.cfg.SampleConfidenceCap
	}
	return math.Min(e.cfg.MaxConfidence, base+bonus)
}

// nominalFallback derives an estimate purely from route distance and
// typical speed when no historical records exist.
func (e *Engine) nominalFallback(route *traffic.Route) *Result {
	minutes := int(math.Round(route.NominalMinutes()))
	if minutes < e.cfg.MinimumMinutes {
		minutes = e.cfg.MinimumMinutes
	}

	e.logger.Debug().
		Str("route", route.Name).
		Int("predicted_minutes", minutes).
		Msg("no historical records, using nominal estimate")

	return &Result{
		RouteName:        route.Name,
		PredictedMinutes: minutes,
		Confidence:       e.cfg.FallbackConfidence,
		Factors:          []string{"no historical data available"},
		SampleSize:       0,
		Tier:             TierNominal,
	}
}

func weatherFactor(w traffic.Weather) string {
	switch w {
	case traffic.WeatherRain:
		return "rain weather conditions"
	case traffic.WeatherHeavyRain:
		return "heavy rain weather conditions"
	case traffic.WeatherFog:
		return "fog weather conditions"
	default:
		return string(w) + " weather conditions"
	}
}

func seasonFactor(s traffic.Season) string {
	switch s {
	case traffic.SeasonMonsoonSouthwest:
		return "southwest monsoon season"
	case traffic.SeasonMonsoonNortheast:
		return "northeast monsoon season"
	case traffic.SeasonInterMonsoon:
		return "inter-monsoon season"
	default:
		return string(s) + " season"
	}
}
