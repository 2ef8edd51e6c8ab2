package weather

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/routecast/routecast/internal/traffic"
)

// Provider fetches a current reading for one coordinate.
type Provider interface {
	CurrentWeather(ctx context.Context, lat, lon float64) (*Observation, error)
	Name() string
}

// ProviderMetrics observes provider calls and cache effectiveness.
// Satisfied by the API middleware's provider metrics.
type ProviderMetrics interface {
	RecordRequest(provider, operation string, duration time.Duration, err error)
	RecordCacheHit(provider, operation string)
	RecordCacheMiss(provider, operation string)
}

// ServiceConfig holds configuration for the weather service.
type ServiceConfig struct {
	// Provider may be nil, in which case every reading is simulated.
	Provider Provider

	Logger zerolog.Logger

	// Metrics may be nil, in which case provider calls go unobserved.
	Metrics ProviderMetrics

	// CacheTTL for the corridor reading. Default 10 minutes.
	CacheTTL time.Duration

	// StaleIfErrorTTL allows serving an expired reading while the
	// provider is down. Default 1 hour.
	StaleIfErrorTTL time.Duration

	// Seed fixes the simulation's random source. Zero seeds from the clock.
	Seed int64

	// Now overrides the clock, mainly for tests.
	Now func() time.Time
}

// Service serves the current corridor weather, averaging the fixed
// station readings and simulating seasonal conditions when the provider
// cannot be reached.
type Service struct {
	provider        Provider
	logger          zerolog.Logger
	metrics         ProviderMetrics
	cacheTTL        time.Duration
	staleIfErrorTTL time.Duration
	now             func() time.Time

	mu        sync.Mutex
	rng       *rand.Rand
	cached    *Observation
	fetchedAt time.Time
}

// NewService creates a weather service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 10 * time.Minute
	}
	staleTTL := cfg.StaleIfErrorTTL
	if staleTTL == 0 {
		staleTTL = time.Hour
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = now().UnixNano()
	}

	return &Service{
		provider:        cfg.Provider,
		logger:          cfg.Logger,
		metrics:         cfg.Metrics,
		cacheTTL:        cacheTTL,
		staleIfErrorTTL: staleTTL,
		now:             now,
		rng:             rand.New(rand.NewSource(seed)),
	}
}

// Current returns the corridor weather. Never errors: when the provider
// fails and no cached reading is fresh enough, a seasonal simulation is
// returned with Simulated set.
func (s *Service) Current(ctx context.Context) *Observation {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.cached != nil && now.Sub(s.fetchedAt) < s.cacheTTL {
		if s.metrics != nil {
			s.metrics.RecordCacheHit(s.providerName(), "current-weather")
		}
		return s.cached
	}
	if s.metrics != nil {
		s.metrics.RecordCacheMiss(s.providerName(), "current-weather")
	}

	if obs := s.fetchCorridor(ctx); obs != nil {
		s.cached = obs
		s.fetchedAt = now
		return obs
	}

	if s.cached != nil && now.Sub(s.fetchedAt) < s.staleIfErrorTTL {
		s.logger.Warn().
			Time("fetched_at", s.fetchedAt).
			Msg("serving stale weather reading, provider unavailable")
		return s.cached
	}

	obs := s.simulate(now)
	s.logger.Warn().
		Str("condition", string(obs.Condition)).
		Msg("provider unavailable, simulated seasonal weather")
	return obs
}

// fetchCorridor averages the station readings; a majority vote decides
// the condition. Returns nil when every station failed.
func (s *Service) fetchCorridor(ctx context.Context) *Observation {
	if s.provider == nil {
		return nil
	}

	var readings []*Observation
	for _, station := range corridorStations {
		start := s.now()
		obs, err := s.provider.CurrentWeather(ctx, station.Lat, station.Lon)
		if s.metrics != nil {
			s.metrics.RecordRequest(s.provider.Name(), "current-weather", s.now().Sub(start), err)
		}
		if err != nil {
			s.logger.Warn().
				Str("station", station.Key).
				Str("provider", s.provider.Name()).
				Err(err).
				Msg("station reading failed")
			continue
		}
		readings = append(readings, obs)
	}
	if len(readings) == 0 {
		return nil
	}

	merged := &Observation{
		Condition:   dominantCondition(readings),
		Description: readings[0].Description,
		ObservedAt:  readings[0].ObservedAt,
	}
	for _, r := range readings {
		merged.TemperatureC += r.TemperatureC
		merged.HumidityPercent += r.HumidityPercent
		merged.WindSpeedKMH += r.WindSpeedKMH
	}
	n := float64(len(readings))
	merged.TemperatureC /= n
	merged.HumidityPercent /= n
	merged.WindSpeedKMH /= n

	return merged
}

func (s *Service) providerName() string {
	if s.provider == nil {
		return "simulation"
	}
	return s.provider.Name()
}

func dominantCondition(readings []*Observation) traffic.Weather {
	counts := make(map[traffic.Weather]int)
	best := readings[0].Condition
	for _, r := range readings {
		counts[r.Condition]++
		if counts[r.Condition] > counts[best] {
			best = r.Condition
		}
	}
	return best
}

// conditionWeights holds a cumulative-probability ladder for one season.
type conditionWeights struct {
	clear, rain, heavyRain float64 // cumulative; fog takes the remainder
}

// simulate synthesizes a plausible reading for the current season and
// hour. Monsoon months rain more, afternoons more than mornings.
func (s *Service) simulate(now time.Time) *Observation {
	season := traffic.SeasonForDate(now)
	hour := now.Hour()

	var weights conditionWeights
	switch season {
	case traffic.SeasonMonsoonSouthwest:
		weights = conditionWeights{clear: 0.35, rain: 0.75, heavyRain: 0.95}
	case traffic.SeasonMonsoonNortheast:
		weights = conditionWeights{clear: 0.45, rain: 0.80, heavyRain: 0.95}
	case traffic.SeasonInterMonsoon:
		weights = conditionWeights{clear: 0.65, rain: 0.90, heavyRain: 0.97}
	default:
		weights = conditionWeights{clear: 0.80, rain: 0.95, heavyRain: 0.99}
	}

	// Afternoon showers are more likely.
	roll := s.rng.Float64()
	if hour >= 14 && hour <= 17 {
		roll *= 1.2
		if roll > 1 {
			roll = 1
		}
	}

	var condition traffic.Weather
	switch {
	case roll < weights.clear:
		condition = traffic.WeatherClear
	case roll < weights.rain:
		condition = traffic.WeatherRain
	case roll < weights.heavyRain:
		condition = traffic.WeatherHeavyRain
	default:
		condition = traffic.WeatherFog
	}

	temp := 24 + s.rng.Float64()*3
	switch {
	case hour >= 10 && hour <= 16:
		temp = 29 + s.rng.Float64()*4
	case hour >= 18 && hour <= 22:
		temp = 26 + s.rng.Float64()*3
	}
	humidity := 65 + s.rng.Float64()*15
	switch condition {
	case traffic.WeatherRain, traffic.WeatherHeavyRain:
		temp -= 2 + s.rng.Float64()*2
		humidity = 85 + s.rng.Float64()*10
	}

	return &Observation{
		Condition:       condition,
		TemperatureC:    temp,
		HumidityPercent: humidity,
		WindSpeedKMH:    5 + s.rng.Float64()*15,
		ObservedAt:      now,
		Simulated:       true,
	}
}
