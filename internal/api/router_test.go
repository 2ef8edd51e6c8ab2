package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routecast/routecast/internal/api"
	"github.com/routecast/routecast/internal/api/handler"
	"github.com/routecast/routecast/internal/api/models"
	"github.com/routecast/routecast/internal/prediction"
	"github.com/routecast/routecast/internal/traffic"
	"github.com/routecast/routecast/internal/weather"
)

// newTestRouter builds a router over an in-memory record store with two
// routes: High Level Road carries four 35-minute records at hour 8, the
// Baseline Road has no records at all.
func newTestRouter(t *testing.T, readyChecks map[string]handler.ReadyCheck) http.Handler {
	t.Helper()

	repo := traffic.NewInMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.InsertRoute(ctx, &traffic.Route{
		Name:            "High Level Road",
		Origin:          "Maharagama",
		Destination:     "Town Hall, Colombo",
		DistanceKM:      12.5,
		TypicalSpeedKMH: 35,
		RouteType:       "main",
	}))
	require.NoError(t, repo.InsertRoute(ctx, &traffic.Route{
		Name:            "Baseline Road",
		Origin:          "Maharagama",
		Destination:     "Town Hall, Colombo",
		DistanceKM:      13.8,
		TypicalSpeedKMH: 32,
		RouteType:       "main",
	}))

	records := make([]traffic.Record, 0, 4)
	for i := 0; i < 4; i++ {
		records = append(records, traffic.Record{
			RouteName:         "High Level Road",
			TravelTimeMinutes: 35,
			Hour:              8,
			DayType:           traffic.DayTypeWeekday,
			Weather:           traffic.WeatherClear,
			Season:            traffic.SeasonRegular,
			RecordedAt:        time.Date(2026, 2, 2, 8, 0, 0, 0, time.UTC),
		})
	}
	require.NoError(t, repo.InsertRecords(ctx, records))

	cfg := prediction.DefaultConfig()
	engine, err := prediction.NewEngine(repo, cfg, zerolog.Nop())
	require.NoError(t, err)

	return api.NewRouter(api.RouterConfig{
		Version:        "test",
		BuildTime:      "now",
		Logger:         zerolog.Nop(),
		Repository:     repo,
		Engine:         engine,
		Comparator:     prediction.NewComparator(engine, repo),
		Optimizer:      prediction.NewOptimizer(engine),
		Analyzer:       prediction.NewAnalyzer(repo, cfg),
		WeatherService: weather.NewService(weather.ServiceConfig{Logger: zerolog.Nop(), Seed: 42}),
		ReadyChecks:    readyChecks,
	})
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := doJSON(t, router, http.MethodGet, "/v1/ops/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("X-Request-Id"), "req_")

	var health models.Health
	decodeInto(t, rec, &health)
	assert.Equal(t, models.HealthStatusOK, health.Status)
	assert.Equal(t, "test", health.Details["version"])
}

func TestReadinessCheck(t *testing.T) {
	t.Run("all checks passing", func(t *testing.T) {
		router := newTestRouter(t, map[string]handler.ReadyCheck{
			"database": func(context.Context) error { return nil },
		})

		rec := doJSON(t, router, http.MethodGet, "/v1/ops/ready", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		var status models.SystemStatus
		decodeInto(t, rec, &status)
		assert.Equal(t, models.HealthStatusOK, status.Status)
		require.Len(t, status.Subsystems, 1)
		assert.Equal(t, "database", status.Subsystems[0].Name)
		assert.Equal(t, models.HealthStatusOK, status.Subsystems[0].Status)
	})

	t.Run("failing check reports 503", func(t *testing.T) {
		router := newTestRouter(t, map[string]handler.ReadyCheck{
			"database": func(context.Context) error { return errors.New("connection refused") },
		})

		rec := doJSON(t, router, http.MethodGet, "/v1/ops/ready", nil)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var status models.SystemStatus
		decodeInto(t, rec, &status)
		assert.Equal(t, models.HealthStatusFail, status.Status)
		require.Len(t, status.Subsystems, 1)
		require.NotNil(t, status.Subsystems[0].Detail)
		assert.Equal(t, "connection refused", *status.Subsystems[0].Detail)
	})
}

func TestRequestID(t *testing.T) {
	router := newTestRouter(t, nil)

	t.Run("generated when absent", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/v1/ops/health", nil)
		assert.Regexp(t, `^req_`, rec.Header().Get("X-Request-Id"))
	})

	t.Run("preserved when supplied", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", nil)
		req.Header.Set("X-Request-Id", "req_test_12345")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, "req_test_12345", rec.Header().Get("X-Request-Id"))
	})
}

func TestGetEnums(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := doJSON(t, router, http.MethodGet, "/v1/metadata/enums", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var enums models.Enums
	decodeInto(t, rec, &enums)
	assert.ElementsMatch(t, []string{"weekday", "weekend"}, enums.DayTypes)
	assert.Len(t, enums.Weathers, 4)
	assert.Contains(t, enums.Weathers, "heavy_rain")
	assert.Len(t, enums.Seasons, 4)
	assert.Contains(t, enums.Seasons, "southwest_monsoon")
	assert.Len(t, enums.Tiers, 5)
	assert.Contains(t, enums.Tiers, "nominal")
}

func TestListRoutes(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := doJSON(t, router, http.MethodGet, "/v1/routes", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var list models.RouteList
	decodeInto(t, rec, &list)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "Baseline Road", list.Items[0].Name)
	assert.Equal(t, "High Level Road", list.Items[1].Name)
	assert.Equal(t, 12.5, list.Items[1].DistanceKM)
	assert.InDelta(t, 21.43, list.Items[1].NominalMinutes, 0.01)
}

func TestGetRoute(t *testing.T) {
	router := newTestRouter(t, nil)

	t.Run("known route", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/v1/routes/High%20Level%20Road", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		var route models.Route
		decodeInto(t, rec, &route)
		assert.Equal(t, "High Level Road", route.Name)
		assert.Equal(t, "Maharagama", route.Origin)
		assert.Equal(t, "Town Hall, Colombo", route.Destination)
		assert.Equal(t, 35.0, route.TypicalSpeedKMH)
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/v1/routes/Duplication%20Road", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		var problem models.Problem
		decodeInto(t, rec, &problem)
		assert.Equal(t, models.ProblemTypeNotFound, problem.Type)
		assert.NotEmpty(t, problem.TraceID)
	})
}

func TestGetRouteAnalytics(t *testing.T) {
	router := newTestRouter(t, nil)

	t.Run("known route", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/v1/routes/High%20Level%20Road/analytics", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		var analytics models.RouteAnalytics
		decodeInto(t, rec, &analytics)
		assert.Equal(t, "High Level Road", analytics.RouteName)
		assert.Equal(t, 35.0, analytics.AverageMinutes)
		assert.Equal(t, 35, analytics.MinMinutes)
		assert.Equal(t, 35, analytics.MaxMinutes)
		assert.Equal(t, 35.0, analytics.PeakAverage)
		assert.Equal(t, 4, analytics.TotalRecords)
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/v1/routes/Duplication%20Road/analytics", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestGetCurrentWeather(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := doJSON(t, router, http.MethodGet, "/v1/weather/current", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var current models.CurrentWeather
	decodeInto(t, rec, &current)
	assert.True(t, current.Simulated)
	assert.Contains(t, []string{"clear", "rain", "heavy_rain", "fog"}, current.Condition)
	assert.Contains(t, []string{"low", "medium", "high"}, current.Impact.Severity)
	assert.NotEmpty(t, current.Impact.Recommendations)
	assert.NotEmpty(t, current.FloodRisk)
}

func TestComputePrediction(t *testing.T) {
	router := newTestRouter(t, nil)

	t.Run("exact conditions", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/predictions:compute", models.PredictionRequest{
			RouteName: "High Level Road",
			DayType:   "weekday",
			Hour:      8,
			Weather:   "clear",
			Season:    "regular",
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		var pred models.Prediction
		decodeInto(t, rec, &pred)
		assert.Equal(t, "High Level Road", pred.RouteName)
		assert.Equal(t, 35, pred.PredictedMinutes)
		assert.Equal(t, "exact_conditions", pred.Tier)
		assert.Equal(t, 4, pred.SampleSize)
		assert.InDelta(t, 0.68, pred.Confidence, 0.001)
	})

	t.Run("route with no records falls back to nominal", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/predictions:compute", models.PredictionRequest{
			RouteName: "Baseline Road",
			DayType:   "weekend",
			Hour:      14,
			Weather:   "clear",
			Season:    "regular",
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		var pred models.Prediction
		decodeInto(t, rec, &pred)
		assert.Equal(t, "nominal", pred.Tier)
		assert.Equal(t, 0, pred.SampleSize)
		assert.Contains(t, pred.Factors, "no historical data available")
	})

	t.Run("invalid enum", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/predictions:compute", models.PredictionRequest{
			RouteName: "High Level Road",
			DayType:   "weekday",
			Hour:      8,
			Weather:   "snow",
			Season:    "regular",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
		var problem models.Problem
		decodeInto(t, rec, &problem)
		assert.Equal(t, models.ProblemTypeValidation, problem.Type)
		require.Len(t, problem.Errors, 1)
		assert.Equal(t, "weather", problem.Errors[0].Field)
	})

	t.Run("invalid hour", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/predictions:compute", models.PredictionRequest{
			RouteName: "High Level Road",
			DayType:   "weekday",
			Hour:      24,
			Weather:   "clear",
			Season:    "regular",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/predictions:compute", models.PredictionRequest{
			RouteName: "Duplication Road",
			DayType:   "weekday",
			Hour:      8,
			Weather:   "clear",
			Season:    "regular",
		})

		assert.Equal(t, http.StatusNotFound, rec.Code)
		var problem models.Problem
		decodeInto(t, rec, &problem)
		assert.Equal(t, models.ProblemTypeNotFound, problem.Type)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/predictions:compute", bytes.NewBufferString("{not json"))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCompareRoutes(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := doJSON(t, router, http.MethodPost, "/v1/routes:compare", models.CompareRequest{
		DayType: "weekday",
		Hour:    8,
		Weather: "clear",
		Season:  "regular",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	var comparison models.Comparison
	decodeInto(t, rec, &comparison)
	assert.Equal(t, "weekday", comparison.Conditions.DayType)
	assert.Equal(t, 8, comparison.Conditions.Hour)
	require.Len(t, comparison.Predictions, 2)

	// Baseline Road has no records; its 26-minute nominal estimate beats
	// the 35-minute exact-conditions average on High Level Road.
	assert.Equal(t, "Baseline Road", comparison.BestRoute)
	assert.Equal(t, "Baseline Road", comparison.Predictions[0].RouteName)
	assert.Equal(t, "nominal", comparison.Predictions[0].Tier)
	assert.Equal(t, "High Level Road", comparison.Predictions[1].RouteName)
	assert.Equal(t, 35, comparison.Predictions[1].PredictedMinutes)
	assert.NotEmpty(t, comparison.Recommendations)
}

func TestOptimizeDeparture(t *testing.T) {
	router := newTestRouter(t, nil)

	t.Run("feasible plan", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/departures:optimize", models.OptimizeRequest{
			RouteName:         "High Level Road",
			TargetArrivalHour: 9,
			DayType:           "weekday",
			Weather:           "clear",
			Season:            "regular",
			WindowMinutes:     60,
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		var plan models.OptimizationResult
		decodeInto(t, rec, &plan)
		assert.Equal(t, "High Level Road", plan.RouteName)
		assert.Equal(t, "09:00", plan.TargetArrival)
		assert.Equal(t, "08:25", plan.DepartureTime)
		assert.Equal(t, "09:00", plan.ArrivalTime)
		assert.Equal(t, 35, plan.TravelMinutes)
		assert.Equal(t, 0, plan.BufferMinutes)
		assert.True(t, plan.Feasible)
		assert.NotEmpty(t, plan.Alternatives)
	})

	t.Run("window defaults when omitted", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/departures:optimize", models.OptimizeRequest{
			RouteName:         "High Level Road",
			TargetArrivalHour: 9,
			DayType:           "weekday",
			Weather:           "clear",
			Season:            "regular",
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		var plan models.OptimizationResult
		decodeInto(t, rec, &plan)
		assert.Equal(t, "08:25", plan.DepartureTime)
	})

	t.Run("negative window", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/departures:optimize", models.OptimizeRequest{
			RouteName:         "High Level Road",
			TargetArrivalHour: 9,
			DayType:           "weekday",
			Weather:           "clear",
			Season:            "regular",
			WindowMinutes:     -15,
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var problem models.Problem
		decodeInto(t, rec, &problem)
		assert.Equal(t, models.ProblemTypeValidation, problem.Type)
	})
}

func TestUnknownPath(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := doJSON(t, router, http.MethodGet, "/v1/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSecurityHeaders(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := doJSON(t, router, http.MethodGet, "/v1/ops/health", nil)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}
