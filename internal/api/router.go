// Package api provides the HTTP API for RouteCast.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/routecast/routecast/internal/api/handler"
	"github.com/routecast/routecast/internal/api/middleware"
	"github.com/routecast/routecast/internal/prediction"
	"github.com/routecast/routecast/internal/traffic"
	"github.com/routecast/routecast/internal/weather"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version        string
	BuildTime      string
	Logger         zerolog.Logger
	ServiceName    string
	Metrics        *middleware.Metrics
	Repository     traffic.Repository
	Engine         *prediction.Engine
	Comparator     *prediction.Comparator
	Optimizer      *prediction.Optimizer
	Analyzer       *prediction.Analyzer
	WeatherService *weather.Service
	ReadyChecks    map[string]handler.ReadyCheck
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "routecast-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type
	r.Use(middleware.RequireJSON)          // Reject non-JSON request bodies

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.ReadyChecks)
	predictionHandler := handler.NewPredictionHandler(cfg.Engine, cfg.Comparator, cfg.Optimizer)
	routeHandler := handler.NewRouteHandler(cfg.Repository, cfg.Analyzer)
	weatherHandler := handler.NewWeatherHandler(cfg.WeatherService)
	metadataHandler := handler.NewMetadataHandler()

	// Rate limits per endpoint category
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
		})

		// Metadata endpoints - standard rate limiting
		r.Route("/metadata", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/enums", metadataHandler.GetEnums)
		})

		// Route catalog and analytics - standard rate limiting
		r.Route("/routes", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/", routeHandler.ListRoutes)
			r.Route("/{routeName}", func(r chi.Router) {
				r.Get("/", routeHandler.GetRoute)
				r.Get("/analytics", routeHandler.GetRouteAnalytics)
			})
		})

		// Corridor weather - standard rate limiting
		r.With(standardRateLimit).Get("/weather/current", weatherHandler.GetCurrentWeather)

		// Estimation endpoints - expensive compute, strict rate limiting
		r.With(expensiveRateLimit).Post("/predictions:compute", predictionHandler.ComputePrediction)
		r.With(expensiveRateLimit).Post("/routes:compare", predictionHandler.CompareRoutes)
		r.With(expensiveRateLimit).Post("/departures:optimize", predictionHandler.OptimizeDeparture)
	})

	return r
}
