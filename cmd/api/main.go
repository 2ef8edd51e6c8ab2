// Package main provides the entrypoint for the RouteCast API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/routecast/routecast/internal/api"
	"github.com/routecast/routecast/internal/api/handler"
	"github.com/routecast/routecast/internal/api/middleware"
	"github.com/routecast/routecast/internal/database"
	"github.com/routecast/routecast/internal/prediction"
	"github.com/routecast/routecast/internal/seed"
	"github.com/routecast/routecast/internal/telemetry"
	"github.com/routecast/routecast/internal/traffic"
	"github.com/routecast/routecast/internal/weather"
	"github.com/routecast/routecast/internal/weather/openweathermap"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "routecast-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting RouteCast API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Select the record store. STORE=memory runs fully in-process with
	// synthesized history, which is how the demo and dev environments run.
	readyChecks := make(map[string]handler.ReadyCheck)
	var repo traffic.Repository

	if os.Getenv("STORE") == "memory" {
		repo = newMemoryStore(ctx, log)
		readyChecks["store"] = func(ctx context.Context) error {
			_, err := repo.ListRoutes(ctx)
			return err
		}
		log.Info().Msg("using in-memory record store with synthesized history")
	} else {
		dbConfig := database.ConfigFromEnv()
		pool, err := database.Connect(ctx, dbConfig)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		log.Info().
			Str("host", dbConfig.Host).
			Int("port", dbConfig.Port).
			Str("database", dbConfig.Database).
			Msg("database connected")

		repo = traffic.NewPostgresRepository(pool)
		readyChecks["database"] = databaseCheck(pool)
	}

	// Initialize the estimation core
	predictionConfig := prediction.DefaultConfig()
	engine, err := prediction.NewEngine(repo, predictionConfig, log)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid prediction configuration")
	}
	comparator := prediction.NewComparator(engine, repo)
	optimizer := prediction.NewOptimizer(engine)
	analyzer := prediction.NewAnalyzer(repo, predictionConfig)
	log.Info().Msg("prediction engine initialized")

	// Initialize the weather service. Without an API key every reading is
	// simulated from seasonal patterns.
	var weatherProvider weather.Provider
	if apiKey := os.Getenv("OPENWEATHER_API_KEY"); apiKey != "" {
		weatherProvider = openweathermap.NewClient(openweathermap.ClientConfig{
			APIKey: apiKey,
			Logger: log,
		})
		log.Info().Str("provider", weatherProvider.Name()).Msg("weather provider initialized")
	} else {
		log.Warn().Msg("OPENWEATHER_API_KEY not set - weather readings will be simulated")
	}
	weatherMetrics, err := middleware.NewProviderMetrics(openweathermap.ProviderName)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize provider metrics")
	}
	weatherService := weather.NewService(weather.ServiceConfig{
		Provider: weatherProvider,
		Logger:   log,
		Metrics:  weatherMetrics,
	})

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:        Version,
		BuildTime:      BuildTime,
		Logger:         log,
		ServiceName:    serviceName,
		Metrics:        metrics,
		Repository:     repo,
		Engine:         engine,
		Comparator:     comparator,
		Optimizer:      optimizer,
		Analyzer:       analyzer,
		WeatherService: weatherService,
		ReadyChecks:    readyChecks,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}

// newMemoryStore seeds an in-memory repository with the route catalog and
// synthesized history.
func newMemoryStore(ctx context.Context, log zerolog.Logger) traffic.Repository {
	repo := traffic.NewInMemoryRepository()

	routes := seed.Catalog()
	for i := range routes {
		if err := repo.InsertRoute(ctx, &routes[i]); err != nil {
			log.Fatal().Err(err).Msg("failed to seed route")
		}
	}

	generator := seed.NewGenerator(seed.GeneratorConfig{Seed: 1})
	records := generator.Records(routes)
	if err := repo.InsertRecords(ctx, records); err != nil {
		log.Fatal().Err(err).Msg("failed to seed records")
	}
	log.Info().
		Int("routes", len(routes)).
		Int("records", len(records)).
		Msg("record store seeded")

	return repo
}

func databaseCheck(pool *pgxpool.Pool) handler.ReadyCheck {
	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return pool.Ping(ctx)
	}
}
