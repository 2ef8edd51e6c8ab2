// Package main provides the database seed tool. It creates the schema,
// loads the route catalog, and synthesizes historical traffic records.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/routecast/routecast/internal/database"
	"github.com/routecast/routecast/internal/seed"
	"github.com/routecast/routecast/internal/traffic"
)

const schema = `
CREATE TABLE IF NOT EXISTS routes (
	name              TEXT PRIMARY KEY,
	origin            TEXT NOT NULL,
	destination       TEXT NOT NULL,
	distance_km       DOUBLE PRECISION NOT NULL,
	typical_speed_kmh DOUBLE PRECISION NOT NULL,
	route_type        TEXT NOT NULL,
	flood_prone       BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS traffic_records (
	id                  TEXT PRIMARY KEY,
	route_name          TEXT NOT NULL REFERENCES routes (name),
	travel_time_minutes INTEGER NOT NULL,
	hour                INTEGER NOT NULL,
	day_type            TEXT NOT NULL,
	weather             TEXT NOT NULL,
	season              TEXT NOT NULL,
	recorded_at         TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS traffic_records_route_conditions_idx
	ON traffic_records (route_name, hour, day_type, weather, season);
`

func main() {
	var (
		rngSeed  = flag.Int64("seed", 1, "random seed for synthesized records")
		daysBack = flag.Int("days", 90, "days of history to synthesize")
		perDay   = flag.Int("per-day", 16, "records per route per day")
	)
	flag.Parse()

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", "routecast-seed").
		Logger()

	ctx := context.Background()

	pool, err := connectWithRetry(ctx, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, schema); err != nil {
		log.Fatal().Err(err).Msg("failed to create schema")
	}
	log.Info().Msg("schema ready")

	repo := traffic.NewPostgresRepository(pool)

	routes := seed.Catalog()
	for i := range routes {
		if err := repo.InsertRoute(ctx, &routes[i]); err != nil {
			log.Fatal().Err(err).Str("route", routes[i].Name).Msg("failed to insert route")
		}
	}
	log.Info().Int("routes", len(routes)).Msg("route catalog loaded")

	generator := seed.NewGenerator(seed.GeneratorConfig{
		Seed:               *rngSeed,
		DaysBack:           *daysBack,
		RecordsPerRouteDay: *perDay,
	})
	records := generator.Records(routes)

	if err := repo.InsertRecords(ctx, records); err != nil {
		log.Fatal().Err(err).Msg("failed to insert records")
	}
	log.Info().
		Int("records", len(records)).
		Int64("seed", *rngSeed).
		Int("days", *daysBack).
		Msg("history synthesized")
}

// connectWithRetry waits for the database to come up, which matters when
// the seed tool races the postgres container in compose environments.
func connectWithRetry(ctx context.Context, log zerolog.Logger) (*pgxpool.Pool, error) {
	cfg := database.ConfigFromEnv()

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond
	policy.MaxInterval = 5 * time.Second
	policy.MaxElapsedTime = 60 * time.Second

	var pool *pgxpool.Pool
	operation := func() error {
		var err error
		pool, err = database.Connect(ctx, cfg)
		if err != nil {
			log.Warn().Err(err).Msg("database not ready, retrying")
			return err
		}
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(policy, ctx)); err != nil {
		return nil, err
	}
	return pool, nil
}
