package traffic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL record store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// FindRecords retrieves all records for a route matching the filters.
func (r *PostgresRepository) FindRecords(ctx context.Context, routeName string, f Filters) ([]Record, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT id, route_name, travel_time_minutes, hour, day_type, weather, season, recorded_at
		FROM traffic_records
		WHERE route_name = $1
	`)

	args := []interface{}{routeName}
	if f.Hour != nil {
		args = append(args, *f.Hour)
		fmt.Fprintf(&sb, " AND hour = $%d", len(args))
	}
	if f.DayType != nil {
		args = append(args, string(*f.DayType))
		fmt.Fprintf(&sb, " AND day_type = $%d", len(args))
	}
	if f.Weather != nil {
		args = append(args, string(*f.Weather))
		fmt.Fprintf(&sb, " AND weather = $%d", len(args))
	}
	if f.Season != nil {
		args = append(args, string(*f.Season))
		fmt.Fprintf(&sb, " AND season = $%d", len(args))
	}
	sb.WriteString(" ORDER BY recorded_at DESC")

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.ID,
			&rec.RouteName,
			&rec.TravelTimeMinutes,
			&rec.Hour,
			&rec.DayType,
			&rec.Weather,
			&rec.Season,
			&rec.RecordedAt,
		); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// GetRoute retrieves route metadata by name.
func (r *PostgresRepository) GetRoute(ctx context.Context, name string) (*Route, error) {
	query := `
		SELECT name, origin, destination, distance_km, typical_speed_kmh, route_type, flood_prone
		FROM routes
		WHERE name = $1
	`

	var route Route
	err := r.pool.QueryRow(ctx, query, name).Scan(
		&route.Name,
		&route.Origin,
		&route.Destination,
		&route.DistanceKM,
		&route.TypicalSpeedKMH,
		&route.RouteType,
		&route.FloodProne,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRouteNotFound
		}
		return nil, err
	}

	return &route, nil
}

// ListRoutes retrieves all known routes ordered by name.
func (r *PostgresRepository) ListRoutes(ctx context.Context) ([]Route, error) {
	query := `
		SELECT name, origin, destination, distance_km, typical_speed_kmh, route_type, flood_prone
		FROM routes
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query routes: %w", err)
	}
	defer rows.Close()

	var routes []Route
	for rows.Next() {
		var route Route
		if err := rows.Scan(
			&route.Name,
			&route.Origin,
			&route.Destination,
			&route.DistanceKM,
			&route.TypicalSpeedKMH,
			&route.RouteType,
			&route.FloodProne,
		); err != nil {
			return nil, fmt.Errorf("scan route: %w", err)
		}
		routes = append(routes, route)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return routes, nil
}

// InsertRoute stores route reference data.
func (r *PostgresRepository) InsertRoute(ctx context.Context, route *Route) error {
	query := `
		INSERT INTO routes (name, origin, destination, distance_km, typical_speed_kmh, route_type, flood_prone)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (name) DO UPDATE SET
			origin = EXCLUDED.origin,
			destination = EXCLUDED.destination,
			distance_km = EXCLUDED.distance_km,
			typical_speed_kmh = EXCLUDED.typical_speed_kmh,
			route_type = EXCLUDED.route_type,
			flood_prone = EXCLUDED.flood_prone
	`

	_, err := r.pool.Exec(ctx, query,
		route.Name,
		route.Origin,
		route.Destination,
		route.DistanceKM,
		route.TypicalSpeedKMH,
		route.RouteType,
		route.FloodProne,
	)
	if err != nil {
		return fmt.Errorf("insert route: %w", err)
	}
	return nil
}

// InsertRecords appends observations in a single batch.
func (r *PostgresRepository) InsertRecords(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO traffic_records (id, route_name, travel_time_minutes, hour, day_type, weather, season, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for _, rec := range records {
		batch.Queue(query,
			rec.ID,
			rec.RouteName,
			rec.TravelTimeMinutes,
			rec.Hour,
			string(rec.DayType),
			string(rec.Weather),
			string(rec.Season),
			rec.RecordedAt,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range records {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
	}
	return nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
