package traffic

import "context"

// Filters narrows a record query. Nil fields place no constraint on that
// dimension; filters combine with AND.
type Filters struct {
	Hour    *int
	DayType *DayType
	Weather *Weather
	Season  *Season
}

// Repository defines the record-store boundary the estimation core depends on.
// Implementations must be safe for concurrent readers; the core never writes.
type Repository interface {
	// FindRecords retrieves all records for a route matching the filters.
	FindRecords(ctx context.Context, routeName string, f Filters) ([]Record, error)

	// GetRoute retrieves route metadata by name.
	// Returns ErrRouteNotFound if the route is unknown.
	GetRoute(ctx context.Context, name string) (*Route, error)

	// ListRoutes retrieves all known routes ordered by name.
	ListRoutes(ctx context.Context) ([]Route, error)

	// InsertRoute stores route reference data. Used by seeding only.
	InsertRoute(ctx context.Context, route *Route) error

	// InsertRecords appends observations. Used by seeding only.
	InsertRecords(ctx context.Context, records []Record) error
}
