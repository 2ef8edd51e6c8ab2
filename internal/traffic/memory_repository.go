package traffic

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// Used for tests and for running the API without a database.
type InMemoryRepository struct {
	mu      sync.RWMutex
	routes  map[string]*Route
	records map[string][]Record
}

// NewInMemoryRepository creates a new in-memory record store.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		routes:  make(map[string]*Route),
		records: make(map[string][]Record),
	}
}

// FindRecords retrieves all records for a route matching the filters.
func (r *InMemoryRepository) FindRecords(_ context.Context, routeName string, f Filters) ([]Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []Record
	for _, rec := range r.records[routeName] {
		if f.Hour != nil && rec.Hour != *f.Hour {
			continue
		}
		if f.DayType != nil && rec.DayType != *f.DayType {
			continue
		}
		if f.Weather != nil && rec.Weather != *f.Weather {
			continue
		}
		if f.Season != nil && rec.Season != *f.Season {
			continue
		}
		matched = append(matched, rec)
	}
	return matched, nil
}

// GetRoute retrieves route metadata by name.
func (r *InMemoryRepository) GetRoute(_ context.Context, name string) (*Route, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	route, ok := r.routes[name]
	if !ok {
		return nil, ErrRouteNotFound
	}

	cpy := *route
	return &cpy, nil
}

// ListRoutes retrieves all known routes ordered by name.
func (r *InMemoryRepository) ListRoutes(_ context.Context) ([]Route, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	routes := make([]Route, 0, len(r.routes))
	for _, route := range r.routes {
		routes = append(routes, *route)
	}
	sort.Slice(routes, func(i, j int) bool { return routes[i].Name < routes[j].Name })
	return routes, nil
}

// InsertRoute stores route reference data.
func (r *InMemoryRepository) InsertRoute(_ context.Context, route *Route) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *route
	r.routes[route.Name] = &cpy
	return nil
}

// InsertRecords appends observations.
func (r *InMemoryRepository) InsertRecords(_ context.Context, records []Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range records {
		r.records[rec.RouteName] = append(r.records[rec.RouteName], rec)
	}
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
