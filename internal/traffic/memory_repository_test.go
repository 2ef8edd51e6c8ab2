package traffic_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routecast/routecast/internal/traffic"
)

func seedRepo(t *testing.T) *traffic.InMemoryRepository {
	t.Helper()

	repo := traffic.NewInMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.InsertRoute(ctx, &traffic.Route{
		Name: "Galle Road", Origin: "Maharagama", Destination: "Town Hall, Colombo",
		DistanceKM: 15.1, TypicalSpeedKMH: 28, RouteType: "main",
	}))
	require.NoError(t, repo.InsertRoute(ctx, &traffic.Route{
		Name: "Baseline Road", Origin: "Maharagama", Destination: "Town Hall, Colombo",
		DistanceKM: 13.8, TypicalSpeedKMH: 32, RouteType: "main",
	}))

	require.NoError(t, repo.InsertRecords(ctx, []traffic.Record{
		{RouteName: "Galle Road", TravelTimeMinutes: 50, Hour: 8, DayType: traffic.DayTypeWeekday, Weather: traffic.WeatherClear, Season: traffic.SeasonRegular, RecordedAt: time.Now()},
		{RouteName: "Galle Road", TravelTimeMinutes: 60, Hour: 8, DayType: traffic.DayTypeWeekday, Weather: traffic.WeatherRain, Season: traffic.SeasonRegular, RecordedAt: time.Now()},
		{RouteName: "Galle Road", TravelTimeMinutes: 30, Hour: 14, DayType: traffic.DayTypeWeekend, Weather: traffic.WeatherClear, Season: traffic.SeasonRegular, RecordedAt: time.Now()},
	}))

	return repo
}

func TestInMemoryRepository_FindRecords(t *testing.T) {
	repo := seedRepo(t)
	ctx := context.Background()

	t.Run("no filters returns everything", func(t *testing.T) {
		records, err := repo.FindRecords(ctx, "Galle Road", traffic.Filters{})
		require.NoError(t, err)
		assert.Len(t, records, 3)
	})

	t.Run("filters narrow by each dimension", func(t *testing.T) {
		hour := 8
		day := traffic.DayTypeWeekday
		wx := traffic.WeatherRain

		records, err := repo.FindRecords(ctx, "Galle Road", traffic.Filters{
			Hour: &hour, DayType: &day, Weather: &wx,
		})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, 60, records[0].TravelTimeMinutes)
	})

	t.Run("unknown route returns empty, not an error", func(t *testing.T) {
		records, err := repo.FindRecords(ctx, "Marine Drive", traffic.Filters{})
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestInMemoryRepository_GetRoute(t *testing.T) {
	repo := seedRepo(t)
	ctx := context.Background()

	route, err := repo.GetRoute(ctx, "Galle Road")
	require.NoError(t, err)
	assert.Equal(t, 15.1, route.DistanceKM)

	// Mutating the returned route must not affect the store.
	route.DistanceKM = 99
	again, err := repo.GetRoute(ctx, "Galle Road")
	require.NoError(t, err)
	assert.Equal(t, 15.1, again.DistanceKM)

	_, err = repo.GetRoute(ctx, "Duplication Road")
	assert.ErrorIs(t, err, traffic.ErrRouteNotFound)
}

func TestInMemoryRepository_ListRoutes(t *testing.T) {
	repo := seedRepo(t)

	routes, err := repo.ListRoutes(context.Background())
	require.NoError(t, err)
	require.Len(t, routes, 2)
	assert.Equal(t, "Baseline Road", routes[0].Name)
	assert.Equal(t, "Galle Road", routes[1].Name)
}
