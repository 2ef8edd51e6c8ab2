package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/routecast/routecast/internal/api/models"
	"github.com/routecast/routecast/internal/api/response"
	"github.com/routecast/routecast/internal/prediction"
	"github.com/routecast/routecast/internal/traffic"
)

// RouteHandler handles route catalog and analytics endpoints.
type RouteHandler struct {
	repo     traffic.Repository
	analyzer *prediction.Analyzer
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(repo traffic.Repository, analyzer *prediction.Analyzer) *RouteHandler {
	return &RouteHandler{repo: repo, analyzer: analyzer}
}

// ListRoutes handles GET /v1/routes - the full route catalog.
func (h *RouteHandler) ListRoutes(w http.ResponseWriter, r *http.Request) {
	routes, err := h.repo.ListRoutes(r.Context())
	if err != nil {
		response.InternalError(w, r, "failed to list routes")
		return
	}

	out := models.RouteList{Items: make([]models.Route, 0, len(routes))}
	for i := range routes {
		out.Items = append(out.Items, toRoute(&routes[i]))
	}
	response.JSON(w, r, http.StatusOK, out)
}

// GetRoute handles GET /v1/routes/{routeName} - one catalog entry.
func (h *RouteHandler) GetRoute(w http.ResponseWriter, r *http.Request) {
	routeName := chi.URLParam(r, "routeName")
	if routeName == "" {
		response.BadRequest(w, r, "routeName is required", nil)
		return
	}

	route, err := h.repo.GetRoute(r.Context(), routeName)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, toRoute(route))
}

// GetRouteAnalytics handles GET /v1/routes/{routeName}/analytics.
func (h *RouteHandler) GetRouteAnalytics(w http.ResponseWriter, r *http.Request) {
	routeName := chi.URLParam(r, "routeName")
	if routeName == "" {
		response.BadRequest(w, r, "routeName is required", nil)
		return
	}

	analytics, err := h.analyzer.RouteAnalytics(r.Context(), routeName)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, models.RouteAnalytics{
		RouteName:          analytics.RouteName,
		AverageMinutes:     analytics.AverageMinutes,
		MinMinutes:         analytics.MinMinutes,
		MaxMinutes:         analytics.MaxMinutes,
		PeakAverage:        analytics.PeakAverage,
		OffPeakAverage:     analytics.OffPeakAverage,
		WeekendAverage:     analytics.WeekendAverage,
		WetWeatherAverage:  analytics.WetWeatherAverage,
		TotalRecords:       analytics.TotalRecords,
		VariabilityPercent: analytics.Variability,
	})
}

func toRoute(route *traffic.Route) models.Route {
	return models.Route{
		Name:            route.Name,
		Origin:          route.Origin,
		Destination:     route.Destination,
		DistanceKM:      route.DistanceKM,
		TypicalSpeedKMH: route.TypicalSpeedKMH,
		RouteType:       route.RouteType,
		FloodProne:      route.FloodProne,
		NominalMinutes:  route.NominalMinutes(),
	}
}
