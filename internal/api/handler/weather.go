package handler

import (
	"net/http"

	"github.com/routecast/routecast/internal/api/models"
	"github.com/routecast/routecast/internal/api/response"
	"github.com/routecast/routecast/internal/weather"
)

// WeatherHandler handles corridor weather endpoints.
type WeatherHandler struct {
	service *weather.Service
}

// NewWeatherHandler creates a new WeatherHandler.
func NewWeatherHandler(service *weather.Service) *WeatherHandler {
	return &WeatherHandler{service: service}
}

// GetCurrentWeather handles GET /v1/weather/current - corridor conditions
// with their commute impact and flood risk.
func (h *WeatherHandler) GetCurrentWeather(w http.ResponseWriter, r *http.Request) {
	obs := h.service.Current(r.Context())
	impact := weather.AssessImpact(obs)

	response.JSON(w, r, http.StatusOK, models.CurrentWeather{
		Condition:       string(obs.Condition),
		TemperatureC:    obs.TemperatureC,
		HumidityPercent: obs.HumidityPercent,
		WindSpeedKMH:    obs.WindSpeedKMH,
		Description:     obs.Description,
		ObservedAt:      models.Timestamp(obs.ObservedAt),
		Simulated:       obs.Simulated,
		Impact: models.WeatherImpact{
			Severity:        impact.Severity,
			ExpectedDelay:   impact.ExpectedDelay,
			AffectedRoutes:  impact.AffectedRoutes,
			Recommendations: impact.Recommendations,
		},
		FloodRisk: weather.FloodRisk(obs.Condition),
	})
}
