package handler

import (
	"net/http"

	"github.com/routecast/routecast/internal/api/models"
	"github.com/routecast/routecast/internal/api/response"
	"github.com/routecast/routecast/internal/prediction"
	"github.com/routecast/routecast/internal/traffic"
)

// MetadataHandler handles metadata endpoints.
type MetadataHandler struct{}

// NewMetadataHandler creates a new MetadataHandler.
func NewMetadataHandler() *MetadataHandler {
	return &MetadataHandler{}
}

// GetEnums handles GET /v1/metadata/enums - the enum values accepted by
// prediction requests.
func (h *MetadataHandler) GetEnums(w http.ResponseWriter, r *http.Request) {
	enums := models.Enums{
		DayTypes: []string{string(traffic.DayTypeWeekday), string(traffic.DayTypeWeekend)},
		Weathers: make([]string, 0, 4),
		Seasons:  make([]string, 0, 4),
		Tiers: []string{
			string(prediction.TierExact),
			string(prediction.TierHourDay),
			string(prediction.TierDayType),
			string(prediction.TierRoute),
			string(prediction.TierNominal),
		},
	}
	for _, v := range traffic.Weathers() {
		enums.Weathers = append(enums.Weathers, string(v))
	}
	for _, v := range traffic.Seasons() {
		enums.Seasons = append(enums.Seasons, string(v))
	}
	response.JSON(w, r, http.StatusOK, enums)
}
