package handler

import (
	"errors"
	"net/http"

	"github.com/routecast/routecast/internal/api/models"
	"github.com/routecast/routecast/internal/api/response"
	"github.com/routecast/routecast/internal/prediction"
	"github.com/routecast/routecast/internal/traffic"
)

// writeDomainError maps estimation-core errors onto problem responses.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var invalid *prediction.InvalidInputError
	switch {
	case errors.As(err, &invalid):
		response.BadRequest(w, r, "invalid input", []models.FieldError{
			{Field: invalid.Field, Message: invalid.Reason},
		})
	case errors.Is(err, prediction.ErrInvalidWindow):
		response.BadRequest(w, r, "windowMinutes must be positive", []models.FieldError{
			{Field: "windowMinutes", Message: "must be greater than zero"},
		})
	case errors.Is(err, traffic.ErrRouteNotFound):
		response.NotFound(w, r, "route not found")
	default:
		response.InternalError(w, r, "an unexpected error occurred")
	}
}
