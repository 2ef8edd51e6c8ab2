package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/routecast/routecast/internal/api/models"
	"github.com/routecast/routecast/internal/api/response"
	"github.com/routecast/routecast/internal/prediction"
)

// PredictionHandler handles travel-time estimation endpoints.
type PredictionHandler struct {
	engine     *prediction.Engine
	comparator *prediction.Comparator
	optimizer  *prediction.Optimizer
}

// NewPredictionHandler creates a new PredictionHandler.
func NewPredictionHandler(engine *prediction.Engine, comparator *prediction.Comparator, optimizer *prediction.Optimizer) *PredictionHandler {
	return &PredictionHandler{
		engine:     engine,
		comparator: comparator,
		optimizer:  optimizer,
	}
}

// ComputePrediction handles POST /v1/predictions:compute - estimate one route.
func (h *PredictionHandler) ComputePrediction(w http.ResponseWriter, r *http.Request) {
	var input models.PredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	cond, fieldErrors := parseConditions(input.DayType, input.Weather, input.Season, time.Now())
	if len(fieldErrors) > 0 {
		response.BadRequest(w, r, "invalid input", fieldErrors)
		return
	}

	result, err := h.engine.Predict(r.Context(), prediction.Request{
		RouteName: input.RouteName,
		DayType:   cond.dayType,
		Hour:      input.Hour,
		Weather:   cond.weather,
		Season:    cond.season,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, toPrediction(result))
}

// CompareRoutes handles POST /v1/routes:compare - rank every route.
func (h *PredictionHandler) CompareRoutes(w http.ResponseWriter, r *http.Request) {
	var input models.CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	cond, fieldErrors := parseConditions(input.DayType, input.Weather, input.Season, time.Now())
	if len(fieldErrors) > 0 {
		response.BadRequest(w, r, "invalid input", fieldErrors)
		return
	}

	comparison, err := h.comparator.Compare(r.Context(), prediction.Conditions{
		DayType: cond.dayType,
		Hour:    input.Hour,
		Weather: cond.weather,
		Season:  cond.season,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	out := models.Comparison{
		Conditions: models.Conditions{
			DayType: string(comparison.Conditions.DayType),
			Hour:    comparison.Conditions.Hour,
			Weather: string(comparison.Conditions.Weather),
			Season:  string(comparison.Conditions.Season),
		},
		BestRoute:       comparison.BestRoute,
		Predictions:     make([]models.Prediction, 0, len(comparison.Predictions)),
		Recommendations: comparison.Recommendations,
	}
	for i := range comparison.Predictions {
		out.Predictions = append(out.Predictions, toPrediction(&comparison.Predictions[i]))
	}

	response.JSON(w, r, http.StatusOK, out)
}

// OptimizeDeparture handles POST /v1/departures:optimize - plan a departure.
func (h *PredictionHandler) OptimizeDeparture(w http.ResponseWriter, r *http.Request) {
	var input models.OptimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	cond, fieldErrors := parseConditions(input.DayType, input.Weather, input.Season, time.Now())
	if len(fieldErrors) > 0 {
		response.BadRequest(w, r, "invalid input", fieldErrors)
		return
	}

	windowMinutes := input.WindowMinutes
	if windowMinutes == 0 {
		windowMinutes = 60
	}

	result, err := h.optimizer.OptimizeDeparture(r.Context(), input.RouteName,
		input.TargetArrivalHour, cond.dayType, cond.weather, cond.season, windowMinutes)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	out := models.OptimizationResult{
		RouteName:     result.RouteName,
		TargetArrival: result.TargetArrival,
		DepartureTime: result.DepartureTime,
		ArrivalTime:   result.ArrivalTime,
		TravelMinutes: result.TravelMinutes,
		BufferMinutes: result.BufferMinutes,
		Feasible:      result.Feasible,
		Alternatives:  make([]models.DepartureCandidate, 0, len(result.Alternatives)),
	}
	for _, alt := range result.Alternatives {
		out.Alternatives = append(out.Alternatives, models.DepartureCandidate{
			DepartureTime: alt.DepartureTime,
			ArrivalTime:   alt.ArrivalTime,
			TravelMinutes: alt.TravelMinutes,
			BufferMinutes: alt.BufferMinutes,
			Confidence:    alt.Confidence,
		})
	}

	response.JSON(w, r, http.StatusOK, out)
}

func toPrediction(result *prediction.Result) models.Prediction {
	factors := result.Factors
	if factors == nil {
		factors = []string{}
	}
	return models.Prediction{
		RouteName:        result.RouteName,
		PredictedMinutes: result.PredictedMinutes,
		Confidence:       result.Confidence,
		Factors:          factors,
		SampleSize:       result.SampleSize,
		Tier:             string(result.Tier),
	}
}
