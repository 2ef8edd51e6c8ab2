package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/routecast/routecast/internal/api/middleware"
	"github.com/routecast/routecast/internal/api/models"
	"github.com/routecast/routecast/internal/api/response"
)

func requestWithID(t *testing.T) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/v1/test", http.NoBody)

	var out *http.Request
	handler := middleware.RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		out = r
	}))
	handler.ServeHTTP(httptest.NewRecorder(), req)
	return out
}

func TestJSON_WritesBodyAndHeaders(t *testing.T) {
	req := requestWithID(t)
	rec := httptest.NewRecorder()

	response.JSON(rec, req, http.StatusOK, map[string]string{"hello": "world"})

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("expected X-Request-Id header")
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["hello"] != "world" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestJSON_NilBodyWritesNothing(t *testing.T) {
	req := requestWithID(t)
	rec := httptest.NewRecorder()

	response.JSON(rec, req, http.StatusNoContent, nil)

	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", rec.Body.String())
	}
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) models.Problem {
	t.Helper()
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("expected application/problem+json, got %q", ct)
	}
	var problem models.Problem
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("invalid problem body: %v", err)
	}
	return problem
}

func TestBadRequest_ReturnsProblemWithFieldErrors(t *testing.T) {
	req := requestWithID(t)
	rec := httptest.NewRecorder()

	response.BadRequest(rec, req, "invalid input", []models.FieldError{
		{Field: "hour", Message: "must be between 0 and 23"},
	})

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	problem := decodeProblem(t, rec)
	if problem.Type != models.ProblemTypeValidation {
		t.Errorf("unexpected problem type %q", problem.Type)
	}
	if len(problem.Errors) != 1 || problem.Errors[0].Field != "hour" {
		t.Errorf("unexpected field errors: %v", problem.Errors)
	}
	if problem.Instance != "/v1/test" {
		t.Errorf("unexpected instance %q", problem.Instance)
	}
}

func TestNotFound_ReturnsProblem(t *testing.T) {
	req := requestWithID(t)
	rec := httptest.NewRecorder()

	response.NotFound(rec, req, "route not found")

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	problem := decodeProblem(t, rec)
	if problem.Detail != "route not found" {
		t.Errorf("unexpected detail %q", problem.Detail)
	}
	if problem.TraceID == "" {
		t.Error("expected trace ID from request context")
	}
}

func TestInternalError_ReturnsProblem(t *testing.T) {
	req := requestWithID(t)
	rec := httptest.NewRecorder()

	response.InternalError(rec, req, "boom")

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	problem := decodeProblem(t, rec)
	if problem.Status != http.StatusInternalServerError {
		t.Errorf("unexpected status %d", problem.Status)
	}
}

func TestServiceUnavailable_ReturnsProblem(t *testing.T) {
	req := requestWithID(t)
	rec := httptest.NewRecorder()

	response.ServiceUnavailable(rec, req, "database down")

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
	problem := decodeProblem(t, rec)
	if problem.Detail != "database down" {
		t.Errorf("unexpected detail %q", problem.Detail)
	}
}
