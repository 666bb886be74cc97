package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/piwi3910/BoardCut/internal/engine"
	"github.com/piwi3910/BoardCut/internal/model"
)

// Error codes returned in ErrorResponse.Error.
const (
	ErrCodeBadRequest = "bad_request"
	ErrCodeInvalid    = "invalid_problem"
	ErrCodeInfeasible = "infeasible"
	ErrCodeGaveUp     = "gave_up"
	ErrCodeCancelled  = "cancelled"
	ErrCodeInternal   = "internal_error"
)

// ErrorResponse is the body of every non-2xx API response and of the
// "error" stream event.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Material  string `json:"material,omitempty"`
	Part      string `json:"part,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// errorResponse maps a solve error to an HTTP status and response body.
func errorResponse(err error) (int, ErrorResponse) {
	resp := ErrorResponse{Message: err.Error()}

	var matErr *engine.MaterialError
	if errors.As(err, &matErr) {
		resp.Material = matErr.Material.Name
	}
	var invalid *model.InvalidError
	if errors.As(err, &invalid) && invalid.Material != "" {
		resp.Material = invalid.Material
	}

	var infeasible *engine.InfeasibleError
	switch {
	case errors.As(err, &infeasible):
		resp.Error = ErrCodeInfeasible
		resp.Part = infeasible.Part
		return http.StatusUnprocessableEntity, resp
	case errors.Is(err, engine.ErrGaveUp):
		resp.Error = ErrCodeGaveUp
		return http.StatusUnprocessableEntity, resp
	case errors.Is(err, model.ErrInvalidProblem):
		resp.Error = ErrCodeInvalid
		return http.StatusBadRequest, resp
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		resp.Error = ErrCodeCancelled
		return http.StatusServiceUnavailable, resp
	default:
		resp.Error = ErrCodeInternal
		return http.StatusInternalServerError, resp
	}
}
