// Package response provides standardized HTTP response structures and helpers
// for the refinerywatch API. Responses carry a data field on success and an
// error field on failure.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/oskars/refinerywatch/pkg/constants"
	"github.com/oskars/refinerywatch/pkg/errors"
	"github.com/oskars/refinerywatch/pkg/logging"
)

// Response represents the standardized API response structure.
type Response struct {
	Data  any    `json:"data"`
	Error *Error `json:"error"`
}

// Error represents an API error with code, message, and optional details.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`

	// DismissAfterMs tells the UI how long to keep a transient message.
	DismissAfterMs int64 `json:"dismiss_after_ms,omitempty"`
}

// Error codes.
const (
	CodeBadRequest         = "BAD_REQUEST"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeNotFound           = "NOT_FOUND"
	CodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	CodeConflict           = "CONFLICT"
	CodeInFlight           = "IN_FLIGHT"
	CodeNothingToPublish   = "NOTHING_TO_PUBLISH"
	CodeRateLimited        = "RATE_LIMITED"
	CodeInternal           = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeBadGateway         = "BAD_GATEWAY"
)

// Success creates a successful response with data.
func Success(data any) Response {
	return Response{Data: data}
}

// Fail creates an error response.
func Fail(code, message, details string) Response {
	return Response{
		Error: &Error{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, resp Response) {
	Raw(w, status, resp)
}

// Raw writes any value as JSON. It serves the commit proxy, whose wire
// format predates the envelope.
func Raw(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// headers are already sent, nothing to do on failure
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes a successful response with 200 status.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Success(data))
}

// BadRequest writes a 400 error response.
func BadRequest(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusBadRequest, Fail(CodeBadRequest, message, details))
}

// Unauthorized writes a 401 error response. The message is transient.
func Unauthorized(w http.ResponseWriter, message, details string) {
	resp := Fail(CodeUnauthorized, message, details)
	resp.Error.DismissAfterMs = constants.AuthErrorDismiss.Milliseconds()
	JSON(w, http.StatusUnauthorized, resp)
}

// NotFound writes a 404 error response.
func NotFound(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusNotFound, Fail(CodeNotFound, message, details))
}

// Conflict writes a 409 error response.
func Conflict(w http.ResponseWriter, code, message, details string) {
	JSON(w, http.StatusConflict, Fail(code, message, details))
}

// MethodNotAllowed writes a 405 error response.
func MethodNotAllowed(w http.ResponseWriter, method string) {
	JSON(w, http.StatusMethodNotAllowed, Fail(
		CodeMethodNotAllowed,
		"Method not allowed",
		"Method "+method+" is not supported for this endpoint",
	))
}

// RateLimited writes a 429 error response.
func RateLimited(w http.ResponseWriter, message string) {
	JSON(w, http.StatusTooManyRequests, Fail(CodeRateLimited, "Rate limit exceeded", message))
}

// InternalError writes a 500 error response without exposing err.
func InternalError(w http.ResponseWriter, _ error) {
	JSON(w, http.StatusInternalServerError, Fail(
		CodeInternal,
		"Internal server error",
		"An unexpected error occurred",
	))
}

// ServiceUnavailable writes a 503 error response.
func ServiceUnavailable(w http.ResponseWriter, message string) {
	JSON(w, http.StatusServiceUnavailable, Fail(CodeServiceUnavailable, "Service unavailable", message))
}

// ErrorFromType maps typed errors to HTTP responses and logs server-side
// failures on the request logger.
func ErrorFromType(w http.ResponseWriter, r *http.Request, err error) {
	var (
		notFound   *errors.NotFoundError
		validation *errors.ValidationError
		authn      *errors.AuthenticationError
		api        *errors.APIError
	)
	switch {
	case errors.As(err, &notFound):
		NotFound(w, notFound.Error(), "")
	case errors.As(err, &validation):
		BadRequest(w, validation.Error(), "")
	case errors.Is(err, errors.ErrInvalidInput):
		BadRequest(w, err.Error(), "")
	case errors.As(err, &authn):
		Unauthorized(w, authn.Message, "")
	case errors.Is(err, errors.ErrInFlight):
		Conflict(w, CodeInFlight, err.Error(), "")
	case errors.Is(err, errors.ErrNothingToPublish):
		Conflict(w, CodeNothingToPublish, err.Error(), "Use recommit to resend the current published list")
	case errors.Is(err, errors.ErrConflict):
		Conflict(w, CodeConflict, err.Error(), "")
	case errors.Is(err, errors.ErrNotConfigured):
		ServiceUnavailable(w, err.Error())
	case errors.As(err, &api):
		logging.FromContext(r.Context()).Warn().Err(err).Msg("Upstream request failed")
		JSON(w, http.StatusBadGateway, Fail(CodeBadGateway, "Upstream request failed", api.Error()))
	case errors.Is(err, errors.ErrUnavailable):
		logging.FromContext(r.Context()).Warn().Err(err).Msg("Upstream unavailable")
		JSON(w, http.StatusBadGateway, Fail(CodeBadGateway, "Upstream unavailable", err.Error()))
	default:
		logging.FromContext(r.Context()).Error().Err(err).Msg("Request failed")
		InternalError(w, err)
	}
}
