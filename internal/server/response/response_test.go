package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/oskars/refinerywatch/pkg/errors"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

// TestJSON tests the JSON helper function.
func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	OK(w, map[string]string{"id": "ryazan"})

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type=application/json, got %s", ct)
	}

	resp := decode(t, w)
	if resp.Error != nil {
		t.Errorf("expected no error, got %+v", resp.Error)
	}
	data, ok := resp.Data.(map[string]any)
	if !ok || data["id"] != "ryazan" {
		t.Errorf("unexpected data: %#v", resp.Data)
	}
}

// TestUnauthorizedCarriesDismissDelay tests the transient login message.
func TestUnauthorizedCarriesDismissDelay(t *testing.T) {
	w := httptest.NewRecorder()
	Unauthorized(w, "Invalid credentials", "")

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
	resp := decode(t, w)
	if resp.Error == nil || resp.Error.DismissAfterMs != 3000 {
		t.Errorf("expected dismiss_after_ms=3000, got %+v", resp.Error)
	}
}

// TestRawKeepsWireFormat tests that Raw writes the value without the envelope.
func TestRawKeepsWireFormat(t *testing.T) {
	w := httptest.NewRecorder()
	Raw(w, http.StatusBadGateway, map[string]string{"error": "Failed to commit"})

	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if _, ok := body["data"]; ok {
		t.Error("raw body must not be wrapped")
	}
	if body["error"] != "Failed to commit" {
		t.Errorf("unexpected body %v", body)
	}
}

// TestErrorFromType tests mapping typed errors to status codes.
func TestErrorFromType(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", errors.NewNotFoundError("refinery", "x"), http.StatusNotFound, CodeNotFound},
		{"wrapped not found", fmt.Errorf("get: %w", errors.NewNotFoundError("refinery", "x")), http.StatusNotFound, CodeNotFound},
		{"validation", errors.NewValidationError("status", "Burning", "unknown status"), http.StatusBadRequest, CodeBadRequest},
		{"unauthorized", errors.NewAuthenticationError("password", "Invalid credentials", nil), http.StatusUnauthorized, CodeUnauthorized},
		{"in flight", errors.ErrInFlight, http.StatusConflict, CodeInFlight},
		{"nothing to publish", errors.ErrNothingToPublish, http.StatusConflict, CodeNothingToPublish},
		{"conflict", errors.NewConflictError("constants.ts", "a", "b"), http.StatusConflict, CodeConflict},
		{"not configured", errors.NewConfigError("intel", "no api key", nil), http.StatusServiceUnavailable, CodeServiceUnavailable},
		{"upstream", errors.NewAPIError("gemini", 500, "boom"), http.StatusBadGateway, CodeBadGateway},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			ErrorFromType(w, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			resp := decode(t, w)
			if resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Errorf("expected code %s, got %+v", tt.wantCode, resp.Error)
			}
		})
	}
}

// TestInternalErrorHidesDetails tests that internal errors are not leaked.
func TestInternalErrorHidesDetails(t *testing.T) {
	w := httptest.NewRecorder()
	InternalError(w, errors.New("password=hunter2"))

	resp := decode(t, w)
	if resp.Error.Details != "An unexpected error occurred" {
		t.Errorf("details leaked: %q", resp.Error.Details)
	}
}

func TestNothingToPublishPointsAtRecommit(t *testing.T) {
	w := httptest.NewRecorder()
	ErrorFromType(w, httptest.NewRequest(http.MethodPost, "/api/v1/publish", nil), errors.ErrNothingToPublish)

	resp := decode(t, w)
	if resp.Error == nil || !strings.Contains(resp.Error.Details, "recommit") {
		t.Errorf("expected recommit hint in details, got %+v", resp.Error)
	}
}
