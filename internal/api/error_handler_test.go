package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/referral-dashboard/internal/core/domain"
	"github.com/99minutos/referral-dashboard/internal/infrastructure/queue"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantCode     int
		wantMsg      string
		wantRedirect string
	}{
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), 400, "invalid payload", ""},
		{"no session", &domain.SessionError{Role: domain.RoleSubAdmin, Err: domain.ErrNoSession}, 401, "authentication required", "/subadmin/login"},
		{"expired", &domain.SessionError{Role: domain.RoleEmployee, Err: domain.ErrSessionExpired}, 401, "session expired, please login again", "/login"},
		{"validation", domain.NewValidationError("Passwords do not match"), 400, "Passwords do not match", ""},
		{"not found", fmt.Errorf("get user: %w", domain.ErrRecordNotFound), 404, "record not found", ""},
		{"forbidden", fmt.Errorf("%w: outside scope", domain.ErrForbidden), 403, "access forbidden", ""},
		{"invalid transition", fmt.Errorf("%w (proceed from completed)", domain.ErrInvalidTransition), 422, "invalid status transition (proceed from completed)", ""},
		{"unknown status", fmt.Errorf("%w: %q", domain.ErrUnknownStatus, "archived"), 502, "unexpected response from server", ""},
		{"breaker open", domain.ErrBackendUnavailable, 503, domain.ErrBackendUnavailable.Error(), ""},
		{"dispatcher stopped", queue.ErrStopped, 503, domain.ErrBackendUnavailable.Error(), ""},
		{"backend 4xx", &domain.RequestError{Status: 404, Message: "Account not found"}, 404, "Account not found", ""},
		{"backend 5xx", &domain.RequestError{Status: 500, Message: "Server error. Please try again later."}, 502, "Server error. Please try again later.", ""},
		{"network", &domain.NetworkError{Timeout: true, Err: errors.New("deadline")}, 502, "Request timeout. Please check your connection.", ""},
		{"unexpected", errors.New("boom"), 500, "internal server error", ""},
	}

	handler := NewHTTPErrorHandler(zerolog.Nop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/admin/users", nil), rec)

			handler(tt.err, c)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Error != tt.wantMsg {
				t.Fatalf("expected message %q, got %q", tt.wantMsg, body.Error)
			}
			if body.Redirect != tt.wantRedirect {
				t.Fatalf("expected redirect %q, got %q", tt.wantRedirect, body.Redirect)
			}
		})
	}
}

func TestHTTPErrorHandler_ValidationDetails(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/signup", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(domain.NewValidationError("email is required", "city is required"), c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(body.Details) != 2 {
		t.Fatalf("expected 2 details, got %v", body.Details)
	}
}
