package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/referral-dashboard/internal/core/domain"
	"github.com/99minutos/referral-dashboard/internal/core/policy"
	"github.com/99minutos/referral-dashboard/internal/infrastructure/queue"
)

// errorResponse is the canonical error envelope for all API errors.
// Redirect is set when the client must sign in again.
type errorResponse struct {
	Error    string   `json:"error"`
	Redirect string   `json:"redirect,omitempty"`
	Details  []string `json:"details,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Sends session failures back with the login route of the role.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, resp := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var se *domain.SessionError
	if errors.As(err, &se) {
		return http.StatusUnauthorized, errorResponse{Error: se.Error(), Redirect: policy.LoginRoute(se.Role)}
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		resp := errorResponse{Error: ve.Error()}
		if len(ve.Problems) > 1 {
			resp.Details = ve.Problems
		}
		return http.StatusBadRequest, resp
	}

	switch {
	case errors.Is(err, domain.ErrRecordNotFound):
		return http.StatusNotFound, errorResponse{Error: "record not found"}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: "access forbidden"}
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusUnprocessableEntity, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrUnknownTransition):
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrUnknownStatus), errors.Is(err, domain.ErrMalformedResponse):
		log.Warn().Err(err).Str("path", c.Path()).Msg("backend answered with an unexpected payload")
		return http.StatusBadGateway, errorResponse{Error: domain.ErrMalformedResponse.Error()}
	case errors.Is(err, domain.ErrBackendUnavailable), errors.Is(err, queue.ErrStopped):
		return http.StatusServiceUnavailable, errorResponse{Error: domain.ErrBackendUnavailable.Error()}
	case errors.Is(err, domain.ErrSessionExpired), errors.Is(err, domain.ErrNoSession):
		return http.StatusUnauthorized, errorResponse{Error: err.Error()}
	}

	var re *domain.RequestError
	if errors.As(err, &re) {
		if re.Status >= http.StatusInternalServerError {
			return http.StatusBadGateway, errorResponse{Error: re.Message}
		}
		return re.Status, errorResponse{Error: re.Message}
	}

	var ne *domain.NetworkError
	if errors.As(err, &ne) {
		log.Warn().Err(ne.Err).Str("op", ne.Op).Bool("timeout", ne.Timeout).Msg("backend unreachable")
		return http.StatusBadGateway, errorResponse{Error: ne.Error()}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
