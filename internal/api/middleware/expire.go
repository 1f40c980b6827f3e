package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/referral-dashboard/internal/api/metrics"
	"github.com/99minutos/referral-dashboard/internal/core/domain"
)

// ExpireOn401 ends the session for the enforced role when the backend
// rejects its token. Handlers on public routes are left alone, so a failed
// login keeps its own message.
func ExpireOn401(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil || !errors.Is(err, domain.ErrUnauthorized) {
				return err
			}
			role, ok := RequiredRoleFrom(c)
			if !ok {
				return err
			}

			if store := SessionFrom(c); store != nil {
				if clearErr := store.Clear(c.Request().Context(), role); clearErr != nil {
					log.Error().Err(clearErr).Str("role", role.String()).Msg("failed to clear expired session")
				}
			}
			metrics.SessionsExpiredTotal.WithLabelValues(role.String()).Inc()
			log.Info().Str("role", role.String()).Str("path", c.Path()).Msg("session expired")

			return &domain.SessionError{Role: role, Err: domain.ErrSessionExpired}
		}
	}
}
