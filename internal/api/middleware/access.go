package middleware

import (
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/referral-dashboard/internal/core/domain"
	"github.com/99minutos/referral-dashboard/internal/core/policy"
)

const ctxRoleKey = "required_role"

// Access gates the dashboard route tree. Public routes pass through; a
// protected route requires the slot for its role to hold an actor of that
// exact role, whose credential is then injected for the handler. A profile
// rebuilt from token claims only opens the profile routes.
func Access() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			route := c.Request().URL.Path
			role, protected := policy.RequiredRole(route)
			if !protected {
				return next(c)
			}

			store := SessionFrom(c)
			if store == nil {
				return &domain.SessionError{Role: role, Err: domain.ErrNoSession}
			}

			ctx := c.Request().Context()
			snap, err := store.Snapshot(ctx)
			if err != nil {
				return fmt.Errorf("load session snapshot: %w", err)
			}
			if !policy.CanAccess(route, snap) {
				return &domain.SessionError{Role: role, Err: domain.ErrNoSession}
			}

			cred, err := store.Get(ctx, role)
			if errors.Is(err, domain.ErrNoSession) {
				return &domain.SessionError{Role: role, Err: domain.ErrNoSession}
			}
			if err != nil {
				return fmt.Errorf("load %s credential: %w", role, err)
			}
			if cred.FromClaims && !policy.AcceptsClaimsProfile(route) {
				return &domain.SessionError{Role: role, Err: domain.ErrNoSession}
			}

			c.Set(ctxRoleKey, role)
			c.Set(ctxCredentialKey, *cred)
			return next(c)
		}
	}
}

// CredentialFrom returns the credential injected by Access.
func CredentialFrom(c echo.Context) (domain.Credential, bool) {
	cred, ok := c.Get(ctxCredentialKey).(domain.Credential)
	return cred, ok
}

// RequiredRoleFrom returns the role Access enforced for the request.
func RequiredRoleFrom(c echo.Context) (domain.Role, bool) {
	role, ok := c.Get(ctxRoleKey).(domain.Role)
	return role, ok
}
