package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/referral-dashboard/internal/api/middleware"
	"github.com/99minutos/referral-dashboard/internal/core/domain"
	"github.com/99minutos/referral-dashboard/internal/core/ports"
)

var errNoSessionStore = errors.New("session middleware not installed")

// ctxCredential returns the credential the Access middleware stored for the
// request. Its absence means the route was mounted outside the gate.
func ctxCredential(c echo.Context) (domain.Credential, error) {
	cred, ok := middleware.CredentialFrom(c)
	if !ok || cred.Actor == nil {
		role, _ := middleware.RequiredRoleFrom(c)
		return domain.Credential{}, &domain.SessionError{Role: role, Err: domain.ErrNoSession}
	}
	return cred, nil
}

func ctxSession(c echo.Context) (ports.SessionStore, error) {
	store := middleware.SessionFrom(c)
	if store == nil {
		return nil, errNoSessionStore
	}
	return store, nil
}

// recordPath is the :id segment of user, employee and sub-admin routes.
type recordPath struct {
	ID string `param:"id" validate:"required,printascii,max=64"`
}

func bindRecordID(c echo.Context) (string, error) {
	var p recordPath
	if err := (&echo.DefaultBinder{}).BindPathParams(c, &p); err != nil {
		return "", err
	}
	if err := c.Validate(&p); err != nil {
		return "", err
	}
	return p.ID, nil
}

func bindBody(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return nil
}
