package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/referral-dashboard/internal/core/domain"
	"github.com/99minutos/referral-dashboard/internal/core/policy"
	"github.com/99minutos/referral-dashboard/internal/core/ports"
)

// AuthHandler serves sign-in, signup and sign-out for every slot, plus the
// profile endpoints of the dashboards.
type AuthHandler struct {
	authService ports.AuthService
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

type loginFunc func(context.Context, ports.LoginInput) (*domain.Credential, error)

// LoginMember signs in an employee or an end user.
//
// @Summary      Employee / user login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      ports.LoginInput  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Failure      502   {object}  errorBody
// @Router       /login [post]
func (h *AuthHandler) LoginMember(c echo.Context) error {
	return h.login(c, h.authService.LoginMember)
}

// LoginAdmin signs in an administrator.
//
// @Summary      Admin login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      ports.LoginInput  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Router       /admin/login [post]
func (h *AuthHandler) LoginAdmin(c echo.Context) error {
	return h.login(c, h.authService.LoginAdmin)
}

// LoginSubAdmin signs in a sub-admin.
//
// @Summary      Sub-admin login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      ports.LoginInput  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Router       /subadmin/login [post]
func (h *AuthHandler) LoginSubAdmin(c echo.Context) error {
	return h.login(c, h.authService.LoginSubAdmin)
}

// login stores the credential in the slot of the returned actor. Other
// slots of the same session are left as they are.
func (h *AuthHandler) login(c echo.Context, call loginFunc) error {
	var req ports.LoginInput
	if err := bindBody(c, &req); err != nil {
		return err
	}
	store, err := ctxSession(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	cred, err := call(ctx, req)
	if err != nil {
		return err
	}
	if err := store.Set(ctx, *cred); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toLoginResponse(cred.Actor))
}

// SignupEndUser registers an end user.
//
// @Summary      User self signup
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      ports.RegisterEndUserInput  true  "User details"
// @Success      201   {object}  registrationResponse
// @Failure      400   {object}  errorBody
// @Router       /signup [post]
func (h *AuthHandler) SignupEndUser(c echo.Context) error {
	var req ports.RegisterEndUserInput
	if err := bindBody(c, &req); err != nil {
		return err
	}
	reg, err := h.authService.RegisterEndUser(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toRegistrationResponse(reg))
}

// SignupSubAdmin registers a sub-admin.
//
// @Summary      Sub-admin signup
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      ports.RegisterSubAdminInput  true  "Sub-admin details"
// @Success      201   {object}  registrationResponse
// @Failure      400   {object}  errorBody
// @Router       /subadmin/signup [post]
func (h *AuthHandler) SignupSubAdmin(c echo.Context) error {
	var req ports.RegisterSubAdminInput
	if err := bindBody(c, &req); err != nil {
		return err
	}
	reg, err := h.authService.RegisterSubAdmin(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toRegistrationResponse(reg))
}

// Logout returns a handler that clears the slot governed by role.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /logout [post]
// @Router       /admin/logout [post]
// @Router       /subadmin/logout [post]
func (h *AuthHandler) Logout(role domain.Role) echo.HandlerFunc {
	return func(c echo.Context) error {
		store, err := ctxSession(c)
		if err != nil {
			return err
		}
		if err := h.authService.Logout(c.Request().Context(), store, role); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, messageResponse{
			Message:  "Logged out successfully",
			Redirect: policy.LoginRoute(role),
		})
	}
}

// Me returns the cached profile of the slot that guarded the route.
//
// @Summary      Current profile
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  errorBody
// @Router       /admin/me [get]
// @Router       /subadmin/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	cred, err := ctxCredential(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionResponse(cred.Actor))
}

// DashboardSession verifies the employee token with the backend and
// refreshes the cached profile. A rejected token ends the session.
//
// @Summary      Verify the employee session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  errorBody
// @Router       /dashboard/session [get]
func (h *AuthHandler) DashboardSession(c echo.Context) error {
	cred, err := ctxCredential(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	actor, err := h.authService.Verify(ctx, cred.Token)
	if err != nil {
		return err
	}
	if actor == nil || actor.Role() != domain.RoleEmployee {
		// The profile endpoint answered for someone else; keep the cached one.
		h.log.Warn().Str("actor_id", cred.Actor.ActorID()).Msg("profile refresh returned a different actor kind")
		return c.JSON(http.StatusOK, toSessionResponse(cred.Actor))
	}

	if store, serr := ctxSession(c); serr == nil {
		if err := store.Set(ctx, domain.Credential{Token: cred.Token, Actor: actor}); err != nil {
			h.log.Warn().Err(err).Msg("failed to refresh cached profile")
		}
	}
	return c.JSON(http.StatusOK, toSessionResponse(actor))
}
