package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/referral-dashboard/internal/core/ports"
)

// UserHandler serves the user-record routes of every dashboard. Scope comes
// from the credential of the slot that guarded the route.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List handles GET /{admin,subadmin,dashboard}/users.
//
// @Summary      List user records in scope
// @Tags         users
// @Produce      json
// @Success      200  {object}  userListResponse
// @Failure      401  {object}  errorBody
// @Failure      502  {object}  errorBody
// @Router       /admin/users [get]
// @Router       /subadmin/users [get]
// @Router       /dashboard/users [get]
func (h *UserHandler) List(c echo.Context) error {
	cred, err := ctxCredential(c)
	if err != nil {
		return err
	}
	records, err := h.service.List(c.Request().Context(), cred)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userListResponse{Data: nonNil(records)})
}

// Create handles POST /{subadmin,dashboard}/users. The referral is always the
// signed-in actor.
//
// @Summary      Onboard a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      ports.CreateUserInput  true  "User details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorBody
// @Failure      403   {object}  errorBody
// @Router       /subadmin/users [post]
// @Router       /dashboard/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	cred, err := ctxCredential(c)
	if err != nil {
		return err
	}
	var req ports.CreateUserInput
	if err := bindBody(c, &req); err != nil {
		return err
	}
	rec, err := h.service.Create(c.Request().Context(), cred, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, userResponse{Data: rec})
}

// Proceed handles POST /.../users/:id/proceed.
//
// @Summary      Move a user record to in-progress
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User record id"
// @Success      200  {object}  userResponse
// @Failure      403  {object}  errorBody
// @Failure      404  {object}  errorBody
// @Failure      422  {object}  errorBody
// @Router       /admin/users/{id}/proceed [post]
// @Router       /subadmin/users/{id}/proceed [post]
// @Router       /dashboard/users/{id}/proceed [post]
func (h *UserHandler) Proceed(c echo.Context) error {
	cred, err := ctxCredential(c)
	if err != nil {
		return err
	}
	id, err := bindRecordID(c)
	if err != nil {
		return err
	}
	rec, err := h.service.Proceed(c.Request().Context(), cred, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{Data: rec})
}

// Complete handles POST /.../users/:id/complete.
//
// @Summary      Mark a user record completed
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User record id"
// @Success      200  {object}  userResponse
// @Failure      403  {object}  errorBody
// @Failure      404  {object}  errorBody
// @Router       /admin/users/{id}/complete [post]
// @Router       /subadmin/users/{id}/complete [post]
// @Router       /dashboard/users/{id}/complete [post]
func (h *UserHandler) Complete(c echo.Context) error {
	cred, err := ctxCredential(c)
	if err != nil {
		return err
	}
	id, err := bindRecordID(c)
	if err != nil {
		return err
	}
	rec, err := h.service.Complete(c.Request().Context(), cred, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{Data: rec})
}

// Delete handles DELETE /.../users/:id.
//
// @Summary      Delete a user record
// @Tags         users
// @Param        id   path  string  true  "User record id"
// @Success      204
// @Failure      403  {object}  errorBody
// @Failure      404  {object}  errorBody
// @Router       /admin/users/{id} [delete]
// @Router       /subadmin/users/{id} [delete]
// @Router       /dashboard/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	cred, err := ctxCredential(c)
	if err != nil {
		return err
	}
	id, err := bindRecordID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), cred, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
