package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/referral-dashboard/internal/core/ports"
)

// StaffHandler serves employee and sub-admin account management.
type StaffHandler struct {
	service ports.StaffService
}

func NewStaffHandler(service ports.StaffService) *StaffHandler {
	return &StaffHandler{service: service}
}

// RegisterEmployee handles POST /subadmin/employees.
//
// @Summary      Register an employee referred by the sub-admin
// @Tags         staff
// @Accept       json
// @Produce      json
// @Param        body  body      ports.RegisterEmployeeInput  true  "Employee details"
// @Success      201   {object}  registrationResponse
// @Failure      400   {object}  errorBody
// @Failure      403   {object}  errorBody
// @Router       /subadmin/employees [post]
func (h *StaffHandler) RegisterEmployee(c echo.Context) error {
	cred, err := ctxCredential(c)
	if err != nil {
		return err
	}
	var req ports.RegisterEmployeeInput
	if err := bindBody(c, &req); err != nil {
		return err
	}
	reg, err := h.service.RegisterEmployee(c.Request().Context(), cred, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toRegistrationResponse(reg))
}

// ListEmployees handles GET /{admin,subadmin}/employees.
//
// @Summary      List employees
// @Tags         staff
// @Produce      json
// @Success      200  {object}  employeeListResponse
// @Failure      403  {object}  errorBody
// @Router       /admin/employees [get]
// @Router       /subadmin/employees [get]
func (h *StaffHandler) ListEmployees(c echo.Context) error {
	cred, err := ctxCredential(c)
	if err != nil {
		return err
	}
	out, err := h.service.ListEmployees(c.Request().Context(), cred)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, employeeListResponse{Data: nonNil(out)})
}

// DeleteEmployee handles DELETE /{admin,subadmin}/employees/:id.
//
// @Summary      Delete an employee
// @Tags         staff
// @Param        id   path  string  true  "Employee id"
// @Success      204
// @Failure      403  {object}  errorBody
// @Router       /admin/employees/{id} [delete]
// @Router       /subadmin/employees/{id} [delete]
func (h *StaffHandler) DeleteEmployee(c echo.Context) error {
	cred, err := ctxCredential(c)
	if err != nil {
		return err
	}
	id, err := bindRecordID(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteEmployee(c.Request().Context(), cred, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListSubAdmins handles GET /admin/subadmins.
//
// @Summary      List sub-admins
// @Tags         staff
// @Produce      json
// @Success      200  {object}  subAdminListResponse
// @Failure      403  {object}  errorBody
// @Router       /admin/subadmins [get]
func (h *StaffHandler) ListSubAdmins(c echo.Context) error {
	cred, err := ctxCredential(c)
	if err != nil {
		return err
	}
	out, err := h.service.ListSubAdmins(c.Request().Context(), cred)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, subAdminListResponse{Data: nonNil(out)})
}

// DeleteSubAdmin handles DELETE /admin/subadmins/:id.
//
// @Summary      Delete a sub-admin
// @Tags         staff
// @Param        id   path  string  true  "Sub-admin id"
// @Success      204
// @Failure      403  {object}  errorBody
// @Router       /admin/subadmins/{id} [delete]
func (h *StaffHandler) DeleteSubAdmin(c echo.Context) error {
	cred, err := ctxCredential(c)
	if err != nil {
		return err
	}
	id, err := bindRecordID(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteSubAdmin(c.Request().Context(), cred, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
