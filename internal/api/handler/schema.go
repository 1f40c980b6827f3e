package handler

import "github.com/99minutos/referral-dashboard/internal/core/domain"

// --- Request types are the ports inputs; responses below ---

// sessionResponse describes the signed-in actor of one slot. The token
// never leaves the gateway.
type sessionResponse struct {
	Role     string       `json:"role"`
	Name     string       `json:"name"`
	Profile  domain.Actor `json:"profile" swaggertype:"object"`
	Redirect string       `json:"redirect,omitempty"`
}

type registrationResponse struct {
	Message string       `json:"message"`
	Role    string       `json:"role,omitempty"`
	Profile domain.Actor `json:"profile,omitempty" swaggertype:"object"`
}

type messageResponse struct {
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}

type userListResponse struct {
	Data []domain.UserRecord `json:"data"`
}

type userResponse struct {
	Data *domain.UserRecord `json:"data"`
}

type employeeListResponse struct {
	Data []domain.EmployeeRecord `json:"data"`
}

type subAdminListResponse struct {
	Data []domain.SubAdminRecord `json:"data"`
}

// errorBody documents the envelope rendered by the HTTP error handler.
type errorBody struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect,omitempty"`
}
