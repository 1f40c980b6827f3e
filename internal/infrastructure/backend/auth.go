package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/99minutos/referral-dashboard/internal/core/domain"
	"github.com/99minutos/referral-dashboard/internal/core/ports"
)

func (c *Client) LoginAdmin(ctx context.Context, in ports.LoginInput) (*domain.Credential, error) {
	const op = "admin login"
	var body struct {
		Token string     `json:"token"`
		Admin profileDTO `json:"admin"`
	}
	if err := c.do(ctx, op, http.MethodPost, "/api/admin/login", "", in, &body); err != nil {
		return nil, err
	}
	if body.Token == "" {
		return nil, fmt.Errorf("%s: no token: %w", op, domain.ErrMalformedResponse)
	}
	return &domain.Credential{Token: body.Token, Actor: body.Admin.admin()}, nil
}

func (c *Client) LoginSubAdmin(ctx context.Context, in ports.LoginInput) (*domain.Credential, error) {
	const op = "subadmin login"
	var body struct {
		Token    string     `json:"token"`
		SubAdmin profileDTO `json:"subadmin"`
	}
	if err := c.do(ctx, op, http.MethodPost, "/api/v1/subadmin/login", "", in, &body); err != nil {
		return nil, err
	}
	if body.Token == "" {
		return nil, fmt.Errorf("%s: no token: %w", op, domain.ErrMalformedResponse)
	}
	return &domain.Credential{Token: body.Token, Actor: body.SubAdmin.subAdmin()}, nil
}

// memberBody is the answer of the shared employee/end-user endpoints. The
// profile arrives under data, user or employee depending on the account.
type memberBody struct {
	envelope
	User     *profileDTO `json:"user"`
	Employee *profileDTO `json:"employee"`
}

func (b memberBody) actor() (domain.Actor, bool) {
	if p, ok := decodeProfile(b.Data); ok {
		return p.member(false), true
	}
	if b.User != nil {
		return b.User.member(false), true
	}
	if b.Employee != nil {
		return b.Employee.member(true), true
	}
	return nil, false
}

func (c *Client) LoginMember(ctx context.Context, in ports.LoginInput) (*domain.Credential, error) {
	const op = "login"
	var body memberBody
	if err := c.do(ctx, op, http.MethodPost, "/api/v1/auth/login", "", in, &body); err != nil {
		return nil, err
	}
	if body.failed() {
		return nil, rejected(op, http.StatusUnauthorized, body.Message)
	}
	actor, ok := body.actor()
	if body.Token == "" || !ok {
		return nil, fmt.Errorf("%s: no token or profile: %w", op, domain.ErrMalformedResponse)
	}
	return &domain.Credential{Token: body.Token, Actor: actor}, nil
}

func (c *Client) Me(ctx context.Context, token string) (domain.Actor, error) {
	const op = "verify session"
	var body memberBody
	if err := c.do(ctx, op, http.MethodGet, "/api/v1/auth/me", token, nil, &body); err != nil {
		return nil, err
	}
	if body.failed() {
		return nil, rejected(op, http.StatusUnauthorized, body.Message)
	}
	actor, ok := body.actor()
	if !ok {
		return nil, fmt.Errorf("%s: no profile: %w", op, domain.ErrMalformedResponse)
	}
	return actor, nil
}

func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, "logout", http.MethodPost, "/api/v1/auth/logout", token, struct{}{}, nil)
}

func (c *Client) RegisterEmployee(ctx context.Context, in ports.RegisterEmployeeInput) (*domain.Registration, error) {
	const op = "register employee"
	var body memberBody
	if err := c.do(ctx, op, http.MethodPost, "/api/v1/auth/register-employee", "", in, &body); err != nil {
		return nil, err
	}
	if body.failed() {
		return nil, rejected(op, http.StatusBadRequest, body.Message)
	}
	reg := &domain.Registration{Message: firstOf(body.Message, "Registration successful")}
	if actor, ok := body.actor(); ok && body.Token != "" {
		reg.Credential = &domain.Credential{Token: body.Token, Actor: actor}
	}
	return reg, nil
}

func (c *Client) RegisterSubAdmin(ctx context.Context, in ports.RegisterSubAdminInput) (*domain.Registration, error) {
	const op = "register subadmin"
	var body envelope
	if err := c.do(ctx, op, http.MethodPost, "/api/v1/subadmin/register", "", in, &body); err != nil {
		return nil, err
	}
	if body.failed() {
		return nil, rejected(op, http.StatusBadRequest, body.Message)
	}
	return &domain.Registration{Message: firstOf(body.Message, "Registration successful")}, nil
}

func (c *Client) RegisterEndUser(ctx context.Context, in ports.RegisterEndUserInput) (*domain.Registration, error) {
	const op = "register user"
	req := newUserDTO{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
		Age:       in.Age,
		City:      in.City,
		Password:  in.Password,
		Referral:  in.Referral,
	}
	var body memberBody
	if err := c.do(ctx, op, http.MethodPost, "/api/v1/users", "", req, &body); err != nil {
		return nil, err
	}
	if body.failed() {
		return nil, rejected(op, http.StatusBadRequest, body.Message)
	}
	reg := &domain.Registration{Message: firstOf(body.Message, "Registration successful")}
	if actor, ok := body.actor(); ok && body.Token != "" {
		reg.Credential = &domain.Credential{Token: body.Token, Actor: actor}
	}
	return reg, nil
}

// rejected converts a 2xx answer carrying success=false into a RequestError.
func rejected(op string, status int, message string) error {
	return &domain.RequestError{
		Op:      op,
		Status:  status,
		Message: firstOf(message, domain.DefaultRequestMessage(status)),
	}
}

func decodeProfile(raw json.RawMessage) (profileDTO, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return profileDTO{}, false
	}
	var p profileDTO
	if err := json.Unmarshal(raw, &p); err != nil {
		return profileDTO{}, false
	}
	return p, true
}
