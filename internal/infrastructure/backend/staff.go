package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/99minutos/referral-dashboard/internal/core/domain"
)

func (c *Client) ListEmployees(ctx context.Context, token string) ([]domain.EmployeeRecord, error) {
	profiles, err := c.listProfiles(ctx, "list employees", "/api/employee", token)
	if err != nil {
		return nil, err
	}
	out := make([]domain.EmployeeRecord, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, p.employeeRecord())
	}
	return out, nil
}

func (c *Client) DeleteEmployee(ctx context.Context, token, id string) error {
	return c.deleteAccount(ctx, "delete employee", "/api/employee/"+url.PathEscape(id), token)
}

func (c *Client) ListSubAdmins(ctx context.Context, token string) ([]domain.SubAdminRecord, error) {
	profiles, err := c.listProfiles(ctx, "list subadmins", "/api/v1/subadmin", token)
	if err != nil {
		return nil, err
	}
	out := make([]domain.SubAdminRecord, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, p.subAdminRecord())
	}
	return out, nil
}

func (c *Client) DeleteSubAdmin(ctx context.Context, token, id string) error {
	return c.deleteAccount(ctx, "delete subadmin", "/api/subadmins/"+url.PathEscape(id), token)
}

func (c *Client) listProfiles(ctx context.Context, op, path, token string) ([]profileDTO, error) {
	var raw json.RawMessage
	if err := c.do(ctx, op, http.MethodGet, path, token, nil, &raw); err != nil {
		return nil, err
	}
	var env envelope
	if json.Unmarshal(raw, &env) == nil && env.failed() {
		return nil, rejected(op, http.StatusBadRequest, env.Message)
	}
	list, err := items(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrMalformedResponse)
	}
	var profiles []profileDTO
	if len(bytes.TrimSpace(list)) > 0 {
		if err := json.Unmarshal(list, &profiles); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}
	}
	return profiles, nil
}

func (c *Client) deleteAccount(ctx context.Context, op, path, token string) error {
	var env envelope
	if err := c.do(ctx, op, http.MethodDelete, path, token, nil, &env); err != nil {
		return mapNotFound(err)
	}
	if env.failed() {
		return rejected(op, http.StatusBadRequest, env.Message)
	}
	return nil
}
