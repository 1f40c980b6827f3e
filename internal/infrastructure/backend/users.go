package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/99minutos/referral-dashboard/internal/api/metrics"
	"github.com/99minutos/referral-dashboard/internal/core/domain"
)

// ListUsers returns every record the backend hands out. Records with a
// status outside the workflow are skipped and logged.
func (c *Client) ListUsers(ctx context.Context, token string) ([]domain.UserRecord, error) {
	dtos, err := c.listUserDTOs(ctx, token)
	if err != nil {
		return nil, err
	}

	records := make([]domain.UserRecord, 0, len(dtos))
	for _, dto := range dtos {
		rec, err := dto.record()
		if err != nil {
			c.log.Warn().
				Str("user_id", firstOf(dto.MongoID, dto.ID)).
				Str("status", dto.Status).
				Msg("skipping user record with unknown status")
			metrics.RecordsSkippedTotal.WithLabelValues("unknown_status").Inc()
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (c *Client) listUserDTOs(ctx context.Context, token string) ([]userDTO, error) {
	const op = "list users"
	var raw json.RawMessage
	if err := c.do(ctx, op, http.MethodGet, "/api/v1/users", token, nil, &raw); err != nil {
		return nil, err
	}
	list, err := items(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrMalformedResponse)
	}

	var dtos []userDTO
	if len(bytes.TrimSpace(list)) > 0 {
		if err := json.Unmarshal(list, &dtos); err != nil {
			return nil, fmt.Errorf("%s: decode users: %w", op, err)
		}
	}
	return dtos, nil
}

// GetUser reads one record. Backends without a single-record endpoint
// answer 404 or 405; the record is then looked up in the listing.
func (c *Client) GetUser(ctx context.Context, token, id string) (*domain.UserRecord, error) {
	const op = "get user"
	var raw json.RawMessage
	err := c.do(ctx, op, http.MethodGet, "/api/v1/users/"+url.PathEscape(id), token, nil, &raw)
	var re *domain.RequestError
	if errors.As(err, &re) && (re.Status == http.StatusNotFound || re.Status == http.StatusMethodNotAllowed) {
		return c.findUser(ctx, token, id)
	}
	if err != nil {
		return nil, err
	}
	dto, err := single(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	rec, err := dto.record()
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", op, id, err)
	}
	return &rec, nil
}

func (c *Client) findUser(ctx context.Context, token, id string) (*domain.UserRecord, error) {
	dtos, err := c.listUserDTOs(ctx, token)
	if err != nil {
		return nil, err
	}
	for _, dto := range dtos {
		if firstOf(dto.MongoID, dto.ID) != id {
			continue
		}
		rec, err := dto.record()
		if err != nil {
			return nil, fmt.Errorf("get user %s: %w", id, err)
		}
		return &rec, nil
	}
	return nil, fmt.Errorf("get user %s: %w", id, domain.ErrRecordNotFound)
}

// CreateUser submits in. When the backend echoes no record, the result is
// built from in with the initial status.
func (c *Client) CreateUser(ctx context.Context, token string, in domain.NewUserRecord) (*domain.UserRecord, error) {
	const op = "create user"
	var raw json.RawMessage
	if err := c.do(ctx, op, http.MethodPost, "/api/v1/users", token, toNewUserDTO(in), &raw); err != nil {
		return nil, err
	}
	var env envelope
	if json.Unmarshal(raw, &env) == nil && env.failed() {
		return nil, rejected(op, http.StatusBadRequest, env.Message)
	}

	if dto, err := single(raw); err == nil {
		if rec, err := dto.record(); err == nil && rec.ID != "" {
			return &rec, nil
		}
	}
	return &domain.UserRecord{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
		Age:       in.Age,
		City:      in.City,
		Referral:  in.Referral,
		Status:    domain.StatusPending,
	}, nil
}

func (c *Client) UpdateUserStatus(ctx context.Context, token, id string, status domain.UserStatus) error {
	body := struct {
		Status domain.UserStatus `json:"status"`
	}{Status: status}
	err := c.do(ctx, "update user status", http.MethodPut, "/api/v1/users/"+url.PathEscape(id), token, body, nil)
	return mapNotFound(err)
}

func (c *Client) DeleteUser(ctx context.Context, token, id string) error {
	err := c.do(ctx, "delete user", http.MethodDelete, "/api/v1/users/"+url.PathEscape(id), token, nil, nil)
	return mapNotFound(err)
}

// single decodes one user record, wrapped in data or bare.
func single(raw json.RawMessage) (userDTO, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return userDTO{}, domain.ErrMalformedResponse
	}
	body := raw
	if data := bytes.TrimSpace(env.Data); len(data) > 0 && data[0] == '{' {
		body = data
	}
	var dto userDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return userDTO{}, domain.ErrMalformedResponse
	}
	return dto, nil
}

// mapNotFound wraps a 404 answer with domain.ErrRecordNotFound so callers
// can test it without knowing about HTTP.
func mapNotFound(err error) error {
	var re *domain.RequestError
	if errors.As(err, &re) && re.Status == http.StatusNotFound {
		return fmt.Errorf("%w: %w", domain.ErrRecordNotFound, re)
	}
	return err
}
