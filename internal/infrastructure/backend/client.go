// Package backend is the HTTP client for the referral REST backend. It turns
// every answer into domain values or into the domain error taxonomy.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/99minutos/referral-dashboard/internal/api/metrics"
	"github.com/99minutos/referral-dashboard/internal/core/domain"
	"github.com/99minutos/referral-dashboard/internal/core/ports"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 4 << 20
)

// Client implements ports.Backend.
type Client struct {
	baseURL string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker
	log     zerolog.Logger
}

var _ ports.Backend = (*Client)(nil)

// New creates a client for baseURL. Every request shares the same timeout;
// if timeout <= 0, defaultTimeout is used.
func New(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		cb:      newBreaker("backend", log),
		log:     log,
	}
}

// Ping reports whether the backend origin answers at all. Any HTTP status
// counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.NetworkError{Op: "ping", Timeout: isTimeout(err), Err: err}
	}
	_ = resp.Body.Close()
	return nil
}

// do sends one request and decodes a 2xx body into out when out is non-nil.
// Nothing is retried.
func (c *Client) do(ctx context.Context, op, method, path, token string, body, out any) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		payload = b
	}

	res, err := c.cb.Execute(func() (any, error) {
		return c.roundTrip(ctx, op, method, path, token, payload)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%s: %w", op, domain.ErrBackendUnavailable)
	}
	if err != nil {
		return err
	}

	raw, _ := res.([]byte)
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, op, method, path, token string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.BackendRequestDuration.WithLabelValues(op, "network").Observe(time.Since(start).Seconds())
		c.log.Warn().Err(err).Str("op", op).Msg("backend request failed")
		return nil, &domain.NetworkError{Op: op, Timeout: isTimeout(err), Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &domain.NetworkError{Op: op, Timeout: isTimeout(err), Err: err}
	}

	elapsed := time.Since(start)
	metrics.BackendRequestDuration.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Observe(elapsed.Seconds())
	c.log.Debug().
		Str("op", op).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", elapsed).
		Msg("backend request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.RequestError{
			Op:      op,
			Status:  resp.StatusCode,
			Message: errorMessage(raw, resp.StatusCode),
		}
	}
	return raw, nil
}

// errorMessage picks the human-readable message out of an error body.
func errorMessage(raw []byte, status int) string {
	var body struct {
		Message string `json:"message"`
		Msg     string `json:"msg"`
		Error   any    `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Msg != "" {
			return body.Msg
		}
		if s, ok := body.Error.(string); ok && s != "" {
			return s
		}
	}
	return domain.DefaultRequestMessage(status)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
