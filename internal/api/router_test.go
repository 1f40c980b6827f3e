package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/99minutos/referral-dashboard/internal/api/middleware"
	"github.com/99minutos/referral-dashboard/internal/core/domain"
	"github.com/99minutos/referral-dashboard/internal/core/ports"
	"github.com/99minutos/referral-dashboard/internal/core/session"
	"github.com/99minutos/referral-dashboard/internal/infrastructure/db/memory"
)

// stubAuth embeds the interface so only the methods a test drives need a body.
type stubAuth struct {
	ports.AuthService
	cred      *domain.Credential
	verifyErr error
}

func (s *stubAuth) LoginAdmin(context.Context, ports.LoginInput) (*domain.Credential, error) {
	return s.cred, nil
}

func (s *stubAuth) LoginMember(context.Context, ports.LoginInput) (*domain.Credential, error) {
	return s.cred, nil
}

func (s *stubAuth) Verify(context.Context, string) (domain.Actor, error) {
	return nil, s.verifyErr
}

func newTestRouter(auth ports.AuthService) http.Handler {
	kv := memory.NewKV()
	return NewRouter(Deps{
		Log:    zerolog.Nop(),
		Cookie: middleware.CookieConfig{Name: "rd_session", TTL: time.Hour},
		OpenSession: func(sid string) ports.SessionStore {
			return session.New(kv, sid, time.Hour)
		},
		Auth:       auth,
		Registerer: prometheus.NewRegistry(),
	})
}

func send(h http.Handler, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_ProtectedRouteRedirectsToLogin(t *testing.T) {
	h := newTestRouter(&stubAuth{})

	rec := send(h, http.MethodGet, "/admin/users", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Redirect != "/admin/login" {
		t.Fatalf("expected redirect to /admin/login, got %q", body.Redirect)
	}
}

func TestRouter_LoginThenProfile(t *testing.T) {
	h := newTestRouter(&stubAuth{cred: &domain.Credential{Token: "adm", Actor: domain.Admin{ID: "a1", Email: "root@x.io"}}})

	rec := send(h, http.MethodPost, "/admin/login", `{"email":"root@x.io","password":"secret1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", rec.Code)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("expected session cookie")
	}

	rec = send(h, http.MethodGet, "/admin/me", "", cookies...)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"role":"admin"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	// The admin session does not open the employee dashboard.
	rec = send(h, http.MethodGet, "/dashboard/session", "", cookies...)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("dashboard: expected 401, got %d", rec.Code)
	}
}

func TestRouter_RejectedTokenExpiresSession(t *testing.T) {
	auth := &stubAuth{
		cred:      &domain.Credential{Token: "emp", Actor: domain.Employee{ID: "e1", Email: "e@x.io"}},
		verifyErr: &domain.RequestError{Op: "verify session", Status: http.StatusUnauthorized, Message: "jwt expired"},
	}
	h := newTestRouter(auth)

	rec := send(h, http.MethodPost, "/login", `{"email":"e@x.io","password":"secret1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", rec.Code)
	}
	cookies := rec.Result().Cookies()

	rec = send(h, http.MethodGet, "/dashboard/session", "", cookies...)
	if rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Body.String(), "session expired") {
		t.Fatalf("expected expired session, got %d %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"redirect":"/login"`) {
		t.Fatalf("expected redirect to /login, got %s", rec.Body.String())
	}

	rec = send(h, http.MethodGet, "/dashboard/session", "", cookies...)
	if rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Body.String(), "authentication required") {
		t.Fatalf("expected cleared session, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_HealthIsPublic(t *testing.T) {
	h := newTestRouter(&stubAuth{})
	if rec := send(h, http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec := send(h, http.MethodGet, "/health/ready", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
