package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/referral-dashboard/internal/core/domain"
	"github.com/99minutos/referral-dashboard/internal/core/ports"
	"github.com/99minutos/referral-dashboard/internal/core/session"
	"github.com/99minutos/referral-dashboard/internal/infrastructure/db/memory"
)

const testSID = "8b0f4c3e-2a55-4c61-a6a1-6f0f3f1c9d10"

var testCookie = CookieConfig{Name: "rd_session", TTL: time.Hour}

func openerFor(kv ports.KVStore) StoreOpener {
	return func(sid string) ports.SessionStore { return session.New(kv, sid, time.Hour) }
}

// chain runs Session, Access and ExpireOn401 in router order around h.
func chain(kv ports.KVStore, h echo.HandlerFunc) echo.HandlerFunc {
	return Session(testCookie, openerFor(kv))(Access()(ExpireOn401(zerolog.Nop())(h)))
}

func requestWithSession(method, path string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	req.AddCookie(&http.Cookie{Name: testCookie.Name, Value: testSID})
	return req
}

func seed(t *testing.T, kv ports.KVStore, creds ...domain.Credential) {
	t.Helper()
	store := session.New(kv, testSID, time.Hour)
	for _, cred := range creds {
		if err := store.Set(context.Background(), cred); err != nil {
			t.Fatalf("seed session: %v", err)
		}
	}
}

func TestSession_IssuesCookieWhenMissing(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got ports.SessionStore
	h := Session(testCookie, openerFor(memory.NewKV()))(func(c echo.Context) error {
		got = SessionFrom(c)
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got == nil {
		t.Fatalf("expected session store in context")
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	ck := cookies[0]
	if ck.Name != testCookie.Name || !ck.HttpOnly || ck.MaxAge != 3600 {
		t.Fatalf("unexpected cookie: %+v", ck)
	}
	if ck.Value == "" || ck.Value == testSID {
		t.Fatalf("expected a fresh session id, got %q", ck.Value)
	}
}

func TestSession_ReusesValidCookie(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(requestWithSession(http.MethodGet, "/login"), rec)

	var sid string
	h := Session(testCookie, func(s string) ports.SessionStore {
		sid = s
		return session.New(memory.NewKV(), s, 0)
	})(func(c echo.Context) error { return nil })
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if sid != testSID {
		t.Fatalf("expected sid %s, got %s", testSID, sid)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("expected no new cookie")
	}
}

func TestSession_ReplacesMalformedCookie(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(&http.Cookie{Name: testCookie.Name, Value: "../../etc"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := Session(testCookie, openerFor(memory.NewKV()))(func(c echo.Context) error { return nil })
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value == "../../etc" {
		t.Fatalf("expected replacement cookie, got %+v", cookies)
	}
}

func TestAccess_PublicRoutePassesWithoutSession(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/admin/login", nil), httptest.NewRecorder())

	called := false
	h := chain(memory.NewKV(), func(c echo.Context) error {
		called = true
		return nil
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestAccess_ProtectedRouteWithoutSession(t *testing.T) {
	e := echo.New()
	c := e.NewContext(requestWithSession(http.MethodGet, "/admin/users"), httptest.NewRecorder())

	h := chain(memory.NewKV(), func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})
	err := h(c)

	var se *domain.SessionError
	if !errors.As(err, &se) {
		t.Fatalf("expected SessionError, got %v", err)
	}
	if se.Role != domain.RoleAdmin || !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("unexpected session error: %+v", se)
	}
}

func TestAccess_InjectsCredential(t *testing.T) {
	kv := memory.NewKV()
	seed(t, kv, domain.Credential{Token: "adm-token", Actor: domain.Admin{ID: "a1", Email: "root@x.io"}})

	e := echo.New()
	c := e.NewContext(requestWithSession(http.MethodGet, "/admin/users"), httptest.NewRecorder())

	h := chain(kv, func(c echo.Context) error {
		cred, ok := CredentialFrom(c)
		if !ok {
			t.Fatalf("credential not set")
		}
		if cred.Token != "adm-token" || cred.Actor.ActorID() != "a1" {
			t.Fatalf("unexpected credential: %+v", cred)
		}
		return nil
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestAccess_SlotsAreIndependent(t *testing.T) {
	kv := memory.NewKV()
	seed(t, kv, domain.Credential{Token: "sa-token", Actor: domain.SubAdmin{ID: "s1", Email: "s@x.io"}})

	e := echo.New()
	ok := func(c echo.Context) error { return nil }

	if err := chain(kv, ok)(e.NewContext(requestWithSession(http.MethodGet, "/subadmin/users"), httptest.NewRecorder())); err != nil {
		t.Fatalf("subadmin route: unexpected error %v", err)
	}
	if err := chain(kv, ok)(e.NewContext(requestWithSession(http.MethodGet, "/admin/users"), httptest.NewRecorder())); err == nil {
		t.Fatalf("admin route: expected rejection for a sub-admin only session")
	}
}

func TestAccess_EndUserHasNoDashboard(t *testing.T) {
	kv := memory.NewKV()
	seed(t, kv, domain.Credential{Token: "u-token", Actor: domain.EndUser{ID: "u1", Email: "u@x.io"}})

	e := echo.New()
	c := e.NewContext(requestWithSession(http.MethodGet, "/dashboard/users"), httptest.NewRecorder())

	err := chain(kv, func(c echo.Context) error { return nil })(c)
	var se *domain.SessionError
	if !errors.As(err, &se) || se.Role != domain.RoleEmployee {
		t.Fatalf("expected employee SessionError, got %v", err)
	}
}

func TestAccess_EmployeeEntersDashboard(t *testing.T) {
	kv := memory.NewKV()
	seed(t, kv, domain.Credential{Token: "e-token", Actor: domain.Employee{ID: "e1", Email: "e@x.io"}})

	e := echo.New()
	c := e.NewContext(requestWithSession(http.MethodGet, "/dashboard/users"), httptest.NewRecorder())

	called := false
	err := chain(kv, func(c echo.Context) error {
		called = true
		return nil
	})(c)
	if err != nil || !called {
		t.Fatalf("expected access, got err=%v called=%v", err, called)
	}
}

func TestAccess_ClaimsProfileOnlyOpensProfileRoute(t *testing.T) {
	kv := memory.NewKV()
	seed(t, kv, domain.Credential{Token: "sa-token", Actor: domain.SubAdmin{ID: "s1"}})
	if err := kv.Delete(context.Background(), "session:"+testSID+":subadmin-data"); err != nil {
		t.Fatalf("drop profile: %v", err)
	}

	e := echo.New()
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/subadmin/users"},
		{http.MethodPost, "/subadmin/users"},
		{http.MethodPost, "/subadmin/employees"},
	} {
		c := e.NewContext(requestWithSession(tc.method, tc.path), httptest.NewRecorder())
		err := chain(kv, func(c echo.Context) error {
			t.Fatalf("%s %s: should not reach next", tc.method, tc.path)
			return nil
		})(c)
		var se *domain.SessionError
		if !errors.As(err, &se) || se.Role != domain.RoleSubAdmin || !errors.Is(err, domain.ErrNoSession) {
			t.Fatalf("%s %s: expected sub-admin SessionError, got %v", tc.method, tc.path, err)
		}
	}

	c := e.NewContext(requestWithSession(http.MethodGet, "/subadmin/me"), httptest.NewRecorder())
	err := chain(kv, func(c echo.Context) error {
		cred, ok := CredentialFrom(c)
		if !ok || !cred.FromClaims {
			t.Fatalf("expected claims credential, got %+v", cred)
		}
		return nil
	})(c)
	if err != nil {
		t.Fatalf("profile route: unexpected error %v", err)
	}
}

func TestAccess_RoleClaimDoesNotOpenDashboard(t *testing.T) {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": "e1", "role": "employee"}).
		SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	kv := memory.NewKV()
	if err := kv.Set(context.Background(), "session:"+testSID+":authToken", tok, time.Hour); err != nil {
		t.Fatalf("seed token: %v", err)
	}

	e := echo.New()
	c := e.NewContext(requestWithSession(http.MethodGet, "/dashboard/users"), httptest.NewRecorder())
	err = chain(kv, func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})(c)
	var se *domain.SessionError
	if !errors.As(err, &se) || se.Role != domain.RoleEmployee {
		t.Fatalf("expected employee SessionError, got %v", err)
	}
}

func TestExpireOn401_ClearsSlotAndRedirects(t *testing.T) {
	kv := memory.NewKV()
	seed(t, kv,
		domain.Credential{Token: "e-token", Actor: domain.Employee{ID: "e1", Email: "e@x.io"}},
		domain.Credential{Token: "adm-token", Actor: domain.Admin{ID: "a1", Email: "root@x.io"}},
	)

	e := echo.New()
	c := e.NewContext(requestWithSession(http.MethodGet, "/dashboard/users"), httptest.NewRecorder())

	err := chain(kv, func(c echo.Context) error {
		return &domain.RequestError{Op: "list users", Status: http.StatusUnauthorized, Message: "jwt expired"}
	})(c)

	var se *domain.SessionError
	if !errors.As(err, &se) {
		t.Fatalf("expected SessionError, got %v", err)
	}
	if se.Role != domain.RoleEmployee || !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("unexpected session error: %+v", se)
	}

	store := session.New(kv, testSID, time.Hour)
	if _, err := store.Get(context.Background(), domain.RoleEmployee); !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("expected member slot cleared, got %v", err)
	}
	if _, err := store.Get(context.Background(), domain.RoleAdmin); err != nil {
		t.Fatalf("expected admin slot untouched, got %v", err)
	}
}

func TestExpireOn401_PublicRouteKeepsError(t *testing.T) {
	e := echo.New()
	c := e.NewContext(requestWithSession(http.MethodPost, "/login"), httptest.NewRecorder())

	reqErr := &domain.RequestError{Op: "login member", Status: http.StatusUnauthorized, Message: "Invalid email or password"}
	err := chain(memory.NewKV(), func(c echo.Context) error { return reqErr })(c)
	if err != reqErr {
		t.Fatalf("expected original error, got %v", err)
	}
}

func TestExpireOn401_OtherErrorsPassThrough(t *testing.T) {
	kv := memory.NewKV()
	seed(t, kv, domain.Credential{Token: "adm-token", Actor: domain.Admin{ID: "a1"}})

	e := echo.New()
	c := e.NewContext(requestWithSession(http.MethodGet, "/admin/users"), httptest.NewRecorder())

	err := chain(kv, func(c echo.Context) error { return domain.ErrForbidden })(c)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
