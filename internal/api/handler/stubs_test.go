package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/referral-dashboard/internal/api/middleware"
	"github.com/99minutos/referral-dashboard/internal/core/domain"
	"github.com/99minutos/referral-dashboard/internal/core/ports"
	"github.com/99minutos/referral-dashboard/internal/core/session"
	"github.com/99minutos/referral-dashboard/internal/infrastructure/db/memory"
)

const testSID = "3f6c1d2a-9e4b-4c0f-8a7d-2b5e6f1a0c93"

// harness mounts handlers behind the real session and access middleware and
// remembers the last error handed to the error handler.
type harness struct {
	e   *echo.Echo
	kv  *memory.KV
	err error
}

func newHarness() *harness {
	h := &harness{e: echo.New(), kv: memory.NewKV()}
	h.e.Validator = NewValidator()
	h.e.HTTPErrorHandler = func(err error, c echo.Context) {
		h.err = err
		h.e.DefaultHTTPErrorHandler(err, c)
	}
	h.e.Use(middleware.Session(middleware.CookieConfig{Name: "rd_session"}, func(sid string) ports.SessionStore {
		return session.New(h.kv, sid, time.Hour)
	}))
	h.e.Use(middleware.Access())
	return h
}

func (h *harness) store() ports.SessionStore {
	return session.New(h.kv, testSID, time.Hour)
}

func (h *harness) signIn(cred domain.Credential) {
	if err := h.store().Set(context.Background(), cred); err != nil {
		panic(err)
	}
}

func (h *harness) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	req.AddCookie(&http.Cookie{Name: "rd_session", Value: testSID})
	rec := httptest.NewRecorder()
	h.err = nil
	h.e.ServeHTTP(rec, req)
	return rec
}

var (
	testAdmin    = domain.Credential{Token: "adm-token", Actor: domain.Admin{ID: "a1", Email: "root@x.io"}}
	testSubAdmin = domain.Credential{Token: "sa-token", Actor: domain.SubAdmin{ID: "s1", Email: "s@x.io", Name: "Sam"}}
	testEmployee = domain.Credential{Token: "emp-token", Actor: domain.Employee{ID: "e1", Email: "e@x.io", FullName: "Eve"}}
)

type stubAuthService struct {
	loginFn    func(ctx context.Context, in ports.LoginInput) (*domain.Credential, error)
	registerFn func(ctx context.Context, in any) (*domain.Registration, error)
	verifyFn   func(ctx context.Context, token string) (domain.Actor, error)

	loggedOut []domain.Role
}

func (s *stubAuthService) LoginAdmin(ctx context.Context, in ports.LoginInput) (*domain.Credential, error) {
	return s.loginFn(ctx, in)
}

func (s *stubAuthService) LoginSubAdmin(ctx context.Context, in ports.LoginInput) (*domain.Credential, error) {
	return s.loginFn(ctx, in)
}

func (s *stubAuthService) LoginMember(ctx context.Context, in ports.LoginInput) (*domain.Credential, error) {
	return s.loginFn(ctx, in)
}

func (s *stubAuthService) RegisterEmployee(ctx context.Context, in ports.RegisterEmployeeInput) (*domain.Registration, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) RegisterSubAdmin(ctx context.Context, in ports.RegisterSubAdminInput) (*domain.Registration, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) RegisterEndUser(ctx context.Context, in ports.RegisterEndUserInput) (*domain.Registration, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Verify(ctx context.Context, token string) (domain.Actor, error) {
	return s.verifyFn(ctx, token)
}

func (s *stubAuthService) Logout(ctx context.Context, store ports.SessionStore, role domain.Role) error {
	s.loggedOut = append(s.loggedOut, role)
	return store.Clear(ctx, role)
}

type stubUserService struct {
	records []domain.UserRecord
	err     error

	created    *ports.CreateUserInput
	proceeded  []string
	completed  []string
	deleted    []string
	lastCaller domain.Credential
}

func (s *stubUserService) List(_ context.Context, cred domain.Credential) ([]domain.UserRecord, error) {
	s.lastCaller = cred
	return s.records, s.err
}

func (s *stubUserService) Create(_ context.Context, cred domain.Credential, in ports.CreateUserInput) (*domain.UserRecord, error) {
	s.lastCaller = cred
	if s.err != nil {
		return nil, s.err
	}
	s.created = &in
	return &domain.UserRecord{ID: "new", FirstName: in.FirstName, Referral: cred.Actor.ActorID(), Status: domain.StatusPending}, nil
}

func (s *stubUserService) Proceed(_ context.Context, cred domain.Credential, id string) (*domain.UserRecord, error) {
	s.lastCaller = cred
	if s.err != nil {
		return nil, s.err
	}
	s.proceeded = append(s.proceeded, id)
	return &domain.UserRecord{ID: id, Status: domain.StatusInProgress}, nil
}

func (s *stubUserService) Complete(_ context.Context, cred domain.Credential, id string) (*domain.UserRecord, error) {
	s.lastCaller = cred
	if s.err != nil {
		return nil, s.err
	}
	s.completed = append(s.completed, id)
	return &domain.UserRecord{ID: id, Status: domain.StatusCompleted}, nil
}

func (s *stubUserService) Delete(_ context.Context, cred domain.Credential, id string) error {
	s.lastCaller = cred
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, id)
	return nil
}

type stubStaffService struct {
	employees []domain.EmployeeRecord
	subAdmins []domain.SubAdminRecord
	err       error

	registered *ports.RegisterEmployeeInput
	deleted    []string
}

func (s *stubStaffService) RegisterEmployee(_ context.Context, cred domain.Credential, in ports.RegisterEmployeeInput) (*domain.Registration, error) {
	if s.err != nil {
		return nil, s.err
	}
	in.ReferralCode = cred.Actor.ActorID()
	s.registered = &in
	return &domain.Registration{Message: "Employee registered"}, nil
}

func (s *stubStaffService) ListEmployees(context.Context, domain.Credential) ([]domain.EmployeeRecord, error) {
	return s.employees, s.err
}

func (s *stubStaffService) DeleteEmployee(_ context.Context, _ domain.Credential, id string) error {
	s.deleted = append(s.deleted, "employee:"+id)
	return s.err
}

func (s *stubStaffService) ListSubAdmins(context.Context, domain.Credential) ([]domain.SubAdminRecord, error) {
	return s.subAdmins, s.err
}

func (s *stubStaffService) DeleteSubAdmin(_ context.Context, _ domain.Credential, id string) error {
	s.deleted = append(s.deleted, "subadmin:"+id)
	return s.err
}
