package service

import (
	"context"
	"sync"

	"github.com/99minutos/referral-dashboard/internal/core/domain"
	"github.com/99minutos/referral-dashboard/internal/core/ports"
)

// stubAuthBackend records every dispatched call.
type stubAuthBackend struct {
	calls int

	loginFn    func(ctx context.Context, in ports.LoginInput) (*domain.Credential, error)
	registerFn func(ctx context.Context, in ports.RegisterEmployeeInput) (*domain.Registration, error)
	logoutFn   func(ctx context.Context, token string) error
	meFn       func(ctx context.Context, token string) (domain.Actor, error)
}

func (s *stubAuthBackend) login(ctx context.Context, in ports.LoginInput) (*domain.Credential, error) {
	s.calls++
	if s.loginFn == nil {
		return nil, domain.ErrUnauthorized
	}
	return s.loginFn(ctx, in)
}

func (s *stubAuthBackend) LoginAdmin(ctx context.Context, in ports.LoginInput) (*domain.Credential, error) {
	return s.login(ctx, in)
}

func (s *stubAuthBackend) LoginSubAdmin(ctx context.Context, in ports.LoginInput) (*domain.Credential, error) {
	return s.login(ctx, in)
}

func (s *stubAuthBackend) LoginMember(ctx context.Context, in ports.LoginInput) (*domain.Credential, error) {
	return s.login(ctx, in)
}

func (s *stubAuthBackend) RegisterEmployee(ctx context.Context, in ports.RegisterEmployeeInput) (*domain.Registration, error) {
	s.calls++
	if s.registerFn == nil {
		return &domain.Registration{Message: "ok"}, nil
	}
	return s.registerFn(ctx, in)
}

func (s *stubAuthBackend) RegisterSubAdmin(context.Context, ports.RegisterSubAdminInput) (*domain.Registration, error) {
	s.calls++
	return &domain.Registration{Message: "ok"}, nil
}

func (s *stubAuthBackend) RegisterEndUser(context.Context, ports.RegisterEndUserInput) (*domain.Registration, error) {
	s.calls++
	return &domain.Registration{Message: "ok"}, nil
}

func (s *stubAuthBackend) Me(ctx context.Context, token string) (domain.Actor, error) {
	s.calls++
	if s.meFn == nil {
		return nil, domain.ErrUnauthorized
	}
	return s.meFn(ctx, token)
}

func (s *stubAuthBackend) Logout(ctx context.Context, token string) error {
	s.calls++
	if s.logoutFn == nil {
		return nil
	}
	return s.logoutFn(ctx, token)
}

// stubUserBackend is an in-memory backend whose listing ignores scope.
type stubUserBackend struct {
	mu      sync.Mutex
	records map[string]domain.UserRecord
	order   []string

	listCalls   int
	getCalls    int
	updateCalls int
	deleteCalls int
	created     []domain.NewUserRecord
}

func newStubUserBackend(recs ...domain.UserRecord) *stubUserBackend {
	b := &stubUserBackend{records: map[string]domain.UserRecord{}}
	for _, r := range recs {
		b.records[r.ID] = r
		b.order = append(b.order, r.ID)
	}
	return b
}

func (b *stubUserBackend) ListUsers(context.Context, string) ([]domain.UserRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listCalls++
	out := make([]domain.UserRecord, 0, len(b.order))
	for _, id := range b.order {
		if r, ok := b.records[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (b *stubUserBackend) GetUser(_ context.Context, _ string, id string) (*domain.UserRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.getCalls++
	r, ok := b.records[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return &r, nil
}

func (b *stubUserBackend) CreateUser(_ context.Context, _ string, in domain.NewUserRecord) (*domain.UserRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.created = append(b.created, in)
	rec := domain.UserRecord{
		ID:        "new-" + in.FirstName,
		FirstName: in.FirstName,
		Phone:     in.Phone,
		Referral:  in.Referral,
		Status:    domain.StatusPending,
	}
	b.records[rec.ID] = rec
	b.order = append(b.order, rec.ID)
	return &rec, nil
}

func (b *stubUserBackend) UpdateUserStatus(_ context.Context, _ string, id string, status domain.UserStatus) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.updateCalls++
	r, ok := b.records[id]
	if !ok {
		return domain.ErrRecordNotFound
	}
	r.Status = status
	b.records[id] = r
	return nil
}

func (b *stubUserBackend) DeleteUser(_ context.Context, _ string, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleteCalls++
	delete(b.records, id)
	return nil
}

// inlineSerializer runs fn on the caller's goroutine and remembers the keys.
type inlineSerializer struct {
	keys []string
}

func (s *inlineSerializer) Do(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	s.keys = append(s.keys, key)
	return fn(ctx)
}

// stubSessionStore keeps one credential per slot.
type stubSessionStore struct {
	slots   map[domain.Slot]domain.Credential
	cleared []domain.Role
}

func newStubSessionStore(creds ...domain.Credential) *stubSessionStore {
	s := &stubSessionStore{slots: map[domain.Slot]domain.Credential{}}
	for _, c := range creds {
		s.slots[c.Actor.Role().Slot()] = c
	}
	return s
}

func (s *stubSessionStore) Set(_ context.Context, cred domain.Credential) error {
	s.slots[cred.Actor.Role().Slot()] = cred
	return nil
}

func (s *stubSessionStore) Get(_ context.Context, role domain.Role) (*domain.Credential, error) {
	c, ok := s.slots[role.Slot()]
	if !ok || c.Actor.Role() != role {
		return nil, domain.ErrNoSession
	}
	return &c, nil
}

func (s *stubSessionStore) Clear(_ context.Context, role domain.Role) error {
	s.cleared = append(s.cleared, role)
	delete(s.slots, role.Slot())
	return nil
}

func (s *stubSessionStore) Snapshot(context.Context) (map[domain.Slot]domain.Actor, error) {
	out := map[domain.Slot]domain.Actor{}
	for slot, c := range s.slots {
		out[slot] = c.Actor
	}
	return out, nil
}
