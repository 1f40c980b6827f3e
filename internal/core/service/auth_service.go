package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/99minutos/referral-dashboard/internal/api/metrics"
	"github.com/99minutos/referral-dashboard/internal/core/domain"
	"github.com/99minutos/referral-dashboard/internal/core/ports"
	"github.com/99minutos/referral-dashboard/internal/pkg/validation"
)

// AuthService implements login, registration and logout for the four actor
// kinds.
type AuthService struct {
	backend  ports.AuthBackend
	validate *validator.Validate
	log      zerolog.Logger
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(backend ports.AuthBackend, validate *validator.Validate, log zerolog.Logger) *AuthService {
	if validate == nil {
		validate = validation.New()
	}
	return &AuthService{backend: backend, validate: validate, log: log}
}

type loginFunc func(context.Context, ports.LoginInput) (*domain.Credential, error)

func (s *AuthService) LoginAdmin(ctx context.Context, in ports.LoginInput) (*domain.Credential, error) {
	return s.login(ctx, domain.SlotAdmin, in, s.backend.LoginAdmin)
}

func (s *AuthService) LoginSubAdmin(ctx context.Context, in ports.LoginInput) (*domain.Credential, error) {
	return s.login(ctx, domain.SlotSubAdmin, in, s.backend.LoginSubAdmin)
}

// LoginMember signs in an employee or an end user. Which one it is comes
// from the backend answer.
func (s *AuthService) LoginMember(ctx context.Context, in ports.LoginInput) (*domain.Credential, error) {
	return s.login(ctx, domain.SlotMember, in, s.backend.LoginMember)
}

func (s *AuthService) login(ctx context.Context, slot domain.Slot, in ports.LoginInput, call loginFunc) (*domain.Credential, error) {
	if err := validation.Check(s.validate, in); err != nil {
		metrics.LoginsTotal.WithLabelValues(string(slot), "invalid").Inc()
		return nil, err
	}

	cred, err := call(ctx, in)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(string(slot), "failure").Inc()
		s.log.Info().Err(err).Str("slot", string(slot)).Msg("login rejected")
		return nil, err
	}
	if cred == nil || cred.Actor == nil || cred.Actor.Role().Slot() != slot {
		metrics.LoginsTotal.WithLabelValues(string(slot), "failure").Inc()
		return nil, fmt.Errorf("login %s: %w", slot, domain.ErrMalformedResponse)
	}

	metrics.LoginsTotal.WithLabelValues(string(slot), "success").Inc()
	s.log.Info().
		Str("role", cred.Actor.Role().String()).
		Str("actor_id", cred.Actor.ActorID()).
		Msg("login succeeded")
	return cred, nil
}

func (s *AuthService) RegisterEmployee(ctx context.Context, in ports.RegisterEmployeeInput) (*domain.Registration, error) {
	if err := validation.Check(s.validate, in); err != nil {
		return nil, err
	}
	return s.backend.RegisterEmployee(ctx, in)
}

func (s *AuthService) RegisterSubAdmin(ctx context.Context, in ports.RegisterSubAdminInput) (*domain.Registration, error) {
	if err := validation.Check(s.validate, in); err != nil {
		return nil, err
	}
	return s.backend.RegisterSubAdmin(ctx, in)
}

func (s *AuthService) RegisterEndUser(ctx context.Context, in ports.RegisterEndUserInput) (*domain.Registration, error) {
	if err := validation.Check(s.validate, in); err != nil {
		return nil, err
	}
	return s.backend.RegisterEndUser(ctx, in)
}

func (s *AuthService) Verify(ctx context.Context, token string) (domain.Actor, error) {
	if token == "" {
		return nil, domain.ErrNoSession
	}
	return s.backend.Me(ctx, token)
}

// Logout clears the slot governed by role. Member sessions are also closed
// on the backend; a failure there is logged and does not keep the slot.
func (s *AuthService) Logout(ctx context.Context, store ports.SessionStore, role domain.Role) error {
	if role.Slot() == domain.SlotMember {
		cred, err := memberCredential(ctx, store)
		switch {
		case err == nil:
			if lerr := s.backend.Logout(ctx, cred.Token); lerr != nil {
				s.log.Warn().Err(lerr).Msg("backend logout failed")
			}
		case !errors.Is(err, domain.ErrNoSession):
			s.log.Warn().Err(err).Msg("read member session on logout")
		}
	}
	return store.Clear(ctx, role)
}

// memberCredential returns whichever member variant holds the shared slot.
func memberCredential(ctx context.Context, store ports.SessionStore) (*domain.Credential, error) {
	cred, err := store.Get(ctx, domain.RoleEmployee)
	if errors.Is(err, domain.ErrNoSession) {
		return store.Get(ctx, domain.RoleEndUser)
	}
	return cred, err
}
