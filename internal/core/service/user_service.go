package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/99minutos/referral-dashboard/internal/api/metrics"
	"github.com/99minutos/referral-dashboard/internal/core/domain"
	"github.com/99minutos/referral-dashboard/internal/core/policy"
	"github.com/99minutos/referral-dashboard/internal/core/ports"
	"github.com/99minutos/referral-dashboard/internal/pkg/validation"
)

// UserService lists, creates and transitions user records on behalf of a
// signed-in actor. Every action on one record goes through serial, so a
// follow-up action starts only after the previous one resolved.
type UserService struct {
	backend  ports.UserBackend
	serial   ports.Serializer
	validate *validator.Validate
	log      zerolog.Logger
}

var _ ports.UserService = (*UserService)(nil)

func NewUserService(backend ports.UserBackend, serial ports.Serializer, validate *validator.Validate, log zerolog.Logger) *UserService {
	if validate == nil {
		validate = validation.New()
	}
	return &UserService{backend: backend, serial: serial, validate: validate, log: log}
}

// List returns the records inside the actor's visibility scope. The backend
// answer is always filtered here, whatever the backend already did.
func (s *UserService) List(ctx context.Context, cred domain.Credential) ([]domain.UserRecord, error) {
	scope := policy.VisibilityScope(cred.Actor)
	if scope.Kind == policy.ScopeNone {
		return []domain.UserRecord{}, nil
	}

	records, err := s.backend.ListUsers(ctx, cred.Token)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	visible := policy.Filter(records, scope)
	if hidden := len(records) - len(visible); hidden > 0 {
		metrics.RecordsFilteredTotal.WithLabelValues(cred.Actor.Role().String()).Add(float64(hidden))
		s.log.Debug().
			Str("actor_id", cred.Actor.ActorID()).
			Int("hidden", hidden).
			Msg("listing narrowed to referral scope")
	}
	return visible, nil
}

// Create onboards a user attributed to the signed-in employee or sub-admin.
func (s *UserService) Create(ctx context.Context, cred domain.Credential, in ports.CreateUserInput) (*domain.UserRecord, error) {
	if err := validation.Check(s.validate, in); err != nil {
		return nil, err
	}

	rec, err := policy.Attribute(cred.Actor, domain.NewUserRecord{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
		Age:       in.Age,
		City:      in.City,
		Password:  in.Password,
		Referral:  in.Referral,
	})
	if err != nil {
		return nil, err
	}

	created, err := s.backend.CreateUser(ctx, cred.Token, rec)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.log.Info().
		Str("user_id", created.ID).
		Str("referral", rec.Referral).
		Msg("user created")
	return created, nil
}

func (s *UserService) Proceed(ctx context.Context, cred domain.Credential, id string) (*domain.UserRecord, error) {
	return s.transition(ctx, cred, id, domain.TransitionProceed)
}

func (s *UserService) Complete(ctx context.Context, cred domain.Credential, id string) (*domain.UserRecord, error) {
	return s.transition(ctx, cred, id, domain.TransitionComplete)
}

// transition reads the current record, checks scope and the state machine,
// and writes the new status only when it differs. A repeated transition
// returns the record unchanged without a status request.
func (s *UserService) transition(ctx context.Context, cred domain.Credential, id string, t domain.Transition) (*domain.UserRecord, error) {
	var out *domain.UserRecord
	err := s.serial.Do(ctx, id, func(ctx context.Context) error {
		rec, err := s.fetchInScope(ctx, cred, id)
		if err != nil {
			return err
		}

		next, changed, err := rec.Status.Apply(t)
		if err != nil {
			metrics.StatusTransitionsTotal.WithLabelValues(string(t), "rejected").Inc()
			return fmt.Errorf("%s user %s: %w", t, id, err)
		}
		if !changed {
			metrics.StatusTransitionsTotal.WithLabelValues(string(t), "noop").Inc()
			out = rec
			return nil
		}

		if err := s.backend.UpdateUserStatus(ctx, cred.Token, id, next); err != nil {
			metrics.StatusTransitionsTotal.WithLabelValues(string(t), "error").Inc()
			return fmt.Errorf("%s user %s: %w", t, id, err)
		}
		metrics.StatusTransitionsTotal.WithLabelValues(string(t), "applied").Inc()
		s.log.Info().
			Str("user_id", id).
			Str("from", string(rec.Status)).
			Str("to", string(next)).
			Msg("user status updated")

		rec.Status = next
		out = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a record in any state.
func (s *UserService) Delete(ctx context.Context, cred domain.Credential, id string) error {
	return s.serial.Do(ctx, id, func(ctx context.Context) error {
		if policy.VisibilityScope(cred.Actor).Kind != policy.ScopeUnrestricted {
			if _, err := s.fetchInScope(ctx, cred, id); err != nil {
				return err
			}
		}
		if err := s.backend.DeleteUser(ctx, cred.Token, id); err != nil {
			return fmt.Errorf("delete user %s: %w", id, err)
		}
		s.log.Info().Str("user_id", id).Msg("user deleted")
		return nil
	})
}

// fetchInScope loads id and refuses records outside the actor's scope.
func (s *UserService) fetchInScope(ctx context.Context, cred domain.Credential, id string) (*domain.UserRecord, error) {
	scope := policy.VisibilityScope(cred.Actor)
	if scope.Kind == policy.ScopeNone {
		return nil, domain.ErrForbidden
	}
	rec, err := s.backend.GetUser(ctx, cred.Token, id)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	if !scope.Allows(*rec) {
		s.log.Warn().
			Str("actor_id", cred.Actor.ActorID()).
			Str("user_id", id).
			Msg("action on record outside referral scope refused")
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrForbidden)
	}
	return rec, nil
}
