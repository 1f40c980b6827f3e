package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/referral-dashboard/internal/core/domain"
	"github.com/99minutos/referral-dashboard/internal/core/policy"
	"github.com/99minutos/referral-dashboard/internal/core/ports"
)

// employeeRegistrar is the part of the auth service staff management uses.
type employeeRegistrar interface {
	RegisterEmployee(ctx context.Context, in ports.RegisterEmployeeInput) (*domain.Registration, error)
}

// StaffService manages employee and sub-admin accounts. Employees are
// managed by admins and sub-admins; sub-admins by admins only.
type StaffService struct {
	backend ports.StaffBackend
	auth    employeeRegistrar
	log     zerolog.Logger
}

var _ ports.StaffService = (*StaffService)(nil)

func NewStaffService(backend ports.StaffBackend, auth employeeRegistrar, log zerolog.Logger) *StaffService {
	return &StaffService{backend: backend, auth: auth, log: log}
}

// RegisterEmployee registers an employee referred by the signed-in
// sub-admin. The referral code always comes from the session.
func (s *StaffService) RegisterEmployee(ctx context.Context, cred domain.Credential, in ports.RegisterEmployeeInput) (*domain.Registration, error) {
	ref, err := policy.EmployeeReferral(cred.Actor)
	if err != nil {
		return nil, err
	}
	in.ReferralCode = ref

	reg, err := s.auth.RegisterEmployee(ctx, in)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("referral", ref).Str("email", in.Email).Msg("employee registered")
	return reg, nil
}

func (s *StaffService) ListEmployees(ctx context.Context, cred domain.Credential) ([]domain.EmployeeRecord, error) {
	if err := requireRole(cred, domain.RoleAdmin, domain.RoleSubAdmin); err != nil {
		return nil, err
	}
	out, err := s.backend.ListEmployees(ctx, cred.Token)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return out, nil
}

func (s *StaffService) DeleteEmployee(ctx context.Context, cred domain.Credential, id string) error {
	if err := requireRole(cred, domain.RoleAdmin, domain.RoleSubAdmin); err != nil {
		return err
	}
	if err := s.backend.DeleteEmployee(ctx, cred.Token, id); err != nil {
		return fmt.Errorf("delete employee %s: %w", id, err)
	}
	s.log.Info().Str("employee_id", id).Str("by", cred.Actor.ActorID()).Msg("employee deleted")
	return nil
}

func (s *StaffService) ListSubAdmins(ctx context.Context, cred domain.Credential) ([]domain.SubAdminRecord, error) {
	if err := requireRole(cred, domain.RoleAdmin); err != nil {
		return nil, err
	}
	out, err := s.backend.ListSubAdmins(ctx, cred.Token)
	if err != nil {
		return nil, fmt.Errorf("list subadmins: %w", err)
	}
	return out, nil
}

func (s *StaffService) DeleteSubAdmin(ctx context.Context, cred domain.Credential, id string) error {
	if err := requireRole(cred, domain.RoleAdmin); err != nil {
		return err
	}
	if err := s.backend.DeleteSubAdmin(ctx, cred.Token, id); err != nil {
		return fmt.Errorf("delete subadmin %s: %w", id, err)
	}
	s.log.Info().Str("subadmin_id", id).Msg("subadmin deleted")
	return nil
}

func requireRole(cred domain.Credential, roles ...domain.Role) error {
	if cred.Actor == nil {
		return domain.ErrNoSession
	}
	for _, r := range roles {
		if cred.Actor.Role() == r {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", domain.ErrForbidden, cred.Actor.Role())
}
