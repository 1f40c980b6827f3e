package ports

import (
	"context"

	"github.com/99minutos/referral-dashboard/internal/core/domain"
)

// AuthService validates credentials locally, then dispatches them to the
// backend. Login and registration never write the session store.
type AuthService interface {
	LoginAdmin(ctx context.Context, in LoginInput) (*domain.Credential, error)
	LoginSubAdmin(ctx context.Context, in LoginInput) (*domain.Credential, error)
	LoginMember(ctx context.Context, in LoginInput) (*domain.Credential, error)

	RegisterEmployee(ctx context.Context, in RegisterEmployeeInput) (*domain.Registration, error)
	RegisterSubAdmin(ctx context.Context, in RegisterSubAdminInput) (*domain.Registration, error)
	RegisterEndUser(ctx context.Context, in RegisterEndUserInput) (*domain.Registration, error)

	// Verify asks the backend who token belongs to.
	Verify(ctx context.Context, token string) (domain.Actor, error)
	// Logout clears the slot governed by role.
	Logout(ctx context.Context, store SessionStore, role domain.Role) error
}

// UserService is the user-record surface, scoped to the calling actor.
type UserService interface {
	List(ctx context.Context, cred domain.Credential) ([]domain.UserRecord, error)
	Create(ctx context.Context, cred domain.Credential, in CreateUserInput) (*domain.UserRecord, error)
	Proceed(ctx context.Context, cred domain.Credential, id string) (*domain.UserRecord, error)
	Complete(ctx context.Context, cred domain.Credential, id string) (*domain.UserRecord, error)
	Delete(ctx context.Context, cred domain.Credential, id string) error
}

// StaffService manages employee and sub-admin accounts.
type StaffService interface {
	RegisterEmployee(ctx context.Context, cred domain.Credential, in RegisterEmployeeInput) (*domain.Registration, error)
	ListEmployees(ctx context.Context, cred domain.Credential) ([]domain.EmployeeRecord, error)
	DeleteEmployee(ctx context.Context, cred domain.Credential, id string) error
	ListSubAdmins(ctx context.Context, cred domain.Credential) ([]domain.SubAdminRecord, error)
	DeleteSubAdmin(ctx context.Context, cred domain.Credential, id string) error
}
