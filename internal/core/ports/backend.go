package ports

import (
	"context"

	"github.com/99minutos/referral-dashboard/internal/core/domain"
)

// AuthBackend is the credential surface of the REST backend. Implementations
// normalize every login answer into a domain.Credential and never touch the
// session store.
type AuthBackend interface {
	LoginAdmin(ctx context.Context, in LoginInput) (*domain.Credential, error)
	LoginSubAdmin(ctx context.Context, in LoginInput) (*domain.Credential, error)
	// LoginMember signs in an employee or an end user through the shared
	// endpoint; the backend decides which one it is.
	LoginMember(ctx context.Context, in LoginInput) (*domain.Credential, error)

	RegisterEmployee(ctx context.Context, in RegisterEmployeeInput) (*domain.Registration, error)
	RegisterSubAdmin(ctx context.Context, in RegisterSubAdminInput) (*domain.Registration, error)
	RegisterEndUser(ctx context.Context, in RegisterEndUserInput) (*domain.Registration, error)

	// Me returns the profile behind token (GET /auth/me).
	Me(ctx context.Context, token string) (domain.Actor, error)
	Logout(ctx context.Context, token string) error
}

// UserBackend is the user-record surface of the REST backend. The listing
// endpoint is not assumed to be scope-aware.
type UserBackend interface {
	ListUsers(ctx context.Context, token string) ([]domain.UserRecord, error)
	GetUser(ctx context.Context, token, id string) (*domain.UserRecord, error)
	CreateUser(ctx context.Context, token string, in domain.NewUserRecord) (*domain.UserRecord, error)
	UpdateUserStatus(ctx context.Context, token, id string, status domain.UserStatus) error
	DeleteUser(ctx context.Context, token, id string) error
}

// StaffBackend manages employee and sub-admin accounts.
type StaffBackend interface {
	ListEmployees(ctx context.Context, token string) ([]domain.EmployeeRecord, error)
	DeleteEmployee(ctx context.Context, token, id string) error
	ListSubAdmins(ctx context.Context, token string) ([]domain.SubAdminRecord, error)
	DeleteSubAdmin(ctx context.Context, token, id string) error
}

// Backend is the full REST surface.
type Backend interface {
	AuthBackend
	UserBackend
	StaffBackend
}

// Serializer runs fn so that calls sharing a key never overlap. Calls with
// different keys may run concurrently.
type Serializer interface {
	Do(ctx context.Context, key string, fn func(ctx context.Context) error) error
}
