package policy

import (
	"fmt"

	"github.com/99minutos/referral-dashboard/internal/core/domain"
)

// Attribute stamps a new user record with its creator. The referral always
// comes from the signed-in actor; any value supplied by the caller is dropped.
func Attribute(creator domain.Actor, in domain.NewUserRecord) (domain.NewUserRecord, error) {
	if creator == nil {
		return in, domain.ErrNoSession
	}
	switch creator.Role() {
	case domain.RoleEmployee, domain.RoleSubAdmin:
		if creator.ActorID() == "" {
			return in, fmt.Errorf("%w: session carries no actor id", domain.ErrNoSession)
		}
		in.Referral = creator.ActorID()
		return in, nil
	default:
		return in, fmt.Errorf("%w: %s cannot onboard users", domain.ErrForbidden, creator.Role())
	}
}

// EmployeeReferral returns the referral code given to employees registered
// by creator.
func EmployeeReferral(creator domain.Actor) (string, error) {
	if creator == nil || creator.Role() != domain.RoleSubAdmin {
		return "", fmt.Errorf("%w: only sub-admins register employees", domain.ErrForbidden)
	}
	if creator.ActorID() == "" {
		return "", fmt.Errorf("%w: session carries no actor id", domain.ErrNoSession)
	}
	return creator.ActorID(), nil
}

// Filter keeps the records inside scope. The backend listing is not assumed
// to be scope-aware, so every listing passes through here. The result is
// never nil.
func Filter(records []domain.UserRecord, scope Scope) []domain.UserRecord {
	out := make([]domain.UserRecord, 0, len(records))
	for _, r := range records {
		if scope.Allows(r) {
			out = append(out, r)
		}
	}
	return out
}
