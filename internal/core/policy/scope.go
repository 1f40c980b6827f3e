package policy

import "github.com/99minutos/referral-dashboard/internal/core/domain"

// ScopeKind classifies a visibility scope.
type ScopeKind int

const (
	// ScopeNone sees no user records.
	ScopeNone ScopeKind = iota
	// ScopeUnrestricted sees every user record.
	ScopeUnrestricted
	// ScopeReferral sees records whose referral equals Scope.Referral.
	ScopeReferral
)

// Scope is the subset of user records an actor may see.
type Scope struct {
	Kind     ScopeKind
	Referral string
}

// VisibilityScope derives the scope from the actor's role and identity.
func VisibilityScope(a domain.Actor) Scope {
	if a == nil {
		return Scope{Kind: ScopeNone}
	}
	switch a.Role() {
	case domain.RoleAdmin:
		return Scope{Kind: ScopeUnrestricted}
	case domain.RoleSubAdmin, domain.RoleEmployee:
		return Scope{Kind: ScopeReferral, Referral: a.ActorID()}
	default:
		return Scope{Kind: ScopeNone}
	}
}

// Allows reports whether rec is inside the scope.
func (s Scope) Allows(rec domain.UserRecord) bool {
	switch s.Kind {
	case ScopeUnrestricted:
		return true
	case ScopeReferral:
		return s.Referral != "" && rec.Referral == s.Referral
	default:
		return false
	}
}
