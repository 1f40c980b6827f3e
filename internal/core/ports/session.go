package ports

import (
	"context"

	"github.com/99minutos/referral-dashboard/internal/core/domain"
)

// SessionStore holds at most one credential per slot for a single client.
// Slots are independent: writing or clearing one never touches another.
type SessionStore interface {
	// Set overwrites the slot governed by cred's role.
	Set(ctx context.Context, cred domain.Credential) error
	// Get returns the credential for role, or domain.ErrNoSession when the
	// slot is empty or holds a different role.
	Get(ctx context.Context, role domain.Role) (*domain.Credential, error)
	// Clear removes every key of the slot governed by role.
	Clear(ctx context.Context, role domain.Role) error
	// Snapshot returns the actor held in each occupied slot.
	Snapshot(ctx context.Context) (map[domain.Slot]domain.Actor, error)
}
