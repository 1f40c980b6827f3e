// Package session keeps the per-client credential slots on top of a
// ports.KVStore. One Store is bound to one session id; the admin, sub-admin
// and member slots inside it are independent of each other.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/99minutos/referral-dashboard/internal/core/domain"
	"github.com/99minutos/referral-dashboard/internal/core/ports"
)

// slotKeys lists the storage keys owned by one slot. Extra holds the slot
// specific marker key (subadmin-id, isEmployee), empty for the admin slot.
type slotKeys struct {
	Token   string
	Profile string
	Extra   string
}

var keysBySlot = map[domain.Slot]slotKeys{
	domain.SlotAdmin:    {Token: "adminToken", Profile: "adminData"},
	domain.SlotSubAdmin: {Token: "subadmin-token", Profile: "subadmin-data", Extra: "subadmin-id"},
	domain.SlotMember:   {Token: "authToken", Profile: "user", Extra: "isEmployee"},
}

// Store implements ports.SessionStore for a single session id.
type Store struct {
	kv  ports.KVStore
	sid string
	ttl time.Duration
}

var _ ports.SessionStore = (*Store)(nil)

// New binds a store to sid. Values are written with ttl; zero keeps them
// until they are cleared.
func New(kv ports.KVStore, sid string, ttl time.Duration) *Store {
	return &Store{kv: kv, sid: sid, ttl: ttl}
}

// ID returns the session id the store is bound to.
func (s *Store) ID() string { return s.sid }

func (s *Store) key(name string) string {
	return "session:" + s.sid + ":" + name
}

// Set writes the slot marker and profile before the token, so a slot whose
// token is readable is complete. Any failed write clears the slot again.
func (s *Store) Set(ctx context.Context, cred domain.Credential) error {
	if cred.Actor == nil || cred.Token == "" {
		return errors.New("session: credential needs a token and an actor")
	}
	role := cred.Actor.Role()
	keys := keysBySlot[role.Slot()]

	profile, err := json.Marshal(cred.Actor)
	if err != nil {
		return fmt.Errorf("session: encode profile: %w", err)
	}

	var extra string
	switch role {
	case domain.RoleSubAdmin:
		extra = cred.Actor.ActorID()
	case domain.RoleEmployee:
		extra = "true"
	case domain.RoleEndUser:
		extra = "false"
	}

	writes := make([][2]string, 0, 3)
	if keys.Extra != "" {
		writes = append(writes, [2]string{keys.Extra, extra})
	}
	writes = append(writes,
		[2]string{keys.Profile, string(profile)},
		[2]string{keys.Token, cred.Token},
	)
	for _, w := range writes {
		if err := s.kv.Set(ctx, s.key(w[0]), w[1], s.ttl); err != nil {
			werr := fmt.Errorf("session: write %s: %w", w[0], err)
			if cerr := s.Clear(ctx, role); cerr != nil {
				return errors.Join(werr, cerr)
			}
			return werr
		}
	}
	return nil
}

func (s *Store) Get(ctx context.Context, role domain.Role) (*domain.Credential, error) {
	cred, err := s.load(ctx, role.Slot())
	if err != nil {
		return nil, err
	}
	if cred.Actor.Role() != role {
		return nil, domain.ErrNoSession
	}
	return cred, nil
}

func (s *Store) Clear(ctx context.Context, role domain.Role) error {
	keys := keysBySlot[role.Slot()]
	names := []string{s.key(keys.Token), s.key(keys.Profile)}
	if keys.Extra != "" {
		names = append(names, s.key(keys.Extra))
	}
	if err := s.kv.Delete(ctx, names...); err != nil {
		return fmt.Errorf("session: clear %s: %w", role, err)
	}
	return nil
}

func (s *Store) Snapshot(ctx context.Context) (map[domain.Slot]domain.Actor, error) {
	snap := make(map[domain.Slot]domain.Actor, len(keysBySlot))
	for _, slot := range []domain.Slot{domain.SlotAdmin, domain.SlotSubAdmin, domain.SlotMember} {
		cred, err := s.load(ctx, slot)
		if errors.Is(err, domain.ErrNoSession) {
			continue
		}
		if err != nil {
			return nil, err
		}
		snap[slot] = cred.Actor
	}
	return snap, nil
}

// load reads whatever credential the slot holds.
func (s *Store) load(ctx context.Context, slot domain.Slot) (*domain.Credential, error) {
	keys, ok := keysBySlot[slot]
	if !ok {
		return nil, domain.ErrNoSession
	}
	token, err := s.get(ctx, keys.Token)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, domain.ErrNoSession
	}

	role, verified, err := s.slotRole(ctx, slot, keys)
	if err != nil {
		return nil, err
	}
	if !verified {
		role = claimsRole(token)
	}

	raw, err := s.get(ctx, keys.Profile)
	switch {
	case errors.Is(err, domain.ErrNoSession):
		return claimsCredential(role, token), nil
	case err != nil:
		return nil, err
	}
	actor, err := decodeProfile(role, raw)
	if err != nil {
		return claimsCredential(role, token), nil
	}
	return &domain.Credential{Token: token, Actor: actor, FromClaims: !verified}, nil
}

func claimsCredential(role domain.Role, token string) *domain.Credential {
	return &domain.Credential{Token: token, Actor: actorFromClaims(role, token), FromClaims: true}
}

// slotRole decides which variant the slot holds. Only the member slot is
// shared; it is told apart by the isEmployee marker. verified is false when
// the marker is missing or unreadable.
func (s *Store) slotRole(ctx context.Context, slot domain.Slot, keys slotKeys) (role domain.Role, verified bool, err error) {
	switch slot {
	case domain.SlotAdmin:
		return domain.RoleAdmin, true, nil
	case domain.SlotSubAdmin:
		return domain.RoleSubAdmin, true, nil
	}

	marker, err := s.get(ctx, keys.Extra)
	switch {
	case err == nil:
		isEmployee, perr := strconv.ParseBool(marker)
		if perr != nil {
			return "", false, nil
		}
		if isEmployee {
			return domain.RoleEmployee, true, nil
		}
		return domain.RoleEndUser, true, nil
	case errors.Is(err, domain.ErrNoSession):
		return "", false, nil
	default:
		return "", false, err
	}
}

// claimsRole reads the member variant from the token's role claim.
func claimsRole(token string) domain.Role {
	if role, ok := domain.ParseRole(claimString(parseClaims(token), "role")); ok && role.Slot() == domain.SlotMember {
		return role
	}
	return domain.RoleEndUser
}

func (s *Store) get(ctx context.Context, name string) (string, error) {
	v, err := s.kv.Get(ctx, s.key(name))
	if errors.Is(err, ports.ErrKeyNotFound) {
		return "", domain.ErrNoSession
	}
	if err != nil {
		return "", fmt.Errorf("session: read %s: %w", name, err)
	}
	return v, nil
}

func decodeProfile(role domain.Role, raw string) (domain.Actor, error) {
	var (
		actor domain.Actor
		err   error
	)
	switch role {
	case domain.RoleAdmin:
		var a domain.Admin
		err = json.Unmarshal([]byte(raw), &a)
		actor = a
	case domain.RoleSubAdmin:
		var a domain.SubAdmin
		err = json.Unmarshal([]byte(raw), &a)
		actor = a
	case domain.RoleEmployee:
		var a domain.Employee
		err = json.Unmarshal([]byte(raw), &a)
		actor = a
	default:
		var a domain.EndUser
		err = json.Unmarshal([]byte(raw), &a)
		actor = a
	}
	if err != nil {
		return nil, fmt.Errorf("session: decode %s profile: %w", role, err)
	}
	return actor, nil
}
