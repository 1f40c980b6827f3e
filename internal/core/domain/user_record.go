package domain

import (
	"fmt"
	"time"
)

// UserStatus represents the processing state of a user record.
type UserStatus string

const (
	StatusPending    UserStatus = "pending"
	StatusInProgress UserStatus = "in-progress"
	StatusCompleted  UserStatus = "completed"
)

// Transition is a named status workflow step.
type Transition string

const (
	TransitionProceed  Transition = "proceed"
	TransitionComplete Transition = "complete"
)

// transitionTargets maps every transition to the status it lands on.
var transitionTargets = map[Transition]UserStatus{
	TransitionProceed:  StatusInProgress,
	TransitionComplete: StatusCompleted,
}

// validTransitions lists the transitions accepted from each status.
// Completion is reachable straight from pending. Completed accepts nothing.
var validTransitions = map[UserStatus][]Transition{
	StatusPending:    {TransitionProceed, TransitionComplete},
	StatusInProgress: {TransitionComplete},
}

// ParseStatus converts a wire value to a UserStatus. Records the backend
// stores without a status are pending.
func ParseStatus(s string) (UserStatus, error) {
	switch UserStatus(s) {
	case "":
		return StatusPending, nil
	case StatusPending, StatusInProgress, StatusCompleted:
		return UserStatus(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// Terminal reports whether no transition leaves s.
func (s UserStatus) Terminal() bool {
	return len(validTransitions[s]) == 0
}

// CanApply reports whether t is accepted from s.
func (s UserStatus) CanApply(t Transition) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == t {
			return true
		}
	}
	return false
}

// Apply returns the status reached by applying t to s. Reapplying a
// transition whose target is already the current status is a no-op and
// reports changed == false.
func (s UserStatus) Apply(t Transition) (next UserStatus, changed bool, err error) {
	target, ok := transitionTargets[t]
	if !ok {
		return s, false, fmt.Errorf("%w: %q", ErrUnknownTransition, t)
	}
	if s == target {
		return s, false, nil
	}
	if !s.CanApply(t) {
		return s, false, fmt.Errorf("%w (%s from %s)", ErrInvalidTransition, t, s)
	}
	return target, true, nil
}

// UserRecord is an onboarded end user being processed.
type UserRecord struct {
	ID        string     `json:"id"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Email     string     `json:"email,omitempty"`
	Phone     string     `json:"phoneNumber"`
	Age       int        `json:"age"`
	City      string     `json:"city"`
	Referral  string     `json:"referral,omitempty"`
	Status    UserStatus `json:"status"`
	CreatedAt time.Time  `json:"createdAt,omitzero"`
}

// NewUserRecord holds the fields submitted when onboarding a user.
type NewUserRecord struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Age       int
	City      string
	Password  string
	Referral  string
}
