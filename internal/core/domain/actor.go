package domain

import "strings"

// Actor is an authenticated principal. The set of implementations is closed:
// Admin, SubAdmin, Employee and EndUser. The concrete type is decided once at
// login and carried explicitly afterwards.
type Actor interface {
	Role() Role
	ActorID() string
	ActorEmail() string
	DisplayName() string

	actor()
}

// Admin has unrestricted visibility.
type Admin struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// SubAdmin sees the users it referred and manages employees.
type SubAdmin struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Employee sees the users it referred. ReferralCode, when set, equals ID.
type Employee struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	FullName     string `json:"fullName,omitempty"`
	ReferralCode string `json:"referralCode,omitempty"`
}

// EndUser is an onboarded user. It has no dashboard.
type EndUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Phone     string `json:"phoneNumber,omitempty"`
	Age       int    `json:"age,omitempty"`
	City      string `json:"city,omitempty"`
	Referral  string `json:"referral,omitempty"`
}

func (Admin) Role() Role { return RoleAdmin }
func (a Admin) ActorID() string { return a.ID }
func (a Admin) ActorEmail() string { return a.Email }
func (a Admin) DisplayName() string {
	return firstNonEmpty(a.Name, a.Email)
}
func (Admin) actor() {}

func (SubAdmin) Role() Role { return RoleSubAdmin }
func (s SubAdmin) ActorID() string { return s.ID }
func (s SubAdmin) ActorEmail() string { return s.Email }
func (s SubAdmin) DisplayName() string {
	return firstNonEmpty(s.Name, "Sub Admin")
}
func (SubAdmin) actor() {}

func (Employee) Role() Role { return RoleEmployee }
func (e Employee) ActorID() string { return e.ID }
func (e Employee) ActorEmail() string { return e.Email }
func (e Employee) DisplayName() string {
	return firstNonEmpty(e.FullName, e.Email)
}
func (Employee) actor() {}

func (EndUser) Role() Role { return RoleEndUser }
func (u EndUser) ActorID() string { return u.ID }
func (u EndUser) ActorEmail() string { return u.Email }
func (u EndUser) DisplayName() string {
	return firstNonEmpty(strings.TrimSpace(u.FirstName+" "+u.LastName), u.Email)
}
func (EndUser) actor() {}

// Credential is the normalized result of a successful login.
type Credential struct {
	Token string
	Actor Actor
	// FromClaims marks an actor rebuilt from unverified token claims because
	// the stored profile was missing or unreadable. It is display data only.
	FromClaims bool
}

// Registration is the result of a registration call. Credential is nil when
// the backend answered with a message only.
type Registration struct {
	Message    string
	Credential *Credential
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
