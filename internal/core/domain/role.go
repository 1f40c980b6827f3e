package domain

// Role is the discriminant of an Actor.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleSubAdmin Role = "subadmin"
	RoleEmployee Role = "employee"
	// RoleEndUser matches the role claim the backend issues for onboarded users.
	RoleEndUser Role = "user"
)

// Slot names an independent session partition. Employees and end users share
// the member slot because they authenticate through the same endpoint.
type Slot string

const (
	SlotAdmin    Slot = "admin"
	SlotSubAdmin Slot = "subadmin"
	SlotMember   Slot = "member"
)

// ParseRole maps a backend role claim to a Role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleSubAdmin, RoleEmployee, RoleEndUser:
		return Role(s), true
	}
	return "", false
}

// Slot returns the session slot the role is stored under.
func (r Role) Slot() Slot {
	switch r {
	case RoleAdmin:
		return SlotAdmin
	case RoleSubAdmin:
		return SlotSubAdmin
	default:
		return SlotMember
	}
}

func (r Role) String() string { return string(r) }
