package domain

import "time"

// EmployeeRecord is an employee account as listed on management pages.
type EmployeeRecord struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// SubAdminRecord is a sub-admin account as listed on the admin page.
type SubAdminRecord struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}
