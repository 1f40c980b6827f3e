package backend

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/99minutos/referral-dashboard/internal/core/domain"
)

// ref is an identifier that the backend sends either as a bare string or as
// a populated document ({"_id": ...}). null decodes to "".
type ref string

func (r *ref) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*r = ""
		return nil
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*r = ref(s)
		return nil
	}
	var doc struct {
		MongoID string `json:"_id"`
		ID      string `json:"id"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	*r = ref(firstOf(doc.MongoID, doc.ID))
	return nil
}

// flexInt accepts both 42 and "42".
type flexInt int

func (n *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			return nil
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		*n = flexInt(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = flexInt(v)
	return nil
}

// profileDTO is every account shape the backend returns.
type profileDTO struct {
	MongoID      string  `json:"_id"`
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	Name         string  `json:"name"`
	FullName     string  `json:"fullName"`
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	Phone        string  `json:"phoneNumber"`
	Age          flexInt `json:"age"`
	City         string  `json:"city"`
	Role         string  `json:"role"`
	ReferralCode ref     `json:"referralCode"`
	Referral     ref     `json:"referral"`
	CreatedAt    string  `json:"createdAt"`
}

func (p profileDTO) id() string { return firstOf(p.MongoID, p.ID) }

func (p profileDTO) admin() domain.Admin {
	return domain.Admin{ID: p.id(), Email: p.Email, Name: firstOf(p.Name, p.FullName)}
}

func (p profileDTO) subAdmin() domain.SubAdmin {
	return domain.SubAdmin{ID: p.id(), Email: p.Email, Name: firstOf(p.Name, p.FullName)}
}

func (p profileDTO) employee() domain.Employee {
	return domain.Employee{
		ID:           p.id(),
		Email:        p.Email,
		FullName:     firstOf(p.FullName, p.Name),
		ReferralCode: string(p.ReferralCode),
	}
}

func (p profileDTO) endUser() domain.EndUser {
	return domain.EndUser{
		ID:        p.id(),
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Phone:     p.Phone,
		Age:       int(p.Age),
		City:      p.City,
		Referral:  string(p.Referral),
	}
}

// member resolves the shared employee/end-user profile. The role claim wins;
// without one, an employee is recognised by its full name.
func (p profileDTO) member(employeeHint bool) domain.Actor {
	if role, ok := domain.ParseRole(p.Role); ok {
		switch role {
		case domain.RoleEmployee:
			return p.employee()
		case domain.RoleEndUser:
			return p.endUser()
		}
	}
	if employeeHint || p.FullName != "" {
		return p.employee()
	}
	return p.endUser()
}

func (p profileDTO) employeeRecord() domain.EmployeeRecord {
	return domain.EmployeeRecord{
		ID:        p.id(),
		Email:     p.Email,
		FullName:  firstOf(p.FullName, p.Name),
		CreatedAt: parseTime(p.CreatedAt),
	}
}

func (p profileDTO) subAdminRecord() domain.SubAdminRecord {
	return domain.SubAdminRecord{
		ID:        p.id(),
		Email:     p.Email,
		Name:      firstOf(p.Name, p.FullName),
		CreatedAt: parseTime(p.CreatedAt),
	}
}

// userDTO is a user record as the backend stores it.
type userDTO struct {
	MongoID   string  `json:"_id"`
	ID        string  `json:"id"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Phone     string  `json:"phoneNumber"`
	Age       flexInt `json:"age"`
	City      string  `json:"city"`
	Referral  ref     `json:"referral"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"createdAt"`
}

func (u userDTO) record() (domain.UserRecord, error) {
	status, err := domain.ParseStatus(u.Status)
	if err != nil {
		return domain.UserRecord{}, err
	}
	return domain.UserRecord{
		ID:        firstOf(u.MongoID, u.ID),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		Age:       int(u.Age),
		City:      u.City,
		Referral:  string(u.Referral),
		Status:    status,
		CreatedAt: parseTime(u.CreatedAt),
	}, nil
}

// newUserDTO is the create-user request body.
type newUserDTO struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phoneNumber"`
	Age       int    `json:"age"`
	City      string `json:"city"`
	Password  string `json:"password,omitempty"`
	Referral  string `json:"referral,omitempty"`
}

func toNewUserDTO(in domain.NewUserRecord) newUserDTO {
	return newUserDTO{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
		Age:       in.Age,
		City:      in.City,
		Password:  in.Password,
		Referral:  in.Referral,
	}
}

// envelope is the {success, message, token, data} wrapper most endpoints use.
type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Token   string          `json:"token"`
	Data    json.RawMessage `json:"data"`
}

func (e envelope) failed() bool { return e.Success != nil && !*e.Success }

// items returns the list payload of body: the data field when present,
// else body itself when it is an array.
func items(body json.RawMessage) (json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '[' {
		return body, nil
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func firstOf(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
