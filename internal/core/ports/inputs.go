package ports

// LoginInput is shared by every login flow.
type LoginInput struct {
	Email    string `json:"email" validate:"required,credemail"`
	Password string `json:"password" validate:"required,min=6"`
}

// RegisterEmployeeInput is the employee signup form. ReferralCode is the
// sub-admin the employee is attributed to, when there is one.
type RegisterEmployeeInput struct {
	FullName        string `json:"fullName" validate:"required"`
	Email           string `json:"email" validate:"required,credemail"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	ReferralCode    string `json:"referralCode,omitempty"`
}

// RegisterSubAdminInput is the sub-admin signup form.
type RegisterSubAdminInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,credemail"`
	Password string `json:"password" validate:"required,min=6"`
}

// RegisterEndUserInput is the end-user self signup form.
type RegisterEndUserInput struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,credemail"`
	Phone     string `json:"phoneNumber" validate:"required"`
	Age       int    `json:"age" validate:"gt=0"`
	City      string `json:"city" validate:"required"`
	Password  string `json:"password" validate:"required,min=6"`
	Referral  string `json:"referral,omitempty"`
}

// CreateUserInput is a user record created by an employee or sub-admin on
// behalf of an end user. Any referral in the body is ignored.
type CreateUserInput struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"omitempty,credemail"`
	Phone     string `json:"phoneNumber" validate:"required"`
	Age       int    `json:"age" validate:"gt=0"`
	City      string `json:"city" validate:"required"`
	Password  string `json:"password" validate:"omitempty,min=6"`
	Referral  string `json:"referral,omitempty"`
}
