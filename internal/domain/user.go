package domain

import "time"

// Role separates customers from administrators. It is assigned once at
// signup and never re-evaluated afterward; there is no promotion flow.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Valid reports whether the role is a supported value.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleAdmin:
		return true
	default:
		return false
	}
}

// User is the profile record stored alongside a credential-service account.
// The ID is the credential service's subject identifier.
type User struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Role      Role
	CreatedAt time.Time
}

// Validate checks the user invariants and returns every violation found.
func (u *User) Validate() []error {
	var errs []error

	if u.Email == "" {
		errs = append(errs, ErrUserEmailRequired)
	}
	if u.Name == "" {
		errs = append(errs, ErrUserNameRequired)
	}
	if !u.Role.Valid() {
		errs = append(errs, ErrUserRoleInvalid)
	}

	return errs
}
