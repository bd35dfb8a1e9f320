package enums

import "fmt"

// Role is the account role the backend stamps on a login.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

var validRoles = []Role{
	RoleAdmin,
	RoleCustomer,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRole converts raw input into a Role.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}

// LoginPath is where a visitor lacking this role is sent to sign in.
func (r Role) LoginPath() string {
	if r == RoleAdmin {
		return "/admin"
	}
	return "/login"
}

// HomePath is the landing page for an authenticated user of this role.
func (r Role) HomePath() string {
	switch r {
	case RoleAdmin:
		return "/admin/dashboard"
	case RoleCustomer:
		return "/customer/dashboard"
	default:
		return "/"
	}
}
