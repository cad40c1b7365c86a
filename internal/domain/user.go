package domain

import "time"

// UserRole enumerates operator roles.
type UserRole string

const (
	UserRoleManager    UserRole = "MANAGER"
	UserRoleTechnician UserRole = "TECHNICIAN"
	UserRoleAdmin      UserRole = "ADMIN"
)

// Valid reports whether the role is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleManager, UserRoleTechnician, UserRoleAdmin:
		return true
	}
	return false
}

// User is an operator account allowed to sign in.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         UserRole
	FirstName    string
	LastName     string
	Department   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
