package domain

import "time"

// Role distinguishes citizens from municipal staff.
type Role string

const (
	RoleCitizen Role = "CITIZEN"
	RoleStaff   Role = "STAFF"
)

// User is the domain model for registered visitors and staff members.
// DepartmentID is set exactly when Role is STAFF.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         *string
	Role         Role
	DepartmentID *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName returns the user's name, falling back to the email address.
func (u *User) DisplayName() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	return u.Email
}
