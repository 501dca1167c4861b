package domain

import "time"

// Role enumerates account roles.
type Role string

const (
	RoleStudent    Role = "student"
	RoleFaculty    Role = "faculty"
	RoleSubAdmin   Role = "sub_admin"
	RoleSuperAdmin Role = "super_admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleFaculty, RoleSubAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// IsAdmin is true for both department-scoped and global administrators.
func (r Role) IsAdmin() bool {
	return r == RoleSubAdmin || r == RoleSuperAdmin
}

// SelfRegistrable lists roles a visitor may pick when registering.
func (r Role) SelfRegistrable() bool {
	return r == RoleStudent || r == RoleFaculty
}

// User is an account: a reporter (student, faculty) or an administrator.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Department   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRef is the public projection of a user embedded in tickets and updates.
type UserRef struct {
	ID    string
	Name  string
	Email string
	Role  Role
}

// Ref returns the embeddable projection of u.
func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
