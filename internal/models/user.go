package models

import "time"

// UserRole represents the available roles for access control.
type UserRole string

const (
	RoleInstructor UserRole = "INSTRUCTOR"
	RoleStudent    UserRole = "STUDENT"
)

// User represents an application user stored in the users table.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PhoneNo      string    `db:"phone_no" json:"phone_no"`
	PasswordHash string    `db:"password" json:"-"`
	Role         UserRole  `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// IsStudent reports whether the user holds the student role.
func (u *User) IsStudent() bool {
	return u != nil && u.Role == RoleStudent
}

// IsInstructor reports whether the user holds the instructor role.
func (u *User) IsInstructor() bool {
	return u != nil && u.Role == RoleInstructor
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
