package model

import "time"

// Roles accepted in the users table and in JWT claims.
const (
	RoleStudent     = "STUDENT"
	RoleAdmin       = "ADMIN"
	RoleFunctionary = "FUNCTIONARY"
)

// User is an account that can hold reservations. PasswordHash is a
// bcrypt digest and never leaves the repository layer.
type User struct {
	ID           uint64    `json:"id"`
	IDNum        string    `json:"id_num"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ValidRole reports whether role is one of the three known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleAdmin, RoleFunctionary:
		return true
	}
	return false
}
