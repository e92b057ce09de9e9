package entity

import "github.com/google/uuid"

type UserRole string

const (
	RoleRenter UserRole = "RENTER"
	RoleStaff  UserRole = "STAFF"
	RoleAdmin  UserRole = "ADMIN"
)

func (r UserRole) IsValid() bool {
	switch r {
	case RoleRenter, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// IsStaff reports whether the role may operate on other users' records.
func (r UserRole) IsStaff() bool {
	return r == RoleStaff || r == RoleAdmin
}

type User struct {
	Base
	Email        string     `db:"email"`
	PasswordHash string     `db:"password"`
	FullName     string     `db:"full_name"`
	Phone        *string    `db:"phone"`
	Role         UserRole   `db:"role"`
	StationID    *uuid.UUID `db:"station_id"`
	IsActive     bool       `db:"is_active"`
}
