package model

import "time"

// Role distinguishes regular reward earners from platform admins.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents a registered member of the rewards platform.
type User struct {
	ID            int64
	Login         string
	PasswordHash  string
	Role          Role
	Country       string
	EmailVerified bool
	PhoneVerified bool
	CreatedAt     time.Time
}
