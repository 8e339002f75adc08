package models

import "time"

// Role values stored on a user record. A user created through signup always
// gets RoleStandard; admins are provisioned directly in the database.
const (
	RoleStandard = "standard"
	RoleAdmin    = "admin"
)

// User represents a row in the PostgreSQL users table.
type User struct {
	ID           string    `json:"id"`
	UserName     string    `json:"userName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never serialize
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// SignupRequest is the JSON body for POST /api/auth/signup.
type SignupRequest struct {
	UserName        string `json:"userName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// LoginRequest is the JSON body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
