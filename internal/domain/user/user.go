package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already in use")
)

// User carries the wire names of the original API (First_Name etc.) so existing
// clients keep working. PasswordHash and the session set are never serialized.
type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"First_Name"`
	LastName     string    `json:"Last_Name"`
	Age          int       `json:"Age"`
	Email        string    `json:"Email"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type RegisterRequest struct {
	FirstName string `json:"First_Name" binding:"required,alpha"`
	LastName  string `json:"Last_Name" binding:"required,alpha"`
	Age       int    `json:"Age" binding:"required,gt=0"`
	Email     string `json:"Email" binding:"required,email"`
	Password  string `json:"Password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"Email" binding:"required,email"`
	Password string `json:"Password" binding:"required"`
}
