package domain

import (
	"errors"
	"time"
)

// ErrUserNotFound is returned by the identity store when no user matches.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailTaken is returned when the unique email constraint is violated.
var ErrEmailTaken = errors.New("email already registered")

// User is a registered customer. PasswordHash is derived data and never serialised.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	IsAdmin      bool
	Street       string
	Apartment    string
	Zip          string
	City         string
	Country      string
	Phone        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserSummary is the minimal owner identity attached to orders.
type UserSummary struct {
	ID    string
	Name  string
	Email string
	Phone string
}
