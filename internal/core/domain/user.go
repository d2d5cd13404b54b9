package domain

import (
	"errors"
	"time"
)

// User models an account in the users table. SessionToken and ResetToken are
// nil while no session or reset request is outstanding; each field holds at
// most one value at a time and every write overwrites the previous one.
type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	SessionToken   *string   `json:"-"`
	ResetToken     *string   `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

var ErrUserNotFound = errors.New("user not found")
var ErrDuplicateEntry = errors.New("duplicate entry")
var ErrAlreadyRegistered = errors.New("email already registered")
var ErrUnknownUser = errors.New("unknown user")
var ErrInvalidToken = errors.New("invalid reset token")
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrStoreCorrupted signals that a lookup on a supposedly unique column
// matched more than one row.
var ErrStoreCorrupted = errors.New("user store corrupted")
