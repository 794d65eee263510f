package domain

import (
	"errors"
	"time"
)

var (
	// ErrEmailTaken is returned when registration targets an email that
	// already has an identity.
	ErrEmailTaken = errors.New("email already registered")

	// ErrUserNotFound is returned by lookups when no identity exists.
	// It is a distinct signal, never a store fault.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials covers both unknown user and wrong password.
	// The two causes are not distinguished externally.
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrTokenInvalid = errors.New("token is invalid or expired")
)

type User struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
