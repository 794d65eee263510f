package repository

import (
	"context"

	"github.com/Camille-Li-1022/demo-user-register-login/internal/domain"
)

type UserRepository interface {
	// Create persists a new identity. A uniqueness violation on email is
	// reported as domain.ErrEmailTaken.
	Create(ctx context.Context, email, passwordHash string) (*domain.User, error)

	// FindByEmail returns domain.ErrUserNotFound when no identity exists.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}
