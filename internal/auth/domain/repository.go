package domain

import (
	"context"
	"errors"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAuthRequired signals that no valid session backs the request; the
	// HTTP layer answers it with a redirect to sign-in, never a data error.
	ErrAuthRequired = errors.New("authentication required")
)

// UserRepository persists accounts.
type UserRepository interface {
	Save(ctx context.Context, user *User) error
	// GetByEmail returns (nil, nil) when no account exists for email.
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

// SessionRepository stores sessions with their TTL.
type SessionRepository interface {
	Save(ctx context.Context, session *Session) error
	// Get returns (nil, nil) for an unknown or expired token.
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
}
