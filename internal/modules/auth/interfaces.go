package auth

import (
	"context"

	"manvan/internal/session"
	"manvan/internal/storage"
)

// UserStore lists only the storage methods the auth service uses
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*storage.User, error)
	GetUserByUsername(ctx context.Context, username string) (*storage.User, error)
	CreateUser(ctx context.Context, u *storage.User) error
}

type SessionStore interface {
	Create(ctx context.Context, userID string) (*session.Session, error)
	Delete(ctx context.Context, id string) error
}

type TokenIssuer interface {
	GenerateToken(sessionID, userID string) (string, error)
}
