package admin

import (
	"context"

	"manvan/internal/storage"
	"manvan/internal/storage/migrate"
)

type UserStore interface {
	ListUsers(ctx context.Context) ([]storage.User, error)
	DeleteUser(ctx context.Context, id storage.ID) error
	SetVanOwnerStatus(ctx context.Context, id storage.ID, isVanOwner bool) (*storage.User, error)
	SetAdminStatus(ctx context.Context, id storage.ID, isAdmin bool) (*storage.User, error)
}

// SessionRevoker drops every session of a deleted user.
type SessionRevoker interface {
	DeleteByUser(ctx context.Context, userID string) error
}

type Migrator interface {
	Run(ctx context.Context) (*migrate.Report, error)
}
