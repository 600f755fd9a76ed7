package admin

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"manvan/internal/storage"
	"manvan/internal/storage/migrate"
)

type Service struct {
	users    UserStore
	sessions SessionRevoker
	migrator Migrator
}

// NewService builds the admin service. migrator may be nil, in which case
// Migrate reports ErrMigrationUnavailable.
func NewService(users UserStore, sessions SessionRevoker, migrator Migrator) *Service {
	return &Service{users: users, sessions: sessions, migrator: migrator}
}

func (s *Service) ListUsers(ctx context.Context) ([]storage.User, error) {
	return s.users.ListUsers(ctx)
}

// DeleteUser removes the user with their listings and signs them out.
func (s *Service) DeleteUser(ctx context.Context, actorID, id storage.ID) error {
	if actorID == id {
		return ErrSelfAction
	}
	if err := s.users.DeleteUser(ctx, id); err != nil {
		if storage.IsNotFound(err) {
			return ErrUserNotFound
		}
		return err
	}
	if s.sessions != nil {
		if err := s.sessions.DeleteByUser(ctx, id.String()); err != nil {
			return fmt.Errorf("revoke sessions: %w", err)
		}
	}
	log.Info().Str("admin_id", actorID.String()).Str("user_id", id.String()).Msg("user deleted")
	return nil
}

func (s *Service) SetVanOwner(ctx context.Context, id storage.ID, isVanOwner bool) (*storage.User, error) {
	u, err := s.users.SetVanOwnerStatus(ctx, id, isVanOwner)
	if storage.IsNotFound(err) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (s *Service) SetAdmin(ctx context.Context, actorID, id storage.ID, isAdmin bool) (*storage.User, error) {
	if actorID == id && !isAdmin {
		return nil, ErrSelfAction
	}
	u, err := s.users.SetAdminStatus(ctx, id, isAdmin)
	if storage.IsNotFound(err) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (s *Service) Migrate(ctx context.Context) (*migrate.Report, error) {
	if s.migrator == nil {
		return nil, ErrMigrationUnavailable
	}
	return s.migrator.Run(ctx)
}
