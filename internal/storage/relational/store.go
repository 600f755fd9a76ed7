// Package relational implements storage.Storage on gorm, backed by
// PostgreSQL in production and SQLite for local runs and tests.
package relational

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"manvan/internal/database"
	"manvan/internal/storage"
)

type Store struct {
	db *gorm.DB
}

var _ storage.Storage = (*Store)(nil)

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Open connects to dsn and migrates the schema.
func Open(dsn string) (*Store, error) {
	db, err := database.Connect(dsn)
	if err != nil {
		return nil, fmt.Errorf("connect relational store: %w", err)
	}
	s := New(db)
	if err := s.Migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(allModels()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

func (s *Store) Kind() storage.Kind { return storage.KindRelational }

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func notFound(entity string, id storage.ID) error {
	return fmt.Errorf("%s %q: %w", entity, id, storage.ErrNotFound)
}

// translate maps gorm/driver errors onto the storage taxonomy.
func translate(err error, entity string, id storage.ID) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound(entity, id)
	case isUniqueViolation(err):
		return fmt.Errorf("%s: %w", entity, storage.ErrConflict)
	default:
		return fmt.Errorf("%s: %w", entity, err)
	}
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// modernc sqlite is not covered by gorm's error translator
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
