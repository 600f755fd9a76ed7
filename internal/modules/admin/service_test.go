package admin

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"manvan/internal/storage"
	"manvan/internal/storage/migrate"
)

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) ListUsers(ctx context.Context) ([]storage.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]storage.User), args.Error(1)
}

func (m *mockUserStore) DeleteUser(ctx context.Context, id storage.ID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserStore) SetVanOwnerStatus(ctx context.Context, id storage.ID, v bool) (*storage.User, error) {
	args := m.Called(ctx, id, v)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.User), args.Error(1)
}

func (m *mockUserStore) SetAdminStatus(ctx context.Context, id storage.ID, v bool) (*storage.User, error) {
	args := m.Called(ctx, id, v)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.User), args.Error(1)
}

type mockRevoker struct {
	mock.Mock
}

func (m *mockRevoker) DeleteByUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type migratorFunc func(ctx context.Context) (*migrate.Report, error)

func (f migratorFunc) Run(ctx context.Context) (*migrate.Report, error) { return f(ctx) }

func TestService_DeleteUser(t *testing.T) {
	t.Run("self", func(t *testing.T) {
		users := new(mockUserStore)
		err := NewService(users, nil, nil).DeleteUser(context.Background(), "1", "1")
		assert.ErrorIs(t, err, ErrSelfAction)
		users.AssertNotCalled(t, "DeleteUser", mock.Anything, mock.Anything)
	})

	t.Run("revokes sessions", func(t *testing.T) {
		users, sessions := new(mockUserStore), new(mockRevoker)
		users.On("DeleteUser", mock.Anything, storage.ID("2")).Return(nil)
		sessions.On("DeleteByUser", mock.Anything, "2").Return(nil)

		require.NoError(t, NewService(users, sessions, nil).DeleteUser(context.Background(), "1", "2"))
		sessions.AssertExpectations(t)
	})

	t.Run("missing", func(t *testing.T) {
		users := new(mockUserStore)
		users.On("DeleteUser", mock.Anything, storage.ID("9")).Return(fmt.Errorf("user: %w", storage.ErrNotFound))
		err := NewService(users, new(mockRevoker), nil).DeleteUser(context.Background(), "1", "9")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestService_SetAdmin_CannotDemoteSelf(t *testing.T) {
	users := new(mockUserStore)
	users.On("SetAdminStatus", mock.Anything, storage.ID("1"), true).Return(&storage.User{ID: "1", IsAdmin: true}, nil)
	svc := NewService(users, nil, nil)

	_, err := svc.SetAdmin(context.Background(), "1", "1", false)
	assert.ErrorIs(t, err, ErrSelfAction)

	u, err := svc.SetAdmin(context.Background(), "1", "1", true)
	require.NoError(t, err)
	assert.True(t, u.IsAdmin)
}

func TestService_Migrate(t *testing.T) {
	_, err := NewService(new(mockUserStore), nil, nil).Migrate(context.Background())
	assert.ErrorIs(t, err, ErrMigrationUnavailable)

	boom := errors.New("boom")
	_, err = NewService(new(mockUserStore), nil, migratorFunc(func(context.Context) (*migrate.Report, error) {
		return nil, boom
	})).Migrate(context.Background())
	assert.ErrorIs(t, err, boom)

	report, err := NewService(new(mockUserStore), nil, migratorFunc(func(context.Context) (*migrate.Report, error) {
		return &migrate.Report{Users: 3}, nil
	})).Migrate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, report.Users)
}
