package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"manvan/internal/session"
	"manvan/internal/storage"
)

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) GetUserByEmail(ctx context.Context, email string) (*storage.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.User), args.Error(1)
}

func (m *mockUserStore) GetUserByUsername(ctx context.Context, username string) (*storage.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.User), args.Error(1)
}

func (m *mockUserStore) CreateUser(ctx context.Context, u *storage.User) error {
	args := m.Called(ctx, u)
	if args.Error(0) == nil {
		u.ID = "101" // simulate insert
	}
	return args.Error(0)
}

type mockTokenIssuer struct {
	mock.Mock
}

func (m *mockTokenIssuer) GenerateToken(sessionID, userID string) (string, error) {
	args := m.Called(sessionID, userID)
	return args.String(0), args.Error(1)
}

var errMissing = fmt.Errorf("user: %w", storage.ErrNotFound)

func hashed(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestService_Register_Success(t *testing.T) {
	users := new(mockUserStore)
	tokens := new(mockTokenIssuer)
	sessions := session.NewMemoryStore(time.Hour)

	users.On("GetUserByEmail", mock.Anything, "alice@example.com").Return(nil, errMissing)
	users.On("GetUserByUsername", mock.Anything, "alice").Return(nil, errMissing)
	users.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *storage.User) bool {
		return u.Username == "alice" && u.Email == "alice@example.com" && u.IsVanOwner &&
			bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("secret123")) == nil
	})).Return(nil)
	tokens.On("GenerateToken", mock.Anything, "101").Return("signed-token", nil)

	svc := NewService(users, sessions, tokens)
	res, err := svc.Register(context.Background(), RegisterRequest{
		Username:   " alice ",
		Email:      "Alice@Example.com",
		Password:   "secret123",
		FullName:   "Alice Driver",
		IsVanOwner: true,
	})

	require.NoError(t, err)
	assert.Equal(t, storage.ID("101"), res.User.ID)
	assert.Equal(t, "signed-token", res.Token)
	assert.Equal(t, 1, sessions.Len())
	users.AssertExpectations(t)
	tokens.AssertExpectations(t)
}

func TestService_Register_EmailExists(t *testing.T) {
	users := new(mockUserStore)
	users.On("GetUserByEmail", mock.Anything, "taken@example.com").Return(&storage.User{ID: "1"}, nil)

	svc := NewService(users, session.NewMemoryStore(time.Hour), new(mockTokenIssuer))
	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "bob", Email: "taken@example.com", Password: "secret123", FullName: "Bob",
	})

	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	users.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestService_Register_PasswordTooLong(t *testing.T) {
	users := new(mockUserStore)
	users.On("GetUserByEmail", mock.Anything, "bob@example.com").Return(nil, errMissing)
	users.On("GetUserByUsername", mock.Anything, "bob").Return(nil, errMissing)

	svc := NewService(users, session.NewMemoryStore(time.Hour), new(mockTokenIssuer))
	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "bob", Email: "bob@example.com", Password: strings.Repeat("é", 40), FullName: "Bob",
	})

	assert.ErrorIs(t, err, ErrPasswordTooLong)
	users.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestService_Register_UsernameTaken(t *testing.T) {
	users := new(mockUserStore)
	users.On("GetUserByEmail", mock.Anything, "bob@example.com").Return(nil, errMissing)
	users.On("GetUserByUsername", mock.Anything, "bob").Return(&storage.User{ID: "1"}, nil)

	svc := NewService(users, session.NewMemoryStore(time.Hour), new(mockTokenIssuer))
	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "bob", Email: "bob@example.com", Password: "secret123", FullName: "Bob",
	})

	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestService_Register_ConflictOnInsert(t *testing.T) {
	users := new(mockUserStore)
	users.On("GetUserByEmail", mock.Anything, mock.Anything).Return(nil, errMissing)
	users.On("GetUserByUsername", mock.Anything, mock.Anything).Return(nil, errMissing)
	users.On("CreateUser", mock.Anything, mock.Anything).Return(fmt.Errorf("user: %w", storage.ErrConflict))

	svc := NewService(users, session.NewMemoryStore(time.Hour), new(mockTokenIssuer))
	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "bob", Email: "bob@example.com", Password: "secret123", FullName: "Bob",
	})

	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestService_Register_StorageFailurePropagates(t *testing.T) {
	users := new(mockUserStore)
	boom := errors.New("connection refused")
	users.On("GetUserByEmail", mock.Anything, mock.Anything).Return(nil, boom)

	svc := NewService(users, session.NewMemoryStore(time.Hour), new(mockTokenIssuer))
	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "bob", Email: "bob@example.com", Password: "secret123", FullName: "Bob",
	})

	assert.ErrorIs(t, err, boom)
}

func TestService_Login_ByUsername(t *testing.T) {
	users := new(mockUserStore)
	tokens := new(mockTokenIssuer)
	user := &storage.User{ID: "7", Username: "carol", Password: hashed(t, "pw123456")}
	users.On("GetUserByUsername", mock.Anything, "carol").Return(user, nil)
	tokens.On("GenerateToken", mock.Anything, "7").Return("tok", nil)

	svc := NewService(users, session.NewMemoryStore(time.Hour), tokens)
	res, err := svc.Login(context.Background(), LoginRequest{Username: "carol", Password: "pw123456"})

	require.NoError(t, err)
	assert.Equal(t, "tok", res.Token)
	assert.NotEmpty(t, res.Session.ID)
}

func TestService_Login_ByEmail(t *testing.T) {
	users := new(mockUserStore)
	tokens := new(mockTokenIssuer)
	user := &storage.User{ID: "7", Email: "carol@example.com", Password: hashed(t, "pw123456")}
	users.On("GetUserByUsername", mock.Anything, "Carol@Example.com").Return(nil, errMissing)
	users.On("GetUserByEmail", mock.Anything, "carol@example.com").Return(user, nil)
	tokens.On("GenerateToken", mock.Anything, "7").Return("tok", nil)

	svc := NewService(users, session.NewMemoryStore(time.Hour), tokens)
	_, err := svc.Login(context.Background(), LoginRequest{Username: "Carol@Example.com", Password: "pw123456"})

	require.NoError(t, err)
}

func TestService_Login_WrongPassword(t *testing.T) {
	users := new(mockUserStore)
	users.On("GetUserByUsername", mock.Anything, "carol").
		Return(&storage.User{ID: "7", Password: hashed(t, "right-one")}, nil)

	sessions := session.NewMemoryStore(time.Hour)
	svc := NewService(users, sessions, new(mockTokenIssuer))
	_, err := svc.Login(context.Background(), LoginRequest{Username: "carol", Password: "wrong-one"})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, 0, sessions.Len())
}

func TestService_Login_UnknownUser(t *testing.T) {
	users := new(mockUserStore)
	users.On("GetUserByUsername", mock.Anything, "nobody").Return(nil, errMissing)

	svc := NewService(users, session.NewMemoryStore(time.Hour), new(mockTokenIssuer))
	_, err := svc.Login(context.Background(), LoginRequest{Username: "nobody", Password: "x"})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	users.AssertNotCalled(t, "GetUserByEmail", mock.Anything, mock.Anything)
}

func TestService_Logout(t *testing.T) {
	sessions := session.NewMemoryStore(time.Hour)
	sess, err := sessions.Create(context.Background(), "7")
	require.NoError(t, err)

	svc := NewService(new(mockUserStore), sessions, new(mockTokenIssuer))
	require.NoError(t, svc.Logout(context.Background(), sess.ID))
	require.NoError(t, svc.Logout(context.Background(), ""))

	_, err = sessions.Get(context.Background(), sess.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}
