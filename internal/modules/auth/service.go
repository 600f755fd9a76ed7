package auth

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"manvan/internal/session"
	"manvan/internal/storage"
)

// Service contains all business logic for authentication
type Service struct {
	users    UserStore
	sessions SessionStore
	tokens   TokenIssuer
}

type LoginResult struct {
	User    *storage.User
	Session *session.Session
	Token   string
}

func NewService(users UserStore, sessions SessionStore, tokens TokenIssuer) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
	}
}

// Register creates the account and logs it in.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)

	if err := s.ensureUnique(ctx, username, email); err != nil {
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &storage.User{
		Username:   username,
		Email:      email,
		Password:   hash,
		FullName:   strings.TrimSpace(req.FullName),
		Phone:      strings.TrimSpace(req.Phone),
		IsVanOwner: req.IsVanOwner,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if storage.IsConflict(err) {
			// lost a race with a concurrent registration
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	return s.startSession(ctx, user)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	user, err := s.lookup(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.startSession(ctx, user)
}

func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Delete(ctx, sessionID)
}

func (s *Service) lookup(ctx context.Context, login string) (*storage.User, error) {
	user, err := s.users.GetUserByUsername(ctx, login)
	if err == nil {
		return user, nil
	}
	if !storage.IsNotFound(err) {
		return nil, err
	}
	if !strings.Contains(login, "@") {
		return nil, ErrInvalidCredentials
	}

	user, err = s.users.GetUserByEmail(ctx, strings.ToLower(login))
	if storage.IsNotFound(err) {
		return nil, ErrInvalidCredentials
	}
	return user, err
}

func (s *Service) ensureUnique(ctx context.Context, username, email string) error {
	_, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return ErrEmailAlreadyExists
	case !storage.IsNotFound(err):
		return err
	}

	_, err = s.users.GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		return ErrUsernameTaken
	case !storage.IsNotFound(err):
		return err
	}
	return nil
}

func (s *Service) startSession(ctx context.Context, user *storage.User) (*LoginResult, error) {
	sess, err := s.sessions.Create(ctx, user.ID.String())
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	token, err := s.tokens.GenerateToken(sess.ID, user.ID.String())
	if err != nil {
		_ = s.sessions.Delete(ctx, sess.ID)
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &LoginResult{User: user, Session: sess, Token: token}, nil
}

// bcrypt rejects longer input.
const maxPasswordBytes = 72

func hashPassword(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
