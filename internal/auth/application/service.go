package application

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/wyfcoding/inventory/internal/auth/domain"
	"github.com/wyfcoding/inventory/internal/auth/infrastructure/security"
	"github.com/wyfcoding/inventory/pkg/logger"
)

// RegisterCommand creates an account.
type RegisterCommand struct {
	Email    string
	Password string
}

// LoginCommand opens a session.
type LoginCommand struct {
	Email    string
	Password string
}

// AuthService handles registration, login, and session resolution.
type AuthService struct {
	users      domain.UserRepository
	sessions   domain.SessionRepository
	hasher     *security.Hasher
	sessionTTL time.Duration
}

func NewAuthService(users domain.UserRepository, sessions domain.SessionRepository, hasher *security.Hasher, sessionTTL time.Duration) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		hasher:     hasher,
		sessionTTL: sessionTTL,
	}
}

// Register creates an account, rejecting already-registered emails.
func (s *AuthService) Register(ctx context.Context, cmd RegisterCommand) (string, error) {
	existing, err := s.users.GetByEmail(ctx, cmd.Email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", domain.ErrEmailTaken
	}

	hash, err := s.hasher.Hash(cmd.Password)
	if err != nil {
		return "", err
	}

	user := domain.NewUser(uuid.New().String(), cmd.Email, hash)
	if err := s.users.Save(ctx, user); err != nil {
		return "", err
	}

	logger.Info(ctx, "User registered", "user_id", user.ID)
	return user.ID, nil
}

// Login verifies credentials and opens a session. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, cmd LoginCommand) (*domain.Session, error) {
	user, err := s.users.GetByEmail(ctx, cmd.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(cmd.Password, user.PasswordHash)
	if err != nil || !ok {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := newSessionToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := &domain.Session{
		Token:     token,
		UserID:    user.ID,
		Email:     user.Email,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// Logout drops the session; an unknown token is a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// CurrentUser resolves the session token to its user. A missing, unknown, or
// expired token yields ErrAuthRequired, never a nil user.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrAuthRequired
	}

	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil || session.Expired(time.Now()) {
		return nil, domain.ErrAuthRequired
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrAuthRequired
	}
	return user, nil
}

func newSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
