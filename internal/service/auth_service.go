package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"opsdesk/internal/model"
	"opsdesk/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("invalid or expired session")
)

// AuthService issues and resolves bearer session tokens.
type AuthService struct {
	users    *repository.UserRepository
	sessions *repository.SessionRepository
	ttl      time.Duration
	log      zerolog.Logger
}

func NewAuthService(users *repository.UserRepository, sessions *repository.SessionRepository, ttl time.Duration, log zerolog.Logger) *AuthService {
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &AuthService{users: users, sessions: sessions, ttl: ttl, log: log}
}

// Login verifies the password and returns a fresh session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}
	if !user.IsActive {
		return "", nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	session := model.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, &session); err != nil {
		return "", nil, err
	}
	return session.Token, user, nil
}

// Authenticate resolves a bearer token to its active user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	session, err := s.sessions.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	if time.Now().After(session.ExpiresAt) {
		if err := s.sessions.Delete(ctx, token); err != nil {
			s.log.Warn().Err(err).Msg("auth: failed pruning expired session")
		}
		return nil, ErrUnauthorized
	}
	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil || !user.IsActive {
		return nil, ErrUnauthorized
	}
	return user, nil
}

// EnsureBootstrapAdmin creates the initial master admin account from config
// when no user with that email exists yet. A no-op when unconfigured.
func (s *AuthService) EnsureBootstrapAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash bootstrap password: %w", err)
		}
		admin := model.User{
			ID:           uuid.NewString(),
			Email:        email,
			FullName:     "Administrator",
			PasswordHash: string(hash),
			Role:         model.RoleMasterAdmin,
			IsActive:     true,
		}
		if err := s.users.Create(ctx, &admin); err != nil {
			return err
		}
		s.log.Info().Str("email", email).Msg("bootstrap admin created")
		return nil
	default:
		return fmt.Errorf("find bootstrap admin: %w", err)
	}
}
