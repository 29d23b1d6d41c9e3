package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"pitchbook/internal/config"
	"pitchbook/internal/domain"
	"pitchbook/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	// ErrInvalidCredentials means the login email/password pair did not match.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized means the session token is missing, unknown or expired.
	ErrUnauthorized = errors.New("unauthorized")
)

// SessionService issues and checks owner session tokens. There is a single
// owner account configured at startup; tokens are opaque UUIDs.
type SessionService struct {
	cfg      config.OwnerConfig
	sessions domain.SessionRepository
	logger   *zerolog.Logger
}

func NewSessionService(cfg config.OwnerConfig, sessions domain.SessionRepository, logger *zerolog.Logger) *SessionService {
	return &SessionService{
		cfg:      cfg,
		sessions: sessions,
		logger:   logger,
	}
}

// Login checks the credentials in constant time and issues a session token.
func (s *SessionService) Login(ctx context.Context, email, password string) (*models.OwnerSession, error) {
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.cfg.Email))
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.Password))
	if emailOK&passOK != 1 {
		s.logger.Warn().Str("email", email).Msg("owner login rejected")
		return nil, ErrInvalidCredentials
	}

	session := &models.OwnerSession{
		Token:     uuid.NewString(),
		Email:     email,
		CreatedAt: time.Now(),
	}

	if err := s.sessions.SetSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	s.logger.Info().Str("email", email).Msg("owner logged in")
	return session, nil
}

// Authenticate resolves a token to its session.
func (s *SessionService) Authenticate(ctx context.Context, token string) (*models.OwnerSession, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	session, err := s.sessions.GetSession(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return nil, ErrUnauthorized
	}

	return session, nil
}

// Logout drops the session. Unknown tokens are not an error.
func (s *SessionService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.DeleteSession(ctx, token)
}
