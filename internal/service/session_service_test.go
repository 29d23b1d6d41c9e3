package service

import (
	"context"
	"io"
	"testing"
	"time"

	"pitchbook/internal/config"
	"pitchbook/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessionService() *SessionService {
	logger := zerolog.New(io.Discard)
	cfg := config.OwnerConfig{
		Email:    "owner@example.com",
		Password: "secret",
	}
	return NewSessionService(cfg, repository.NewMemorySessionRepository(time.Hour), &logger)
}

func TestLoginAndAuthenticate(t *testing.T) {
	svc := newTestSessionService()
	ctx := context.Background()

	session, err := svc.Login(ctx, "owner@example.com", "secret")
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "owner@example.com", session.Email)

	got, err := svc.Authenticate(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.Token, got.Token)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestSessionService()
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "owner@example.com", "nope"},
		{"wrong email", "intruder@example.com", "secret"},
		{"both wrong", "intruder@example.com", "nope"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tt.email, tt.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestAuthenticateUnknownToken(t *testing.T) {
	svc := newTestSessionService()

	_, err := svc.Authenticate(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Authenticate(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLogout(t *testing.T) {
	svc := newTestSessionService()
	ctx := context.Background()

	session, err := svc.Login(ctx, "owner@example.com", "secret")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, session.Token))

	_, err = svc.Authenticate(ctx, session.Token)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// Logging out an unknown token is a no-op.
	assert.NoError(t, svc.Logout(ctx, "unknown"))
	assert.NoError(t, svc.Logout(ctx, ""))
}
