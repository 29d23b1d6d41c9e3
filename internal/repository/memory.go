package repository

import (
	"context"
	"sync"
	"time"

	"pitchbook/internal/models"
)

type MemorySessionRepository struct {
	sessions sync.Map
	ttl      time.Duration
}

type memoryEntry struct {
	session   *models.OwnerSession
	expiresAt time.Time
}

func NewMemorySessionRepository(ttl time.Duration) *MemorySessionRepository {
	return &MemorySessionRepository{ttl: ttl}
}

func (r *MemorySessionRepository) GetSession(ctx context.Context, token string) (*models.OwnerSession, error) {
	val, ok := r.sessions.Load(token)
	if !ok {
		return nil, nil
	}

	entry := val.(*memoryEntry)
	if time.Now().After(entry.expiresAt) {
		r.sessions.Delete(token)
		return nil, nil
	}
	return entry.session, nil
}

func (r *MemorySessionRepository) SetSession(ctx context.Context, session *models.OwnerSession) error {
	r.sessions.Store(session.Token, &memoryEntry{
		session:   session,
		expiresAt: time.Now().Add(r.ttl),
	})
	return nil
}

func (r *MemorySessionRepository) DeleteSession(ctx context.Context, token string) error {
	r.sessions.Delete(token)
	return nil
}
