package memory

import (
	"context"
	"sync"
	"time"

	"github.com/geocoder89/taskhub/internal/repo/postgres"
)

type SessionsRepo struct {
	mu    sync.RWMutex
	items map[string]postgres.SessionRow
}

func NewSessionsRepo() *SessionsRepo {
	return &SessionsRepo{items: make(map[string]postgres.SessionRow)}
}

func (r *SessionsRepo) Create(_ context.Context, row postgres.SessionRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[row.ID] = row
	return nil
}

func (r *SessionsRepo) Active(_ context.Context, jti string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.items[jti]
	if !ok || row.RevokedAt != nil {
		return "", postgres.ErrSessionNotFound
	}
	return row.TokenHash, nil
}

func (r *SessionsRepo) Revoke(_ context.Context, jti string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.items[jti]
	if !ok || row.RevokedAt != nil {
		return nil
	}
	now := time.Now().UTC()
	row.RevokedAt = &now
	r.items[jti] = row
	return nil
}

func (r *SessionsRepo) RevokeAllForUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for jti, row := range r.items {
		if row.UserID == userID && row.RevokedAt == nil {
			row.RevokedAt = &now
			r.items[jti] = row
		}
	}
	return nil
}
