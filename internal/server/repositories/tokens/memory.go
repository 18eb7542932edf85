package tokens

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/eclinic/internal/common"
)

type entry struct {
	value     string
	expiresAt time.Time
}

type MemoryRepository struct {
	mu       sync.Mutex
	resets   map[string]entry
	revoked  map[string]time.Time
	// sessions maps a user id to its live jti and their expiry.
	sessions map[string]map[string]time.Time
	now      func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		resets:   make(map[string]entry),
		revoked:  make(map[string]time.Time),
		sessions: make(map[string]map[string]time.Time),
		now:      time.Now,
	}
}

func (r *MemoryRepository) SaveResetToken(ctx context.Context, token, userID string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.resets[hashToken(token)] = entry{value: userID, expiresAt: r.now().Add(ttl)}
	return nil
}

func (r *MemoryRepository) ConsumeResetToken(ctx context.Context, token string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := hashToken(token)
	e, ok := r.resets[key]
	if !ok {
		return "", common.ErrorNotFound
	}
	delete(r.resets, key)

	if !r.now().Before(e.expiresAt) {
		return "", common.ErrorNotFound
	}
	return e.value, nil
}

func (r *MemoryRepository) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.revoked[jti] = r.now().Add(ttl)
	return nil
}

func (r *MemoryRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	until, ok := r.revoked[jti]
	if !ok {
		return false, nil
	}
	if !r.now().Before(until) {
		delete(r.revoked, jti)
		return false, nil
	}
	return true, nil
}

func (r *MemoryRepository) TrackSession(ctx context.Context, userID, jti string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if !now.Before(expiresAt) {
		return nil
	}
	live, ok := r.sessions[userID]
	if !ok {
		live = make(map[string]time.Time)
		r.sessions[userID] = live
	}
	for id, exp := range live {
		if !now.Before(exp) {
			delete(live, id)
		}
	}
	live[jti] = expiresAt
	return nil
}

func (r *MemoryRepository) RevokeUserSessions(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for jti, exp := range r.sessions[userID] {
		if now.Before(exp) {
			r.revoked[jti] = exp
		}
	}
	delete(r.sessions, userID)
	return nil
}
