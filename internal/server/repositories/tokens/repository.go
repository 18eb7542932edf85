// Package tokens keeps short-lived server-side token state: password reset
// tokens (single use, with TTL), the denylist of revoked session ids and the
// per-user index of live sessions used to revoke them all at once.
package tokens

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

type Repository interface {
	SaveResetToken(ctx context.Context, token, userID string, ttl time.Duration) error
	// ConsumeResetToken returns the owner of token and deletes it. Unknown or
	// expired tokens return common.ErrorNotFound.
	ConsumeResetToken(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	// TrackSession records jti as a live session of userID until expiresAt.
	TrackSession(ctx context.Context, userID, jti string, expiresAt time.Time) error
	// RevokeUserSessions denylists every tracked, unexpired session of userID
	// and forgets them.
	RevokeUserSessions(ctx context.Context, userID string) error
}

// hashToken keeps raw reset tokens out of the store.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
