package tokens

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/eclinic/internal/common"
	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "eclinic"

type RedisRepository struct {
	redis  redis.UniversalClient
	prefix string
	now    func() time.Time
}

func NewRedisRepository(client redis.UniversalClient, prefix string) *RedisRepository {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &RedisRepository{redis: client, prefix: prefix, now: time.Now}
}

func (r *RedisRepository) resetKey(token string) string {
	return r.prefix + ":reset:" + hashToken(token)
}

func (r *RedisRepository) revokedKey(jti string) string {
	return r.prefix + ":revoked:" + jti
}

// sessionsKey is a sorted set of jti scored by expiry in unix milliseconds.
func (r *RedisRepository) sessionsKey(userID string) string {
	return r.prefix + ":sessions:" + userID
}

func (r *RedisRepository) SaveResetToken(ctx context.Context, token, userID string, ttl time.Duration) error {
	if err := r.redis.Set(ctx, r.resetKey(token), userID, ttl).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func (r *RedisRepository) ConsumeResetToken(ctx context.Context, token string) (string, error) {
	userID, err := r.redis.GetDel(ctx, r.resetKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("redis error: %w", err)
	}
	return userID, nil
}

// Revoke denylists jti for ttl. A non-positive ttl means the token has
// already expired and there is nothing to record.
func (r *RedisRepository) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.redis.Set(ctx, r.revokedKey(jti), 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func (r *RedisRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.redis.Exists(ctx, r.revokedKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("redis error: %w", err)
	}
	return n > 0, nil
}

// TrackSession adds jti to the user's session set and drops entries that have
// already expired. The set lives as long as its longest-lived member.
func (r *RedisRepository) TrackSession(ctx context.Context, userID, jti string, expiresAt time.Time) error {
	now := r.now()
	ttl := expiresAt.Sub(now)
	if ttl <= 0 {
		return nil
	}
	key := r.sessionsKey(userID)

	current, err := r.redis.PTTL(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	if current > ttl {
		ttl = current
	}

	_, err = r.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, key, redis.Z{Score: float64(expiresAt.UnixMilli()), Member: jti})
		pipe.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(now.UnixMilli(), 10))
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func (r *RedisRepository) RevokeUserSessions(ctx context.Context, userID string) error {
	now := r.now()
	key := r.sessionsKey(userID)

	live, err := r.redis.ZRangeByScoreWithScores(ctx, key, &redis.ZRangeBy{
		Min: "(" + strconv.FormatInt(now.UnixMilli(), 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return fmt.Errorf("redis error: %w", err)
	}

	for _, z := range live {
		jti, ok := z.Member.(string)
		if !ok {
			continue
		}
		ttl := time.UnixMilli(int64(z.Score)).Sub(now)
		if err := r.Revoke(ctx, jti, ttl); err != nil {
			return err
		}
	}

	if err := r.redis.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}
