package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix  = "session:"
	defaultSessionTTL = 24 * time.Hour
)

// Sessions resolves a session id to the owner identity it was issued for.
type Sessions interface {
	// Create stores a new session for owner and returns its id.
	Create(ctx context.Context, owner string) (string, error)
	// Owner returns the owner a session was issued for, or false if the
	// session does not exist or has expired.
	Owner(ctx context.Context, sessionID string) (string, bool)
	// Delete removes a session by id.
	Delete(ctx context.Context, sessionID string) error
}

// RedisSessions manages sessions in Redis.
type RedisSessions struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ Sessions = (*RedisSessions)(nil)

// NewRedisSessions returns a new session store.
func NewRedisSessions(rdb *redis.Client, ttl time.Duration) *RedisSessions {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &RedisSessions{rdb: rdb, ttl: ttl}
}

func (s *RedisSessions) Create(ctx context.Context, owner string) (string, error) {
	id, err := newSessionID()
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, sessionKeyPrefix+id, owner, s.ttl).Err(); err != nil {
		return "", err
	}
	return id, nil
}

func (s *RedisSessions) Owner(ctx context.Context, sessionID string) (string, bool) {
	owner, err := s.rdb.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if err != nil || owner == "" {
		return "", false
	}
	return owner, true
}

func (s *RedisSessions) Delete(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, sessionKeyPrefix+sessionID).Err()
}

func newSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rand: %w", err)
	}
	return hex.EncodeToString(b), nil
}
