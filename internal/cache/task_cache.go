package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"taskbox/internal/domain"
)

const keyListPrefix = "tasks:list:"

// TaskCache caches paginated list results in Redis, one key per
// (owner, skip, limit) window. Writers invalidate all of an owner's windows.
type TaskCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTaskCache returns a new TaskCache.
func NewTaskCache(rdb *redis.Client, ttl time.Duration) *TaskCache {
	return &TaskCache{rdb: rdb, ttl: ttl}
}

func listKey(owner string, skip, limit int) string {
	return fmt.Sprintf("%s%s:%d:%d", keyListPrefix, owner, skip, limit)
}

// GetList returns the cached window or nil on miss.
func (c *TaskCache) GetList(ctx context.Context, owner string, skip, limit int) ([]domain.Task, error) {
	b, err := c.rdb.Get(ctx, listKey(owner, skip, limit)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []domain.Task
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetList stores the window in cache.
func (c *TaskCache) SetList(ctx context.Context, owner string, skip, limit int, list []domain.Task) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, listKey(owner, skip, limit), b, c.ttl).Err()
}

// InvalidateOwner removes every cached window of one owner
// (cache invalidation on write).
func (c *TaskCache) InvalidateOwner(ctx context.Context, owner string) error {
	iter := c.rdb.Scan(ctx, 0, keyListPrefix+globEscape(owner)+":*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// globEscape escapes SCAN MATCH metacharacters so an owner name is matched
// literally. Usernames are not restricted to glob-safe characters; an
// unescaped "*" would invalidate other owners' windows and an unbalanced
// "[" would match nothing at all.
func globEscape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
