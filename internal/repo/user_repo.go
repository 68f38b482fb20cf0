package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"taskbox/internal/domain"
	"taskbox/internal/kv"
)

// UserRepo provides account persistence. Accounts live in the same kv
// medium as tasks, under their own keyspace. User records are a boundary
// concern, so they are stored as JSON rather than through the task codec.
type UserRepo interface {
	Get(ctx context.Context, username string) (domain.User, bool, error)
	Put(ctx context.Context, u domain.User) error
}

// KVUserRepo implements UserRepo on the kv medium.
type KVUserRepo struct {
	kv kv.KV
}

var _ UserRepo = (*KVUserRepo)(nil)

// NewKVUserRepo returns a UserRepo backed by store.
func NewKVUserRepo(store kv.KV) *KVUserRepo {
	return &KVUserRepo{kv: store}
}

// Get returns the user by username, or false when absent.
func (r *KVUserRepo) Get(ctx context.Context, username string) (domain.User, bool, error) {
	raw, ok, err := r.kv.Get(ctx, userKey(username))
	if err != nil || !ok {
		return domain.User{}, false, err
	}
	var u domain.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return domain.User{}, false, fmt.Errorf("user %q: %w", username, err)
	}
	return u, true, nil
}

// Put inserts or replaces the user record.
func (r *KVUserRepo) Put(ctx context.Context, u domain.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encoding user %q: %w", u.Username, err)
	}
	return r.kv.Put(ctx, userKey(u.Username), raw)
}
