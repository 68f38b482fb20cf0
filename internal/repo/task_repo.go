package repo

import (
	"bytes"
	"context"
	"fmt"

	"taskbox/internal/domain"
	"taskbox/internal/kv"
)

// TaskRepo persists task records keyed by (owner, id).
type TaskRepo interface {
	// Put inserts or replaces the record under (owner, t.ID).
	Put(ctx context.Context, owner string, t domain.Task) error
	// Get returns the record and true, or the zero task and false when absent.
	Get(ctx context.Context, owner string, id uint32) (domain.Task, bool, error)
	// List returns up to limit records of owner in ascending id order,
	// after dropping the first skip records.
	List(ctx context.Context, owner string, skip, limit int) ([]domain.Task, error)
	// Remove deletes the record. Removing an absent record is a no-op.
	Remove(ctx context.Context, owner string, id uint32) error
}

// KVTaskRepo implements TaskRepo on the ordered kv medium.
type KVTaskRepo struct {
	kv kv.KV
}

var _ TaskRepo = (*KVTaskRepo)(nil)

// NewKVTaskRepo returns a TaskRepo backed by store.
func NewKVTaskRepo(store kv.KV) *KVTaskRepo {
	return &KVTaskRepo{kv: store}
}

func (r *KVTaskRepo) Put(ctx context.Context, owner string, t domain.Task) error {
	return r.kv.Put(ctx, taskKey(owner, t.ID), encodeTask(t))
}

func (r *KVTaskRepo) Get(ctx context.Context, owner string, id uint32) (domain.Task, bool, error) {
	raw, ok, err := r.kv.Get(ctx, taskKey(owner, id))
	if err != nil || !ok {
		return domain.Task{}, false, err
	}
	t, err := decodeTask(raw)
	if err != nil {
		return domain.Task{}, false, fmt.Errorf("task %d for owner %q: %w", id, owner, err)
	}
	return t, true, nil
}

func (r *KVTaskRepo) List(ctx context.Context, owner string, skip, limit int) ([]domain.Task, error) {
	if limit <= 0 {
		return nil, nil
	}
	if skip < 0 {
		skip = 0
	}

	prefix := taskPrefix(owner)
	var out []domain.Task

	// The prefix itself sorts before every key in the partition, so the
	// scan starts exactly at the owner's first record. The scan stops at
	// the first key outside the partition: keys of other owners never
	// leak in even though they are adjacent in the keyspace.
	err := r.kv.Scan(ctx, prefix, func(k, v []byte) (bool, error) {
		if !bytes.HasPrefix(k, prefix) {
			return false, nil
		}
		if skip > 0 {
			skip--
			return true, nil
		}
		t, err := decodeTask(v)
		if err != nil {
			return false, fmt.Errorf("listing tasks for owner %q: %w", owner, err)
		}
		out = append(out, t)
		return len(out) < limit, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *KVTaskRepo) Remove(ctx context.Context, owner string, id uint32) error {
	return r.kv.Delete(ctx, taskKey(owner, id))
}
