package repo

import (
	"context"
	"encoding/binary"
	"fmt"

	"taskbox/internal/kv"
)

// Sequence issues durable, strictly increasing task identifiers.
// Identifiers are global across owners and never reused, even after the
// record they were issued for is deleted.
type Sequence interface {
	Next(ctx context.Context) (uint32, error)
}

var lastTaskIDKey = []byte{keyspaceCounter, 'l', 'a', 's', 't', '_', 't', 'a', 's', 'k', '_', 'i', 'd'}

// KVSequence implements Sequence on a single durable cell in the kv medium.
type KVSequence struct {
	kv kv.KV
}

var _ Sequence = (*KVSequence)(nil)

// NewKVSequence returns a Sequence backed by store. The cell starts at 0,
// so the first issued id is 1.
func NewKVSequence(store kv.KV) *KVSequence {
	return &KVSequence{kv: store}
}

// Next reads the last issued id, persists last+1 and returns it.
// Callers serialize invocations; see service.TaskService.
func (s *KVSequence) Next(ctx context.Context) (uint32, error) {
	raw, ok, err := s.kv.Get(ctx, lastTaskIDKey)
	if err != nil {
		return 0, fmt.Errorf("reading last task id: %w", err)
	}
	var last uint32
	if ok {
		if len(raw) != 4 {
			return 0, fmt.Errorf("last task id cell has %d bytes, want 4", len(raw))
		}
		last = binary.BigEndian.Uint32(raw)
	}

	next := last + 1
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], next)
	if err := s.kv.Put(ctx, lastTaskIDKey, buf[:]); err != nil {
		return 0, fmt.Errorf("persisting last task id: %w", err)
	}
	return next, nil
}
