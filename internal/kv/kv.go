// Package kv provides the durable byte-keyed ordered map backing the task
// store and the id sequence. Keys are opaque byte strings ordered
// bytewise; values are opaque blobs.
package kv

import "context"

// ScanFunc receives one key/value pair per call. Returning false stops the
// scan early; returning an error aborts it.
type ScanFunc func(key, value []byte) (bool, error)

// KV is an ordered key-value map that survives process restart.
// Get reports absence via the bool, not an error.
type KV interface {
	Get(ctx context.Context, key []byte) ([]byte, bool, error)
	Put(ctx context.Context, key, value []byte) error
	Delete(ctx context.Context, key []byte) error

	// Scan visits pairs with key >= start in ascending key order until fn
	// stops it or the keyspace is exhausted.
	Scan(ctx context.Context, start []byte, fn ScanFunc) error
}
