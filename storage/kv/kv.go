// Package kv contains a generic interface for the key-value databases
// backing the manifest blob store. All operations are safe for
// concurrent use, atomic and synchronously persistent.
package kv

// DB is an abstract key-value store. After Put(k, v) has returned,
// Get(k) MUST return v until k is overwritten or deleted, even across
// process restarts.
type DB interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	Close() error

	// ErrNotFound returns the error Get reports for a missing key.
	ErrNotFound() error
}
