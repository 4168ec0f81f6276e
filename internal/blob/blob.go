// Package blob abstracts the object store the document store writes to.
//
// A Bucket is a flat key → bytes namespace with a content type per object,
// the common denominator of Google Cloud Storage, a MongoDB collection, a
// SQLite table and a plain map. Keys use "/" separators by convention
// (e.g. "users/42.json") but backends treat them as opaque strings.
//
// Error semantics:
//   - Get on a missing key returns an error matching ErrObjectNotExist.
//   - Exists never returns ErrObjectNotExist; absence is (false, nil).
//   - Any other backend error is returned wrapped with the operation and key.
//
// Writes are whole-object overwrites. No backend offers conditional writes
// here; concurrent writers are last-write-wins.
package blob

import (
	"context"
	"errors"
)

// ContentTypeJSON is the content type used for every document the store writes.
const ContentTypeJSON = "application/json"

// ErrObjectNotExist is returned when a requested object does not exist.
var ErrObjectNotExist = errors.New("object does not exist")

// Bucket is a key/value object store.
//
// Implementations must be safe for concurrent use; they are not required to
// serialize concurrent writes to the same key.
type Bucket interface {
	// Exists reports whether an object is stored under key.
	Exists(ctx context.Context, key string) (bool, error)
	// Get returns the full object body stored under key.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put creates or replaces the object stored under key.
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// Close releases the backend client.
	Close() error
}
