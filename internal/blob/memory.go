package blob

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

type memObject struct {
	data        []byte
	contentType string
}

// MemoryBucket keeps objects in-process and guards access with a RWMutex.
// Used in tests and for DB_TYPE=memory; contents are lost on exit.
type MemoryBucket struct {
	mu      sync.RWMutex
	objects map[string]memObject
}

// NewMemoryBucket returns an empty bucket.
func NewMemoryBucket() *MemoryBucket {
	return &MemoryBucket{objects: make(map[string]memObject)}
}

// Exists reports whether key is present.
func (b *MemoryBucket) Exists(_ context.Context, key string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	_, ok := b.objects[key]
	return ok, nil
}

// Get returns a copy of the stored bytes.
func (b *MemoryBucket) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	o, ok := b.objects[key]
	if !ok {
		return nil, fmt.Errorf("get %s: %w", key, ErrObjectNotExist)
	}
	return clone(o.data), nil
}

// Put stores a copy of data under key.
func (b *MemoryBucket) Put(_ context.Context, key string, data []byte, contentType string) error {
	b.mu.Lock()
	b.objects[key] = memObject{data: clone(data), contentType: contentType}
	b.mu.Unlock()
	return nil
}

// ContentType returns the content type recorded for key, or "" if absent.
// It is a test hook: Bucket has no metadata read, so the store's tests use it
// to assert what was written.
func (b *MemoryBucket) ContentType(key string) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.objects[key].contentType
}

// Keys lists stored keys with the given prefix in sorted order. Test hook,
// like ContentType; no production code path enumerates a bucket.
func (b *MemoryBucket) Keys(prefix string) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]string, 0, len(b.objects))
	for k := range b.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// Close is a no-op.
func (b *MemoryBucket) Close() error { return nil }

func clone(src []byte) []byte {
	out := make([]byte, len(src))
	copy(out, src)
	return out
}
