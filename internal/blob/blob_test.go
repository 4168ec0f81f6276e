package blob

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tbourn/chatbot-docstore/internal/config"
)

func newSQLBucket(t *testing.T) *SQLBucket {
	t.Helper()
	b, err := NewSQLBucket(filepath.Join(t.TempDir(), "objects.db"))
	if err != nil {
		t.Fatalf("NewSQLBucket: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b
}

// exerciseBucket runs the behaviour every backend must share.
func exerciseBucket(t *testing.T, b Bucket) {
	t.Helper()
	ctx := context.Background()

	ok, err := b.Exists(ctx, "users/1.json")
	if err != nil || ok {
		t.Fatalf("Exists on empty bucket: ok=%v err=%v", ok, err)
	}
	if _, err := b.Get(ctx, "users/1.json"); !errors.Is(err, ErrObjectNotExist) {
		t.Fatalf("Get missing: expected ErrObjectNotExist, got %v", err)
	}

	first := []byte(`{"_id": 1, "username": "alice"}`)
	if err := b.Put(ctx, "users/1.json", first, ContentTypeJSON); err != nil {
		t.Fatalf("Put: %v", err)
	}
	ok, err = b.Exists(ctx, "users/1.json")
	if err != nil || !ok {
		t.Fatalf("Exists after Put: ok=%v err=%v", ok, err)
	}
	got, err := b.Get(ctx, "users/1.json")
	if err != nil || string(got) != string(first) {
		t.Fatalf("Get after Put: got=%s err=%v", got, err)
	}

	// Overwrite replaces the whole object.
	second := []byte(`{"_id": 1}`)
	if err := b.Put(ctx, "users/1.json", second, ContentTypeJSON); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, err = b.Get(ctx, "users/1.json")
	if err != nil || string(got) != string(second) {
		t.Fatalf("Get after overwrite: got=%s err=%v", got, err)
	}

	// Keys are exact; a prefix is not an object.
	if ok, _ := b.Exists(ctx, "users/1"); ok {
		t.Fatalf("prefix must not match an object")
	}
}

func TestMemoryBucket_Contract(t *testing.T) {
	exerciseBucket(t, NewMemoryBucket())
}

func TestSQLBucket_Contract(t *testing.T) {
	exerciseBucket(t, newSQLBucket(t))
}

func TestMemoryBucket_CopiesAndKeys(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBucket()

	buf := []byte(`{"a":1}`)
	if err := b.Put(ctx, "dialogs/1/x.json", buf, ContentTypeJSON); err != nil {
		t.Fatalf("Put: %v", err)
	}
	buf[2] = 'b' // caller mutation must not leak into the bucket
	got, _ := b.Get(ctx, "dialogs/1/x.json")
	if string(got) != `{"a":1}` {
		t.Fatalf("bucket shares caller buffer: %s", got)
	}
	_ = b.Put(ctx, "users/1.json", []byte(`{}`), ContentTypeJSON)

	if keys := b.Keys("dialogs/"); len(keys) != 1 || keys[0] != "dialogs/1/x.json" {
		t.Fatalf("Keys unexpected: %v", keys)
	}
	if ct := b.ContentType("users/1.json"); ct != ContentTypeJSON {
		t.Fatalf("content type unexpected: %q", ct)
	}
}

func TestOpenSQLite_ErrorOnBadPath(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "does-not-exist", "app.db")

	db, err := OpenSQLite(bad)
	if err == nil || db != nil {
		t.Fatalf("expected error opening %q, got db=%v err=%v", bad, db, err)
	}
	lower := strings.ToLower(err.Error())
	if !(os.IsNotExist(err) ||
		strings.Contains(lower, "unable to open database file") ||
		strings.Contains(lower, "no such file or directory")) {
		t.Fatalf("unexpected error opening %q: %v", bad, err)
	}
}

func TestSQLBucket_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "objects.db")

	b, err := NewSQLBucket(path)
	if err != nil {
		t.Fatalf("NewSQLBucket: %v", err)
	}
	if err := b.Put(ctx, "users/7.json", []byte(`{"_id":7}`), ContentTypeJSON); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	b2, err := NewSQLBucket(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = b2.Close() })
	got, err := b2.Get(ctx, "users/7.json")
	if err != nil || string(got) != `{"_id":7}` {
		t.Fatalf("after reopen: got=%s err=%v", got, err)
	}
}

func TestOpen_SelectsBackend(t *testing.T) {
	ctx := context.Background()

	b, err := Open(ctx, config.StorageConfig{Backend: config.BackendMemory})
	if err != nil {
		t.Fatalf("Open memory: %v", err)
	}
	if _, ok := b.(*instrumented); !ok {
		t.Fatalf("Open must return an instrumented bucket, got %T", b)
	}
	exerciseBucket(t, b)

	sq, err := Open(ctx, config.StorageConfig{
		Backend:    config.BackendSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "open.db"),
	})
	if err != nil {
		t.Fatalf("Open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = sq.Close() })
	exerciseBucket(t, sq)

	if _, err := Open(ctx, config.StorageConfig{Backend: "redis"}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestInstrument_CountsResults(t *testing.T) {
	ctx := context.Background()
	b := Instrument(NewMemoryBucket(), "metrics-test")

	baseOK := testutil.ToFloat64(blobOps.WithLabelValues("metrics-test", opPut, "ok"))
	baseMiss := testutil.ToFloat64(blobOps.WithLabelValues("metrics-test", opGet, "not_found"))
	baseWrite := testutil.ToFloat64(blobBytes.WithLabelValues("metrics-test", "write"))

	if err := b.Put(ctx, "k", []byte("12345"), ContentTypeJSON); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := b.Get(ctx, "missing"); !errors.Is(err, ErrObjectNotExist) {
		t.Fatalf("expected not found, got %v", err)
	}

	if got := testutil.ToFloat64(blobOps.WithLabelValues("metrics-test", opPut, "ok")); got != baseOK+1 {
		t.Fatalf("put ok counter: got %v want %v", got, baseOK+1)
	}
	if got := testutil.ToFloat64(blobOps.WithLabelValues("metrics-test", opGet, "not_found")); got != baseMiss+1 {
		t.Fatalf("get not_found counter: got %v want %v", got, baseMiss+1)
	}
	if got := testutil.ToFloat64(blobBytes.WithLabelValues("metrics-test", "write")); got != baseWrite+5 {
		t.Fatalf("write bytes: got %v want %v", got, baseWrite+5)
	}
}
