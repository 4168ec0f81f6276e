// Package repo implements the document store for bot users and dialogs on
// top of a blob.Bucket.
//
// Layout:
//
//	users/{user_id}.json               one document per user
//	dialogs/{user_id}/{dialog_id}.json one document per conversation
//
// Every write is a full-document overwrite built by read-modify-write. There
// is no locking or version check, so concurrent writers to the same document
// are last-write-wins.
//
// Error semantics:
//   - Any per-user operation on an unknown user returns ErrUserNotFound.
//   - Reading an attribute the user document lacks returns ErrAttributeNotFound.
//   - Resolving the current dialog when none was started returns ErrNoCurrentDialog.
//   - Bucket errors are returned unchanged, so errors.Is(err, blob.ErrObjectNotExist)
//     holds for a missing dialog document.
//
// Usage:
//
//	st := repo.NewStore(bucket)
//	if err := st.AddNewUser(ctx, repo.NewUser{ID: 42, ChatID: 42}); err != nil { ... }
//	dialogID, err := st.StartNewDialog(ctx, 42)
package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tbourn/chatbot-docstore/internal/blob"
)

var (
	// ErrUserNotFound indicates that no document exists for the user id.
	ErrUserNotFound = errors.New("user does not exist")

	// ErrAttributeNotFound indicates that the user document has no such key.
	ErrAttributeNotFound = errors.New("user attribute not found")

	// ErrNoCurrentDialog is returned when the current dialog is requested but
	// the user's current_dialog_id is null.
	ErrNoCurrentDialog = errors.New("user has no current dialog")
)

// document is the generic shape of a stored JSON object. Values are kept raw
// so unknown keys survive a read-modify-write untouched.
type document map[string]json.RawMessage

// Store reads and writes user and dialog documents.
type Store struct {
	bucket blob.Bucket
	now    func() time.Time
	newID  func() string
}

// Option customizes a Store.
type Option func(*Store)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the dialog id generator (UUIDv4 by default).
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// NewStore returns a Store writing to b.
func NewStore(b blob.Bucket, opts ...Option) *Store {
	s := &Store{
		bucket: b,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// UserKey returns the object key of a user document.
func UserKey(userID int64) string {
	return fmt.Sprintf("users/%d.json", userID)
}

// DialogKey returns the object key of a dialog document.
func DialogKey(userID int64, dialogID string) string {
	return fmt.Sprintf("dialogs/%d/%s.json", userID, dialogID)
}

// read fetches key and decodes it into dst.
func (s *Store) read(ctx context.Context, key string, dst any) error {
	data, err := s.bucket.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// write encodes v as an indented, key-sorted JSON object and stores it.
func (s *Store) write(ctx context.Context, key string, v any) error {
	data, err := encode(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.bucket.Put(ctx, key, data, blob.ContentTypeJSON)
}

// encode normalizes v through a document so that keys come out sorted
// regardless of struct field order.
func encode(v any) ([]byte, error) {
	doc, ok := v.(document)
	if !ok {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, err
		}
	}
	return json.MarshalIndent(doc, "", "    ")
}
