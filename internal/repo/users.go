package repo

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/chatbot-docstore/internal/domain"
)

// NewUser carries the Telegram profile captured on first contact.
type NewUser struct {
	ID        int64
	ChatID    int64
	Username  string
	FirstName string
	LastName  string
}

// UserExists reports whether a document exists for userID.
func (s *Store) UserExists(ctx context.Context, userID int64) (bool, error) {
	return s.bucket.Exists(ctx, UserKey(userID))
}

// CheckUser is UserExists with an optional fail-fast: when mustExist is set
// and the user is absent, it returns ErrUserNotFound.
func (s *Store) CheckUser(ctx context.Context, userID int64, mustExist bool) (bool, error) {
	ok, err := s.UserExists(ctx, userID)
	if err != nil {
		return false, err
	}
	if mustExist && !ok {
		return false, fmt.Errorf("user %d: %w", userID, ErrUserNotFound)
	}
	return ok, nil
}

// AddNewUser writes a fresh user document unless one already exists, in
// which case the stored record is left untouched.
func (s *Store) AddNewUser(ctx context.Context, u NewUser) error {
	exists, err := s.UserExists(ctx, u.ID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	now := s.now()
	user := domain.User{
		ID:              u.ID,
		ChatID:          u.ChatID,
		Username:        u.Username,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		LastInteraction: now,
		FirstSeen:       now,
		CurrentDialogID: nil,
		CurrentChatMode: domain.DefaultChatMode,
		NUsedTokens:     0,
	}
	if err := s.write(ctx, UserKey(u.ID), user); err != nil {
		return err
	}
	log.Debug().Int64("user_id", u.ID).Msg("user created")
	return nil
}

// loadUser returns the raw user document after the existence check.
func (s *Store) loadUser(ctx context.Context, userID int64) (document, error) {
	if _, err := s.CheckUser(ctx, userID, true); err != nil {
		return nil, err
	}
	var doc document
	if err := s.read(ctx, UserKey(userID), &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// GetUser returns the typed view of the user document.
func (s *Store) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	if _, err := s.CheckUser(ctx, userID, true); err != nil {
		return nil, err
	}
	var u domain.User
	if err := s.read(ctx, UserKey(userID), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserAttribute decodes the value stored under key into dst.
func (s *Store) GetUserAttribute(ctx context.Context, userID int64, key string, dst any) error {
	doc, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	raw, ok := doc[key]
	if !ok {
		return fmt.Errorf("user %d: %q: %w", userID, key, ErrAttributeNotFound)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("user %d: decode %q: %w", userID, key, err)
	}
	return nil
}

// SetUserAttribute replaces (or adds) key in the user document and rewrites
// the whole document.
func (s *Store) SetUserAttribute(ctx context.Context, userID int64, key string, value any) error {
	doc, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("user %d: encode %q: %w", userID, key, err)
	}
	doc[key] = raw
	return s.write(ctx, UserKey(userID), doc)
}
