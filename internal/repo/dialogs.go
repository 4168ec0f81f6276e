package repo

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/chatbot-docstore/internal/domain"
)

// StartNewDialog writes an empty dialog snapshotting the user's current chat
// mode, then points current_dialog_id at it. The two writes are not atomic:
// a failure in the second leaves an orphan dialog document behind.
func (s *Store) StartNewDialog(ctx context.Context, userID int64) (string, error) {
	if _, err := s.CheckUser(ctx, userID, true); err != nil {
		return "", err
	}

	var mode string
	if err := s.GetUserAttribute(ctx, userID, domain.AttrCurrentChatMode, &mode); err != nil {
		return "", err
	}

	d := domain.Dialog{
		ID:        s.newID(),
		UserID:    userID,
		ChatMode:  mode,
		StartTime: s.now(),
		Messages:  []domain.Message{},
	}
	if err := s.write(ctx, DialogKey(userID, d.ID), d); err != nil {
		return "", err
	}
	if err := s.SetUserAttribute(ctx, userID, domain.AttrCurrentDialogID, d.ID); err != nil {
		return "", err
	}

	log.Debug().Int64("user_id", userID).Str("dialog_id", d.ID).Str("chat_mode", mode).Msg("dialog started")
	return d.ID, nil
}

// resolveDialog returns dialogID, or the user's current dialog when empty.
func (s *Store) resolveDialog(ctx context.Context, userID int64, dialogID string) (string, error) {
	if dialogID != "" {
		return dialogID, nil
	}
	var current *string
	if err := s.GetUserAttribute(ctx, userID, domain.AttrCurrentDialogID, &current); err != nil {
		return "", err
	}
	if current == nil || *current == "" {
		return "", fmt.Errorf("user %d: %w", userID, ErrNoCurrentDialog)
	}
	return *current, nil
}

// GetDialog returns the typed dialog document. An empty dialogID selects the
// user's current dialog.
func (s *Store) GetDialog(ctx context.Context, userID int64, dialogID string) (*domain.Dialog, error) {
	if _, err := s.CheckUser(ctx, userID, true); err != nil {
		return nil, err
	}
	id, err := s.resolveDialog(ctx, userID, dialogID)
	if err != nil {
		return nil, err
	}
	var d domain.Dialog
	if err := s.read(ctx, DialogKey(userID, id), &d); err != nil {
		return nil, err
	}
	if d.Messages == nil {
		d.Messages = []domain.Message{}
	}
	return &d, nil
}

// GetDialogMessages returns the message list of a dialog. An empty dialogID
// selects the user's current dialog.
func (s *Store) GetDialogMessages(ctx context.Context, userID int64, dialogID string) ([]domain.Message, error) {
	d, err := s.GetDialog(ctx, userID, dialogID)
	if err != nil {
		return nil, err
	}
	return d.Messages, nil
}

// SetDialogMessages replaces the whole message list of a dialog. An empty
// dialogID selects the user's current dialog.
func (s *Store) SetDialogMessages(ctx context.Context, userID int64, messages []domain.Message, dialogID string) error {
	if _, err := s.CheckUser(ctx, userID, true); err != nil {
		return err
	}
	id, err := s.resolveDialog(ctx, userID, dialogID)
	if err != nil {
		return err
	}

	key := DialogKey(userID, id)
	var doc document
	if err := s.read(ctx, key, &doc); err != nil {
		return err
	}

	if messages == nil {
		messages = []domain.Message{}
	}
	raw, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("dialog %s: encode messages: %w", id, err)
	}
	doc["messages"] = raw
	return s.write(ctx, key, doc)
}
