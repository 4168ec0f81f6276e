// Package services – SessionService
//
// SessionService holds the per-user conversation rules the bot applies on
// top of the document store: registering users on first contact, rolling
// over to a new dialog after a period of inactivity, switching chat modes,
// and accounting token usage. Every operation is a sequence of store calls;
// nothing here adds atomicity to the store's read-modify-write model.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"

	"github.com/tbourn/chatbot-docstore/internal/config"
	"github.com/tbourn/chatbot-docstore/internal/domain"
	"github.com/tbourn/chatbot-docstore/internal/repo"
)

// Store is the document store contract required by SessionService.
type Store interface {
	// AddNewUser creates the user document unless it already exists.
	AddNewUser(ctx context.Context, u repo.NewUser) error
	// GetUser returns the typed user document.
	GetUser(ctx context.Context, userID int64) (*domain.User, error)
	// StartNewDialog creates a dialog and makes it current.
	StartNewDialog(ctx context.Context, userID int64) (string, error)
	// GetUserAttribute decodes a single user attribute into dst.
	GetUserAttribute(ctx context.Context, userID int64, key string, dst any) error
	// SetUserAttribute rewrites a single user attribute.
	SetUserAttribute(ctx context.Context, userID int64, key string, value any) error
	// GetDialogMessages returns a dialog's messages ("" = current dialog).
	GetDialogMessages(ctx context.Context, userID int64, dialogID string) ([]domain.Message, error)
	// SetDialogMessages replaces a dialog's messages ("" = current dialog).
	SetDialogMessages(ctx context.Context, userID int64, messages []domain.Message, dialogID string) error
}

// Usage summarizes a user's token consumption and its cost.
type Usage struct {
	UserID     int64   `json:"user_id"`
	Tokens     int64   `json:"n_used_tokens"`
	PricePer1K float64 `json:"price_per_1000_tokens"`
	CostUSD    float64 `json:"cost_usd"`
}

// SessionService applies conversation rules on top of a Store.
type SessionService struct {
	// Store is the document store.
	Store Store
	// Settings supplies the dialog timeout, pricing and allow-list.
	Settings config.Settings
	// ChatModes are the modes a user may switch to.
	ChatModes config.ChatModes
	// Now is the clock used for inactivity checks.
	Now func() time.Time

	allowed map[string]struct{}
	fold    cases.Caser
}

// NewSessionService constructs a SessionService and indexes the username
// allow-list.
func NewSessionService(st Store, settings config.Settings, modes config.ChatModes) *SessionService {
	s := &SessionService{
		Store:     st,
		Settings:  settings,
		ChatModes: modes,
		Now:       func() time.Time { return time.Now().UTC() },
		allowed:   make(map[string]struct{}, len(settings.AllowedTelegramUsernames)),
		fold:      cases.Fold(),
	}
	for _, u := range settings.AllowedTelegramUsernames {
		if n := s.normalizeUsername(u); n != "" {
			s.allowed[n] = struct{}{}
		}
	}
	return s
}

// IsAllowed reports whether username may use the bot. An empty allow-list
// admits everyone. Matching ignores case and a leading '@'.
func (s *SessionService) IsAllowed(username string) bool {
	if len(s.allowed) == 0 {
		return true
	}
	_, ok := s.allowed[s.normalizeUsername(username)]
	return ok
}

func (s *SessionService) normalizeUsername(u string) string {
	u = strings.TrimPrefix(strings.TrimSpace(u), "@")
	return s.fold.String(u)
}

// Register creates the user on first contact and makes sure a current
// dialog exists. It returns the stored user.
func (s *SessionService) Register(ctx context.Context, u repo.NewUser) (*domain.User, error) {
	if err := s.Store.AddNewUser(ctx, u); err != nil {
		return nil, err
	}
	user, err := s.Store.GetUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	if user.CurrentDialogID != nil {
		return user, nil
	}
	if _, err := s.Store.StartNewDialog(ctx, u.ID); err != nil {
		return nil, err
	}
	return s.Store.GetUser(ctx, u.ID)
}

// Touch records an interaction. When the user has been inactive for longer
// than the configured dialog timeout and the current dialog already holds
// messages, a new dialog is started first. It reports whether a new dialog
// was started.
func (s *SessionService) Touch(ctx context.Context, userID int64) (bool, error) {
	user, err := s.Store.GetUser(ctx, userID)
	if err != nil {
		return false, err
	}
	now := s.Now()

	rolled := false
	switch {
	case user.CurrentDialogID == nil:
		rolled = true
	case now.Sub(user.LastInteraction) > s.Settings.NewDialogTimeout:
		msgs, err := s.Store.GetDialogMessages(ctx, userID, "")
		if err != nil {
			return false, err
		}
		rolled = len(msgs) > 0
	}
	if rolled {
		id, err := s.Store.StartNewDialog(ctx, userID)
		if err != nil {
			return false, err
		}
		log.Info().
			Int64("user_id", userID).
			Str("dialog_id", id).
			Dur("idle", now.Sub(user.LastInteraction)).
			Msg("dialog rolled over")
	}

	if err := s.Store.SetUserAttribute(ctx, userID, domain.AttrLastInteraction, now); err != nil {
		return false, err
	}
	return rolled, nil
}

// AppendMessage adds msg to the end of the current dialog.
func (s *SessionService) AppendMessage(ctx context.Context, userID int64, msg domain.Message) error {
	if len(msg) == 0 {
		return ErrEmptyMessage
	}
	msgs, err := s.Store.GetDialogMessages(ctx, userID, "")
	if err != nil {
		return err
	}
	return s.Store.SetDialogMessages(ctx, userID, append(msgs, msg), "")
}

// ResetDialog starts a fresh dialog in the user's current chat mode.
func (s *SessionService) ResetDialog(ctx context.Context, userID int64) (string, error) {
	return s.Store.StartNewDialog(ctx, userID)
}

// SetChatMode switches the user's chat mode and starts a new dialog in it.
// It returns the new dialog id.
func (s *SessionService) SetChatMode(ctx context.Context, userID int64, mode string) (string, error) {
	if !s.ChatModes.Has(mode) {
		return "", fmt.Errorf("%w %q (available: %s)", ErrUnknownChatMode, mode, strings.Join(s.ChatModes.Names(), ", "))
	}
	if err := s.Store.SetUserAttribute(ctx, userID, domain.AttrCurrentChatMode, mode); err != nil {
		return "", err
	}
	return s.Store.StartNewDialog(ctx, userID)
}

// AddUsedTokens increments the user's token counter by n and returns the new
// total.
func (s *SessionService) AddUsedTokens(ctx context.Context, userID, n int64) (int64, error) {
	if n < 0 {
		return 0, ErrInvalidTokenCount
	}
	var total int64
	if err := s.Store.GetUserAttribute(ctx, userID, domain.AttrNUsedTokens, &total); err != nil {
		return 0, err
	}
	total += n
	if err := s.Store.SetUserAttribute(ctx, userID, domain.AttrNUsedTokens, total); err != nil {
		return 0, err
	}
	return total, nil
}

// Usage returns the user's token total priced with the ChatGPT or GPT rate,
// depending on use_chatgpt_api.
func (s *SessionService) Usage(ctx context.Context, userID int64) (Usage, error) {
	var tokens int64
	if err := s.Store.GetUserAttribute(ctx, userID, domain.AttrNUsedTokens, &tokens); err != nil {
		return Usage{}, err
	}
	price := s.Settings.Pricing.GPTPer1000Tokens
	if s.Settings.UseChatGPTAPI {
		price = s.Settings.Pricing.ChatGPTPer1000Tokens
	}
	return Usage{
		UserID:     userID,
		Tokens:     tokens,
		PricePer1K: price,
		CostUSD:    float64(tokens) / 1000 * price,
	}, nil
}
