// Package domain defines the documents persisted by the store: users and
// their dialogs. Both are stored as JSON objects in the object bucket, so the
// field tags below are the on-disk key names.
package domain

import "time"

// DefaultChatMode is the chat mode assigned to users on first contact.
const DefaultChatMode = "assistant"

// Attribute keys of a user document. SetUserAttribute accepts any key, these
// are the ones written by AddNewUser.
const (
	AttrID              = "_id"
	AttrChatID          = "chat_id"
	AttrUsername        = "username"
	AttrFirstName       = "first_name"
	AttrLastName        = "last_name"
	AttrLastInteraction = "last_interaction"
	AttrFirstSeen       = "first_seen"
	AttrCurrentDialogID = "current_dialog_id"
	AttrCurrentChatMode = "current_chat_mode"
	AttrNUsedTokens     = "n_used_tokens"
)

// User is a Telegram user known to the bot.
//
// Fields:
//   - ID: Telegram user id, also the document name (users/{id}.json).
//   - ChatID: private chat the bot replies to.
//   - CurrentDialogID: nil until the first dialog is started.
//   - CurrentChatMode: name of a configured chat mode.
//   - NUsedTokens: running total of LLM tokens consumed.
type User struct {
	ID              int64     `json:"_id"`
	ChatID          int64     `json:"chat_id"`
	Username        string    `json:"username"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	LastInteraction time.Time `json:"last_interaction"`
	FirstSeen       time.Time `json:"first_seen"`
	CurrentDialogID *string   `json:"current_dialog_id"`
	CurrentChatMode string    `json:"current_chat_mode"`
	NUsedTokens     int64     `json:"n_used_tokens"`
}

// Message is a single dialog entry. The store treats it as an opaque JSON
// object; the bot typically writes {"user": ..., "bot": ..., "date": ...}.
type Message map[string]any

// Dialog is one conversation session stored at dialogs/{user_id}/{id}.json.
type Dialog struct {
	ID        string    `json:"_id"`
	UserID    int64     `json:"user_id"`
	ChatMode  string    `json:"chat_mode"`
	StartTime time.Time `json:"start_time"`
	Messages  []Message `json:"messages"`
}
