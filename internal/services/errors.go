// Package services defines the conversation bookkeeping built on top of the
// document store. This file centralizes service-level error values so that
// handlers can map them to HTTP results consistently.
package services

import "errors"

var (
	// ErrUnknownChatMode is returned when switching to a chat mode that is
	// not defined in the chat-modes file.
	ErrUnknownChatMode = errors.New("unknown chat mode")

	// ErrInvalidTokenCount is returned when a negative token delta is recorded.
	ErrInvalidTokenCount = errors.New("token count must be >= 0")

	// ErrEmptyMessage is returned when appending a message with no fields.
	ErrEmptyMessage = errors.New("message is empty")
)
