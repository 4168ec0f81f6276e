// Package handlers defines the stable error codes returned in the
// {request_id, code, message} envelope. Clients branch on code, not message.
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeForbidden        = "forbidden"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"

	// Domain-specific:
	ErrCodeUnknownChatMode = "unknown_chat_mode"
	ErrCodeNoCurrentDialog = "no_current_dialog"
	ErrCodeStorage         = "storage_error"
)
