// Package handlers implements the operator HTTP API over the bot's document
// store: user lookup and attribute edits, dialog inspection and rewrites,
// chat-mode switches and usage reports.
//
// Every failure is written as an ErrorResponse:
//
//	HTTP/1.1 404 Not Found
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "not_found",
//	  "message": "user does not exist"
//	}
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/chatbot-docstore/internal/blob"
	"github.com/tbourn/chatbot-docstore/internal/http/middleware"
	"github.com/tbourn/chatbot-docstore/internal/repo"
	"github.com/tbourn/chatbot-docstore/internal/services"
)

// ErrorResponse is the error envelope returned by all endpoints.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go)
	Code string `json:"code" example:"not_found"`
	// Human-readable message
	Message string `json:"message" example:"user does not exist"`
}

// fail aborts with an ErrorResponse. 5xx results are logged with the
// request-scoped logger.
func fail(c *gin.Context, status int, code, msg string) {
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
	})
}

// Fail is the exported variant of fail for the router's fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// failErr maps store and service errors onto status and code.
func failErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repo.ErrUserNotFound),
		errors.Is(err, repo.ErrAttributeNotFound),
		errors.Is(err, blob.ErrObjectNotExist):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, repo.ErrNoCurrentDialog):
		fail(c, http.StatusNotFound, ErrCodeNoCurrentDialog, err.Error())
	case errors.Is(err, services.ErrUnknownChatMode):
		fail(c, http.StatusBadRequest, ErrCodeUnknownChatMode, err.Error())
	case errors.Is(err, services.ErrInvalidTokenCount),
		errors.Is(err, services.ErrEmptyMessage):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	default:
		fail(c, http.StatusInternalServerError, ErrCodeStorage, err.Error())
	}
}

func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
