// User and dialog HTTP handlers.
//
//   - POST   /users                                     (register)
//   - GET    /users/{id}                                (user document)
//   - GET    /users/{id}/attributes/{key}               (one attribute)
//   - PUT    /users/{id}/attributes/{key}               (rewrite one attribute)
//   - POST   /users/{id}/touch                          (record interaction)
//   - POST   /users/{id}/dialogs                        (start new dialog)
//   - GET    /users/{id}/dialogs/{dialog_id}            (dialog document)
//   - GET    /users/{id}/dialogs/{dialog_id}/messages   (messages)
//   - PUT    /users/{id}/dialogs/{dialog_id}/messages   (replace messages)
//   - POST   /users/{id}/messages                       (append to current)
//   - PUT    /users/{id}/chat-mode                      (switch mode)
//   - POST   /users/{id}/tokens                         (add used tokens)
//   - GET    /users/{id}/usage                          (token cost)
//   - GET    /chat-modes                                (available modes)
//
// A dialog_id of "current" selects the user's current dialog.
package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"github.com/tbourn/chatbot-docstore/internal/config"
	"github.com/tbourn/chatbot-docstore/internal/domain"
	"github.com/tbourn/chatbot-docstore/internal/repo"
	"github.com/tbourn/chatbot-docstore/internal/services"
	"github.com/tbourn/chatbot-docstore/internal/utils"
)

//
// Service contracts
//

// DocumentStore is the read/write surface of the bot's document store.
type DocumentStore interface {
	GetUser(ctx context.Context, userID int64) (*domain.User, error)
	GetUserAttribute(ctx context.Context, userID int64, key string, dst any) error
	SetUserAttribute(ctx context.Context, userID int64, key string, value any) error
	GetDialog(ctx context.Context, userID int64, dialogID string) (*domain.Dialog, error)
	GetDialogMessages(ctx context.Context, userID int64, dialogID string) ([]domain.Message, error)
	SetDialogMessages(ctx context.Context, userID int64, messages []domain.Message, dialogID string) error
}

// SessionService applies the bot's conversation rules.
type SessionService interface {
	IsAllowed(username string) bool
	Register(ctx context.Context, u repo.NewUser) (*domain.User, error)
	Touch(ctx context.Context, userID int64) (bool, error)
	AppendMessage(ctx context.Context, userID int64, msg domain.Message) error
	ResetDialog(ctx context.Context, userID int64) (string, error)
	SetChatMode(ctx context.Context, userID int64, mode string) (string, error)
	AddUsedTokens(ctx context.Context, userID, n int64) (int64, error)
	Usage(ctx context.Context, userID int64) (services.Usage, error)
}

// Handlers groups the operator endpoints.
type Handlers struct {
	store   DocumentStore
	session SessionService
	modes   config.ChatModes
}

// New constructs Handlers bound to the given store, session service and the
// loaded chat modes.
func New(store DocumentStore, session SessionService, modes config.ChatModes) *Handlers {
	return &Handlers{store: store, session: session, modes: modes}
}

//
// DTOs
//

// RegisterRequest is the Telegram profile captured on first contact.
type RegisterRequest struct {
	ID        int64  `json:"id" binding:"required" example:"123456789"`
	ChatID    int64  `json:"chat_id" binding:"required" example:"123456789"`
	Username  string `json:"username" example:"alice"`
	FirstName string `json:"first_name" example:"Alice"`
	LastName  string `json:"last_name" example:"Liddell"`
}

// AttributeRequest carries the new value of a user attribute. The value is
// kept as raw JSON so large integers survive unrounded.
type AttributeRequest struct {
	Value json.RawMessage `json:"value" swaggertype:"object"`
}

// AttributeResponse is one user attribute, as stored.
type AttributeResponse struct {
	Key   string          `json:"key" example:"current_chat_mode"`
	Value json.RawMessage `json:"value" swaggertype:"object"`
}

// MessagesRequest replaces a dialog's message list.
type MessagesRequest struct {
	Messages []domain.Message `json:"messages"`
}

// MessagesResponse is a dialog's message list, or one page of it when
// page or page_size was requested.
type MessagesResponse struct {
	DialogID   string           `json:"dialog_id,omitempty"`
	Messages   []domain.Message `json:"messages"`
	Pagination *utils.Window    `json:"pagination,omitempty"`
}

// AppendMessageRequest appends one message to the current dialog.
type AppendMessageRequest struct {
	Message domain.Message `json:"message" binding:"required"`
}

// ChatModeRequest switches the user's chat mode.
type ChatModeRequest struct {
	Mode string `json:"mode" binding:"required" example:"code_assistant"`
}

// DialogResponse reports the dialog made current by an operation.
type DialogResponse struct {
	DialogID string `json:"dialog_id" example:"6f1c1f8e-3c2a-4f0e-9a43-1f0b8c2e7d11"`
}

// TouchResponse reports whether an interaction rolled the dialog over.
type TouchResponse struct {
	NewDialog bool `json:"new_dialog"`
}

// TokensRequest adds to the user's token counter.
type TokensRequest struct {
	N int64 `json:"n" example:"512"`
}

// TokensResponse is the updated token counter.
type TokensResponse struct {
	NUsedTokens int64 `json:"n_used_tokens" example:"2048"`
}

//
// Helpers
//

// userParam parses the :id path param; on failure it writes 400 and
// returns false.
func userParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid user id")
		return 0, false
	}
	return id, true
}

// dialogParam maps "current" (and empty) to the current-dialog selector.
func dialogParam(c *gin.Context) string {
	id := strings.TrimSpace(c.Param("dialog_id"))
	if id == "current" {
		return ""
	}
	return id
}

//
// Handlers
//

// ListChatModes godoc
// @ID          listChatModes
// @Summary     List chat modes
// @Tags        ChatModes
// @Produce     json
// @Success     200  {object}  map[string]config.ChatMode
// @Router      /chat-modes [get]
func (h *Handlers) ListChatModes(c *gin.Context) {
	ok(c, http.StatusOK, h.modes)
}

// RegisterUser godoc
// @ID          registerUser
// @Summary     Register a user
// @Description Creates the user on first contact (existing users are left untouched) and ensures a current dialog.
// @Tags        Users
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.RegisterRequest  true  "Telegram profile"
// @Success     201   {object}  domain.User
// @Failure     400   {object}  handlers.ErrorResponse
// @Failure     403   {object}  handlers.ErrorResponse
// @Router      /users [post]
func (h *Handlers) RegisterUser(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if !h.session.IsAllowed(req.Username) {
		fail(c, http.StatusForbidden, ErrCodeForbidden, "username is not allowed")
		return
	}
	u, err := h.session.Register(c.Request.Context(), repo.NewUser{
		ID:        req.ID,
		ChatID:    req.ChatID,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, u)
}

// GetUser godoc
// @ID          getUser
// @Summary     Get a user document
// @Tags        Users
// @Produce     json
// @Param       id   path      int  true  "Telegram user id"
// @Success     200  {object}  domain.User
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /users/{id} [get]
func (h *Handlers) GetUser(c *gin.Context) {
	id, good := userParam(c)
	if !good {
		return
	}
	u, err := h.store.GetUser(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, u)
}

// GetUserAttribute godoc
// @ID          getUserAttribute
// @Summary     Get one user attribute
// @Tags        Users
// @Produce     json
// @Param       id   path      int     true  "Telegram user id"
// @Param       key  path      string  true  "Attribute name"
// @Success     200  {object}  handlers.AttributeResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /users/{id}/attributes/{key} [get]
func (h *Handlers) GetUserAttribute(c *gin.Context) {
	id, good := userParam(c)
	if !good {
		return
	}
	key := c.Param("key")
	var v json.RawMessage
	if err := h.store.GetUserAttribute(c.Request.Context(), id, key, &v); err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, AttributeResponse{Key: key, Value: v})
}

// SetUserAttribute godoc
// @ID          setUserAttribute
// @Summary     Set one user attribute
// @Description Replaces or adds the attribute and rewrites the user document. The _id attribute is immutable.
// @Tags        Users
// @Accept      json
// @Param       id    path  int                        true  "Telegram user id"
// @Param       key   path  string                     true  "Attribute name"
// @Param       body  body  handlers.AttributeRequest  true  "New value"
// @Success     204
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /users/{id}/attributes/{key} [put]
func (h *Handlers) SetUserAttribute(c *gin.Context) {
	id, good := userParam(c)
	if !good {
		return
	}
	key := c.Param("key")
	if key == domain.AttrID {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "_id is immutable")
		return
	}
	var req AttributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if len(req.Value) == 0 {
		req.Value = json.RawMessage("null")
	}
	if err := h.store.SetUserAttribute(c.Request.Context(), id, key, req.Value); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// Touch godoc
// @ID          touchUser
// @Summary     Record an interaction
// @Description Updates last_interaction and starts a new dialog when the inactivity timeout has passed.
// @Tags        Users
// @Produce     json
// @Param       id   path      int  true  "Telegram user id"
// @Success     200  {object}  handlers.TouchResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /users/{id}/touch [post]
func (h *Handlers) Touch(c *gin.Context) {
	id, good := userParam(c)
	if !good {
		return
	}
	rolled, err := h.session.Touch(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, TouchResponse{NewDialog: rolled})
}

// StartDialog godoc
// @ID          startDialog
// @Summary     Start a new dialog
// @Tags        Dialogs
// @Produce     json
// @Param       id   path      int  true  "Telegram user id"
// @Success     201  {object}  handlers.DialogResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /users/{id}/dialogs [post]
func (h *Handlers) StartDialog(c *gin.Context) {
	id, good := userParam(c)
	if !good {
		return
	}
	did, err := h.session.ResetDialog(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, DialogResponse{DialogID: did})
}

// GetDialog godoc
// @ID          getDialog
// @Summary     Get a dialog document
// @Tags        Dialogs
// @Produce     json
// @Param       id         path      int     true  "Telegram user id"
// @Param       dialog_id  path      string  true  "Dialog id or 'current'"
// @Success     200        {object}  domain.Dialog
// @Failure     404        {object}  handlers.ErrorResponse
// @Router      /users/{id}/dialogs/{dialog_id} [get]
func (h *Handlers) GetDialog(c *gin.Context) {
	id, good := userParam(c)
	if !good {
		return
	}
	d, err := h.store.GetDialog(c.Request.Context(), id, dialogParam(c))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, d)
}

// GetDialogMessages godoc
// @ID          getDialogMessages
// @Summary     Get dialog messages
// @Tags        Dialogs
// @Produce     json
// @Param       id         path      int     true  "Telegram user id"
// @Param       dialog_id  path      string  true  "Dialog id or 'current'"
// @Param       page       query     int     false "Page number (1-based)"
// @Param       page_size  query     int     false "Messages per page"
// @Success     200        {object}  handlers.MessagesResponse
// @Failure     404        {object}  handlers.ErrorResponse
// @Router      /users/{id}/dialogs/{dialog_id}/messages [get]
func (h *Handlers) GetDialogMessages(c *gin.Context) {
	id, good := userParam(c)
	if !good {
		return
	}
	did := dialogParam(c)
	msgs, err := h.store.GetDialogMessages(c.Request.Context(), id, did)
	if err != nil {
		failErr(c, err)
		return
	}
	resp := MessagesResponse{DialogID: did, Messages: msgs}
	if c.Query("page") != "" || c.Query("page_size") != "" {
		w := utils.Paginate(len(msgs),
			utils.AtoiDefault(c.Query("page"), 1),
			utils.AtoiDefault(c.Query("page_size"), utils.DefaultPageSize))
		resp.Messages = msgs[w.Start:w.End]
		resp.Pagination = &w
	}
	ok(c, http.StatusOK, resp)
}

// SetDialogMessages godoc
// @ID          setDialogMessages
// @Summary     Replace dialog messages
// @Tags        Dialogs
// @Accept      json
// @Param       id         path  int                       true  "Telegram user id"
// @Param       dialog_id  path  string                    true  "Dialog id or 'current'"
// @Param       body       body  handlers.MessagesRequest  true  "New message list"
// @Success     204
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /users/{id}/dialogs/{dialog_id}/messages [put]
func (h *Handlers) SetDialogMessages(c *gin.Context) {
	id, good := userParam(c)
	if !good {
		return
	}
	var req MessagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if err := h.store.SetDialogMessages(c.Request.Context(), id, req.Messages, dialogParam(c)); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// AppendMessage godoc
// @ID          appendMessage
// @Summary     Append a message to the current dialog
// @Tags        Dialogs
// @Accept      json
// @Param       id    path  int                            true  "Telegram user id"
// @Param       body  body  handlers.AppendMessageRequest  true  "Message"
// @Success     204
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /users/{id}/messages [post]
func (h *Handlers) AppendMessage(c *gin.Context) {
	id, good := userParam(c)
	if !good {
		return
	}
	var req AppendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if err := h.session.AppendMessage(c.Request.Context(), id, req.Message); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// SetChatMode godoc
// @ID          setChatMode
// @Summary     Switch chat mode
// @Description Sets current_chat_mode and starts a new dialog in that mode.
// @Tags        Users
// @Accept      json
// @Produce     json
// @Param       id    path      int                       true  "Telegram user id"
// @Param       body  body      handlers.ChatModeRequest  true  "Mode"
// @Success     200   {object}  handlers.DialogResponse
// @Failure     400   {object}  handlers.ErrorResponse
// @Failure     404   {object}  handlers.ErrorResponse
// @Router      /users/{id}/chat-mode [put]
func (h *Handlers) SetChatMode(c *gin.Context) {
	id, good := userParam(c)
	if !good {
		return
	}
	var req ChatModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	did, err := h.session.SetChatMode(c.Request.Context(), id, strings.TrimSpace(req.Mode))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, DialogResponse{DialogID: did})
}

// AddUsedTokens godoc
// @ID          addUsedTokens
// @Summary     Add used tokens
// @Tags        Usage
// @Accept      json
// @Produce     json
// @Param       id    path      int                     true  "Telegram user id"
// @Param       body  body      handlers.TokensRequest  true  "Token delta"
// @Success     200   {object}  handlers.TokensResponse
// @Failure     400   {object}  handlers.ErrorResponse
// @Failure     404   {object}  handlers.ErrorResponse
// @Router      /users/{id}/tokens [post]
func (h *Handlers) AddUsedTokens(c *gin.Context) {
	id, good := userParam(c)
	if !good {
		return
	}
	var req TokensRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	total, err := h.session.AddUsedTokens(c.Request.Context(), id, req.N)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, TokensResponse{NUsedTokens: total})
}

// Usage godoc
// @ID          getUsage
// @Summary     Token usage and cost
// @Tags        Usage
// @Produce     json
// @Param       id   path      int  true  "Telegram user id"
// @Success     200  {object}  services.Usage
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /users/{id}/usage [get]
func (h *Handlers) Usage(c *gin.Context) {
	id, good := userParam(c)
	if !good {
		return
	}
	u, err := h.session.Usage(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, u)
}
