package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"tutor-server/chat-api/internal/domain/conversation"
	"tutor-server/chat-api/internal/infrastructure/auth"
	"tutor-server/chat-api/internal/interfaces/httpserver/dto"
	"tutor-server/chat-api/internal/utils/platformerrors"
)

// ConversationService is the part of the conversation domain the HTTP layer
// needs.
type ConversationService interface {
	Create(ctx context.Context, userID, title string) (*conversation.Conversation, error)
	ListByUser(ctx context.Context, userID string) ([]conversation.Conversation, error)
	Rename(ctx context.Context, publicID, title string) error
	Delete(ctx context.Context, publicID string) error
}

// ConversationHandler serves conversation CRUD.
type ConversationHandler struct {
	service ConversationService
	log     zerolog.Logger
}

// NewConversationHandler builds the conversation handler.
func NewConversationHandler(service ConversationService, log zerolog.Logger) *ConversationHandler {
	return &ConversationHandler{
		service: service,
		log:     log.With().Str("handler", "conversation").Logger(),
	}
}

// List handles GET /api/conversations.
func (h *ConversationHandler) List(c *gin.Context) {
	conversations, err := h.service.ListByUser(c.Request.Context(), auth.UserID(c))
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	if conversations == nil {
		conversations = []conversation.Conversation{}
	}
	c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}

// Create handles POST /api/conversations.
func (h *ConversationHandler) Create(c *gin.Context) {
	var req dto.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, err.Error())
		return
	}

	conv, err := h.service.Create(c.Request.Context(), auth.UserID(c), req.Title)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	c.JSON(http.StatusCreated, conv)
}

// Rename handles PATCH /api/conversations/:conversation_id.
func (h *ConversationHandler) Rename(c *gin.Context) {
	var req dto.RenameConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, err.Error())
		return
	}

	if err := h.service.Rename(c.Request.Context(), c.Param("conversation_id"), req.Title); err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Delete handles DELETE /api/conversations/:conversation_id. Removing a
// conversation also removes its chat history.
func (h *ConversationHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("conversation_id")); err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
