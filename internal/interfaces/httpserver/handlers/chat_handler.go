package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"tutor-server/chat-api/internal/domain/chat"
	"tutor-server/chat-api/internal/infrastructure/auth"
	"tutor-server/chat-api/internal/infrastructure/metrics"
	"tutor-server/chat-api/internal/interfaces/httpserver/dto"
	"tutor-server/chat-api/internal/utils/platformerrors"
)

// ChatService is the part of the chat domain the HTTP layer needs.
type ChatService interface {
	Chat(ctx context.Context, p chat.Params, obs chat.StreamObserver) error
	History(ctx context.Context, userID, conversationID string) ([]chat.Message, error)
}

// ChatHandler serves the streaming chat endpoint and history reads.
type ChatHandler struct {
	service ChatService
	log     zerolog.Logger
}

// NewChatHandler builds the chat handler.
func NewChatHandler(service ChatService, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		log:     log.With().Str("handler", "chat").Logger(),
	}
}

// Stream handles POST /api/chat. The response is a text/event-stream of JSON
// frames; exactly one done or error frame ends every stream.
func (h *ChatHandler) Stream(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, err.Error())
		return
	}

	writer := c.Writer
	flusher, ok := writer.(http.Flusher)
	if !ok {
		platformerrors.WriteInternalError(c, "streaming not supported")
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	workflow := "default"
	if len(req.FileIDs) > 0 {
		workflow = "file"
	}

	observer := newSSEObserver(writer, flusher, h.log)
	started := time.Now()

	err := h.service.Chat(c.Request.Context(), chat.Params{
		UserID:         auth.UserID(c),
		ConversationID: req.ConversationID,
		Message:        req.Message,
		FileIDs:        req.FileIDs,
	}, observer)
	if err != nil {
		h.log.Error().Err(err).Msg("chat turn failed to start")
		observer.OnError("failed to start chat turn")
	}

	metrics.RecordChatTurn(workflow, observer.Outcome(), time.Since(started).Seconds())
}

// History handles GET /api/chat-history.
func (h *ChatHandler) History(c *gin.Context) {
	messages, err := h.service.History(c.Request.Context(), auth.UserID(c), c.Query("conversationId"))
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	if messages == nil {
		messages = []chat.Message{}
	}
	c.JSON(http.StatusOK, dto.HistoryResponse{Messages: messages})
}

// sseObserver writes chat stream frames as server sent events.
type sseObserver struct {
	writer  http.ResponseWriter
	flusher http.Flusher
	log     zerolog.Logger
	mu      sync.Mutex
	outcome string
}

func newSSEObserver(w http.ResponseWriter, flusher http.Flusher, log zerolog.Logger) *sseObserver {
	return &sseObserver{
		writer:  w,
		flusher: flusher,
		log:     log,
		outcome: "incomplete",
	}
}

func (o *sseObserver) OnText(content string) {
	o.sendFrame(map[string]any{"type": "text", "content": content})
}

func (o *sseObserver) OnBoundary() {
	o.sendFrame(map[string]any{"type": "boundary"})
}

func (o *sseObserver) OnApprovalRequest(approvalID string) {
	o.sendFrame(map[string]any{"type": "approval_request", "approvalId": approvalID})
}

func (o *sseObserver) OnDone(message string) {
	o.outcome = "done"
	o.sendFrame(map[string]any{"type": "done", "message": message})
}

func (o *sseObserver) OnError(message string) {
	o.outcome = "error"
	o.sendFrame(map[string]any{"type": "error", "message": message})
}

// Outcome reports how the stream ended, for metrics.
func (o *sseObserver) Outcome() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.outcome
}

func (o *sseObserver) sendFrame(payload map[string]any) {
	o.mu.Lock()
	defer o.mu.Unlock()

	data, err := json.Marshal(payload)
	if err != nil {
		o.log.Error().Err(err).Msg("marshal SSE frame")
		return
	}

	fmt.Fprintf(o.writer, "data: %s\n\n", data)
	o.flusher.Flush()
}
