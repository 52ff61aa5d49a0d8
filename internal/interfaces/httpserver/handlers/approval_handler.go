package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"tutor-server/chat-api/internal/domain/approval"
	"tutor-server/chat-api/internal/infrastructure/approvalstore"
	"tutor-server/chat-api/internal/infrastructure/metrics"
	"tutor-server/chat-api/internal/interfaces/httpserver/dto"
	"tutor-server/chat-api/internal/utils/platformerrors"
)

// ApprovalHandler records human decisions for workflows paused on the
// approval gate.
type ApprovalHandler struct {
	store   approval.Store
	pending *approvalstore.Pending
	log     zerolog.Logger
}

// NewApprovalHandler builds the approval handler.
func NewApprovalHandler(store approval.Store, pending *approvalstore.Pending, log zerolog.Logger) *ApprovalHandler {
	return &ApprovalHandler{
		store:   store,
		pending: pending,
		log:     log.With().Str("handler", "approval").Logger(),
	}
}

// Decide handles POST /api/approval.
func (h *ApprovalHandler) Decide(c *gin.Context) {
	var req dto.ApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, err.Error())
		return
	}

	h.store.Put(req.ApprovalID, req.Approved)
	h.pending.Remove(req.ApprovalID)

	outcome := "rejected"
	if req.Approved {
		outcome = "approved"
	}
	metrics.RecordApproval(outcome)

	h.log.Info().
		Str("approval_id", req.ApprovalID).
		Bool("approved", req.Approved).
		Msg("approval decision recorded")

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Status handles GET /api/approval?approvalId=. Approved stays null until a
// decision lands.
func (h *ApprovalHandler) Status(c *gin.Context) {
	approvalID := strings.TrimSpace(c.Query("approvalId"))
	if approvalID == "" {
		platformerrors.WriteValidationError(c, "approvalId is required")
		return
	}

	status := dto.ApprovalStatus{}
	if approved, ok := h.store.Get(approvalID); ok {
		status.Approved = &approved
	}
	c.JSON(http.StatusOK, status)
}

// Pending handles GET /api/approval/pending, listing requests still waiting
// on a decision.
func (h *ApprovalHandler) Pending(c *gin.Context) {
	ids := h.pending.List()
	if ids == nil {
		ids = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"pending": ids})
}
