package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"tutor-server/chat-api/internal/domain/attachment"
	"tutor-server/chat-api/internal/domain/chat"
	"tutor-server/chat-api/internal/infrastructure/auth"
	"tutor-server/chat-api/internal/infrastructure/metrics"
	"tutor-server/chat-api/internal/infrastructure/storage"
	"tutor-server/chat-api/internal/interfaces/httpserver/dto"
	"tutor-server/chat-api/internal/utils/platformerrors"
)

// FileBridge moves sandbox files into durable storage.
type FileBridge interface {
	BridgeFile(ctx context.Context, p chat.BridgeParams) (url string, path string, err error)
}

// FileHandler bridges sandbox files on demand and serves stored files back
// out.
type FileHandler struct {
	bridge FileBridge
	store  storage.Storage
	log    zerolog.Logger
}

// NewFileHandler builds the file handler.
func NewFileHandler(bridge FileBridge, store storage.Storage, log zerolog.Logger) *FileHandler {
	return &FileHandler{
		bridge: bridge,
		store:  store,
		log:    log.With().Str("handler", "file").Logger(),
	}
}

// Download handles POST /api/files/download. It pulls one file out of the
// runtime's ephemeral sandbox into durable storage and returns the servable
// URL.
func (h *FileHandler) Download(c *gin.Context) {
	var req dto.DownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, err.Error())
		return
	}

	url, path, err := h.bridge.BridgeFile(c.Request.Context(), chat.BridgeParams{
		FileID:         req.FileID,
		ContainerID:    req.ContainerID,
		FileName:       req.FileName,
		UserID:         auth.UserID(c),
		ConversationID: req.ConversationID,
	})
	if err != nil {
		metrics.RecordFileBridge("error")
		platformerrors.WriteError(c, err, h.log)
		return
	}
	metrics.RecordFileBridge("success")

	c.JSON(http.StatusOK, dto.DownloadResponse{URL: url, Path: path})
}

// Serve handles GET /api/files/serve. Images render inline unless the caller
// asks for a download; everything else is always an attachment.
func (h *FileHandler) Serve(c *gin.Context) {
	path := c.Query("path")
	if strings.TrimSpace(path) == "" {
		platformerrors.WriteValidationError(c, "path is required")
		return
	}

	fileName := c.Query("filename")
	if fileName == "" {
		parts := strings.Split(path, "/")
		fileName = parts[len(parts)-1]
	}

	body, storedType, err := h.store.Download(c.Request.Context(), path)
	if err != nil {
		h.log.Warn().Err(err).Str("path", path).Msg("file not found in storage")
		platformerrors.WriteNotFound(c, "file not found")
		return
	}
	defer body.Close()

	contentType := attachment.ContentType(fileName)
	if contentType == "application/octet-stream" && storedType != "" {
		contentType = storedType
	}

	forceDownload := c.Query("download") == "true"
	disposition := "attachment"
	if attachment.IsImage(fileName) && !forceDownload {
		disposition = "inline"
	}

	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, fileName))
	c.Header("Cache-Control", "private, max-age=3600")
	c.Status(http.StatusOK)

	if _, err := io.Copy(c.Writer, body); err != nil {
		h.log.Error().Err(err).Str("path", path).Msg("stream stored file")
	}
}
