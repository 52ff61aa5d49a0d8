package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"tutor-server/chat-api/internal/domain/attachment"
	"tutor-server/chat-api/internal/infrastructure/metrics"
	"tutor-server/chat-api/internal/interfaces/httpserver/dto"
	"tutor-server/chat-api/internal/utils/platformerrors"
)

// Uploader pushes user files to the agent runtime.
type Uploader interface {
	UploadFile(ctx context.Context, fileName string, data []byte) (string, error)
}

// UploadHandler accepts multipart uploads and forwards them to the runtime's
// file store so agent runs can mount them.
type UploadHandler struct {
	uploader Uploader
	maxBytes int64
	log      zerolog.Logger
}

// NewUploadHandler builds the upload handler.
func NewUploadHandler(uploader Uploader, maxBytes int64, log zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		uploader: uploader,
		maxBytes: maxBytes,
		log:      log.With().Str("handler", "upload").Logger(),
	}
}

// Upload handles POST /api/upload.
func (h *UploadHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		platformerrors.WriteValidationError(c, "missing file field")
		return
	}
	if h.maxBytes > 0 && header.Size > h.maxBytes {
		platformerrors.WriteValidationError(c, "file exceeds maximum upload size")
		return
	}

	file, err := header.Open()
	if err != nil {
		platformerrors.WriteInternalError(c, "failed to read upload")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		platformerrors.WriteInternalError(c, "failed to read upload")
		return
	}
	if h.maxBytes > 0 && int64(len(data)) > h.maxBytes {
		platformerrors.WriteValidationError(c, "file exceeds maximum upload size")
		return
	}

	contentType := attachment.DetectContentType(data, header.Filename)

	fileID, err := h.uploader.UploadFile(c.Request.Context(), header.Filename, data)
	if err != nil {
		metrics.RecordUpload(contentType, "error")
		platformerrors.WriteError(c, err, h.log)
		return
	}
	metrics.RecordUpload(contentType, "success")

	h.log.Info().
		Str("file_id", fileID).
		Str("filename", header.Filename).
		Int("bytes", len(data)).
		Msg("upload forwarded to agent runtime")

	c.JSON(http.StatusOK, dto.UploadResponse{
		FileID:   fileID,
		Filename: header.Filename,
		Bytes:    int64(len(data)),
	})
}
