// Package storage moves agent produced files into durable storage and serves
// them back out. Two backends exist: S3 compatible object storage and the
// local filesystem.
package storage

import (
	"context"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"tutor-server/chat-api/internal/config"
)

// Storage is the durable file backend.
type Storage interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, string, error)
	Health(ctx context.Context) error
}

// New selects a backend from config. S3 wins when a bucket and credentials
// are configured; otherwise files land on the local filesystem.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (Storage, error) {
	if strings.TrimSpace(cfg.S3Bucket) != "" {
		return NewS3Storage(ctx, cfg, log)
	}
	return NewLocalStorage(cfg, log)
}
