package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"tutor-server/chat-api/internal/config"
	"tutor-server/chat-api/internal/domain/attachment"
)

var errLocalStorageDisabled = errors.New("local storage is not configured; set STORAGE_LOCAL_PATH to enable")

// LocalStorage handles uploads and downloads to the local filesystem.
type LocalStorage struct {
	basePath string
	log      zerolog.Logger
	disabled bool
}

// NewLocalStorage creates a new local filesystem storage backend.
func NewLocalStorage(cfg *config.Config, log zerolog.Logger) (*LocalStorage, error) {
	logger := log.With().Str("component", "local-storage").Logger()

	basePath := strings.TrimSpace(cfg.LocalStoragePath)
	if basePath == "" {
		logger.Warn().Msg("STORAGE_LOCAL_PATH is not set; local storage will be disabled")
		return &LocalStorage{
			log:      logger,
			disabled: true,
		}, nil
	}

	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create local storage directory: %w", err)
	}

	storage := &LocalStorage{
		basePath: basePath,
		log:      logger,
	}

	logger.Info().
		Str("path", basePath).
		Msg("local storage initialized")

	return storage, nil
}

func (l *LocalStorage) ensureEnabled() error {
	if l.disabled {
		return errLocalStorageDisabled
	}
	return nil
}

// resolve maps a storage key onto the base directory, rejecting keys that
// would escape it.
func (l *LocalStorage) resolve(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage key: %s", key)
	}
	return filepath.Join(l.basePath, clean), nil
}

// Upload stores a file on the local filesystem.
func (l *LocalStorage) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if err := l.ensureEnabled(); err != nil {
		return err
	}

	fullPath, err := l.resolve(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	written, err := io.Copy(file, body)
	if err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	l.log.Debug().
		Str("key", key).
		Int64("bytes", written).
		Msg("file uploaded to local storage")

	return nil
}

// Download reads a file from the local filesystem.
func (l *LocalStorage) Download(ctx context.Context, key string) (io.ReadCloser, string, error) {
	if err := l.ensureEnabled(); err != nil {
		return nil, "", err
	}

	fullPath, err := l.resolve(key)
	if err != nil {
		return nil, "", err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("file not found: %s", key)
		}
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}

	contentType := attachment.ContentType(filepath.Base(fullPath))

	l.log.Debug().
		Str("key", key).
		Str("content_type", contentType).
		Msg("file downloaded from local storage")

	return file, contentType, nil
}

// Health checks that the storage directory is writable.
func (l *LocalStorage) Health(ctx context.Context) error {
	if l.disabled {
		return nil
	}

	testFile := filepath.Join(l.basePath, ".health_check")
	if err := os.WriteFile(testFile, []byte("ok"), 0644); err != nil {
		return fmt.Errorf("storage directory not writable: %w", err)
	}
	_ = os.Remove(testFile)

	return nil
}
