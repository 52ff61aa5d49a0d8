package conversation

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"tutor-server/chat-api/internal/utils/convid"
)

// Service implements conversation lifecycle operations.
type Service struct {
	repo Repository
	log  zerolog.Logger
}

// NewService constructs the conversation service.
func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("component", "conversation-service").Logger(),
	}
}

// Create starts a new conversation for userID.
func (s *Service) Create(ctx context.Context, userID, title string) (*Conversation, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("userID is required")
	}

	conv := &Conversation{
		PublicID: convid.New(),
		UserID:   userID,
		Title:    normalizeTitle(title),
	}
	if err := s.repo.Create(ctx, conv); err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	return conv, nil
}

// ListByUser returns the user's conversations, most recently updated first.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]Conversation, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("userID is required")
	}
	return s.repo.ListByUserID(ctx, userID)
}

// Rename updates a conversation's title.
func (s *Service) Rename(ctx context.Context, publicID, title string) error {
	if !convid.IsValid(publicID) {
		return fmt.Errorf("invalid conversation id %q", publicID)
	}
	return s.repo.UpdateTitle(ctx, publicID, normalizeTitle(title))
}

// Touch bumps the conversation's updated_at, moving it to the top of the
// sidebar ordering.
func (s *Service) Touch(ctx context.Context, publicID string) error {
	return s.repo.Touch(ctx, publicID)
}

// Delete removes the conversation and all of its chat messages.
func (s *Service) Delete(ctx context.Context, publicID string) error {
	if !convid.IsValid(publicID) {
		return fmt.Errorf("invalid conversation id %q", publicID)
	}
	return s.repo.Delete(ctx, publicID)
}

func normalizeTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return DefaultTitle
	}
	if len(title) > MaxTitleLength {
		title = title[:MaxTitleLength]
	}
	return title
}
