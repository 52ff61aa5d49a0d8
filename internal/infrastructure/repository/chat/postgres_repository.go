package chat

import (
	"context"

	"gorm.io/gorm"

	domain "tutor-server/chat-api/internal/domain/chat"
	"tutor-server/chat-api/internal/infrastructure/database/entities"
	"tutor-server/chat-api/internal/utils/platformerrors"
)

// Repository persists chat messages.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a chat message repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Insert appends one chat message.
func (r *Repository) Insert(ctx context.Context, msg *domain.Message) error {
	entity := entities.NewSchemaChatMessage(msg)

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to insert chat message",
			err,
			"5c0e8f1a-7d2b-4c4e-6f9a-0b1c2d3e4f5a",
		)
	}

	msg.ID = entity.ID
	msg.CreatedAt = entity.CreatedAt
	return nil
}

// ListByUserID returns every message the user has exchanged, oldest first.
func (r *Repository) ListByUserID(ctx context.Context, userID string) ([]domain.Message, error) {
	var rows []entities.ChatMessage
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list chat messages",
			err,
			"6d1f9a2b-8e3c-4d5f-7a0b-1c2d3e4f5a6b",
		)
	}

	return mapRows(rows), nil
}

// ListByConversationID returns one conversation's messages, oldest first. The
// userID filter keeps one user from reading another's thread.
func (r *Repository) ListByConversationID(ctx context.Context, userID, conversationID string) ([]domain.Message, error) {
	var rows []entities.ChatMessage
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND conversation_id = ?", userID, conversationID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list conversation messages",
			err,
			"7e2a0b3c-9f4d-4e6a-8b1c-2d3e4f5a6b7c",
		)
	}

	return mapRows(rows), nil
}

// DeleteByConversationID removes a conversation's messages.
func (r *Repository) DeleteByConversationID(ctx context.Context, conversationID string) error {
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Delete(&entities.ChatMessage{}).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete conversation messages",
			err,
			"8f3b1c4d-0a5e-4f7b-9c2d-3e4f5a6b7c8d",
		)
	}
	return nil
}

func mapRows(rows []entities.ChatMessage) []domain.Message {
	out := make([]domain.Message, len(rows))
	for i := range rows {
		out[i] = *rows[i].EtoD()
	}
	return out
}
