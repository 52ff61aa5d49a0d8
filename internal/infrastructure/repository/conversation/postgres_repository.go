package conversation

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "tutor-server/chat-api/internal/domain/conversation"
	"tutor-server/chat-api/internal/infrastructure/database/entities"
	"tutor-server/chat-api/internal/utils/platformerrors"
)

// Repository persists conversation metadata.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a conversation repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the conversation record.
func (r *Repository) Create(ctx context.Context, conv *domain.Conversation) error {
	entity := entities.NewSchemaConversation(conv)

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create conversation",
			err,
			"6f1b9c2d-8a3e-4f5b-9c0d-1e2f3a4b5c6d",
		)
	}

	conv.ID = entity.ID
	conv.CreatedAt = entity.CreatedAt
	conv.UpdatedAt = entity.UpdatedAt
	return nil
}

// FindByPublicID fetches a conversation by its public ID.
func (r *Repository) FindByPublicID(ctx context.Context, publicID string) (*domain.Conversation, error) {
	var entity entities.Conversation
	if err := r.db.WithContext(ctx).
		Where("public_id = ?", publicID).
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("conversation not found: %s", publicID),
				nil,
				"7a2c0d3e-9b4f-4a6c-8d1e-2f3a4b5c6d7e",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to fetch conversation",
			err,
			"8b3d1e4f-0c5a-4b7d-9e2f-3a4b5c6d7e8f",
		)
	}

	return entity.EtoD(), nil
}

// ListByUserID returns the user's conversations, most recently updated first.
func (r *Repository) ListByUserID(ctx context.Context, userID string) ([]domain.Conversation, error) {
	var rows []entities.Conversation
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list conversations",
			err,
			"9c4e2f5a-1d6b-4c8e-0f3a-4b5c6d7e8f9a",
		)
	}

	out := make([]domain.Conversation, len(rows))
	for i := range rows {
		out[i] = *rows[i].EtoD()
	}
	return out, nil
}

// UpdateTitle renames the conversation.
func (r *Repository) UpdateTitle(ctx context.Context, publicID, title string) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Conversation{}).
		Where("public_id = ?", publicID).
		Update("title", title)
	if result.Error != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to update conversation title",
			result.Error,
			"0d5f3a6b-2e7c-4d9f-1a4b-5c6d7e8f9a0b",
		)
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("conversation not found: %s", publicID),
			nil,
			"1e6a4b7c-3f8d-4e0a-2b5c-6d7e8f9a0b1c",
		)
	}
	return nil
}

// Touch bumps updated_at so the conversation sorts to the top of the list.
func (r *Repository) Touch(ctx context.Context, publicID string) error {
	if err := r.db.WithContext(ctx).
		Model(&entities.Conversation{}).
		Where("public_id = ?", publicID).
		Update("updated_at", gorm.Expr("NOW()")).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to touch conversation",
			err,
			"2f7b5c8d-4a9e-4f1b-3c6d-7e8f9a0b1c2d",
		)
	}
	return nil
}

// Delete removes the conversation and its chat messages in one transaction.
func (r *Repository) Delete(ctx context.Context, publicID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", publicID).
			Delete(&entities.ChatMessage{}).Error; err != nil {
			return err
		}

		result := tx.Where("public_id = ?", publicID).
			Delete(&entities.Conversation{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("conversation not found: %s", publicID),
				nil,
				"3a8c6d9e-5b0f-4a2c-4d7e-8f9a0b1c2d3e",
			)
		}
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete conversation",
			err,
			"4b9d7e0f-6c1a-4b3d-5e8f-9a0b1c2d3e4f",
		)
	}
	return nil
}
