package conversation

import "context"

// Repository exposes persistence for conversation metadata. Delete cascades
// to the conversation's chat messages.
type Repository interface {
	Create(ctx context.Context, conv *Conversation) error
	FindByPublicID(ctx context.Context, publicID string) (*Conversation, error)
	ListByUserID(ctx context.Context, userID string) ([]Conversation, error)
	UpdateTitle(ctx context.Context, publicID, title string) error
	Touch(ctx context.Context, publicID string) error
	Delete(ctx context.Context, publicID string) error
}
