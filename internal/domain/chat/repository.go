package chat

import "context"

// Repository persists chat messages.
type Repository interface {
	Insert(ctx context.Context, msg *Message) error
	ListByUserID(ctx context.Context, userID string) ([]Message, error)
	ListByConversationID(ctx context.Context, userID, conversationID string) ([]Message, error)
	DeleteByConversationID(ctx context.Context, conversationID string) error
}
