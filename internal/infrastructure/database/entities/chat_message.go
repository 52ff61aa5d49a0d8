package entities

import (
	"time"

	"tutor-server/chat-api/internal/domain/chat"
)

// ChatMessage represents the database schema for chat messages. Rows are
// append-only; ordering within a conversation follows CreatedAt.
type ChatMessage struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_chat_message_conversation_created"`

	UserID         string `gorm:"type:varchar(64);index;not null"`
	ConversationID string `gorm:"type:varchar(50);index:idx_chat_message_conversation_created"`
	Role           string `gorm:"type:varchar(20);not null"`
	Content        string `gorm:"type:text;not null"`
}

// TableName specifies the table name for ChatMessage.
func (ChatMessage) TableName() string {
	return "chat_messages"
}

// EtoD converts database entity to domain model
func (m *ChatMessage) EtoD() *chat.Message {
	return &chat.Message{
		ID:             m.ID,
		UserID:         m.UserID,
		ConversationID: m.ConversationID,
		Role:           chat.Role(m.Role),
		Content:        m.Content,
		CreatedAt:      m.CreatedAt,
	}
}

// NewSchemaChatMessage creates a database entity from domain model
func NewSchemaChatMessage(m *chat.Message) *ChatMessage {
	return &ChatMessage{
		ID:             m.ID,
		UserID:         m.UserID,
		ConversationID: m.ConversationID,
		Role:           string(m.Role),
		Content:        m.Content,
	}
}
