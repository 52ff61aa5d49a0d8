// Package chat owns the chat turn pipeline: message persistence, stream
// forwarding, and sandbox file reconciliation.
package chat

import "time"

// Role identifies the speaker of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one persisted chat turn. Rows are append-only and ordered by
// CreatedAt within a conversation.
type Message struct {
	ID             uint      `json:"id"`
	UserID         string    `json:"user_id"`
	ConversationID string    `json:"conversation_id"`
	Role           Role      `json:"role"`
	Content        string    `json:"message"`
	CreatedAt      time.Time `json:"created_at"`
}
