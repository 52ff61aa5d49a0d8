// Package conversation models the chat threads a user owns.
package conversation

import "time"

// DefaultTitle is used when a conversation is created without a name.
const DefaultTitle = "New Conversation"

// MaxTitleLength bounds user supplied titles.
const MaxTitleLength = 60

// Conversation is one chat thread. PublicID is the conv_* identifier exposed
// over HTTP; ID stays internal.
type Conversation struct {
	ID        uint      `json:"-"`
	PublicID  string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
