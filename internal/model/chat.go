package model

import "time"

// Chat roles stored in ai_chats.role
const (
	RoleUser = "user"
	RoleAI   = "ai"
)

// ChatMessage is one entry of a user's append-only AI chat log.
type ChatMessage struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"-"`
	Role      string    `db:"role" json:"role"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// IsUser reports whether the message was written by the user.
func (m ChatMessage) IsUser() bool {
	return m.Role == RoleUser
}

// Substitute replies recorded when the inference service cannot answer.
const (
	ReplyEmpty       = "The AI returned an empty response."
	ReplyUnreachable = "Could not connect to the local AI. Check that the inference server is running at %s."
	ReplyUnknown     = "Unknown error while processing the local AI response."
)
