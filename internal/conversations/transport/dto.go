package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateConversationRequest starts a new conversation. Title is optional.
type CreateConversationRequest struct {
	Title string `json:"title" validate:"omitempty,max=200"`
}

// ConversationResponse is the conversation without its messages.
type ConversationResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

// MessageResponse is a single message in a conversation.
type MessageResponse struct {
	ID        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// ConversationWithMessagesResponse is the conversation plus its ordered history.
type ConversationWithMessagesResponse struct {
	ConversationResponse
	Messages []MessageResponse `json:"messages"`
}
