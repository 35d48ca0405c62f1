package model

import (
	"time"

	"github.com/google/uuid"
)

// Message is one turn of a conversation. Append-only; never updated or
// deleted. SenderRole is a snapshot of the sender's role at send time.
type Message struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	ConversationID *uuid.UUID `db:"conversation_id" json:"conversation_id,omitempty"`
	SenderID       uuid.UUID  `db:"sender_id" json:"sender_id"`
	SenderRole     Role       `db:"sender_role" json:"sender_role"`
	Message        string     `db:"message" json:"message"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

type RecordMessageRequest struct {
	SenderID       uuid.UUID  `json:"sender_id" validate:"required"`
	SenderRole     string     `json:"sender_role" validate:"required,oneof=patient doctor"`
	Message        string     `json:"message" validate:"required"`
	ConversationID *uuid.UUID `json:"conversation_id"`
}

type ChatRequest struct {
	UserID         uuid.UUID  `json:"user_id" validate:"required"`
	UserInput      string     `json:"user_input" validate:"required"`
	ConversationID *uuid.UUID `json:"conversation_id"`
}

// ChatResponse returns both persisted turns of one exchange.
type ChatResponse struct {
	UserMessage *Message `json:"user_message"`
	Reply       *Message `json:"reply"`
}

type MessageFilters struct {
	// ConversationID nil means list ad-hoc messages with no conversation.
	ConversationID *uuid.UUID
}
