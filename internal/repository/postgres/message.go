package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clinicops/clinic-api/internal/model"
	"github.com/clinicops/clinic-api/internal/repository"
)

type messageRepository struct {
	BaseRepository
}

func NewMessageRepository(base BaseRepository) repository.MessageRepository {
	return &messageRepository{base}
}

func (r *messageRepository) Create(ctx context.Context, message *model.Message) error {
	query := `
		INSERT INTO messages (
			id, conversation_id, sender_id, sender_role, message, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	message.ID = uuid.New()
	message.CreatedAt = time.Now()

	if _, err := r.db.ExecContext(ctx, query,
		message.ID,
		message.ConversationID,
		message.SenderID,
		message.SenderRole,
		message.Message,
		message.CreatedAt,
	); err != nil {
		return mapError("create message", err)
	}
	return nil
}

// ListByConversation returns messages for one conversation ordered by
// creation time. A nil ConversationID filter selects the ad-hoc messages
// recorded without a conversation.
func (r *messageRepository) ListByConversation(ctx context.Context, filters *model.MessageFilters) ([]*model.Message, error) {
	query := `
		SELECT id, conversation_id, sender_id, sender_role, message, created_at
		FROM messages
	`
	args := []interface{}{}

	if filters == nil || filters.ConversationID == nil {
		query += " WHERE conversation_id IS NULL"
	} else {
		query += " WHERE conversation_id = $1"
		args = append(args, *filters.ConversationID)
	}

	query += " ORDER BY created_at ASC"

	messages := []*model.Message{}
	if err := r.db.SelectContext(ctx, &messages, query, args...); err != nil {
		return nil, mapError("list messages", err)
	}
	return messages, nil
}
