package chat

import (
	"context"

	"github.com/clinicops/clinic-api/internal/model"
	"github.com/clinicops/clinic-api/internal/repository"
	"github.com/clinicops/clinic-api/internal/service/assistant"
	"github.com/clinicops/clinic-api/pkg/logger"
	"github.com/clinicops/clinic-api/pkg/validator"
)

// Service is the message log: an append-only store of chat exchanges. It
// reads the user directory for role snapshots and persists whatever the
// assistant collaborator produces; it generates no content itself.
type Service struct {
	repo      repository.MessageRepository
	users     repository.UserRepository
	assistant assistant.Assistant
	validator validator.Validator
	logger    *logger.Logger
}

func NewService(repo repository.MessageRepository, users repository.UserRepository, a assistant.Assistant, v validator.Validator, l *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		users:     users,
		assistant: a,
		validator: v,
		logger:    l,
	}
}

// Record appends one message. The conversation reference is advisory, not
// a hard foreign key: chat stays available even if the appointment id is
// stale.
func (s *Service) Record(ctx context.Context, req *model.RecordMessageRequest) (*model.Message, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	message := &model.Message{
		ConversationID: req.ConversationID,
		SenderID:       req.SenderID,
		SenderRole:     model.Role(req.SenderRole),
		Message:        req.Message,
	}

	if err := s.repo.Create(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

func (s *Service) ListByConversation(ctx context.Context, filters *model.MessageFilters) ([]*model.Message, error) {
	return s.repo.ListByConversation(ctx, filters)
}

// Chat processes one exchange: persists the user's turn, asks the
// assistant for a reply, and persists that too. Both turns snapshot the
// sender's current role.
func (s *Service) Chat(ctx context.Context, req *model.ChatRequest) (*model.ChatResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.users.Get(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	userTurn := &model.Message{
		ConversationID: req.ConversationID,
		SenderID:       user.ID,
		SenderRole:     user.Role,
		Message:        req.UserInput,
	}
	if err := s.repo.Create(ctx, userTurn); err != nil {
		return nil, err
	}

	replyText, err := s.assistant.Reply(ctx, user, req.UserInput)
	if err != nil {
		// The user's turn is already durable; surface the failure.
		s.logger.Error(err, "assistant reply failed")
		return nil, err
	}

	reply := &model.Message{
		ConversationID: req.ConversationID,
		SenderID:       user.ID,
		SenderRole:     user.Role,
		Message:        replyText,
	}
	if err := s.repo.Create(ctx, reply); err != nil {
		return nil, err
	}

	return &model.ChatResponse{UserMessage: userTurn, Reply: reply}, nil
}
