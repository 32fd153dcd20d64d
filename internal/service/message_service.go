package service

import (
	"context"
	"strings"

	"github.com/civitas-dev/remote-visit-service/internal/domain"
	"github.com/civitas-dev/remote-visit-service/internal/repository"
	apperrors "github.com/civitas-dev/remote-visit-service/pkg/util"
)

const messageListLimit = 50

// MessageService manages the lobby message board.
type MessageService struct {
	messages repository.MessageRepository
}

// NewMessageService constructs the service.
func NewMessageService(messages repository.MessageRepository) *MessageService {
	return &MessageService{messages: messages}
}

// Post creates a message.
func (s *MessageService) Post(ctx context.Context, username, content string) (*domain.Message, error) {
	username = strings.TrimSpace(username)
	content = strings.TrimSpace(content)
	if username == "" || content == "" {
		return nil, apperrors.NewValidationError("username and content required", nil)
	}

	msg := &domain.Message{Username: username, Content: content}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, apperrors.MapError(err)
	}
	return msg, nil
}

// ListLatest returns the most recent messages, newest first.
func (s *MessageService) ListLatest(ctx context.Context) ([]domain.Message, error) {
	msgs, err := s.messages.ListLatest(ctx, messageListLimit)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return msgs, nil
}
