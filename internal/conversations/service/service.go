// Package service implements the conversation log operations.
package service

import (
	"context"

	"landing_backend/internal/conversations/repository"
	"landing_backend/platform/sanitize"

	"github.com/google/uuid"
)

const defaultTitle = "New conversation"

// Message roles. The log stores only conversational turns; tool traffic is
// returned per-request and not persisted.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Service struct {
	repo *repository.Repository
}

func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// Create starts a conversation, defaulting the title when omitted.
func (s *Service) Create(ctx context.Context, title string) (repository.Conversation, error) {
	title = sanitize.Text(title)
	if title == "" {
		title = defaultTitle
	}
	return s.repo.Create(ctx, title)
}

// GetWithMessages returns a conversation and its chronological history.
func (s *Service) GetWithMessages(ctx context.Context, id uuid.UUID) (repository.Conversation, []repository.Message, error) {
	conv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return repository.Conversation{}, nil, err
	}

	messages, err := s.repo.ListMessages(ctx, id)
	if err != nil {
		return repository.Conversation{}, nil, err
	}
	return conv, messages, nil
}

// History returns the ordered messages for use as model context.
func (s *Service) History(ctx context.Context, conversationID uuid.UUID) ([]repository.Message, error) {
	return s.repo.ListMessages(ctx, conversationID)
}

// Append adds a message to the log.
func (s *Service) Append(ctx context.Context, conversationID uuid.UUID, role, content string) (repository.Message, error) {
	return s.repo.AppendMessage(ctx, conversationID, role, content)
}

// Delete removes a conversation and cascades to its messages. Cleanup only;
// this is never on the qualification hot path.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
