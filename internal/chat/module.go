// Package chat runs the landing-page qualification widget: the persona,
// the tool dispatcher, and the two-round model protocol.
package chat

import (
	"fmt"

	apphttp "landing_backend/internal/http"
	"landing_backend/internal/scheduling"
	"landing_backend/platform/logger"
	"landing_backend/platform/validator"
)

type Module struct {
	handler *Handler
}

func NewModule(model Generator, conversations ConversationLog, leads LeadCreator, links scheduling.LinkProvider, val *validator.Validator, log *logger.Logger) (*Module, error) {
	persona, err := loadPersona()
	if err != nil {
		return nil, fmt.Errorf("chat module: %w", err)
	}

	dispatcher := NewDispatcher(leads, links, val, persona, log)
	svc := NewService(conversations, model, dispatcher, persona, log)

	return &Module{handler: NewHandler(svc, val)}, nil
}

func (m *Module) Name() string { return "chat" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Root.POST("/chat/:conversationId", ctx.ChatRateLimiter.RateLimit(), m.handler.Send)
}

var _ apphttp.Module = (*Module)(nil)
