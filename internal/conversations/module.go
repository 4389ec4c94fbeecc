// Package conversations provides the conversation log bounded context module.
package conversations

import (
	"landing_backend/internal/conversations/handler"
	"landing_backend/internal/conversations/repository"
	"landing_backend/internal/conversations/service"
	apphttp "landing_backend/internal/http"
	"landing_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the conversations bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the conversations module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "conversations"
}

// Service exposes the conversation log for the chat module.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts conversation routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Root.Group("/conversations")
	group.POST("", m.handler.Create)
	group.GET("/:id", m.handler.Get)
	group.DELETE("/:id", m.handler.Delete)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
