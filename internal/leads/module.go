// Package leads provides the lead record store bounded context module.
package leads

import (
	"landing_backend/internal/events"
	apphttp "landing_backend/internal/http"
	"landing_backend/internal/leads/handler"
	"landing_backend/internal/leads/repository"
	"landing_backend/internal/leads/service"
	"landing_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler    *handler.Handler
	service    *service.Service
	repository *repository.Repository
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, eventBus, log)

	return &Module{
		handler:    handler.New(svc),
		service:    svc,
		repository: repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service exposes lead creation for the chat dispatcher.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository exposes the reconciliation queries for the scheduling module.
func (m *Module) Repository() *repository.Repository {
	return m.repository
}

// RegisterRoutes mounts lead routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Root.GET("/leads", m.handler.List)

	adminLeads := ctx.Admin.Group("/leads")
	adminLeads.POST("/:id/collect-fee", m.handler.CollectFee)
	adminLeads.POST("/:id/uncollect-fee", m.handler.UncollectFee)

	ctx.Admin.GET("/fees/summary", m.handler.FeeSummary)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
