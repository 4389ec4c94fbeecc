// Package auth provides the operator authentication bounded context module.
package auth

import (
	"context"

	"landing_backend/internal/auth/handler"
	"landing_backend/internal/auth/repository"
	"landing_backend/internal/auth/service"
	apphttp "landing_backend/internal/http"
	"landing_backend/platform/config"
	"landing_backend/platform/logger"
	"landing_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the auth module with all its dependencies.
func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// Bootstrap seeds the admin operator account. Idempotent.
func (m *Module) Bootstrap(ctx context.Context) error {
	return m.service.EnsureAdmin(ctx)
}

// RegisterRoutes mounts auth routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	authGroup := ctx.Root.Group("/auth")
	authGroup.Use(ctx.AuthRateLimiter.RateLimit())
	authGroup.POST("/sign-in", m.handler.SignIn)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
