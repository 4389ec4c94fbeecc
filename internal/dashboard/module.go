// Package dashboard aggregates the lead funnel into operator metrics.
package dashboard

import (
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "landing_backend/internal/http"
	"landing_backend/platform/config"
)

type Module struct {
	handler *Handler
}

func NewModule(pool *pgxpool.Pool, cfg config.FeeConfig) *Module {
	svc := New(NewRepository(pool), cfg)
	return &Module{handler: NewHandler(svc)}
}

func (m *Module) Name() string { return "dashboard" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Dashboard.GET("/metrics", m.handler.Metrics)
	ctx.Dashboard.GET("/segments", m.handler.Segments)
	ctx.Dashboard.GET("/recent", m.handler.Recent)
	ctx.Dashboard.GET("/trend", m.handler.Trend)
}

var _ apphttp.Module = (*Module)(nil)
