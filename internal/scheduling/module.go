// Package scheduling reconciles Calendly booking webhooks with the lead
// pipeline and serves the public scheduling links.
package scheduling

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"landing_backend/internal/events"
	apphttp "landing_backend/internal/http"
	"landing_backend/platform/config"
	"landing_backend/platform/logger"
)

type Config interface {
	config.SchedulingConfig
	config.FeeConfig
}

type Module struct {
	handler *Handler
	links   LinkProvider
}

func NewModule(pool *pgxpool.Pool, leadStore LeadStore, bus events.Bus, cfg Config, log *logger.Logger) *Module {
	audit := NewRepository(pool)
	service := NewService(leadStore, audit, bus, cfg, log)

	var links LinkProvider = NewStaticLinks(cfg)
	if cfg.GetCalendlyToken() != "" {
		links = NewFallbackProvider(NewCalendlyClient(cfg), links, log)
	}

	handler := NewHandler(service, links, cfg.GetCalendlySigningKey(), cfg.GetWebhookTolerance(), log)

	return &Module{handler: handler, links: links}
}

func (m *Module) Name() string { return "scheduling" }

// Links exposes the link provider so the chat dispatcher can hand a
// scheduling link to qualified leads.
func (m *Module) Links() LinkProvider { return m.links }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Root.POST("/webhooks/scheduling", m.handler.HandleCalendlyWebhook)
	ctx.Root.GET("/scheduling/links/:intentType/qr", m.handler.HandleSchedulingLinkQR)
}
