package scheduling

import (
	"context"

	"landing_backend/internal/leads/domain"
	"landing_backend/platform/apperr"
	"landing_backend/platform/config"
	"landing_backend/platform/logger"
)

// LinkProvider resolves the scheduling link to hand a qualified lead.
type LinkProvider interface {
	LinkFor(ctx context.Context, leadType domain.LeadType) (string, error)
}

// StaticLinks serves the fixed scheduling pages from configuration.
type StaticLinks struct {
	business string
	venture  string
}

func NewStaticLinks(cfg config.SchedulingConfig) *StaticLinks {
	return &StaticLinks{
		business: cfg.GetSchedulingLinkBusiness(),
		venture:  cfg.GetSchedulingLinkVenture(),
	}
}

func (s *StaticLinks) LinkFor(_ context.Context, leadType domain.LeadType) (string, error) {
	var link string
	switch leadType {
	case domain.LeadTypeVentureStudio:
		link = s.venture
	default:
		link = s.business
	}
	if link == "" {
		return "", apperr.Internal("no scheduling link configured")
	}
	return link, nil
}

// FallbackProvider tries the primary provider and falls back to the
// secondary when it fails, so a Calendly outage never blocks a lead.
type FallbackProvider struct {
	primary  LinkProvider
	fallback LinkProvider
	log      *logger.Logger
}

func NewFallbackProvider(primary, fallback LinkProvider, log *logger.Logger) *FallbackProvider {
	return &FallbackProvider{primary: primary, fallback: fallback, log: log}
}

func (f *FallbackProvider) LinkFor(ctx context.Context, leadType domain.LeadType) (string, error) {
	link, err := f.primary.LinkFor(ctx, leadType)
	if err == nil {
		return link, nil
	}
	f.log.Warn("single-use scheduling link failed, using static link",
		"lead_type", string(leadType),
		"error", err.Error(),
	)
	return f.fallback.LinkFor(ctx, leadType)
}
