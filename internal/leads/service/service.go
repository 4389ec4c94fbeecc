// Package service implements lead creation (with the qualification
// derivation), listing, and the operator fee workflow.
package service

import (
	"context"
	"strings"

	"landing_backend/internal/events"
	"landing_backend/internal/leads/domain"
	"landing_backend/internal/leads/repository"
	"landing_backend/platform/apperr"
	"landing_backend/platform/logger"
	"landing_backend/platform/sanitize"

	"github.com/google/uuid"
)

// Store is the slice of the lead repository the service needs.
type Store interface {
	Create(ctx context.Context, params repository.CreateLeadParams) (repository.Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error)
	List(ctx context.Context) ([]repository.Lead, error)
	MarkFeeCollected(ctx context.Context, id uuid.UUID, collectedBy string) (repository.Lead, error)
	MarkFeeUncollected(ctx context.Context, id uuid.UUID) (repository.Lead, error)
	FeeSummary(ctx context.Context) (repository.FeeSummary, error)
}

// CreateLeadInput carries raw capture fields. Everything except the pain
// point is optional; sentinels and derivations are applied here.
type CreateLeadInput struct {
	Name            string
	Company         string
	Email           string
	PainPoint       string
	CompanySize     string
	BudgetConfirmed bool
	LeadType        string
	UTMSource       string
	UTMMedium       string
	UTMCampaign     string
	Referrer        string
	ConversationID  *uuid.UUID
	// SchedulingLink is carried into the LeadQualified event when the
	// capture also offered a booking link. Not persisted.
	SchedulingLink string
}

type Service struct {
	store Store
	bus   events.Bus
	log   *logger.Logger
}

func New(store Store, bus events.Bus, log *logger.Logger) *Service {
	return &Service{store: store, bus: bus, log: log}
}

// Create persists a new lead. The high-intent flag is recomputed from
// company size and budget confirmation; callers cannot set it.
func (s *Service) Create(ctx context.Context, input CreateLeadInput) (repository.Lead, error) {
	painPoint := sanitize.Text(input.PainPoint)
	if painPoint == "" {
		return repository.Lead{}, apperr.Validation("pain point is required")
	}

	leadType := input.LeadType
	if leadType == "" {
		leadType = string(domain.LeadTypeBusinessUpgrade)
	}
	if !domain.ValidLeadType(leadType) {
		return repository.Lead{}, apperr.Validation("unknown lead type")
	}

	name := sanitize.Text(input.Name)
	if name == "" {
		name = domain.NameAnonymous
	}
	company := sanitize.Text(input.Company)
	if company == "" {
		company = domain.CompanyUnknown
	}

	size := domain.NormalizeCompanySize(input.CompanySize)

	lead, err := s.store.Create(ctx, repository.CreateLeadParams{
		Name:            name,
		Company:         company,
		Email:           strings.ToLower(strings.TrimSpace(input.Email)),
		PainPoint:       painPoint,
		CompanySize:     size,
		BudgetConfirmed: input.BudgetConfirmed,
		LeadType:        domain.LeadType(leadType),
		IsHighIntent:    domain.IsHighIntent(size, input.BudgetConfirmed),
		UTMSource:       input.UTMSource,
		UTMMedium:       input.UTMMedium,
		UTMCampaign:     input.UTMCampaign,
		Referrer:        input.Referrer,
		ConversationID:  input.ConversationID,
	})
	if err != nil {
		return repository.Lead{}, err
	}

	s.bus.Publish(ctx, events.LeadQualified{
		BaseEvent:      events.NewBaseEvent(),
		LeadID:         lead.ID,
		Name:           lead.Name,
		Company:        lead.Company,
		Email:          lead.Email,
		PainPoint:      lead.PainPoint,
		CompanySize:    string(lead.CompanySize),
		LeadType:       string(lead.LeadType),
		IsHighIntent:   lead.IsHighIntent,
		SchedulingLink: input.SchedulingLink,
	})

	return lead, nil
}

// GetByID returns a single lead.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error) {
	return s.store.GetByID(ctx, id)
}

// List returns all leads, newest first.
func (s *Service) List(ctx context.Context) ([]repository.Lead, error) {
	return s.store.List(ctx)
}

// CollectFee records the operator collecting the success fee.
func (s *Service) CollectFee(ctx context.Context, id uuid.UUID, operatorEmail string) (repository.Lead, error) {
	lead, err := s.store.GetByID(ctx, id)
	if err != nil {
		return repository.Lead{}, err
	}

	if lead.SuccessFeeCents == 0 {
		return repository.Lead{}, apperr.Conflict("no success fee to collect")
	}
	if lead.FeeCollected {
		return repository.Lead{}, apperr.Conflict("fee already collected")
	}

	return s.store.MarkFeeCollected(ctx, id, operatorEmail)
}

// UncollectFee reverses a collection, clearing all three collection fields.
func (s *Service) UncollectFee(ctx context.Context, id uuid.UUID) (repository.Lead, error) {
	lead, err := s.store.GetByID(ctx, id)
	if err != nil {
		return repository.Lead{}, err
	}

	if !lead.FeeCollected {
		return repository.Lead{}, apperr.Conflict("fee not collected")
	}

	return s.store.MarkFeeUncollected(ctx, id)
}

// FeeSummary returns earned/collected/pending totals.
func (s *Service) FeeSummary(ctx context.Context) (repository.FeeSummary, error) {
	return s.store.FeeSummary(ctx)
}
