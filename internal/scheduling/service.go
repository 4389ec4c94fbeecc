package scheduling

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"landing_backend/internal/events"
	leadsrepo "landing_backend/internal/leads/repository"
	"landing_backend/platform/apperr"
	"landing_backend/platform/config"
	"landing_backend/platform/logger"
	"landing_backend/platform/phone"
)

// eventInviteeCreated is the only Calendly event we act on. Everything
// else is acknowledged and recorded as ignored.
const eventInviteeCreated = "invitee.created"

// LeadStore is the slice of the leads repository the reconciler needs.
type LeadStore interface {
	ExistsByInviteeURI(ctx context.Context, inviteeURI string) (bool, error)
	LatestUnscheduledByEmail(ctx context.Context, email string) (*leadsrepo.Lead, error)
	CloseSchedule(ctx context.Context, params leadsrepo.CloseScheduleParams) (leadsrepo.Lead, bool, error)
}

// WebhookEnvelope is the Calendly webhook payload shape we consume.
type WebhookEnvelope struct {
	Event   string `json:"event"`
	Payload struct {
		Email          string `json:"email"`
		Name           string `json:"name"`
		URI            string `json:"uri"`
		ScheduledEvent struct {
			URI       string    `json:"uri"`
			StartTime time.Time `json:"start_time"`
		} `json:"scheduled_event"`
		TextReminderNumber string `json:"text_reminder_number"`
	} `json:"payload"`
}

// Result describes how a webhook delivery was reconciled.
type Result struct {
	Outcome string
	Lead    *leadsrepo.Lead
}

// Service reconciles booking webhooks against the lead pipeline.
type Service struct {
	leads    LeadStore
	audit    *Repository
	eventBus events.Bus
	feeCents int64
	policy   string
	log      *logger.Logger
}

func NewService(leads LeadStore, audit *Repository, bus events.Bus, cfg config.FeeConfig, log *logger.Logger) *Service {
	return &Service{
		leads:    leads,
		audit:    audit,
		eventBus: bus,
		feeCents: cfg.GetSuccessFeeCents(),
		policy:   cfg.GetSuccessFeePolicy(),
		log:      log,
	}
}

// ProcessWebhook runs the reconciliation state machine for a delivery.
// Duplicate, cold, and ignored deliveries are all successful outcomes;
// only malformed payloads or storage failures surface as errors.
func (s *Service) ProcessWebhook(ctx context.Context, envelope WebhookEnvelope) (Result, error) {
	if envelope.Event != eventInviteeCreated {
		s.recordOutcome(ctx, envelope, OutcomeIgnored, nil)
		return Result{Outcome: OutcomeIgnored}, nil
	}

	email := strings.ToLower(strings.TrimSpace(envelope.Payload.Email))
	inviteeURI := strings.TrimSpace(envelope.Payload.URI)
	if email == "" || inviteeURI == "" {
		return Result{}, apperr.Validation("webhook payload missing invitee email or uri")
	}

	// Idempotency gate: the invitee URI is unique per booking, so a
	// redelivery of an already-recorded booking short-circuits here.
	exists, err := s.leads.ExistsByInviteeURI(ctx, inviteeURI)
	if err != nil {
		return Result{}, err
	}
	if exists {
		s.recordOutcome(ctx, envelope, OutcomeDuplicate, nil)
		return Result{Outcome: OutcomeDuplicate}, nil
	}

	lead, err := s.leads.LatestUnscheduledByEmail(ctx, email)
	if err != nil {
		return Result{}, err
	}
	if lead == nil {
		// A booking with no matching qualified lead. The call still
		// happens, we just cannot attribute it to the funnel.
		s.recordOutcome(ctx, envelope, OutcomeCold, nil)
		return Result{Outcome: OutcomeCold}, nil
	}

	scheduledAt := envelope.Payload.ScheduledEvent.StartTime
	params := leadsrepo.CloseScheduleParams{
		LeadID:      lead.ID,
		EventURI:    envelope.Payload.ScheduledEvent.URI,
		InviteeURI:  inviteeURI,
		ScheduledAt: &scheduledAt,
		FeeCents:    s.feeCents,
		FeePolicy:   s.policy,
	}
	if number := phone.NormalizeE164(envelope.Payload.TextReminderNumber); number != "" {
		params.InviteePhone = number
	}

	updated, ok, err := s.leads.CloseSchedule(ctx, params)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		// Lost the race to a concurrent delivery of the same booking.
		s.recordOutcome(ctx, envelope, OutcomeDuplicate, &lead.ID)
		return Result{Outcome: OutcomeDuplicate}, nil
	}

	s.recordOutcome(ctx, envelope, OutcomeProcessed, &updated.ID)

	s.eventBus.Publish(ctx, events.CallBooked{
		BaseEvent:       events.NewBaseEvent(),
		LeadID:          updated.ID,
		Name:            updated.Name,
		Company:         updated.Company,
		Email:           updated.Email,
		LeadType:        string(updated.LeadType),
		IsHighIntent:    updated.IsHighIntent,
		ScheduledAt:     envelope.Payload.ScheduledEvent.StartTime,
		SuccessFeeCents: updated.SuccessFeeCents,
	})

	return Result{Outcome: OutcomeProcessed, Lead: &updated}, nil
}

func (s *Service) recordOutcome(ctx context.Context, envelope WebhookEnvelope, outcome string, leadID *uuid.UUID) {
	s.log.WebhookEvent(envelope.Event, envelope.Payload.URI, outcome)
	if s.audit == nil {
		return
	}
	err := s.audit.RecordDelivery(ctx, DeliveryRecord{
		EventType:    envelope.Event,
		InviteeURI:   envelope.Payload.URI,
		InviteeEmail: strings.ToLower(strings.TrimSpace(envelope.Payload.Email)),
		Outcome:      outcome,
		LeadID:       leadID,
		ReceivedAt:   time.Now().UTC(),
	})
	if err != nil {
		s.log.DatabaseError("record webhook delivery", err)
	}
}
