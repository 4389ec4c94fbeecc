package scheduling

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"landing_backend/internal/events"
	leadsrepo "landing_backend/internal/leads/repository"
	"landing_backend/platform/apperr"
	"landing_backend/platform/logger"
)

type fakeLeadStore struct {
	leads []leadsrepo.Lead
}

func (f *fakeLeadStore) ExistsByInviteeURI(_ context.Context, uri string) (bool, error) {
	for _, lead := range f.leads {
		if lead.CalendlyInviteeURI != nil && *lead.CalendlyInviteeURI == uri {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLeadStore) LatestUnscheduledByEmail(_ context.Context, email string) (*leadsrepo.Lead, error) {
	var match *leadsrepo.Lead
	for i := range f.leads {
		lead := &f.leads[i]
		if lead.Email != email || lead.ScheduledCall {
			continue
		}
		if match == nil || lead.CreatedAt.After(match.CreatedAt) {
			match = lead
		}
	}
	return match, nil
}

func (f *fakeLeadStore) CloseSchedule(_ context.Context, params leadsrepo.CloseScheduleParams) (leadsrepo.Lead, bool, error) {
	for i := range f.leads {
		lead := &f.leads[i]
		if lead.ID != params.LeadID || lead.ScheduledCall {
			continue
		}
		lead.ScheduledCall = true
		lead.CalendlyEventURI = params.EventURI
		uri := params.InviteeURI
		lead.CalendlyInviteeURI = &uri
		lead.ScheduledAt = params.ScheduledAt
		lead.InviteePhone = params.InviteePhone
		if lead.IsHighIntent && lead.SuccessFeeCents == 0 {
			lead.SuccessFeeCents = params.FeeCents
			lead.SuccessFeePolicy = params.FeePolicy
		}
		return *lead, true, nil
	}
	return leadsrepo.Lead{}, false, nil
}

type capturingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *capturingBus) Publish(_ context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *capturingBus) PublishSync(_ context.Context, event events.Event) error {
	b.Publish(context.Background(), event)
	return nil
}

func (b *capturingBus) Subscribe(string, events.Handler) {}

type testFeeConfig struct{}

func (testFeeConfig) GetSuccessFeeCents() int64   { return 10000 }
func (testFeeConfig) GetSuccessFeePolicy() string { return "flat" }
func (testFeeConfig) GetAvgDealSizeCents() int64  { return 500000 }

func bookingEnvelope(email, inviteeURI string) WebhookEnvelope {
	var envelope WebhookEnvelope
	envelope.Event = eventInviteeCreated
	envelope.Payload.Email = email
	envelope.Payload.Name = "Ada"
	envelope.Payload.URI = inviteeURI
	envelope.Payload.ScheduledEvent.URI = "https://api.calendly.com/scheduled_events/ev1"
	envelope.Payload.ScheduledEvent.StartTime = time.Now().Add(48 * time.Hour)
	return envelope
}

func newTestWebhookService(store *fakeLeadStore, bus *capturingBus) *Service {
	return NewService(store, nil, bus, testFeeConfig{}, logger.New("development"))
}

func TestProcessWebhookMatchesLead(t *testing.T) {
	lead := leadsrepo.Lead{
		ID:           uuid.New(),
		Email:        "ada@example.com",
		IsHighIntent: true,
		CreatedAt:    time.Now(),
	}
	store := &fakeLeadStore{leads: []leadsrepo.Lead{lead}}
	bus := &capturingBus{}
	svc := newTestWebhookService(store, bus)

	result, err := svc.ProcessWebhook(context.Background(), bookingEnvelope("Ada@Example.com", "https://api.calendly.com/invitees/abc"))
	if err != nil {
		t.Fatalf("ProcessWebhook returned error: %v", err)
	}
	if result.Outcome != OutcomeProcessed {
		t.Fatalf("expected processed outcome, got %s", result.Outcome)
	}
	if result.Lead == nil || !result.Lead.ScheduledCall {
		t.Fatal("expected lead marked as scheduled")
	}
	if result.Lead.SuccessFeeCents != 10000 {
		t.Fatalf("expected success fee assigned, got %d", result.Lead.SuccessFeeCents)
	}
	if len(bus.events) != 1 {
		t.Fatalf("expected one published event, got %d", len(bus.events))
	}
	booked, ok := bus.events[0].(events.CallBooked)
	if !ok {
		t.Fatalf("expected CallBooked event, got %T", bus.events[0])
	}
	if booked.LeadID != lead.ID {
		t.Fatal("event carries wrong lead id")
	}
}

func TestProcessWebhookDuplicateDelivery(t *testing.T) {
	lead := leadsrepo.Lead{
		ID:           uuid.New(),
		Email:        "ada@example.com",
		IsHighIntent: true,
		CreatedAt:    time.Now(),
	}
	store := &fakeLeadStore{leads: []leadsrepo.Lead{lead}}
	bus := &capturingBus{}
	svc := newTestWebhookService(store, bus)

	envelope := bookingEnvelope("ada@example.com", "https://api.calendly.com/invitees/abc")
	if _, err := svc.ProcessWebhook(context.Background(), envelope); err != nil {
		t.Fatalf("first delivery failed: %v", err)
	}

	result, err := svc.ProcessWebhook(context.Background(), envelope)
	if err != nil {
		t.Fatalf("redelivery returned error: %v", err)
	}
	if result.Outcome != OutcomeDuplicate {
		t.Fatalf("expected duplicate outcome, got %s", result.Outcome)
	}
	if store.leads[0].SuccessFeeCents != 10000 {
		t.Fatalf("expected fee unchanged at 10000, got %d", store.leads[0].SuccessFeeCents)
	}
	if len(bus.events) != 1 {
		t.Fatalf("expected a single CallBooked event, got %d", len(bus.events))
	}
}

func TestProcessWebhookColdBooking(t *testing.T) {
	store := &fakeLeadStore{}
	bus := &capturingBus{}
	svc := newTestWebhookService(store, bus)

	result, err := svc.ProcessWebhook(context.Background(), bookingEnvelope("stranger@example.com", "https://api.calendly.com/invitees/xyz"))
	if err != nil {
		t.Fatalf("ProcessWebhook returned error: %v", err)
	}
	if result.Outcome != OutcomeCold {
		t.Fatalf("expected cold outcome, got %s", result.Outcome)
	}
	if len(bus.events) != 0 {
		t.Fatal("cold bookings must not publish events")
	}
}

func TestProcessWebhookIgnoresOtherEvents(t *testing.T) {
	store := &fakeLeadStore{}
	svc := newTestWebhookService(store, &capturingBus{})

	envelope := bookingEnvelope("ada@example.com", "https://api.calendly.com/invitees/abc")
	envelope.Event = "invitee.canceled"

	result, err := svc.ProcessWebhook(context.Background(), envelope)
	if err != nil {
		t.Fatalf("ProcessWebhook returned error: %v", err)
	}
	if result.Outcome != OutcomeIgnored {
		t.Fatalf("expected ignored outcome, got %s", result.Outcome)
	}
}

func TestProcessWebhookRejectsMissingFields(t *testing.T) {
	svc := newTestWebhookService(&fakeLeadStore{}, &capturingBus{})

	envelope := bookingEnvelope("", "https://api.calendly.com/invitees/abc")
	if _, err := svc.ProcessWebhook(context.Background(), envelope); apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for missing email, got %v", err)
	}

	envelope = bookingEnvelope("ada@example.com", "")
	if _, err := svc.ProcessWebhook(context.Background(), envelope); apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for missing uri, got %v", err)
	}
}

func TestProcessWebhookMatchesUnscheduledLeadOnly(t *testing.T) {
	older := leadsrepo.Lead{
		ID:            uuid.New(),
		Email:         "ada@example.com",
		ScheduledCall: true,
		CreatedAt:     time.Now().Add(-time.Hour),
	}
	newer := leadsrepo.Lead{
		ID:        uuid.New(),
		Email:     "ada@example.com",
		CreatedAt: time.Now(),
	}
	store := &fakeLeadStore{leads: []leadsrepo.Lead{older, newer}}
	svc := newTestWebhookService(store, &capturingBus{})

	result, err := svc.ProcessWebhook(context.Background(), bookingEnvelope("ada@example.com", "https://api.calendly.com/invitees/new"))
	if err != nil {
		t.Fatalf("ProcessWebhook returned error: %v", err)
	}
	if result.Outcome != OutcomeProcessed {
		t.Fatalf("expected processed outcome, got %s", result.Outcome)
	}
	if result.Lead.ID != newer.ID {
		t.Fatal("expected the unscheduled lead to be matched")
	}
}
