package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"landing_backend/internal/events"
	leadsrepo "landing_backend/internal/leads/repository"
	"landing_backend/internal/scheduler"
	"landing_backend/platform/apperr"
	"landing_backend/platform/logger"
)

type fakeChannel struct {
	name string
	sent []scheduler.NotificationDeliveryPayload
	err  error
}

func (f *fakeChannel) Name() string { return f.name }

func (f *fakeChannel) Send(_ context.Context, payload scheduler.NotificationDeliveryPayload) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, payload)
	return nil
}

type fakeTasks struct {
	enqueued  []scheduler.NotificationDeliveryPayload
	followUps []uuid.UUID
	err       error
}

func (f *fakeTasks) EnqueueNotification(_ context.Context, payload scheduler.NotificationDeliveryPayload) error {
	if f.err != nil {
		return f.err
	}
	f.enqueued = append(f.enqueued, payload)
	return nil
}

func (f *fakeTasks) ScheduleFollowUp(_ context.Context, leadID uuid.UUID, _ time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.followUps = append(f.followUps, leadID)
	return nil
}

type capturingBus struct {
	published []events.Event
}

func (b *capturingBus) Publish(_ context.Context, event events.Event) {
	b.published = append(b.published, event)
}

func (b *capturingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *capturingBus) Subscribe(string, events.Handler) {}

type fakeLeadReader struct {
	leads map[uuid.UUID]leadsrepo.Lead
}

func (f *fakeLeadReader) GetByID(_ context.Context, id uuid.UUID) (leadsrepo.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return leadsrepo.Lead{}, apperr.NotFound("lead not found")
	}
	return lead, nil
}

func qualifiedEvent() events.LeadQualified {
	return events.LeadQualified{
		BaseEvent:    events.NewBaseEvent(),
		LeadID:       uuid.New(),
		Name:         "Ada",
		Company:      "Acme",
		Email:        "ada@example.com",
		PainPoint:    "manual reporting",
		CompanySize:  "51-200",
		LeadType:     "business_upgrade",
		IsHighIntent: true,
	}
}

func TestNotifierDeliversInlineWithoutTasks(t *testing.T) {
	channel := &fakeChannel{name: "webhook"}
	notifier := NewNotifier([]Channel{channel}, nil, nil, nil, time.Hour, logger.New("development"))

	if err := notifier.onLeadQualified(context.Background(), qualifiedEvent()); err != nil {
		t.Fatalf("onLeadQualified returned error: %v", err)
	}
	if len(channel.sent) != 1 {
		t.Fatalf("expected one delivery, got %d", len(channel.sent))
	}
	if channel.sent[0].Kind != scheduler.KindLeadQualified {
		t.Fatalf("unexpected kind %s", channel.sent[0].Kind)
	}
}

func TestNotifierQueuesWhenTasksWired(t *testing.T) {
	channel := &fakeChannel{name: "webhook"}
	tasks := &fakeTasks{}
	notifier := NewNotifier([]Channel{channel}, tasks, nil, nil, time.Hour, logger.New("development"))

	event := qualifiedEvent()
	if err := notifier.onLeadQualified(context.Background(), event); err != nil {
		t.Fatalf("onLeadQualified returned error: %v", err)
	}
	if len(tasks.enqueued) != 1 {
		t.Fatalf("expected one queued delivery, got %d", len(tasks.enqueued))
	}
	if len(channel.sent) != 0 {
		t.Fatal("queued deliveries must not also go inline")
	}
	if len(tasks.followUps) != 1 || tasks.followUps[0] != event.LeadID {
		t.Fatal("expected a follow-up scheduled for the lead")
	}
}

func TestNotifierFallsBackToInlineOnEnqueueFailure(t *testing.T) {
	channel := &fakeChannel{name: "webhook"}
	tasks := &fakeTasks{err: errors.New("redis down")}
	notifier := NewNotifier([]Channel{channel}, tasks, nil, nil, time.Hour, logger.New("development"))

	if err := notifier.onLeadQualified(context.Background(), qualifiedEvent()); err != nil {
		t.Fatalf("onLeadQualified returned error: %v", err)
	}
	if len(channel.sent) != 1 {
		t.Fatalf("expected inline fallback delivery, got %d", len(channel.sent))
	}
}

func TestDeliverAttemptsAllChannels(t *testing.T) {
	broken := &fakeChannel{name: "email", err: errors.New("smtp timeout")}
	working := &fakeChannel{name: "webhook"}
	notifier := NewNotifier([]Channel{broken, working}, nil, nil, nil, time.Hour, logger.New("development"))

	err := notifier.Deliver(context.Background(), scheduler.NotificationDeliveryPayload{Kind: scheduler.KindCallBooked})
	if err == nil {
		t.Fatal("expected combined error from failing channel")
	}
	if len(working.sent) != 1 {
		t.Fatal("expected healthy channel to still deliver")
	}
}

func TestHandleFollowUpSkipsScheduledLeads(t *testing.T) {
	scheduled := leadsrepo.Lead{ID: uuid.New(), ScheduledCall: true}
	pending := leadsrepo.Lead{ID: uuid.New(), Name: "Ada", Company: "Acme", Email: "ada@example.com"}
	reader := &fakeLeadReader{leads: map[uuid.UUID]leadsrepo.Lead{
		scheduled.ID: scheduled,
		pending.ID:   pending,
	}}
	channel := &fakeChannel{name: "webhook"}
	bus := &capturingBus{}
	notifier := NewNotifier([]Channel{channel}, nil, reader, bus, time.Hour, logger.New("development"))

	if err := notifier.HandleFollowUp(context.Background(), scheduled.ID); err != nil {
		t.Fatalf("HandleFollowUp returned error: %v", err)
	}
	if len(channel.sent) != 0 {
		t.Fatal("scheduled lead must not trigger a follow-up alert")
	}
	if len(bus.published) != 0 {
		t.Fatal("scheduled lead must not publish a follow-up event")
	}

	if err := notifier.HandleFollowUp(context.Background(), pending.ID); err != nil {
		t.Fatalf("HandleFollowUp returned error: %v", err)
	}
	if len(channel.sent) != 1 || channel.sent[0].Kind != scheduler.KindFollowUp {
		t.Fatalf("expected one follow-up delivery, got %+v", channel.sent)
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected one published event, got %d", len(bus.published))
	}
	due, ok := bus.published[0].(events.LeadFollowUpDue)
	if !ok {
		t.Fatalf("expected LeadFollowUpDue event, got %T", bus.published[0])
	}
	if due.LeadID != pending.ID {
		t.Fatal("follow-up event carries wrong lead id")
	}
}
