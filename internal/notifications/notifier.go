// Package notifications fans lead events out to the team: outbound
// webhook, alert email, and the delayed follow-up check.
package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"landing_backend/internal/events"
	leadsrepo "landing_backend/internal/leads/repository"
	"landing_backend/internal/scheduler"
	"landing_backend/platform/logger"
)

// Channel is one delivery target for a lead notification.
type Channel interface {
	Name() string
	Send(ctx context.Context, payload scheduler.NotificationDeliveryPayload) error
}

// TaskClient queues deliveries and follow-ups for the background worker.
// *scheduler.Client satisfies it; a nil client drops everything.
type TaskClient interface {
	EnqueueNotification(ctx context.Context, payload scheduler.NotificationDeliveryPayload) error
	ScheduleFollowUp(ctx context.Context, leadID uuid.UUID, delay time.Duration) error
}

// LeadReader lets the follow-up check re-read the lead's current state.
type LeadReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (leadsrepo.Lead, error)
}

// Notifier subscribes to lead events and delivers them on every channel.
type Notifier struct {
	channels      []Channel
	tasks         TaskClient
	leads         LeadReader
	bus           events.Bus
	followUpDelay time.Duration
	log           *logger.Logger
}

func NewNotifier(channels []Channel, tasks TaskClient, leads LeadReader, bus events.Bus, followUpDelay time.Duration, log *logger.Logger) *Notifier {
	return &Notifier{
		channels:      channels,
		tasks:         tasks,
		leads:         leads,
		bus:           bus,
		followUpDelay: followUpDelay,
		log:           log,
	}
}

// RegisterHandlers subscribes the notifier to the lead lifecycle events.
func (n *Notifier) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadQualified{}.EventName(), events.HandlerFunc(n.onLeadQualified))
	bus.Subscribe(events.CallBooked{}.EventName(), events.HandlerFunc(n.onCallBooked))
}

func (n *Notifier) onLeadQualified(ctx context.Context, event events.Event) error {
	qualified, ok := event.(events.LeadQualified)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	payload := scheduler.NotificationDeliveryPayload{
		Kind:           scheduler.KindLeadQualified,
		LeadID:         qualified.LeadID.String(),
		Name:           qualified.Name,
		Company:        qualified.Company,
		Email:          qualified.Email,
		PainPoint:      qualified.PainPoint,
		CompanySize:    qualified.CompanySize,
		LeadType:       qualified.LeadType,
		IsHighIntent:   qualified.IsHighIntent,
		SchedulingLink: qualified.SchedulingLink,
	}

	n.dispatch(ctx, payload)

	if n.tasks != nil {
		if err := n.tasks.ScheduleFollowUp(ctx, qualified.LeadID, n.followUpDelay); err != nil {
			n.log.Error("failed to schedule follow-up", "lead_id", qualified.LeadID.String(), "error", err.Error())
		}
	}
	return nil
}

func (n *Notifier) onCallBooked(ctx context.Context, event events.Event) error {
	booked, ok := event.(events.CallBooked)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	scheduledAt := booked.ScheduledAt
	payload := scheduler.NotificationDeliveryPayload{
		Kind:            scheduler.KindCallBooked,
		LeadID:          booked.LeadID.String(),
		Name:            booked.Name,
		Company:         booked.Company,
		Email:           booked.Email,
		LeadType:        booked.LeadType,
		IsHighIntent:    booked.IsHighIntent,
		ScheduledAt:     &scheduledAt,
		SuccessFeeCents: booked.SuccessFeeCents,
	}

	n.dispatch(ctx, payload)
	return nil
}

// dispatch queues the delivery when a task client is wired, otherwise
// delivers inline. Either way failures are logged, never propagated to
// the request that triggered the event.
func (n *Notifier) dispatch(ctx context.Context, payload scheduler.NotificationDeliveryPayload) {
	if n.tasks != nil {
		if err := n.tasks.EnqueueNotification(ctx, payload); err == nil {
			return
		} else {
			n.log.Error("failed to enqueue notification, delivering inline", "kind", payload.Kind, "error", err.Error())
		}
	}
	if err := n.Deliver(ctx, payload); err != nil {
		n.log.Error("notification delivery failed", "kind", payload.Kind, "error", err.Error())
	}
}

// Deliver sends the payload through every channel. All channels are
// attempted; the combined error is returned so queued deliveries retry.
func (n *Notifier) Deliver(ctx context.Context, payload scheduler.NotificationDeliveryPayload) error {
	var errs []error
	for _, channel := range n.channels {
		if err := channel.Send(ctx, payload); err != nil {
			n.log.Error("notification channel failed",
				"channel", channel.Name(),
				"kind", payload.Kind,
				"error", err.Error(),
			)
			errs = append(errs, fmt.Errorf("%s: %w", channel.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// HandleFollowUp re-checks the lead when the follow-up timer fires and
// alerts the team only if they still have not booked.
func (n *Notifier) HandleFollowUp(ctx context.Context, leadID uuid.UUID) error {
	lead, err := n.leads.GetByID(ctx, leadID)
	if err != nil {
		return err
	}
	if lead.ScheduledCall {
		return nil
	}

	if n.bus != nil {
		n.bus.Publish(ctx, events.LeadFollowUpDue{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    lead.ID,
		})
	}

	return n.Deliver(ctx, scheduler.NotificationDeliveryPayload{
		Kind:         scheduler.KindFollowUp,
		LeadID:       lead.ID.String(),
		Name:         lead.Name,
		Company:      lead.Company,
		Email:        lead.Email,
		PainPoint:    lead.PainPoint,
		CompanySize:  string(lead.CompanySize),
		LeadType:     string(lead.LeadType),
		IsHighIntent: lead.IsHighIntent,
	})
}
