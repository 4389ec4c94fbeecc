// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"landing_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Lead Domain Events
// =============================================================================

// LeadQualified is published when the qualification conversation produces
// a new lead. The notification fan-out subscribes to it.
type LeadQualified struct {
	BaseEvent
	LeadID         uuid.UUID `json:"leadId"`
	Name           string    `json:"name"`
	Company        string    `json:"company"`
	Email          string    `json:"email"`
	PainPoint      string    `json:"painPoint"`
	CompanySize    string    `json:"companySize"`
	LeadType       string    `json:"leadType"`
	IsHighIntent   bool      `json:"isHighIntent"`
	SchedulingLink string    `json:"schedulingLink,omitempty"`
}

func (e LeadQualified) EventName() string { return "leads.qualified" }

// CallBooked is published when webhook reconciliation closes the loop
// between a lead and an external scheduling event.
type CallBooked struct {
	BaseEvent
	LeadID          uuid.UUID `json:"leadId"`
	Name            string    `json:"name"`
	Company         string    `json:"company"`
	Email           string    `json:"email"`
	LeadType        string    `json:"leadType"`
	IsHighIntent    bool      `json:"isHighIntent"`
	ScheduledAt     time.Time `json:"scheduledAt"`
	SuccessFeeCents int64     `json:"successFeeCents"`
}

func (e CallBooked) EventName() string { return "leads.call_booked" }

// LeadFollowUpDue is published by the worker when a qualified lead is still
// unscheduled after the configured delay.
type LeadFollowUpDue struct {
	BaseEvent
	LeadID uuid.UUID `json:"leadId"`
}

func (e LeadFollowUpDue) EventName() string { return "leads.followup_due" }
