// Package scheduler owns the asynq task definitions, the enqueue client,
// and the worker that drains the queue.
package scheduler

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Task type names. The worker mux routes on these.
const (
	TaskNotificationDeliver = "notifications.deliver"
	TaskLeadFollowUp        = "leads.followup"
)

// Notification kinds carried by delivery tasks.
const (
	KindLeadQualified = "lead_qualified"
	KindCallBooked    = "call_booked"
	KindFollowUp      = "follow_up"
)

// NotificationDeliveryPayload is a self-contained lead summary so the
// worker can deliver without a database round trip.
type NotificationDeliveryPayload struct {
	Kind            string     `json:"kind"`
	LeadID          string     `json:"leadId"`
	Name            string     `json:"name"`
	Company         string     `json:"company"`
	Email           string     `json:"email"`
	PainPoint       string     `json:"painPoint,omitempty"`
	CompanySize     string     `json:"companySize,omitempty"`
	LeadType        string     `json:"leadType,omitempty"`
	IsHighIntent    bool       `json:"isHighIntent"`
	ScheduledAt     *time.Time `json:"scheduledAt,omitempty"`
	SuccessFeeCents int64      `json:"successFeeCents,omitempty"`
	SchedulingLink  string     `json:"schedulingLink,omitempty"`
}

// LeadFollowUpPayload identifies the lead to re-check at follow-up time.
type LeadFollowUpPayload struct {
	LeadID string `json:"leadId"`
}

func NewNotificationTask(payload NotificationDeliveryPayload) (*asynq.Task, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal notification payload: %w", err)
	}
	return asynq.NewTask(TaskNotificationDeliver, raw), nil
}

func ParseNotificationTask(task *asynq.Task) (NotificationDeliveryPayload, error) {
	var payload NotificationDeliveryPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return NotificationDeliveryPayload{}, fmt.Errorf("failed to parse notification payload: %w", err)
	}
	return payload, nil
}

func NewFollowUpTask(leadID uuid.UUID) (*asynq.Task, error) {
	raw, err := json.Marshal(LeadFollowUpPayload{LeadID: leadID.String()})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal follow-up payload: %w", err)
	}
	return asynq.NewTask(TaskLeadFollowUp, raw), nil
}

func ParseFollowUpTask(task *asynq.Task) (uuid.UUID, error) {
	var payload LeadFollowUpPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse follow-up payload: %w", err)
	}
	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("follow-up payload has invalid lead id: %w", err)
	}
	return leadID, nil
}
