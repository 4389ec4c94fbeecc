package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Delivery outcomes recorded in the webhook audit trail.
const (
	OutcomeProcessed = "processed"
	OutcomeDuplicate = "duplicate"
	OutcomeCold      = "cold"
	OutcomeIgnored   = "ignored"
)

// Repository persists an audit row per webhook delivery. The audit
// trail is best-effort: a failed insert never fails the webhook.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type DeliveryRecord struct {
	EventType    string
	InviteeURI   string
	InviteeEmail string
	Outcome      string
	LeadID       *uuid.UUID
	ReceivedAt   time.Time
}

func (r *Repository) RecordDelivery(ctx context.Context, rec DeliveryRecord) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO webhook_deliveries (event_type, invitee_uri, invitee_email, outcome, lead_id, received_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.EventType, rec.InviteeURI, rec.InviteeEmail, rec.Outcome, rec.LeadID, rec.ReceivedAt,
	)
	return err
}
