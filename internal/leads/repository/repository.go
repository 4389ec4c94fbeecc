// Package repository provides persistence for the lead record store.
// Leads are append-mostly: created once, mutated only by webhook
// reconciliation and by operator fee collection.
package repository

import (
	"context"
	"errors"
	"time"

	"landing_backend/internal/leads/domain"
	"landing_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgErrUniqueViolation = "23505"

// Lead is the central qualification record.
type Lead struct {
	ID                 uuid.UUID
	Name               string
	Company            string
	Email              string
	PainPoint          string
	CompanySize        domain.CompanySize
	BudgetConfirmed    bool
	LeadType           domain.LeadType
	IsHighIntent       bool
	SuccessFeeCents    int64
	SuccessFeePolicy   string
	FeeCollected       bool
	FeeCollectedAt     *time.Time
	FeeCollectedBy     string
	CalendlyEventURI   string
	CalendlyInviteeURI *string
	ScheduledAt        *time.Time
	ScheduledCall      bool
	InviteePhone       string
	UTMSource          string
	UTMMedium          string
	UTMCampaign        string
	Referrer           string
	ConversationID     *uuid.UUID
	CreatedAt          time.Time
}

// CreateLeadParams carries the already-derived fields for a new lead.
// The service applies sentinels and recomputes is_high_intent before
// calling Create.
type CreateLeadParams struct {
	Name            string
	Company         string
	Email           string
	PainPoint       string
	CompanySize     domain.CompanySize
	BudgetConfirmed bool
	LeadType        domain.LeadType
	IsHighIntent    bool
	UTMSource       string
	UTMMedium       string
	UTMCampaign     string
	Referrer        string
	ConversationID  *uuid.UUID
}

// CloseScheduleParams closes the loop between a lead and a booking.
type CloseScheduleParams struct {
	LeadID       uuid.UUID
	EventURI     string
	InviteeURI   string
	ScheduledAt  *time.Time
	InviteePhone string
	FeeCents     int64
	FeePolicy    string
}

// FeeSummary aggregates monetization totals for the admin surface.
type FeeSummary struct {
	EarnedCents    int64
	CollectedCents int64
	PendingCents   int64
	EarnedCount    int64
	CollectedCount int64
}

const leadColumns = `
	id, name, company, email, pain_point, company_size, budget_confirmed,
	lead_type, is_high_intent, success_fee_cents, success_fee_policy,
	fee_collected, fee_collected_at, fee_collected_by, calendly_event_uri,
	calendly_invitee_uri, scheduled_at, scheduled_call, invitee_phone,
	utm_source, utm_medium, utm_campaign, referrer, conversation_id, created_at`

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanLead(row pgx.Row) (Lead, error) {
	var lead Lead
	err := row.Scan(
		&lead.ID, &lead.Name, &lead.Company, &lead.Email, &lead.PainPoint,
		&lead.CompanySize, &lead.BudgetConfirmed, &lead.LeadType,
		&lead.IsHighIntent, &lead.SuccessFeeCents, &lead.SuccessFeePolicy,
		&lead.FeeCollected, &lead.FeeCollectedAt, &lead.FeeCollectedBy,
		&lead.CalendlyEventURI, &lead.CalendlyInviteeURI, &lead.ScheduledAt,
		&lead.ScheduledCall, &lead.InviteePhone, &lead.UTMSource,
		&lead.UTMMedium, &lead.UTMCampaign, &lead.Referrer,
		&lead.ConversationID, &lead.CreatedAt,
	)
	return lead, err
}

// Create inserts a new lead record.
func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (
			name, company, email, pain_point, company_size, budget_confirmed,
			lead_type, is_high_intent, utm_source, utm_medium, utm_campaign,
			referrer, conversation_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+leadColumns,
		params.Name, params.Company, params.Email, params.PainPoint,
		params.CompanySize, params.BudgetConfirmed, params.LeadType,
		params.IsHighIntent, params.UTMSource, params.UTMMedium,
		params.UTMCampaign, params.Referrer, params.ConversationID,
	)
	return scanLead(row)
}

// GetByID returns a single lead.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, apperr.NotFound("lead not found")
	}
	if err != nil {
		return Lead{}, err
	}
	return lead, nil
}

// List returns all leads, newest first.
func (r *Repository) List(ctx context.Context) ([]Lead, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+leadColumns+` FROM leads ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

// ExistsByInviteeURI is the idempotency gate for webhook reconciliation.
func (r *Repository) ExistsByInviteeURI(ctx context.Context, inviteeURI string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM leads WHERE calendly_invitee_uri = $1)
	`, inviteeURI).Scan(&exists)
	return exists, err
}

// LatestUnscheduledByEmail finds the most recent lead for the email that has
// not been booked. Returns nil when there is no match (cold booking).
func (r *Repository) LatestUnscheduledByEmail(ctx context.Context, email string) (*Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE email = $1 AND scheduled_call = false
		ORDER BY created_at DESC
		LIMIT 1
	`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

// CloseSchedule marks the lead as booked and assigns the success fee for
// high-intent leads, in one conditional statement. The fee only transitions
// 0 -> configured amount; retries never overwrite it.
//
// Returns closed=false when another delivery already closed the lead: either
// the conditional update matched zero rows or the invitee URI unique index
// raised a 23505. Both are the duplicate path, not errors.
func (r *Repository) CloseSchedule(ctx context.Context, params CloseScheduleParams) (Lead, bool, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads
		SET scheduled_call = true,
			calendly_event_uri = $2,
			calendly_invitee_uri = $3,
			scheduled_at = $4,
			invitee_phone = $5,
			success_fee_cents = CASE
				WHEN is_high_intent AND success_fee_cents = 0 THEN $6
				ELSE success_fee_cents
			END,
			success_fee_policy = CASE
				WHEN is_high_intent AND success_fee_cents = 0 THEN $7
				ELSE success_fee_policy
			END
		WHERE id = $1 AND scheduled_call = false
		RETURNING `+leadColumns,
		params.LeadID, params.EventURI, params.InviteeURI, params.ScheduledAt,
		params.InviteePhone, params.FeeCents, params.FeePolicy,
	)

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, false, nil
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
			return Lead{}, false, nil
		}
		return Lead{}, false, err
	}
	return lead, true, nil
}

// MarkFeeCollected records the operator fee collection. The WHERE clause
// repeats the service-level checks so a concurrent collect cannot double-book.
func (r *Repository) MarkFeeCollected(ctx context.Context, id uuid.UUID, collectedBy string) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads
		SET fee_collected = true,
			fee_collected_at = now(),
			fee_collected_by = $2
		WHERE id = $1 AND success_fee_cents > 0 AND fee_collected = false
		RETURNING `+leadColumns, id, collectedBy)

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, apperr.Conflict("fee not collectable")
	}
	if err != nil {
		return Lead{}, err
	}
	return lead, nil
}

// MarkFeeUncollected clears all collection fields.
func (r *Repository) MarkFeeUncollected(ctx context.Context, id uuid.UUID) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads
		SET fee_collected = false,
			fee_collected_at = NULL,
			fee_collected_by = ''
		WHERE id = $1 AND fee_collected = true
		RETURNING `+leadColumns, id)

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, apperr.Conflict("fee not collected")
	}
	if err != nil {
		return Lead{}, err
	}
	return lead, nil
}

// FeeSummary returns the monetization totals.
func (r *Repository) FeeSummary(ctx context.Context) (FeeSummary, error) {
	var summary FeeSummary
	err := r.pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(success_fee_cents), 0),
			COALESCE(SUM(success_fee_cents) FILTER (WHERE fee_collected), 0),
			COUNT(*) FILTER (WHERE success_fee_cents > 0),
			COUNT(*) FILTER (WHERE fee_collected)
		FROM leads
	`).Scan(&summary.EarnedCents, &summary.CollectedCents, &summary.EarnedCount, &summary.CollectedCount)
	if err != nil {
		return FeeSummary{}, err
	}
	summary.PendingCents = summary.EarnedCents - summary.CollectedCents
	return summary, nil
}
