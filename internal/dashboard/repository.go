package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository runs the read-only rollup queries behind the dashboard.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Totals is the funnel summary for a time window.
type Totals struct {
	TotalLeads        int64
	HighIntent        int64
	Scheduled         int64
	BudgetConfirmed   int64
	FeeEarnedCents    int64
	FeeCollectedCents int64
}

func (r *Repository) Totals(ctx context.Context, since time.Time) (Totals, error) {
	var t Totals
	err := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE is_high_intent),
			COUNT(*) FILTER (WHERE scheduled_call),
			COUNT(*) FILTER (WHERE budget_confirmed),
			COALESCE(SUM(success_fee_cents), 0),
			COALESCE(SUM(success_fee_cents) FILTER (WHERE fee_collected), 0)
		FROM leads
		WHERE created_at >= $1`, since,
	).Scan(&t.TotalLeads, &t.HighIntent, &t.Scheduled, &t.BudgetConfirmed, &t.FeeEarnedCents, &t.FeeCollectedCents)
	if err != nil {
		return Totals{}, err
	}
	return t, nil
}

// SegmentCount is one bucket of the segment breakdowns.
type SegmentCount struct {
	Segment         string
	Total           int64
	HighIntent      int64
	Scheduled       int64
	BudgetConfirmed int64
}

func (r *Repository) CountsByCompanySize(ctx context.Context) ([]SegmentCount, error) {
	return r.segmentCounts(ctx, `
		SELECT company_size,
			COUNT(*),
			COUNT(*) FILTER (WHERE is_high_intent),
			COUNT(*) FILTER (WHERE scheduled_call),
			COUNT(*) FILTER (WHERE budget_confirmed)
		FROM leads
		GROUP BY company_size
		ORDER BY COUNT(*) DESC`)
}

func (r *Repository) CountsByLeadType(ctx context.Context) ([]SegmentCount, error) {
	return r.segmentCounts(ctx, `
		SELECT lead_type,
			COUNT(*),
			COUNT(*) FILTER (WHERE is_high_intent),
			COUNT(*) FILTER (WHERE scheduled_call),
			COUNT(*) FILTER (WHERE budget_confirmed)
		FROM leads
		GROUP BY lead_type
		ORDER BY COUNT(*) DESC`)
}

func (r *Repository) segmentCounts(ctx context.Context, query string) ([]SegmentCount, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []SegmentCount
	for rows.Next() {
		var c SegmentCount
		if err := rows.Scan(&c.Segment, &c.Total, &c.HighIntent, &c.Scheduled, &c.BudgetConfirmed); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// PainPointCount ranks the verbatim pain points by frequency.
type PainPointCount struct {
	PainPoint string
	Count     int64
}

func (r *Repository) TopPainPoints(ctx context.Context, limit int) ([]PainPointCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT pain_point, COUNT(*)
		FROM leads
		GROUP BY pain_point
		ORDER BY COUNT(*) DESC, pain_point
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []PainPointCount
	for rows.Next() {
		var c PainPointCount
		if err := rows.Scan(&c.PainPoint, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// SegmentPainPoint is a pain point frequency within one company-size
// segment. Rows come back grouped by segment and ordered by frequency;
// the service caps each segment's list.
type SegmentPainPoint struct {
	Segment   string
	PainPoint string
	Count     int64
}

func (r *Repository) PainPointsByCompanySize(ctx context.Context) ([]SegmentPainPoint, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT company_size, pain_point, COUNT(*)
		FROM leads
		GROUP BY company_size, pain_point
		ORDER BY company_size, COUNT(*) DESC, pain_point`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []SegmentPainPoint
	for rows.Next() {
		var c SegmentPainPoint
		if err := rows.Scan(&c.Segment, &c.PainPoint, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// TrendPoint is one day of lead volume.
type TrendPoint struct {
	Day        time.Time
	Total      int64
	HighIntent int64
	Scheduled  int64
}

func (r *Repository) DailyTrend(ctx context.Context, since time.Time) ([]TrendPoint, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT date_trunc('day', created_at)::date AS day,
			COUNT(*),
			COUNT(*) FILTER (WHERE is_high_intent),
			COUNT(*) FILTER (WHERE scheduled_call)
		FROM leads
		WHERE created_at >= $1
		GROUP BY day
		ORDER BY day`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []TrendPoint
	for rows.Next() {
		var p TrendPoint
		if err := rows.Scan(&p.Day, &p.Total, &p.HighIntent, &p.Scheduled); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// RecentLead is the trimmed view shown in the dashboard feed.
type RecentLead struct {
	ID            uuid.UUID
	Name          string
	Company       string
	Email         string
	PainPoint     string
	LeadType      string
	IsHighIntent  bool
	ScheduledCall bool
	CreatedAt     time.Time
}

func (r *Repository) Recent(ctx context.Context, limit int) ([]RecentLead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, company, email, pain_point, lead_type, is_high_intent, scheduled_call, created_at
		FROM leads
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []RecentLead
	for rows.Next() {
		var l RecentLead
		if err := rows.Scan(&l.ID, &l.Name, &l.Company, &l.Email, &l.PainPoint, &l.LeadType, &l.IsHighIntent, &l.ScheduledCall, &l.CreatedAt); err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}
