package dashboard

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"landing_backend/platform/config"
)

const (
	defaultWindowDays = 30
	maxWindowDays     = 365
	defaultRecent     = 10
	maxRecent         = 100
	topPainPoints     = 3
)

// Store is the query surface the service aggregates over.
type Store interface {
	Totals(ctx context.Context, since time.Time) (Totals, error)
	CountsByCompanySize(ctx context.Context) ([]SegmentCount, error)
	CountsByLeadType(ctx context.Context) ([]SegmentCount, error)
	TopPainPoints(ctx context.Context, limit int) ([]PainPointCount, error)
	PainPointsByCompanySize(ctx context.Context) ([]SegmentPainPoint, error)
	DailyTrend(ctx context.Context, since time.Time) ([]TrendPoint, error)
	Recent(ctx context.Context, limit int) ([]RecentLead, error)
}

// Metrics is the headline funnel rollup.
type Metrics struct {
	WindowDays         int
	Totals             Totals
	ConversionRate     float64
	PipelineValueCents int64
	FeePendingCents    int64
}

// CompanySizeSegment is one company-size rollup: the counts plus the
// share of budget-confirmed leads and that segment's most common pain
// points (capped at three).
type CompanySizeSegment struct {
	SegmentCount
	BudgetConfirmedRate float64
	TopPainPoints       []PainPointCount
}

// Segments groups leads by the qualification dimensions.
type Segments struct {
	ByCompanySize []CompanySizeSegment
	ByLeadType    []SegmentCount
	TopPainPoints []PainPointCount
}

type Service struct {
	store            Store
	avgDealSizeCents int64
}

func New(store Store, cfg config.FeeConfig) *Service {
	return &Service{store: store, avgDealSizeCents: cfg.GetAvgDealSizeCents()}
}

// Metrics computes the funnel summary over the trailing window.
// Conversion is scheduled over high-intent; an empty funnel reads zero.
func (s *Service) Metrics(ctx context.Context, days int) (Metrics, error) {
	days = clampDays(days)
	since := time.Now().AddDate(0, 0, -days)

	totals, err := s.store.Totals(ctx, since)
	if err != nil {
		return Metrics{}, err
	}

	metrics := Metrics{
		WindowDays:         days,
		Totals:             totals,
		PipelineValueCents: totals.Scheduled * s.avgDealSizeCents,
		FeePendingCents:    totals.FeeEarnedCents - totals.FeeCollectedCents,
	}
	if totals.HighIntent > 0 {
		metrics.ConversionRate = float64(totals.Scheduled) / float64(totals.HighIntent)
	}
	return metrics, nil
}

// Segments runs the breakdown queries in parallel, then merges the
// per-segment pain points into the company-size rollups.
func (s *Service) Segments(ctx context.Context) (Segments, error) {
	var (
		segments   Segments
		sizeCounts []SegmentCount
		painPoints []SegmentPainPoint
	)
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		counts, err := s.store.CountsByCompanySize(ctx)
		sizeCounts = counts
		return err
	})
	group.Go(func() error {
		counts, err := s.store.CountsByLeadType(ctx)
		segments.ByLeadType = counts
		return err
	})
	group.Go(func() error {
		counts, err := s.store.TopPainPoints(ctx, topPainPoints)
		segments.TopPainPoints = counts
		return err
	})
	group.Go(func() error {
		counts, err := s.store.PainPointsByCompanySize(ctx)
		painPoints = counts
		return err
	})

	if err := group.Wait(); err != nil {
		return Segments{}, err
	}

	segments.ByCompanySize = mergeCompanySizeSegments(sizeCounts, painPoints)
	return segments, nil
}

// mergeCompanySizeSegments attaches each segment's budget-confirmed share
// and its three most common pain points. The pain point rows arrive
// ordered by frequency within each segment.
func mergeCompanySizeSegments(counts []SegmentCount, painPoints []SegmentPainPoint) []CompanySizeSegment {
	bySegment := make(map[string][]PainPointCount, len(counts))
	for _, pp := range painPoints {
		if len(bySegment[pp.Segment]) >= topPainPoints {
			continue
		}
		bySegment[pp.Segment] = append(bySegment[pp.Segment], PainPointCount{
			PainPoint: pp.PainPoint,
			Count:     pp.Count,
		})
	}

	segments := make([]CompanySizeSegment, 0, len(counts))
	for _, count := range counts {
		segment := CompanySizeSegment{
			SegmentCount:  count,
			TopPainPoints: bySegment[count.Segment],
		}
		if count.Total > 0 {
			segment.BudgetConfirmedRate = float64(count.BudgetConfirmed) / float64(count.Total)
		}
		segments = append(segments, segment)
	}
	return segments
}

func (s *Service) Trend(ctx context.Context, days int) ([]TrendPoint, error) {
	days = clampDays(days)
	return s.store.DailyTrend(ctx, time.Now().AddDate(0, 0, -days))
}

func (s *Service) Recent(ctx context.Context, limit int) ([]RecentLead, error) {
	if limit <= 0 {
		limit = defaultRecent
	}
	if limit > maxRecent {
		limit = maxRecent
	}
	return s.store.Recent(ctx, limit)
}

func clampDays(days int) int {
	if days <= 0 {
		return defaultWindowDays
	}
	if days > maxWindowDays {
		return maxWindowDays
	}
	return days
}
