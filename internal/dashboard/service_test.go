package dashboard

import (
	"context"
	"testing"
	"time"
)

type fakeStore struct {
	totals        Totals
	bySize        []SegmentCount
	byType        []SegmentCount
	painPoints    []PainPointCount
	sizePainPoint []SegmentPainPoint
	trend         []TrendPoint
	recent        []RecentLead
	sinceSeen     time.Time
	limitSeen     int
	ppLimitSeen   int
}

func (f *fakeStore) Totals(_ context.Context, since time.Time) (Totals, error) {
	f.sinceSeen = since
	return f.totals, nil
}

func (f *fakeStore) CountsByCompanySize(context.Context) ([]SegmentCount, error) {
	return f.bySize, nil
}

func (f *fakeStore) CountsByLeadType(context.Context) ([]SegmentCount, error) {
	return f.byType, nil
}

func (f *fakeStore) TopPainPoints(_ context.Context, limit int) ([]PainPointCount, error) {
	f.ppLimitSeen = limit
	return f.painPoints, nil
}

func (f *fakeStore) PainPointsByCompanySize(context.Context) ([]SegmentPainPoint, error) {
	return f.sizePainPoint, nil
}

func (f *fakeStore) DailyTrend(_ context.Context, since time.Time) ([]TrendPoint, error) {
	f.sinceSeen = since
	return f.trend, nil
}

func (f *fakeStore) Recent(_ context.Context, limit int) ([]RecentLead, error) {
	f.limitSeen = limit
	return f.recent, nil
}

type feeConfig struct{}

func (feeConfig) GetSuccessFeeCents() int64   { return 10000 }
func (feeConfig) GetSuccessFeePolicy() string { return "flat" }
func (feeConfig) GetAvgDealSizeCents() int64  { return 500000 }

func TestMetricsComputesDerivedValues(t *testing.T) {
	store := &fakeStore{totals: Totals{
		TotalLeads:        40,
		HighIntent:        10,
		Scheduled:         4,
		FeeEarnedCents:    40000,
		FeeCollectedCents: 15000,
	}}
	svc := New(store, feeConfig{})

	metrics, err := svc.Metrics(context.Background(), 7)
	if err != nil {
		t.Fatalf("Metrics returned error: %v", err)
	}
	if metrics.WindowDays != 7 {
		t.Fatalf("expected 7-day window, got %d", metrics.WindowDays)
	}
	if metrics.ConversionRate != 0.4 {
		t.Fatalf("expected conversion 0.4, got %f", metrics.ConversionRate)
	}
	if metrics.PipelineValueCents != 4*500000 {
		t.Fatalf("unexpected pipeline value %d", metrics.PipelineValueCents)
	}
	if metrics.FeePendingCents != 25000 {
		t.Fatalf("expected pending 25000, got %d", metrics.FeePendingCents)
	}
}

func TestMetricsZeroHighIntentReadsZeroConversion(t *testing.T) {
	store := &fakeStore{totals: Totals{TotalLeads: 5}}
	svc := New(store, feeConfig{})

	metrics, err := svc.Metrics(context.Background(), 30)
	if err != nil {
		t.Fatalf("Metrics returned error: %v", err)
	}
	if metrics.ConversionRate != 0 {
		t.Fatalf("expected zero conversion, got %f", metrics.ConversionRate)
	}
}

func TestMetricsClampsWindow(t *testing.T) {
	store := &fakeStore{}
	svc := New(store, feeConfig{})

	metrics, err := svc.Metrics(context.Background(), 0)
	if err != nil {
		t.Fatalf("Metrics returned error: %v", err)
	}
	if metrics.WindowDays != defaultWindowDays {
		t.Fatalf("expected default window, got %d", metrics.WindowDays)
	}

	metrics, err = svc.Metrics(context.Background(), 9000)
	if err != nil {
		t.Fatalf("Metrics returned error: %v", err)
	}
	if metrics.WindowDays != maxWindowDays {
		t.Fatalf("expected clamped window, got %d", metrics.WindowDays)
	}
}

func TestSegmentsMergesBreakdowns(t *testing.T) {
	store := &fakeStore{
		bySize: []SegmentCount{
			{Segment: "51-200", Total: 4, BudgetConfirmed: 3},
			{Segment: "1-10", Total: 2},
		},
		byType:     []SegmentCount{{Segment: "business_upgrade", Total: 5}},
		painPoints: []PainPointCount{{PainPoint: "manual reporting", Count: 2}},
		sizePainPoint: []SegmentPainPoint{
			{Segment: "51-200", PainPoint: "manual reporting", Count: 3},
			{Segment: "51-200", PainPoint: "lead triage", Count: 2},
			{Segment: "51-200", PainPoint: "slow quoting", Count: 1},
			{Segment: "51-200", PainPoint: "churn", Count: 1},
			{Segment: "1-10", PainPoint: "no website", Count: 2},
		},
	}
	svc := New(store, feeConfig{})

	segments, err := svc.Segments(context.Background())
	if err != nil {
		t.Fatalf("Segments returned error: %v", err)
	}
	if len(segments.ByCompanySize) != 2 || len(segments.ByLeadType) != 1 || len(segments.TopPainPoints) != 1 {
		t.Fatalf("segments not merged: %+v", segments)
	}
	if store.ppLimitSeen != topPainPoints {
		t.Fatalf("expected top-%d pain points, asked for %d", topPainPoints, store.ppLimitSeen)
	}

	mid := segments.ByCompanySize[0]
	if mid.BudgetConfirmedRate != 0.75 {
		t.Fatalf("expected budget-confirmed rate 0.75, got %f", mid.BudgetConfirmedRate)
	}
	if len(mid.TopPainPoints) != topPainPoints {
		t.Fatalf("expected segment pain points capped at %d, got %d", topPainPoints, len(mid.TopPainPoints))
	}
	if mid.TopPainPoints[0].PainPoint != "manual reporting" || mid.TopPainPoints[0].Count != 3 {
		t.Fatalf("expected most frequent pain point first, got %+v", mid.TopPainPoints[0])
	}

	small := segments.ByCompanySize[1]
	if small.BudgetConfirmedRate != 0 {
		t.Fatalf("expected zero budget-confirmed rate, got %f", small.BudgetConfirmedRate)
	}
	if len(small.TopPainPoints) != 1 || small.TopPainPoints[0].PainPoint != "no website" {
		t.Fatalf("pain points crossed segments: %+v", small.TopPainPoints)
	}
}

func TestRecentClampsLimit(t *testing.T) {
	store := &fakeStore{}
	svc := New(store, feeConfig{})

	if _, err := svc.Recent(context.Background(), 0); err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if store.limitSeen != defaultRecent {
		t.Fatalf("expected default limit, got %d", store.limitSeen)
	}

	if _, err := svc.Recent(context.Background(), 1000); err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if store.limitSeen != maxRecent {
		t.Fatalf("expected capped limit, got %d", store.limitSeen)
	}
}
