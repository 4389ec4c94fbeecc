package dashboard

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"landing_backend/platform/httpkit"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type metricsResponse struct {
	WindowDays         int     `json:"windowDays"`
	TotalLeads         int64   `json:"totalLeads"`
	HighIntent         int64   `json:"highIntent"`
	Scheduled          int64   `json:"scheduled"`
	BudgetConfirmed    int64   `json:"budgetConfirmed"`
	ConversionRate     float64 `json:"conversionRate"`
	PipelineValueCents int64   `json:"pipelineValueCents"`
	FeeEarnedCents     int64   `json:"feeEarnedCents"`
	FeeCollectedCents  int64   `json:"feeCollectedCents"`
	FeePendingCents    int64   `json:"feePendingCents"`
}

// Metrics returns the funnel summary.
// GET /dashboard/metrics?days=N
func (h *Handler) Metrics(c *gin.Context) {
	metrics, err := h.svc.Metrics(c.Request.Context(), intQuery(c, "days"))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, metricsResponse{
		WindowDays:         metrics.WindowDays,
		TotalLeads:         metrics.Totals.TotalLeads,
		HighIntent:         metrics.Totals.HighIntent,
		Scheduled:          metrics.Totals.Scheduled,
		BudgetConfirmed:    metrics.Totals.BudgetConfirmed,
		ConversionRate:     metrics.ConversionRate,
		PipelineValueCents: metrics.PipelineValueCents,
		FeeEarnedCents:     metrics.Totals.FeeEarnedCents,
		FeeCollectedCents:  metrics.Totals.FeeCollectedCents,
		FeePendingCents:    metrics.FeePendingCents,
	})
}

type segmentResponse struct {
	Segment         string `json:"segment"`
	Total           int64  `json:"total"`
	HighIntent      int64  `json:"highIntent"`
	Scheduled       int64  `json:"scheduled"`
	BudgetConfirmed int64  `json:"budgetConfirmed"`
}

type companySizeSegmentResponse struct {
	segmentResponse
	BudgetConfirmedRate float64             `json:"budgetConfirmedRate"`
	TopPainPoints       []painPointResponse `json:"topPainPoints"`
}

type painPointResponse struct {
	PainPoint string `json:"painPoint"`
	Count     int64  `json:"count"`
}

type segmentsResponse struct {
	ByCompanySize []companySizeSegmentResponse `json:"byCompanySize"`
	ByLeadType    []segmentResponse            `json:"byLeadType"`
	TopPainPoints []painPointResponse          `json:"topPainPoints"`
}

// Segments returns the breakdowns by company size, lead type, and the
// most common pain points.
// GET /dashboard/segments
func (h *Handler) Segments(c *gin.Context) {
	segments, err := h.svc.Segments(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	resp := segmentsResponse{
		ByCompanySize: make([]companySizeSegmentResponse, 0, len(segments.ByCompanySize)),
		ByLeadType:    make([]segmentResponse, 0, len(segments.ByLeadType)),
		TopPainPoints: make([]painPointResponse, 0, len(segments.TopPainPoints)),
	}
	for _, s := range segments.ByCompanySize {
		entry := companySizeSegmentResponse{
			segmentResponse:     segmentResponse(s.SegmentCount),
			BudgetConfirmedRate: s.BudgetConfirmedRate,
			TopPainPoints:       make([]painPointResponse, 0, len(s.TopPainPoints)),
		}
		for _, p := range s.TopPainPoints {
			entry.TopPainPoints = append(entry.TopPainPoints, painPointResponse(p))
		}
		resp.ByCompanySize = append(resp.ByCompanySize, entry)
	}
	for _, s := range segments.ByLeadType {
		resp.ByLeadType = append(resp.ByLeadType, segmentResponse(s))
	}
	for _, p := range segments.TopPainPoints {
		resp.TopPainPoints = append(resp.TopPainPoints, painPointResponse(p))
	}
	httpkit.OK(c, resp)
}

type trendPointResponse struct {
	Day        string `json:"day"`
	Total      int64  `json:"total"`
	HighIntent int64  `json:"highIntent"`
	Scheduled  int64  `json:"scheduled"`
}

// Trend returns per-day lead volume over the window.
// GET /dashboard/trend?days=N
func (h *Handler) Trend(c *gin.Context) {
	points, err := h.svc.Trend(c.Request.Context(), intQuery(c, "days"))
	if httpkit.HandleError(c, err) {
		return
	}

	resp := make([]trendPointResponse, 0, len(points))
	for _, p := range points {
		resp = append(resp, trendPointResponse{
			Day:        p.Day.Format("2006-01-02"),
			Total:      p.Total,
			HighIntent: p.HighIntent,
			Scheduled:  p.Scheduled,
		})
	}
	httpkit.OK(c, resp)
}

type recentLeadResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Company       string    `json:"company"`
	Email         string    `json:"email"`
	PainPoint     string    `json:"painPoint"`
	LeadType      string    `json:"leadType"`
	IsHighIntent  bool      `json:"isHighIntent"`
	ScheduledCall bool      `json:"scheduledCall"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Recent returns the newest leads for the dashboard feed.
// GET /dashboard/recent?limit=N
func (h *Handler) Recent(c *gin.Context) {
	leads, err := h.svc.Recent(c.Request.Context(), intQuery(c, "limit"))
	if httpkit.HandleError(c, err) {
		return
	}

	resp := make([]recentLeadResponse, 0, len(leads))
	for _, l := range leads {
		resp = append(resp, recentLeadResponse(l))
	}
	httpkit.OK(c, resp)
}

func intQuery(c *gin.Context, name string) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return value
}
