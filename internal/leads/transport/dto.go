package transport

import (
	"time"

	"landing_backend/internal/leads/repository"

	"github.com/google/uuid"
)

// LeadResponse is the full lead record as exposed over HTTP.
type LeadResponse struct {
	ID                 uuid.UUID  `json:"id"`
	Name               string     `json:"name"`
	Company            string     `json:"company"`
	Email              string     `json:"email"`
	PainPoint          string     `json:"painPoint"`
	CompanySize        string     `json:"companySize"`
	BudgetConfirmed    bool       `json:"budgetConfirmed"`
	LeadType           string     `json:"leadType"`
	IsHighIntent       bool       `json:"isHighIntent"`
	SuccessFeeCents    int64      `json:"successFeeCents"`
	SuccessFeePolicy   string     `json:"successFeePolicy,omitempty"`
	FeeCollected       bool       `json:"feeCollected"`
	FeeCollectedAt     *time.Time `json:"feeCollectedAt,omitempty"`
	FeeCollectedBy     string     `json:"feeCollectedBy,omitempty"`
	CalendlyEventURI   string     `json:"calendlyEventUri,omitempty"`
	CalendlyInviteeURI *string    `json:"calendlyInviteeUri,omitempty"`
	ScheduledAt        *time.Time `json:"scheduledAt,omitempty"`
	ScheduledCall      bool       `json:"scheduledCall"`
	InviteePhone       string     `json:"inviteePhone,omitempty"`
	UTMSource          string     `json:"utmSource,omitempty"`
	UTMMedium          string     `json:"utmMedium,omitempty"`
	UTMCampaign        string     `json:"utmCampaign,omitempty"`
	Referrer           string     `json:"referrer,omitempty"`
	ConversationID     *uuid.UUID `json:"conversationId,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
}

// FeeSummaryResponse aggregates monetization totals for the admin surface.
type FeeSummaryResponse struct {
	EarnedCents    int64 `json:"earnedCents"`
	CollectedCents int64 `json:"collectedCents"`
	PendingCents   int64 `json:"pendingCents"`
	EarnedCount    int64 `json:"earnedCount"`
	CollectedCount int64 `json:"collectedCount"`
}

// ToLeadResponse maps a repository lead to its HTTP shape.
func ToLeadResponse(lead repository.Lead) LeadResponse {
	return LeadResponse{
		ID:                 lead.ID,
		Name:               lead.Name,
		Company:            lead.Company,
		Email:              lead.Email,
		PainPoint:          lead.PainPoint,
		CompanySize:        string(lead.CompanySize),
		BudgetConfirmed:    lead.BudgetConfirmed,
		LeadType:           string(lead.LeadType),
		IsHighIntent:       lead.IsHighIntent,
		SuccessFeeCents:    lead.SuccessFeeCents,
		SuccessFeePolicy:   lead.SuccessFeePolicy,
		FeeCollected:       lead.FeeCollected,
		FeeCollectedAt:     lead.FeeCollectedAt,
		FeeCollectedBy:     lead.FeeCollectedBy,
		CalendlyEventURI:   lead.CalendlyEventURI,
		CalendlyInviteeURI: lead.CalendlyInviteeURI,
		ScheduledAt:        lead.ScheduledAt,
		ScheduledCall:      lead.ScheduledCall,
		InviteePhone:       lead.InviteePhone,
		UTMSource:          lead.UTMSource,
		UTMMedium:          lead.UTMMedium,
		UTMCampaign:        lead.UTMCampaign,
		Referrer:           lead.Referrer,
		ConversationID:     lead.ConversationID,
		CreatedAt:          lead.CreatedAt,
	}
}
