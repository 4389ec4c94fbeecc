package chat

import (
	"encoding/json"
	"fmt"

	"google.golang.org/genai"
)

// Tool names the model may invoke.
const (
	ToolQualifyAndSchedule = "qualify_and_schedule"
	ToolQualifyLead        = "qualify_lead"
)

// qualifyAndScheduleArgs captures a visitor ready to book a call.
type qualifyAndScheduleArgs struct {
	PrimaryPainPoint string `json:"primaryPainPoint" validate:"required"`
	IntentType       string `json:"intentType" validate:"required,oneof=business_upgrade venture_studio"`
	Name             string `json:"name"`
	Email            string `json:"email" validate:"omitempty,email"`
	Company          string `json:"company"`
	CompanySize      string `json:"companySize"`
	BudgetConfirmed  bool   `json:"budgetConfirmed"`
	UTMSource        string `json:"utmSource"`
	UTMMedium        string `json:"utmMedium"`
	UTMCampaign      string `json:"utmCampaign"`
	Referrer         string `json:"referrer"`
}

// qualifyLeadArgs captures a visitor who shared a pain point but is not
// ready to schedule.
type qualifyLeadArgs struct {
	PainPoint string `json:"painPoint" validate:"required"`
	Name      string `json:"name"`
	Company   string `json:"company"`
	Email     string `json:"email" validate:"omitempty,email"`
}

// toolDeclarations returns the schemas advertised to the model.
func toolDeclarations() []*genai.Tool {
	companySizeEnum := []string{"1-10", "11-50", "51-200", "200+", "unknown"}
	intentTypeEnum := []string{"business_upgrade", "venture_studio"}

	qualifyAndSchedule := &genai.FunctionDeclaration{
		Name: ToolQualifyAndSchedule,
		Description: "Record a qualified lead who is ready to book a call and " +
			"get back the scheduling link to share with them. Use when the " +
			"visitor has named a concrete pain point and wants to talk.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"primaryPainPoint": {
					Type:        genai.TypeString,
					Description: "The visitor's main operational problem, in their words.",
				},
				"intentType": {
					Type:        genai.TypeString,
					Enum:        intentTypeEnum,
					Description: "business_upgrade for improving an existing company, venture_studio for building something new.",
				},
				"name":    {Type: genai.TypeString},
				"email":   {Type: genai.TypeString},
				"company": {Type: genai.TypeString},
				"companySize": {
					Type: genai.TypeString,
					Enum: companySizeEnum,
				},
				"budgetConfirmed": {
					Type:        genai.TypeBoolean,
					Description: "True only if the visitor said budget is already allocated.",
				},
				"utmSource":   {Type: genai.TypeString},
				"utmMedium":   {Type: genai.TypeString},
				"utmCampaign": {Type: genai.TypeString},
				"referrer":    {Type: genai.TypeString},
			},
			Required: []string{"primaryPainPoint", "intentType"},
		},
	}

	qualifyLead := &genai.FunctionDeclaration{
		Name: ToolQualifyLead,
		Description: "Record a lead for follow-up when the visitor shared a " +
			"real pain point but is not ready to schedule a call.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"painPoint": {
					Type:        genai.TypeString,
					Description: "The visitor's main operational problem, in their words.",
				},
				"name":    {Type: genai.TypeString},
				"company": {Type: genai.TypeString},
				"email":   {Type: genai.TypeString},
			},
			Required: []string{"painPoint"},
		},
	}

	return []*genai.Tool{
		{FunctionDeclarations: []*genai.FunctionDeclaration{qualifyAndSchedule, qualifyLead}},
	}
}

// decodeArgs converts the model's argument map into a typed struct via a
// JSON round trip, so unknown keys are dropped rather than rejected.
func decodeArgs(args map[string]any, target any) error {
	raw, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("failed to encode tool arguments: %w", err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("failed to decode tool arguments: %w", err)
	}
	return nil
}
