package chat

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"landing_backend/internal/leads/domain"
	leadsrepo "landing_backend/internal/leads/repository"
	leadsvc "landing_backend/internal/leads/service"
	"landing_backend/internal/scheduling"
	"landing_backend/platform/logger"
	"landing_backend/platform/validator"
)

// LeadCreator is the slice of the leads service the dispatcher needs.
type LeadCreator interface {
	Create(ctx context.Context, input leadsvc.CreateLeadInput) (leadsrepo.Lead, error)
}

// FunctionCallRecord is one executed tool call, echoed back to the widget.
type FunctionCallRecord struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
	Result    string         `json:"result"`
}

// Dispatcher validates and executes the model's tool calls. Tool failures
// never escape as errors; the visitor always gets a usable reply string.
type Dispatcher struct {
	leads    LeadCreator
	links    scheduling.LinkProvider
	validate *validator.Validator
	persona  *Persona
	log      *logger.Logger
}

func NewDispatcher(leads LeadCreator, links scheduling.LinkProvider, validate *validator.Validator, persona *Persona, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		leads:    leads,
		links:    links,
		validate: validate,
		persona:  persona,
		log:      log,
	}
}

// Execute runs a single tool call and returns its record. The result is
// always customer-facing text.
func (d *Dispatcher) Execute(ctx context.Context, conversationID uuid.UUID, call *genai.FunctionCall) FunctionCallRecord {
	record := FunctionCallRecord{Name: call.Name, Arguments: call.Args}

	switch call.Name {
	case ToolQualifyAndSchedule:
		record.Result = d.qualifyAndSchedule(ctx, conversationID, call.Args)
	case ToolQualifyLead:
		record.Result = d.qualifyLead(ctx, conversationID, call.Args)
	default:
		d.log.Warn("model invoked unknown tool", "tool", call.Name)
		record.Result = strings.TrimSpace(d.persona.Fallback)
	}

	return record
}

func (d *Dispatcher) qualifyAndSchedule(ctx context.Context, conversationID uuid.UUID, args map[string]any) string {
	var input qualifyAndScheduleArgs
	if err := decodeArgs(args, &input); err != nil {
		d.log.Warn("rejected tool arguments", "tool", ToolQualifyAndSchedule, "error", err.Error())
		return strings.TrimSpace(d.persona.Fallback)
	}
	if err := d.validate.Struct(input); err != nil {
		d.log.Warn("rejected tool arguments", "tool", ToolQualifyAndSchedule, "error", err.Error())
		return strings.TrimSpace(d.persona.Fallback)
	}

	link, err := d.links.LinkFor(ctx, domain.LeadType(input.IntentType))
	if err != nil {
		d.log.Error("failed to resolve scheduling link", "error", err.Error())
		return strings.TrimSpace(d.persona.SoftFailure)
	}

	convID := conversationID
	_, err = d.leads.Create(ctx, leadsvc.CreateLeadInput{
		Name:            input.Name,
		Company:         input.Company,
		Email:           input.Email,
		PainPoint:       input.PrimaryPainPoint,
		CompanySize:     input.CompanySize,
		BudgetConfirmed: input.BudgetConfirmed,
		LeadType:        input.IntentType,
		UTMSource:       input.UTMSource,
		UTMMedium:       input.UTMMedium,
		UTMCampaign:     input.UTMCampaign,
		Referrer:        input.Referrer,
		ConversationID:  &convID,
		SchedulingLink:  link,
	})
	if err != nil {
		d.log.Error("failed to persist qualified lead", "error", err.Error())
		return strings.TrimSpace(d.persona.SoftFailure)
	}

	return d.persona.ReplyFor(ToolQualifyAndSchedule, link)
}

func (d *Dispatcher) qualifyLead(ctx context.Context, conversationID uuid.UUID, args map[string]any) string {
	var input qualifyLeadArgs
	if err := decodeArgs(args, &input); err != nil {
		d.log.Warn("rejected tool arguments", "tool", ToolQualifyLead, "error", err.Error())
		return strings.TrimSpace(d.persona.Fallback)
	}
	if err := d.validate.Struct(input); err != nil {
		d.log.Warn("rejected tool arguments", "tool", ToolQualifyLead, "error", err.Error())
		return strings.TrimSpace(d.persona.Fallback)
	}

	convID := conversationID
	_, err := d.leads.Create(ctx, leadsvc.CreateLeadInput{
		Name:           input.Name,
		Company:        input.Company,
		Email:          input.Email,
		PainPoint:      input.PainPoint,
		ConversationID: &convID,
	})
	if err != nil {
		d.log.Error("failed to persist lead", "error", err.Error())
		return strings.TrimSpace(d.persona.SoftFailure)
	}

	return d.persona.ReplyFor(ToolQualifyLead, "")
}
