package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"landing_backend/internal/leads/domain"
	leadsrepo "landing_backend/internal/leads/repository"
	leadsvc "landing_backend/internal/leads/service"
	"landing_backend/platform/logger"
	"landing_backend/platform/validator"
)

type fakeLeadCreator struct {
	inputs []leadsvc.CreateLeadInput
	err    error
}

func (f *fakeLeadCreator) Create(_ context.Context, input leadsvc.CreateLeadInput) (leadsrepo.Lead, error) {
	if f.err != nil {
		return leadsrepo.Lead{}, f.err
	}
	f.inputs = append(f.inputs, input)
	return leadsrepo.Lead{ID: uuid.New()}, nil
}

type fakeLinks struct {
	link string
	err  error
}

func (f *fakeLinks) LinkFor(context.Context, domain.LeadType) (string, error) {
	return f.link, f.err
}

func newTestDispatcher(t *testing.T, leads *fakeLeadCreator, links *fakeLinks) (*Dispatcher, *Persona) {
	t.Helper()
	persona, err := loadPersona()
	if err != nil {
		t.Fatalf("loadPersona failed: %v", err)
	}
	return NewDispatcher(leads, links, validator.New(), persona, logger.New("development")), persona
}

func TestDispatcherQualifyAndSchedule(t *testing.T) {
	leads := &fakeLeadCreator{}
	links := &fakeLinks{link: "https://calendly.com/acme/intro"}
	dispatcher, _ := newTestDispatcher(t, leads, links)
	convID := uuid.New()

	record := dispatcher.Execute(context.Background(), convID, &genai.FunctionCall{
		Name: ToolQualifyAndSchedule,
		Args: map[string]any{
			"primaryPainPoint": "support tickets pile up overnight",
			"intentType":       "business_upgrade",
			"companySize":      "51-200",
			"email":            "ada@example.com",
		},
	})

	if !strings.Contains(record.Result, links.link) {
		t.Fatalf("expected reply to embed scheduling link, got %q", record.Result)
	}
	if len(leads.inputs) != 1 {
		t.Fatalf("expected one lead created, got %d", len(leads.inputs))
	}
	input := leads.inputs[0]
	if input.SchedulingLink != links.link {
		t.Fatalf("expected scheduling link on lead input, got %q", input.SchedulingLink)
	}
	if input.ConversationID == nil || *input.ConversationID != convID {
		t.Fatal("expected conversation attached to lead input")
	}
}

func TestDispatcherQualifyLead(t *testing.T) {
	leads := &fakeLeadCreator{}
	dispatcher, persona := newTestDispatcher(t, leads, &fakeLinks{})

	record := dispatcher.Execute(context.Background(), uuid.New(), &genai.FunctionCall{
		Name: ToolQualifyLead,
		Args: map[string]any{"painPoint": "invoicing is manual", "name": "Ada"},
	})

	if record.Result != persona.ReplyFor(ToolQualifyLead, "") {
		t.Fatalf("unexpected reply: %q", record.Result)
	}
	if len(leads.inputs) != 1 {
		t.Fatalf("expected one lead created, got %d", len(leads.inputs))
	}
	if leads.inputs[0].LeadType != "" {
		t.Fatal("qualify_lead must leave lead type defaulting to the service")
	}
}

func TestDispatcherUnknownTool(t *testing.T) {
	leads := &fakeLeadCreator{}
	dispatcher, persona := newTestDispatcher(t, leads, &fakeLinks{})

	record := dispatcher.Execute(context.Background(), uuid.New(), &genai.FunctionCall{
		Name: "book_flight",
		Args: map[string]any{"city": "Oslo"},
	})

	if record.Result != strings.TrimSpace(persona.Fallback) {
		t.Fatalf("expected fallback reply, got %q", record.Result)
	}
	if len(leads.inputs) != 0 {
		t.Fatal("unknown tool must not create leads")
	}
}

func TestDispatcherInvalidArguments(t *testing.T) {
	leads := &fakeLeadCreator{}
	dispatcher, persona := newTestDispatcher(t, leads, &fakeLinks{link: "https://calendly.com/x"})

	// Missing required intentType.
	record := dispatcher.Execute(context.Background(), uuid.New(), &genai.FunctionCall{
		Name: ToolQualifyAndSchedule,
		Args: map[string]any{"primaryPainPoint": "churn"},
	})

	if record.Result != strings.TrimSpace(persona.Fallback) {
		t.Fatalf("expected fallback reply, got %q", record.Result)
	}
	if len(leads.inputs) != 0 {
		t.Fatal("invalid arguments must not create leads")
	}
}

func TestDispatcherPersistenceFailureIsSoft(t *testing.T) {
	leads := &fakeLeadCreator{err: errors.New("connection refused")}
	dispatcher, persona := newTestDispatcher(t, leads, &fakeLinks{link: "https://calendly.com/x"})

	record := dispatcher.Execute(context.Background(), uuid.New(), &genai.FunctionCall{
		Name: ToolQualifyLead,
		Args: map[string]any{"painPoint": "churn"},
	})

	if record.Result != strings.TrimSpace(persona.SoftFailure) {
		t.Fatalf("expected soft failure reply, got %q", record.Result)
	}
}
