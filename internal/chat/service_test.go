package chat

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"

	convrepo "landing_backend/internal/conversations/repository"
	convsvc "landing_backend/internal/conversations/service"
	"landing_backend/platform/ai/openai"
	"landing_backend/platform/logger"
	"landing_backend/platform/validator"
)

type fakeLog struct {
	messages []convrepo.Message
}

func (f *fakeLog) Append(_ context.Context, conversationID uuid.UUID, role, content string) (convrepo.Message, error) {
	msg := convrepo.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		CreatedAt:      time.Now(),
	}
	f.messages = append(f.messages, msg)
	return msg, nil
}

func (f *fakeLog) History(context.Context, uuid.UUID) ([]convrepo.Message, error) {
	return f.messages, nil
}

type fakeModel struct {
	responses []*genai.Content
	requests  []openai.Request
}

func (f *fakeModel) Generate(_ context.Context, req openai.Request) (*genai.Content, error) {
	f.requests = append(f.requests, req)
	if len(f.responses) == 0 {
		return &genai.Content{Role: genai.RoleModel}, nil
	}
	next := f.responses[0]
	f.responses = f.responses[1:]
	return next, nil
}

func (f *fakeModel) Name() string { return "test-model" }

func textContent(text string) *genai.Content {
	return &genai.Content{Role: genai.RoleModel, Parts: []*genai.Part{genai.NewPartFromText(text)}}
}

func toolCallContent(name string, args map[string]any) *genai.Content {
	return &genai.Content{
		Role: genai.RoleModel,
		Parts: []*genai.Part{
			{FunctionCall: &genai.FunctionCall{ID: "call_1", Name: name, Args: args}},
		},
	}
}

func newChatService(t *testing.T, model *fakeModel, log *fakeLog, leads *fakeLeadCreator) *Service {
	t.Helper()
	persona, err := loadPersona()
	if err != nil {
		t.Fatalf("loadPersona failed: %v", err)
	}
	appLog := logger.New("development")
	dispatcher := NewDispatcher(leads, &fakeLinks{link: "https://calendly.com/acme/intro"}, validator.New(), persona, appLog)
	return NewService(log, model, dispatcher, persona, appLog)
}

func TestSendPlainReply(t *testing.T) {
	model := &fakeModel{responses: []*genai.Content{textContent("What is slowing your team down?")}}
	log := &fakeLog{}
	svc := newChatService(t, model, log, &fakeLeadCreator{})

	reply, err := svc.Send(context.Background(), uuid.New(), "hi there")
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if reply.Response != "What is slowing your team down?" {
		t.Fatalf("unexpected reply: %q", reply.Response)
	}
	if len(reply.FunctionCalls) != 0 {
		t.Fatal("expected no function calls")
	}
	if len(model.requests) != 1 {
		t.Fatalf("expected a single model round, got %d", len(model.requests))
	}
	if len(log.messages) != 2 {
		t.Fatalf("expected user and assistant messages logged, got %d", len(log.messages))
	}
	if log.messages[0].Role != convsvc.RoleUser || log.messages[1].Role != convsvc.RoleAssistant {
		t.Fatal("messages logged with wrong roles")
	}
}

func TestSendToolCallRunsTwoRounds(t *testing.T) {
	model := &fakeModel{responses: []*genai.Content{
		toolCallContent(ToolQualifyLead, map[string]any{"painPoint": "manual reporting"}),
		textContent("All set, the team will reach out."),
	}}
	log := &fakeLog{}
	leads := &fakeLeadCreator{}
	svc := newChatService(t, model, log, leads)

	reply, err := svc.Send(context.Background(), uuid.New(), "our reporting is all manual")
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if reply.Response != "All set, the team will reach out." {
		t.Fatalf("unexpected reply: %q", reply.Response)
	}
	if len(reply.FunctionCalls) != 1 || reply.FunctionCalls[0].Name != ToolQualifyLead {
		t.Fatalf("expected one qualify_lead call, got %+v", reply.FunctionCalls)
	}
	if len(leads.inputs) != 1 {
		t.Fatalf("expected lead created, got %d", len(leads.inputs))
	}
	if len(model.requests) != 2 {
		t.Fatalf("expected two model rounds, got %d", len(model.requests))
	}

	// Round one advertises tools, round two must not.
	if len(model.requests[0].Tools) == 0 {
		t.Fatal("round one request is missing tool declarations")
	}
	if len(model.requests[1].Tools) != 0 {
		t.Fatal("round two request must not advertise tools")
	}

	// Round two sees the function response turn.
	last := model.requests[1].Contents[len(model.requests[1].Contents)-1]
	if last.Parts[0].FunctionResponse == nil {
		t.Fatal("round two request is missing the function response turn")
	}
}

func TestSendFallsBackToScriptedReply(t *testing.T) {
	model := &fakeModel{responses: []*genai.Content{
		toolCallContent(ToolQualifyAndSchedule, map[string]any{
			"primaryPainPoint": "lead triage",
			"intentType":       "business_upgrade",
		}),
		textContent(""),
	}}
	log := &fakeLog{}
	svc := newChatService(t, model, log, &fakeLeadCreator{})

	reply, err := svc.Send(context.Background(), uuid.New(), "we drown in inbound leads")
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if !strings.Contains(reply.Response, "https://calendly.com/acme/intro") {
		t.Fatalf("expected scripted reply with link, got %q", reply.Response)
	}
}

func TestSendSanitizesContent(t *testing.T) {
	model := &fakeModel{responses: []*genai.Content{textContent("Got it.")}}
	log := &fakeLog{}
	svc := newChatService(t, model, log, &fakeLeadCreator{})

	if _, err := svc.Send(context.Background(), uuid.New(), "<script>alert(1)</script>hello"); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if strings.Contains(log.messages[0].Content, "<script>") {
		t.Fatalf("expected sanitized content, got %q", log.messages[0].Content)
	}
}
