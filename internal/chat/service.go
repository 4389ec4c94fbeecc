package chat

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"

	convrepo "landing_backend/internal/conversations/repository"
	convsvc "landing_backend/internal/conversations/service"
	"landing_backend/platform/ai/openai"
	"landing_backend/platform/logger"
	"landing_backend/platform/sanitize"
)

// Generator is the single model round trip the chat loop needs.
type Generator interface {
	Generate(ctx context.Context, req openai.Request) (*genai.Content, error)
	Name() string
}

// ConversationLog is the slice of the conversations service the chat
// loop needs.
type ConversationLog interface {
	Append(ctx context.Context, conversationID uuid.UUID, role, content string) (convrepo.Message, error)
	History(ctx context.Context, conversationID uuid.UUID) ([]convrepo.Message, error)
}

// Reply is the widget-facing result of one chat turn.
type Reply struct {
	Response      string
	FunctionCalls []FunctionCallRecord
}

// Service runs the two-round chat protocol: one model call to decide on
// tool use, tool execution, then a second call for the closing prose.
type Service struct {
	conversations ConversationLog
	model         Generator
	dispatcher    *Dispatcher
	persona       *Persona
	temperature   float32
	log           *logger.Logger
}

func NewService(conversations ConversationLog, model Generator, dispatcher *Dispatcher, persona *Persona, log *logger.Logger) *Service {
	return &Service{
		conversations: conversations,
		model:         model,
		dispatcher:    dispatcher,
		persona:       persona,
		temperature:   0.4,
		log:           log,
	}
}

// Send appends the visitor's message, runs the protocol, and appends the
// assistant's reply. Tool failures degrade to scripted lines; only the
// conversation log failing surfaces as an error.
func (s *Service) Send(ctx context.Context, conversationID uuid.UUID, content string) (Reply, error) {
	content = sanitize.Text(content)

	if _, err := s.conversations.Append(ctx, conversationID, convsvc.RoleUser, content); err != nil {
		return Reply{}, err
	}

	history, err := s.conversations.History(ctx, conversationID)
	if err != nil {
		return Reply{}, err
	}

	contents := make([]*genai.Content, 0, len(history)+2)
	for _, msg := range history {
		role := genai.RoleUser
		if msg.Role == convsvc.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{genai.NewPartFromText(msg.Content)},
		})
	}

	first, err := s.generate(ctx, 1, openai.Request{
		System:      s.persona.SystemPrompt,
		Contents:    contents,
		Tools:       toolDeclarations(),
		Temperature: &s.temperature,
	})
	if err != nil {
		return Reply{}, err
	}

	response, calls := splitContent(first)

	var records []FunctionCallRecord
	if len(calls) > 0 {
		contents = append(contents, first)

		responseParts := make([]*genai.Part, 0, len(calls))
		for _, call := range calls {
			record := s.dispatcher.Execute(ctx, conversationID, call)
			records = append(records, record)
			responseParts = append(responseParts, &genai.Part{
				FunctionResponse: &genai.FunctionResponse{
					ID:       call.ID,
					Name:     call.Name,
					Response: map[string]any{"result": record.Result},
				},
			})
		}
		contents = append(contents, &genai.Content{Role: genai.RoleUser, Parts: responseParts})

		second, err := s.generate(ctx, 2, openai.Request{
			System:      s.persona.SystemPrompt,
			Contents:    contents,
			Temperature: &s.temperature,
		})
		if err != nil {
			// The tool side effects already happened; fall back to the
			// scripted line rather than erroring the whole turn.
			s.log.Error("second chat round failed", "error", err.Error())
			second = nil
		}

		response = textOf(second)
		if response == "" {
			response = records[len(records)-1].Result
		}
	}

	if response == "" {
		response = strings.TrimSpace(s.persona.Fallback)
	}

	if _, err := s.conversations.Append(ctx, conversationID, convsvc.RoleAssistant, response); err != nil {
		return Reply{}, err
	}

	return Reply{Response: response, FunctionCalls: records}, nil
}

func (s *Service) generate(ctx context.Context, round int, req openai.Request) (*genai.Content, error) {
	start := time.Now()
	content, err := s.model.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	_, calls := splitContent(content)
	s.log.AIRequest(s.model.Name(), round, len(calls), float64(time.Since(start).Milliseconds()))
	return content, nil
}

// splitContent separates a model response into prose and tool calls.
func splitContent(content *genai.Content) (string, []*genai.FunctionCall) {
	if content == nil {
		return "", nil
	}
	var calls []*genai.FunctionCall
	var text strings.Builder
	for _, part := range content.Parts {
		if part == nil {
			continue
		}
		if part.FunctionCall != nil {
			calls = append(calls, part.FunctionCall)
			continue
		}
		if strings.TrimSpace(part.Text) != "" {
			if text.Len() > 0 {
				text.WriteString("\n")
			}
			text.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(text.String()), calls
}

func textOf(content *genai.Content) string {
	text, _ := splitContent(content)
	return text
}
