package chat

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"google.golang.org/genai"

	"landing_backend/platform/validator"
)

func newTestRouter(t *testing.T, model *fakeModel) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := newChatService(t, model, &fakeLog{}, &fakeLeadCreator{})
	handler := NewHandler(svc, validator.New())

	router := gin.New()
	router.POST("/chat/:conversationId", handler.Send)
	return router
}

func postMessage(router *gin.Engine, conversationID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/chat/"+conversationID, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSendHandlerRejectsEmptyContent(t *testing.T) {
	router := newTestRouter(t, &fakeModel{})

	rec := postMessage(router, uuid.NewString(), `{"content":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty content, got %d", rec.Code)
	}
}

func TestSendHandlerRejectsOversizedContent(t *testing.T) {
	router := newTestRouter(t, &fakeModel{})

	body, err := json.Marshal(map[string]string{"content": strings.Repeat("a", 4001)})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	rec := postMessage(router, uuid.NewString(), string(body))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversized content, got %d", rec.Code)
	}
}

func TestSendHandlerRejectsBadConversationID(t *testing.T) {
	router := newTestRouter(t, &fakeModel{})

	rec := postMessage(router, "not-a-uuid", `{"content":"hi"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad conversation ID, got %d", rec.Code)
	}
}

func TestSendHandlerReturnsReply(t *testing.T) {
	model := &fakeModel{responses: []*genai.Content{textContent("How big is your team?")}}
	router := newTestRouter(t, model)

	rec := postMessage(router, uuid.NewString(), `{"content":"we need help with lead triage"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp SendMessageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Response != "How big is your team?" {
		t.Fatalf("unexpected reply: %q", resp.Response)
	}
	if resp.FunctionCalls == nil {
		t.Fatalf("expected functionCalls to be an empty array, not null")
	}
}
