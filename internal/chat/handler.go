package chat

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"landing_backend/platform/httpkit"
	"landing_backend/platform/validator"
)

// SendMessageRequest is one visitor turn.
type SendMessageRequest struct {
	Content string `json:"content" validate:"required,min=1,max=4000"`
}

// SendMessageResponse carries the assistant reply and the tool calls
// executed while producing it.
type SendMessageResponse struct {
	Response      string               `json:"response"`
	FunctionCalls []FunctionCallRecord `json:"functionCalls"`
}

type Handler struct {
	svc *Service
	val *validator.Validator
}

func NewHandler(svc *Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Send handles one chat turn.
// POST /chat/:conversationId
func (h *Handler) Send(c *gin.Context) {
	conversationID, err := uuid.Parse(c.Param("conversationId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid conversation ID", nil)
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	reply, err := h.svc.Send(c.Request.Context(), conversationID, req.Content)
	if httpkit.HandleError(c, err) {
		return
	}

	if reply.FunctionCalls == nil {
		reply.FunctionCalls = []FunctionCallRecord{}
	}
	httpkit.OK(c, SendMessageResponse{
		Response:      reply.Response,
		FunctionCalls: reply.FunctionCalls,
	})
}
