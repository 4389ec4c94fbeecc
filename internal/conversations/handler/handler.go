// Package handler exposes the conversation HTTP endpoints.
package handler

import (
	"net/http"

	"landing_backend/internal/conversations/repository"
	"landing_backend/internal/conversations/service"
	"landing_backend/internal/conversations/transport"
	"landing_backend/platform/httpkit"
	"landing_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest = "invalid request"
	msgInvalidID      = "invalid conversation ID"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Create starts a new conversation.
// POST /conversations
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateConversationRequest
	// An empty body is allowed; title defaults server-side.
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
		if err := h.val.Struct(req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
			return
		}
	}

	conv, err := h.svc.Create(c.Request.Context(), req.Title)
	if httpkit.HandleError(c, err) {
		return
	}

	c.JSON(http.StatusCreated, toConversationResponse(conv))
}

// Get returns a conversation with its ordered messages.
// GET /conversations/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	conv, messages, err := h.svc.GetWithMessages(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	resp := transport.ConversationWithMessagesResponse{
		ConversationResponse: toConversationResponse(conv),
		Messages:             make([]transport.MessageResponse, len(messages)),
	}
	for i, msg := range messages {
		resp.Messages[i] = transport.MessageResponse{
			ID:        msg.ID,
			Role:      msg.Role,
			Content:   msg.Content,
			CreatedAt: msg.CreatedAt,
		}
	}

	httpkit.OK(c, resp)
}

// Delete removes a conversation and its messages.
// DELETE /conversations/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}

	c.Status(http.StatusNoContent)
}

func toConversationResponse(conv repository.Conversation) transport.ConversationResponse {
	return transport.ConversationResponse{
		ID:        conv.ID,
		Title:     conv.Title,
		CreatedAt: conv.CreatedAt,
	}
}
