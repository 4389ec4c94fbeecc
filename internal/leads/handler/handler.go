// Package handler exposes the lead listing and fee endpoints.
package handler

import (
	"net/http"

	"landing_backend/internal/leads/repository"
	"landing_backend/internal/leads/service"
	"landing_backend/internal/leads/transport"
	"landing_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const msgInvalidLeadID = "invalid lead ID"

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// List returns all leads, newest first.
// GET /leads
func (h *Handler) List(c *gin.Context) {
	leads, err := h.svc.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	result := make([]transport.LeadResponse, len(leads))
	for i, lead := range leads {
		result[i] = transport.ToLeadResponse(lead)
	}
	httpkit.OK(c, result)
}

// CollectFee records the operator collecting a success fee.
// POST /admin/leads/:id/collect-fee
func (h *Handler) CollectFee(c *gin.Context) {
	id, ok := parseLeadID(c)
	if !ok {
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	lead, err := h.svc.CollectFee(c.Request.Context(), id, identity.Email())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToLeadResponse(lead))
}

// UncollectFee reverses a fee collection.
// POST /admin/leads/:id/uncollect-fee
func (h *Handler) UncollectFee(c *gin.Context) {
	id, ok := parseLeadID(c)
	if !ok {
		return
	}

	lead, err := h.svc.UncollectFee(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToLeadResponse(lead))
}

// FeeSummary returns earned/collected/pending totals.
// GET /admin/fees/summary
func (h *Handler) FeeSummary(c *gin.Context) {
	summary, err := h.svc.FeeSummary(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toFeeSummaryResponse(summary))
}

func toFeeSummaryResponse(summary repository.FeeSummary) transport.FeeSummaryResponse {
	return transport.FeeSummaryResponse{
		EarnedCents:    summary.EarnedCents,
		CollectedCents: summary.CollectedCents,
		PendingCents:   summary.PendingCents,
		EarnedCount:    summary.EarnedCount,
		CollectedCount: summary.CollectedCount,
	}
}

func parseLeadID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLeadID, nil)
		return uuid.Nil, false
	}
	return id, true
}
