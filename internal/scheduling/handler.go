package scheduling

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"

	"landing_backend/internal/leads/domain"
	"landing_backend/platform/httpkit"
	"landing_backend/platform/logger"
)

const maxWebhookBody = 1 << 20 // 1 MiB

// Handler exposes the Calendly webhook endpoint and the QR code
// rendering of the public scheduling links.
type Handler struct {
	service    *Service
	links      LinkProvider
	signingKey string
	tolerance  time.Duration
	log        *logger.Logger
}

func NewHandler(service *Service, links LinkProvider, signingKey string, tolerance time.Duration, log *logger.Logger) *Handler {
	return &Handler{
		service:    service,
		links:      links,
		signingKey: signingKey,
		tolerance:  tolerance,
		log:        log,
	}
}

// HandleCalendlyWebhook receives booking notifications from Calendly.
// The body is read raw because the signature covers the exact bytes.
func (h *Handler) HandleCalendlyWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "failed to read request body", nil)
		return
	}

	if h.signingKey == "" {
		// Only reachable outside production; config.Load refuses to
		// start a production deployment without a signing key.
		h.log.Warn("calendly signing key not configured, accepting unsigned webhook")
	} else if err := VerifySignature(c.GetHeader(SignatureHeader), body, h.signingKey, h.tolerance, time.Now()); err != nil {
		h.log.WebhookEvent("unknown", "", "rejected")
		httpkit.Error(c, http.StatusForbidden, "invalid webhook signature", nil)
		return
	}

	var envelope WebhookEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "malformed webhook payload", nil)
		return
	}

	result, err := h.service.ProcessWebhook(c.Request.Context(), envelope)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"received": true, "outcome": result.Outcome})
}

// HandleSchedulingLinkQR renders the scheduling link for an intent type
// as a PNG QR code, for print and slide material.
func (h *Handler) HandleSchedulingLinkQR(c *gin.Context) {
	intentType := c.Param("intentType")
	if !domain.ValidLeadType(intentType) {
		httpkit.Error(c, http.StatusBadRequest, "unknown intent type", nil)
		return
	}

	link, err := h.links.LinkFor(c.Request.Context(), domain.LeadType(intentType))
	if httpkit.HandleError(c, err) {
		return
	}

	png, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "failed to render qr code", nil)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
