package scheduling

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"landing_backend/internal/leads/domain"
	"landing_backend/platform/config"
)

const calendlyAPIBase = "https://api.calendly.com"

// CalendlyClient mints single-use scheduling links through the Calendly
// REST API. Each link admits exactly one booking, which keeps the
// invitee URI we later receive on the webhook unambiguous.
type CalendlyClient struct {
	token             string
	eventTypeBusiness string
	eventTypeVenture  string
	baseURL           string
	httpClient        *http.Client
}

func NewCalendlyClient(cfg config.SchedulingConfig) *CalendlyClient {
	return &CalendlyClient{
		token:             cfg.GetCalendlyToken(),
		eventTypeBusiness: cfg.GetCalendlyEventTypeBusiness(),
		eventTypeVenture:  cfg.GetCalendlyEventTypeVenture(),
		baseURL:           calendlyAPIBase,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type schedulingLinkRequest struct {
	MaxEventCount int    `json:"max_event_count"`
	Owner         string `json:"owner"`
	OwnerType     string `json:"owner_type"`
}

type schedulingLinkResponse struct {
	Resource struct {
		BookingURL string `json:"booking_url"`
	} `json:"resource"`
}

// LinkFor creates a single-use booking link for the lead's intent.
func (c *CalendlyClient) LinkFor(ctx context.Context, leadType domain.LeadType) (string, error) {
	eventType := c.eventTypeBusiness
	if leadType == domain.LeadTypeVentureStudio {
		eventType = c.eventTypeVenture
	}
	if c.token == "" || eventType == "" {
		return "", fmt.Errorf("calendly not configured for lead type %s", leadType)
	}

	bodyBytes, err := json.Marshal(schedulingLinkRequest{
		MaxEventCount: 1,
		Owner:         eventType,
		OwnerType:     "EventType",
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal scheduling link request: %w", err)
	}

	url := c.baseURL + "/scheduling_links"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create scheduling link request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("scheduling link request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("calendly returned %d: %s", resp.StatusCode, string(respBody))
	}

	var linkResp schedulingLinkResponse
	if err := json.NewDecoder(resp.Body).Decode(&linkResp); err != nil {
		return "", fmt.Errorf("failed to decode scheduling link response: %w", err)
	}
	if linkResp.Resource.BookingURL == "" {
		return "", fmt.Errorf("calendly response missing booking url")
	}

	return linkResp.Resource.BookingURL, nil
}
