package notifications

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"landing_backend/internal/scheduler"
)

//go:embed templates/*.html
var templateFS embed.FS

type alertEmailData struct {
	Title                string
	Heading              string
	Name                 string
	Company              string
	Email                string
	PainPoint            string
	CompanySize          string
	LeadType             string
	IsHighIntent         bool
	ScheduledAtFormatted string
	FeeFormatted         string
}

func renderAlertTemplate(name string, data alertEmailData) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse alert template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute alert template %s: %w", name, err)
	}
	return buf.String(), nil
}

func emailDataFor(payload scheduler.NotificationDeliveryPayload) (templateName string, subject string, data alertEmailData) {
	data = alertEmailData{
		Name:         payload.Name,
		Company:      payload.Company,
		Email:        payload.Email,
		PainPoint:    payload.PainPoint,
		CompanySize:  payload.CompanySize,
		LeadType:     payload.LeadType,
		IsHighIntent: payload.IsHighIntent,
	}

	switch payload.Kind {
	case scheduler.KindCallBooked:
		if payload.ScheduledAt != nil {
			data.ScheduledAtFormatted = payload.ScheduledAt.Format(time.RFC1123)
		}
		if payload.SuccessFeeCents > 0 {
			data.FeeFormatted = formatCurrencyUSD(payload.SuccessFeeCents)
		}
		data.Title = "Call booked"
		data.Heading = "Call booked: " + payload.Company
		return "call_booked.html", "Call booked: " + payload.Name + " (" + payload.Company + ")", data
	case scheduler.KindFollowUp:
		data.Title = "Follow-up due"
		data.Heading = "Follow-up due: " + payload.Company
		return "follow_up.html", "Follow-up due: " + payload.Name + " (" + payload.Company + ")", data
	default:
		data.Title = "New qualified lead"
		data.Heading = "New qualified lead: " + payload.Company
		return "lead_qualified.html", "New lead: " + payload.Name + " (" + payload.Company + ")", data
	}
}

func formatCurrencyUSD(cents int64) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}
