package notifications

import (
	"context"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"

	"landing_backend/internal/scheduler"
	"landing_backend/platform/config"
)

// EmailChannel sends lead alerts to the team inbox over SMTP.
type EmailChannel struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
	to        string
}

func NewEmailChannel(cfg config.NotifierConfig) *EmailChannel {
	return &EmailChannel{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
		to:        cfg.GetAlertEmailTo(),
	}
}

func (e *EmailChannel) Name() string { return "email" }

func (e *EmailChannel) Send(ctx context.Context, payload scheduler.NotificationDeliveryPayload) error {
	templateName, subject, data := emailDataFor(payload)
	content, err := renderAlertTemplate(templateName, data)
	if err != nil {
		return err
	}

	msg := gomail.NewMsg()
	if err := msg.FromFormat(e.fromName, e.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(e.to); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, content)

	client, err := gomail.NewClient(e.host,
		gomail.WithPort(e.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(e.username),
		gomail.WithPassword(e.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
