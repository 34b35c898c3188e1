package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// AcknowledgementEmailData holds data for the client acknowledgement email.
type AcknowledgementEmailData struct {
	Email       string
	Name        string
	ServiceName string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendClientAcknowledgement(ctx context.Context, data *AcknowledgementEmailData) error
}
