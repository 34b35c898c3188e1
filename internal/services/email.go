package services

import (
	"context"
	"fmt"
	"log"

	"skyviewsurveys/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendClientAcknowledgement sends the enquiry acknowledgement email using the
// "client_acknowledgement" template and the given data.
func (s *emailService) SendClientAcknowledgement(ctx context.Context, data *domain.AcknowledgementEmailData) error {
	if data == nil {
		return fmt.Errorf("acknowledgement data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render(domain.TemplateClientAcknowledgement, data)
	if err != nil {
		return fmt.Errorf("failed to render %s template: %w", domain.TemplateClientAcknowledgement, err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send acknowledgement email: %w", err)
	}
	log.Printf("[EMAIL] Acknowledgement sent to %s", data.Email)
	return nil
}
