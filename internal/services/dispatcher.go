package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"skyviewsurveys/internal/domain"
)

type dispatcher struct {
	logger       *slog.Logger
	emailService domain.EmailService
	emailLogRepo domain.EmailLogRepository
}

// NewDispatcher returns an EmailDispatcher that sends the client
// acknowledgement and records the outcome on the email log row. Callers must
// only invoke it after the intake transaction has committed.
func NewDispatcher(logger *slog.Logger, emailService domain.EmailService, emailLogRepo domain.EmailLogRepository) domain.EmailDispatcher {
	return &dispatcher{
		logger:       logger,
		emailService: emailService,
		emailLogRepo: emailLogRepo,
	}
}

func (d *dispatcher) Dispatch(ctx context.Context, disp *domain.EmailDispatch) error {
	data := &domain.AcknowledgementEmailData{
		Email:       disp.Recipient,
		Name:        disp.Name,
		ServiceName: serviceDisplayName(disp.ServiceSlug),
	}
	if err := d.emailService.SendClientAcknowledgement(ctx, data); err != nil {
		if markErr := d.emailLogRepo.MarkFailed(ctx, disp.EmailLogID, err.Error()); markErr != nil {
			d.logger.Error("failed to mark email log entry as failed",
				"email_log_id", disp.EmailLogID, "err", markErr)
		}
		return fmt.Errorf("send acknowledgement: %w", err)
	}
	if err := d.emailLogRepo.MarkSent(ctx, disp.EmailLogID); err != nil {
		// The email went out; a stale QUEUED row is for the reconciler to sort out.
		d.logger.Error("failed to mark email log entry as sent",
			"email_log_id", disp.EmailLogID, "err", err)
	}
	return nil
}

// serviceDisplayName turns a service slug into a human-readable name for the
// email, e.g. "drone-road-survey" -> "drone road survey".
func serviceDisplayName(slug string) string {
	return strings.ReplaceAll(slug, "-", " ")
}
