package domain

import (
	"context"
	"time"
)

// Email log delivery statuses. A row starts QUEUED inside the intake
// transaction; the dispatcher moves it to SENT or FAILED after commit.
const (
	EmailStatusQueued = "QUEUED"
	EmailStatusSent   = "SENT"
	EmailStatusFailed = "FAILED"
)

// TemplateClientAcknowledgement is the template key for the enquiry
// acknowledgement email sent to the customer.
const TemplateClientAcknowledgement = "client_acknowledgement"

// EmailLogEntry is a durable record of intent to send an email, distinct from
// actual delivery. It is created in the same transaction as the enquiry so
// the promise survives a crash between commit and send.
type EmailLogEntry struct {
	ID          string    `json:"id"`
	EnquiryID   string    `json:"enquiry_id"`
	TemplateKey string    `json:"template_key"`
	Recipient   string    `json:"recipient"`
	Status      string    `json:"status"`
	Error       *string   `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EmailLogRepository updates delivery outcomes on queued email log rows.
// Row creation happens inside EnquiryRepository.CreateIntake.
type EmailLogRepository interface {
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id, reason string) error
	ListByEnquiryID(ctx context.Context, enquiryID string) ([]*EmailLogEntry, error)
}

// EmailDispatch carries what the dispatcher needs to send the acknowledgement
// after the intake transaction has committed.
type EmailDispatch struct {
	EmailLogID  string
	EnquiryID   string
	Recipient   string
	Name        string
	ServiceSlug string
}

// EmailDispatcher hands an email-send request to the delivery collaborator.
// It must never be invoked before the intake transaction has committed.
type EmailDispatcher interface {
	Dispatch(ctx context.Context, d *EmailDispatch) error
}
