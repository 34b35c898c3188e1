package domain

import (
	"context"
	"time"
)

// Audit event kinds written by the intake core.
const (
	AuditEventEnquiryCreated = "ENQUIRY_CREATED"
	AuditEventAckSent        = "ACK_SENT"
)

// Audit actors. The intake core only ever writes SYSTEM; OPERATOR exists for
// back-office actions recorded against an enquiry.
const (
	AuditActorSystem   = "SYSTEM"
	AuditActorOperator = "OPERATOR"
)

// AuditEvent is an immutable, append-only record of a state change applied to
// an enquiry. Events are totally ordered per enquiry by creation time and are
// never rewritten; the write path lives inside the persistence gateway's
// transaction and exposes no update or delete.
// swagger:model AuditEvent
type AuditEvent struct {
	ID        string         `json:"id"`
	EnquiryID string         `json:"enquiry_id"`
	Kind      string         `json:"kind"`
	Payload   map[string]any `json:"payload"`
	Actor     string         `json:"actor"`
	ActorID   *string        `json:"actor_id,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// AuditEventRepository is the read side of the audit trail.
type AuditEventRepository interface {
	ListByEnquiryID(ctx context.Context, enquiryID string) ([]*AuditEvent, error)
}
