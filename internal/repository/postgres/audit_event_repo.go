package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"skyviewsurveys/internal/domain"
)

// appendAuditEvent writes one immutable audit event inside an existing intake
// transaction. It is deliberately not exported and takes a *sql.Tx: the audit
// trail has no standalone transaction boundary and no update or delete path.
func appendAuditEvent(ctx context.Context, tx *sql.Tx, enquiryID, kind string, payload map[string]any, actor string, actorID *string) error {
	if payload == nil {
		payload = map[string]any{}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	query := `
		INSERT INTO enquiry_audit_events (enquiry_id, kind, payload, actor, actor_id)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = tx.ExecContext(ctx, query, enquiryID, kind, raw, actor, actorID)
	return err
}

type auditEventRepository struct {
	DB *sql.DB
}

func NewAuditEventRepository(db *sql.DB) domain.AuditEventRepository {
	return &auditEventRepository{DB: db}
}

// ListByEnquiryID returns the audit trail for one enquiry in creation order.
func (r *auditEventRepository) ListByEnquiryID(ctx context.Context, enquiryID string) ([]*domain.AuditEvent, error) {
	query := `
		SELECT id, enquiry_id, kind, payload, actor, actor_id, created_at
		FROM enquiry_audit_events
		WHERE enquiry_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.DB.QueryContext(ctx, query, enquiryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.AuditEvent
	for rows.Next() {
		ev := &domain.AuditEvent{}
		var raw []byte
		if err := rows.Scan(&ev.ID, &ev.EnquiryID, &ev.Kind, &raw, &ev.Actor, &ev.ActorID, &ev.CreatedAt); err != nil {
			return nil, err
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &ev.Payload); err != nil {
				return nil, fmt.Errorf("unmarshal payload for event %s: %w", ev.ID, err)
			}
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
