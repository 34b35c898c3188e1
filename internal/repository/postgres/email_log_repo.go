package postgres

import (
	"context"
	"database/sql"

	"skyviewsurveys/internal/domain"
)

type emailLogRepository struct {
	DB *sql.DB
}

func NewEmailLogRepository(db *sql.DB) domain.EmailLogRepository {
	return &emailLogRepository{DB: db}
}

// MarkSent records a successful hand-off to the email provider. This runs
// outside the intake transaction; the QUEUED row it updates is already durable.
func (r *emailLogRepository) MarkSent(ctx context.Context, id string) error {
	query := `
		UPDATE email_log
		SET status = $2, error = NULL, updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query, id, domain.EmailStatusSent)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

// MarkFailed records a failed send attempt. The row stays available for an
// external reconciliation process to retry.
func (r *emailLogRepository) MarkFailed(ctx context.Context, id, reason string) error {
	query := `
		UPDATE email_log
		SET status = $2, error = $3, updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query, id, domain.EmailStatusFailed, reason)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *emailLogRepository) ListByEnquiryID(ctx context.Context, enquiryID string) ([]*domain.EmailLogEntry, error) {
	query := `
		SELECT id, enquiry_id, template_key, recipient, status, error, created_at, updated_at
		FROM email_log
		WHERE enquiry_id = $1
		ORDER BY created_at
	`
	rows, err := r.DB.QueryContext(ctx, query, enquiryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.EmailLogEntry
	for rows.Next() {
		e := &domain.EmailLogEntry{}
		if err := rows.Scan(&e.ID, &e.EnquiryID, &e.TemplateKey, &e.Recipient, &e.Status, &e.Error, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
