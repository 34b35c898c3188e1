package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"skyviewsurveys/internal/domain"
)

type enquiryRepository struct {
	DB *sql.DB
}

func NewEnquiryRepository(db *sql.DB) domain.EnquiryRepository {
	return &enquiryRepository{DB: db}
}

const enquiryColumns = `id, name, email, phone, service_slug, requested_date, date_flexibility,
	site_location, postcode, job_details, consent_share_with_pilots, consent_policy_version,
	marketplace_terms_version, consent_at, source_page, source_form, status, created_at, updated_at`

// CreateIntake runs the intake unit of work in a single transaction:
// insert the enquiry as NEW, append the ENQUIRY_CREATED audit event,
// transition to ACK_SENT, append the ACK_SENT audit event, and queue the
// acknowledgement email log row. Either every write lands or none do; an
// enquiry can never be observed as NEW without its matching audit trail.
func (r *enquiryRepository) CreateIntake(ctx context.Context, in *domain.EnquiryInput) (*domain.IntakeResult, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: begin: %v", domain.ErrPersistence, err)
	}
	// Rollback is a no-op once the transaction has committed.
	defer tx.Rollback()

	insertEnquiry := `
		INSERT INTO enquiries (
			name, email, phone, service_slug, requested_date, date_flexibility,
			site_location, postcode, job_details, consent_share_with_pilots,
			consent_policy_version, marketplace_terms_version, consent_at,
			source_page, source_form, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id
	`
	var enquiryID string
	err = tx.QueryRowContext(ctx, insertEnquiry,
		in.Name, in.Email, in.Phone, in.ServiceSlug, in.RequestedDate, in.DateFlexibility,
		in.SiteLocation, in.Postcode, in.JobDetails, in.ConsentShareWithPilots,
		in.ConsentPolicyVersion, in.MarketplaceTermsVersion, in.ConsentAt,
		in.SourcePage, in.SourceForm, domain.EnquiryStatusNew,
	).Scan(&enquiryID)
	if err != nil {
		return nil, fmt.Errorf("%w: insert enquiry: %v", domain.ErrPersistence, err)
	}

	createdPayload := map[string]any{
		"service_slug": in.ServiceSlug,
		"source_page":  in.SourcePage,
		"source_form":  in.SourceForm,
	}
	if err := appendAuditEvent(ctx, tx, enquiryID, domain.AuditEventEnquiryCreated, createdPayload, domain.AuditActorSystem, nil); err != nil {
		return nil, fmt.Errorf("%w: audit %s: %v", domain.ErrPersistence, domain.AuditEventEnquiryCreated, err)
	}

	updateStatus := `
		UPDATE enquiries
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`
	if _, err := tx.ExecContext(ctx, updateStatus, enquiryID, domain.EnquiryStatusAckSent); err != nil {
		return nil, fmt.Errorf("%w: transition to %s: %v", domain.ErrPersistence, domain.EnquiryStatusAckSent, err)
	}

	if err := appendAuditEvent(ctx, tx, enquiryID, domain.AuditEventAckSent, nil, domain.AuditActorSystem, nil); err != nil {
		return nil, fmt.Errorf("%w: audit %s: %v", domain.ErrPersistence, domain.AuditEventAckSent, err)
	}

	insertEmailLog := `
		INSERT INTO email_log (enquiry_id, template_key, recipient, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var emailLogID string
	err = tx.QueryRowContext(ctx, insertEmailLog,
		enquiryID, domain.TemplateClientAcknowledgement, in.Email, domain.EmailStatusQueued,
	).Scan(&emailLogID)
	if err != nil {
		return nil, fmt.Errorf("%w: queue acknowledgement email: %v", domain.ErrPersistence, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit: %v", domain.ErrPersistence, err)
	}

	return &domain.IntakeResult{
		EnquiryID:   enquiryID,
		Status:      domain.EnquiryStatusAckSent,
		EmailLogID:  emailLogID,
		Name:        in.Name,
		Email:       in.Email,
		ServiceSlug: in.ServiceSlug,
	}, nil
}

func (r *enquiryRepository) GetByID(ctx context.Context, id string) (*domain.Enquiry, error) {
	query := `
		SELECT ` + enquiryColumns + `
		FROM enquiries
		WHERE id = $1
	`
	e := &domain.Enquiry{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.Name, &e.Email, &e.Phone, &e.ServiceSlug, &e.RequestedDate, &e.DateFlexibility,
		&e.SiteLocation, &e.Postcode, &e.JobDetails, &e.ConsentShareWithPilots, &e.ConsentPolicyVersion,
		&e.MarketplaceTermsVersion, &e.ConsentAt, &e.SourcePage, &e.SourceForm, &e.Status,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// List returns enquiries newest first, optionally filtered by status, plus the
// total count for the filter.
func (r *enquiryRepository) List(ctx context.Context, status string, p domain.PaginationParams) ([]*domain.Enquiry, int, error) {
	where := ""
	args := []any{}
	if status != "" {
		where = "WHERE status = $1"
		args = append(args, status)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM enquiries ` + where
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limitArg := len(args) + 1
	offsetArg := len(args) + 2
	args = append(args, p.PageSize, p.Offset())
	query := fmt.Sprintf(`
		SELECT `+enquiryColumns+`
		FROM enquiries
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, limitArg, offsetArg)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var enquiries []*domain.Enquiry
	for rows.Next() {
		e := &domain.Enquiry{}
		if err := rows.Scan(
			&e.ID, &e.Name, &e.Email, &e.Phone, &e.ServiceSlug, &e.RequestedDate, &e.DateFlexibility,
			&e.SiteLocation, &e.Postcode, &e.JobDetails, &e.ConsentShareWithPilots, &e.ConsentPolicyVersion,
			&e.MarketplaceTermsVersion, &e.ConsentAt, &e.SourcePage, &e.SourceForm, &e.Status,
			&e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		enquiries = append(enquiries, e)
	}
	return enquiries, total, rows.Err()
}
