package domain

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Enquiry status lifecycle. NEW is assigned at insert; ACK_SENT once the
// acknowledgement email has been queued inside the same transaction.
const (
	EnquiryStatusNew     = "NEW"
	EnquiryStatusAckSent = "ACK_SENT"
)

// Sentinel errors shared across the intake core.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrPersistence  = errors.New("persistence failure")
)

// Enquiry is a customer's service request, the aggregate root of the intake core.
// Audit events and email log entries are owned by and scoped to one enquiry.
// swagger:model Enquiry
type Enquiry struct {
	ID                      string    `json:"id"`
	Name                    string    `json:"name"`
	Email                   string    `json:"email"`
	Phone                   string    `json:"phone"`
	ServiceSlug             string    `json:"service_slug"`
	RequestedDate           string    `json:"requested_date"`
	DateFlexibility         string    `json:"date_flexibility"`
	SiteLocation            string    `json:"site_location"`
	Postcode                string    `json:"postcode"`
	JobDetails              string    `json:"job_details"`
	ConsentShareWithPilots  bool      `json:"consent_share_with_pilots"`
	ConsentPolicyVersion    string    `json:"consent_policy_version"`
	MarketplaceTermsVersion string    `json:"marketplace_terms_version"`
	ConsentAt               time.Time `json:"consent_at"`
	SourcePage              string    `json:"source_page"`
	SourceForm              string    `json:"source_form"`
	Status                  string    `json:"status"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

// IntakePayload is the raw, untrusted submission body before normalization
// and validation. Unknown fields in the wire payload are ignored.
type IntakePayload struct {
	Name                    string `json:"name"`
	Email                   string `json:"email"`
	Phone                   string `json:"phone"`
	ServiceSlug             string `json:"service_slug"`
	RequestedDate           string `json:"requested_date"`
	DateFlexibility         string `json:"date_flexibility"`
	SiteLocation            string `json:"site_location"`
	Postcode                string `json:"postcode"`
	JobDetails              string `json:"job_details"`
	ConsentShareWithPilots  bool   `json:"consent_share_with_pilots"`
	ConsentPolicyVersion    string `json:"consent_policy_version"`
	MarketplaceTermsVersion string `json:"marketplace_terms_version"`
	SourcePage              string `json:"source_page"`
	SourceForm              string `json:"source_form"`

	// Referer carries the HTTP Referer header; it is the fallback for
	// SourcePage and never decoded from the body.
	Referer string `json:"-"`
}

// EnquiryInput is a validated, normalized submission ready for the
// persistence gateway. All required fields are present.
type EnquiryInput struct {
	Name                    string
	Email                   string
	Phone                   string
	ServiceSlug             string
	RequestedDate           string
	DateFlexibility         string
	SiteLocation            string
	Postcode                string
	JobDetails              string
	ConsentShareWithPilots  bool
	ConsentPolicyVersion    string
	MarketplaceTermsVersion string
	ConsentAt               time.Time
	SourcePage              string
	SourceForm              string
}

// IntakeResult is the single value returned once the intake transaction has
// committed. Unexported-from-JSON fields feed the acknowledgement email.
// swagger:model IntakeResult
type IntakeResult struct {
	EnquiryID   string `json:"enquiry_id"`
	Status      string `json:"status"`
	EmailLogID  string `json:"-"`
	Name        string `json:"-"`
	Email       string `json:"-"`
	ServiceSlug string `json:"-"`
}

// ValidationError reports the submission fields that are missing or malformed.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing or invalid fields: " + strings.Join(e.Fields, ", ")
}

// Unwrap lets callers match with errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// EnquiryRepository is the persistence gateway for enquiries. CreateIntake is
// one atomic unit of work: insert the enquiry, write both audit events,
// transition the status, and queue the acknowledgement email log row.
type EnquiryRepository interface {
	CreateIntake(ctx context.Context, in *EnquiryInput) (*IntakeResult, error)
	GetByID(ctx context.Context, id string) (*Enquiry, error)
	List(ctx context.Context, status string, p PaginationParams) ([]*Enquiry, int, error)
}

// IntakeService defines the business logic for enquiry intake and the
// back-office read side.
type IntakeService interface {
	Submit(ctx context.Context, payload *IntakePayload) (*IntakeResult, error)
	Get(ctx context.Context, id string) (*Enquiry, []*AuditEvent, error)
	List(ctx context.Context, status string, p PaginationParams) ([]*Enquiry, int, error)
}
