package services

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"skyviewsurveys/internal/domain"
)

// defaultMarketplaceTermsVersion is stamped on submissions that arrive without
// a marketplace terms version, matching the version published on the site.
const defaultMarketplaceTermsVersion = "2025-03-01"

// dispatchTimeout bounds the post-commit acknowledgement send. The dispatch
// runs on a background context because the request may already be gone.
const dispatchTimeout = 30 * time.Second

var (
	emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	slugRegexp  = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

type intakeService struct {
	logger     *slog.Logger
	repo       domain.EnquiryRepository
	auditRepo  domain.AuditEventRepository
	dispatcher domain.EmailDispatcher
}

// NewIntakeService creates an IntakeService over the persistence gateway and
// the post-commit email dispatcher.
func NewIntakeService(logger *slog.Logger, repo domain.EnquiryRepository, auditRepo domain.AuditEventRepository, dispatcher domain.EmailDispatcher) domain.IntakeService {
	return &intakeService{
		logger:     logger,
		repo:       repo,
		auditRepo:  auditRepo,
		dispatcher: dispatcher,
	}
}

// Submit runs the intake sequence: normalize, validate, persist in one
// transaction, then trigger the acknowledgement email. The dispatch is
// fire-and-forget: it starts only after the transaction has committed and its
// failure never unwinds the committed enquiry.
func (s *intakeService) Submit(ctx context.Context, payload *domain.IntakePayload) (*domain.IntakeResult, error) {
	if payload == nil {
		return nil, &domain.ValidationError{Fields: []string{"payload"}}
	}
	normalizeIntake(payload)
	input, err := validateIntake(payload)
	if err != nil {
		return nil, err
	}

	result, err := s.repo.CreateIntake(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("intake transaction: %w", err)
	}

	dispatch := &domain.EmailDispatch{
		EmailLogID:  result.EmailLogID,
		EnquiryID:   result.EnquiryID,
		Recipient:   result.Email,
		Name:        result.Name,
		ServiceSlug: result.ServiceSlug,
	}
	go s.dispatchAcknowledgement(dispatch)

	return result, nil
}

// dispatchAcknowledgement runs detached from the request goroutine. Errors are
// reported but never propagated: the enquiry is already committed and the
// QUEUED email log row is the durable record an external reconciler can retry.
func (s *intakeService) dispatchAcknowledgement(d *domain.EmailDispatch) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("acknowledgement dispatch panicked",
				"enquiry_id", d.EnquiryID, "email_log_id", d.EmailLogID, "panic", rec)
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()
	if err := s.dispatcher.Dispatch(ctx, d); err != nil {
		s.logger.Error("acknowledgement dispatch failed",
			"enquiry_id", d.EnquiryID, "email_log_id", d.EmailLogID, "err", err)
	}
}

func (s *intakeService) Get(ctx context.Context, id string) (*domain.Enquiry, []*domain.AuditEvent, error) {
	enquiry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	events, err := s.auditRepo.ListByEnquiryID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load audit trail: %w", err)
	}
	return enquiry, events, nil
}

func (s *intakeService) List(ctx context.Context, status string, p domain.PaginationParams) ([]*domain.Enquiry, int, error) {
	if status != "" && status != domain.EnquiryStatusNew && status != domain.EnquiryStatusAckSent {
		return nil, 0, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}
	return s.repo.List(ctx, status, p)
}

// normalizeIntake applies the pre-validation defaults with a fixed precedence:
// an explicit source_page wins over the Referer header; the marketplace terms
// version falls back to the current published literal.
func normalizeIntake(p *domain.IntakePayload) {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(strings.ToLower(p.Email))
	p.Phone = strings.TrimSpace(p.Phone)
	p.ServiceSlug = strings.TrimSpace(strings.ToLower(p.ServiceSlug))
	p.RequestedDate = strings.TrimSpace(p.RequestedDate)
	p.DateFlexibility = strings.TrimSpace(p.DateFlexibility)
	p.SiteLocation = strings.TrimSpace(p.SiteLocation)
	p.Postcode = strings.TrimSpace(strings.ToUpper(p.Postcode))
	p.JobDetails = strings.TrimSpace(p.JobDetails)
	p.ConsentPolicyVersion = strings.TrimSpace(p.ConsentPolicyVersion)
	p.MarketplaceTermsVersion = strings.TrimSpace(p.MarketplaceTermsVersion)
	p.SourcePage = strings.TrimSpace(p.SourcePage)
	p.SourceForm = strings.TrimSpace(p.SourceForm)

	if p.SourcePage == "" {
		p.SourcePage = strings.TrimSpace(p.Referer)
	}
	if p.MarketplaceTermsVersion == "" {
		p.MarketplaceTermsVersion = defaultMarketplaceTermsVersion
	}
}

// validateIntake type-checks a normalized payload into an EnquiryInput.
// It is pure: unknown fields were dropped at decode time, and a missing
// required field fails validation rather than being filled in.
func validateIntake(p *domain.IntakePayload) (*domain.EnquiryInput, error) {
	var fields []string
	if p.Name == "" {
		fields = append(fields, "name")
	}
	if p.Email == "" || !emailRegexp.MatchString(p.Email) {
		fields = append(fields, "email")
	}
	if p.ServiceSlug == "" || !slugRegexp.MatchString(p.ServiceSlug) {
		fields = append(fields, "service_slug")
	}
	if !p.ConsentShareWithPilots {
		fields = append(fields, "consent_share_with_pilots")
	}
	if p.ConsentPolicyVersion == "" {
		fields = append(fields, "consent_policy_version")
	}
	if len(fields) > 0 {
		return nil, &domain.ValidationError{Fields: fields}
	}

	return &domain.EnquiryInput{
		Name:                    p.Name,
		Email:                   p.Email,
		Phone:                   p.Phone,
		ServiceSlug:             p.ServiceSlug,
		RequestedDate:           p.RequestedDate,
		DateFlexibility:         p.DateFlexibility,
		SiteLocation:            p.SiteLocation,
		Postcode:                p.Postcode,
		JobDetails:              p.JobDetails,
		ConsentShareWithPilots:  p.ConsentShareWithPilots,
		ConsentPolicyVersion:    p.ConsentPolicyVersion,
		MarketplaceTermsVersion: p.MarketplaceTermsVersion,
		ConsentAt:               time.Now().UTC(),
		SourcePage:              p.SourcePage,
		SourceForm:              p.SourceForm,
	}, nil
}
