package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"skyviewsurveys/internal/delivery/http/helpers"
	"skyviewsurveys/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeIntakeService implements domain.IntakeService for handler tests.
type fakeIntakeService struct {
	submitErr     error
	submitResult  *domain.IntakeResult
	lastSubmitted *domain.IntakePayload

	getErr     error
	getEnquiry *domain.Enquiry
	getTrail   []*domain.AuditEvent
	lastGetID  string

	listErr        error
	listResult     []*domain.Enquiry
	listTotal      int
	lastListStatus string
	lastListParams domain.PaginationParams
}

func (f *fakeIntakeService) Submit(ctx context.Context, payload *domain.IntakePayload) (*domain.IntakeResult, error) {
	f.lastSubmitted = payload
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	if f.submitResult != nil {
		return f.submitResult, nil
	}
	return &domain.IntakeResult{EnquiryID: "enq-created", Status: domain.EnquiryStatusAckSent}, nil
}

func (f *fakeIntakeService) Get(ctx context.Context, id string) (*domain.Enquiry, []*domain.AuditEvent, error) {
	f.lastGetID = id
	if f.getErr != nil {
		return nil, nil, f.getErr
	}
	return f.getEnquiry, f.getTrail, nil
}

func (f *fakeIntakeService) List(ctx context.Context, status string, p domain.PaginationParams) ([]*domain.Enquiry, int, error) {
	f.lastListStatus = status
	f.lastListParams = p
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	return f.listResult, f.listTotal, nil
}

func validSubmissionJSON() string {
	return `{
		"name": "J. Doe",
		"email": "j@example.com",
		"phone": "07700 900123",
		"service_slug": "drone-road-survey",
		"requested_date": "2026-09-15",
		"site_location": "Bristol",
		"postcode": "BS1 4DJ",
		"job_details": "Survey of a 2km road corridor",
		"consent_share_with_pilots": true,
		"consent_policy_version": "2025-01-01",
		"source_form": "service_page_enquiry"
	}`
}

func TestEnquiryController_Submit_JSON(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		submitErr      error
		wantStatus     int
		wantBodySubstr string
	}{
		{
			name:       "success returns enquiry id and status",
			body:       validSubmissionJSON(),
			wantStatus: http.StatusOK,
		},
		{
			name:           "malformed json",
			body:           `{not json`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "invalid request body",
		},
		{
			name:           "validation failure surfaces field names",
			body:           validSubmissionJSON(),
			submitErr:      &domain.ValidationError{Fields: []string{"email"}},
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "email",
		},
		{
			name:           "persistence failure hides detail",
			body:           validSubmissionJSON(),
			submitErr:      domain.ErrPersistence,
			wantStatus:     http.StatusInternalServerError,
			wantBodySubstr: genericFailureMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeIntakeService{submitErr: tt.submitErr}
			ctrl := NewEnquiryController(testLogger, fake, "/thank-you")
			req := httptest.NewRequest(http.MethodPost, "/api/enquiries", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			ctrl.Submit(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			if tt.wantStatus == http.StatusOK {
				var result domain.IntakeResult
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&result))
				assert.Equal(t, "enq-created", result.EnquiryID)
				assert.Equal(t, domain.EnquiryStatusAckSent, result.Status)
				return
			}
			var errResp helpers.ErrorResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&errResp))
			assert.Contains(t, errResp.Error, tt.wantBodySubstr)
		})
	}
}

// A sentinel persistence failure must never leak SQL or table detail to the caller.
func TestEnquiryController_Submit_WrappedPersistenceError(t *testing.T) {
	fake := &fakeIntakeService{
		submitErr: errors.New("persistence failure: insert enquiry: pq: relation \"enquiries\" does not exist"),
	}
	ctrl := NewEnquiryController(testLogger, fake, "/thank-you")
	req := httptest.NewRequest(http.MethodPost, "/api/enquiries", bytes.NewBufferString(validSubmissionJSON()))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	ctrl.Submit(rr, req)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	var errResp helpers.ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&errResp))
	assert.Equal(t, genericFailureMessage, errResp.Error)
	assert.NotContains(t, errResp.Error, "enquiries")
}

func TestEnquiryController_Submit_Form(t *testing.T) {
	form := url.Values{}
	form.Set("name", "J. Doe")
	form.Set("email", "j@example.com")
	form.Set("service_slug", "drone-roof-survey")
	form.Set("consent_share_with_pilots", "on")
	form.Set("consent_policy_version", "2025-01-01")
	form.Set("source_form", "service_page_enquiry")

	tests := []struct {
		name         string
		contentType  string
		accept       string
		submitErr    error
		wantStatus   int
		wantLocation string
	}{
		{
			name:         "urlencoded form redirects to thank-you",
			contentType:  "application/x-www-form-urlencoded",
			wantStatus:   http.StatusSeeOther,
			wantLocation: "/thank-you",
		},
		{
			name:        "form validation failure stays a 400",
			contentType: "application/x-www-form-urlencoded",
			submitErr:   &domain.ValidationError{Fields: []string{"email"}},
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "form persistence failure stays a 500",
			contentType: "application/x-www-form-urlencoded",
			submitErr:   domain.ErrPersistence,
			wantStatus:  http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeIntakeService{submitErr: tt.submitErr}
			ctrl := NewEnquiryController(testLogger, fake, "/thank-you")
			req := httptest.NewRequest(http.MethodPost, "/api/enquiries", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", tt.contentType)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			rr := httptest.NewRecorder()

			ctrl.Submit(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, rr.Header().Get("Location"))
			}
			if tt.wantStatus == http.StatusSeeOther {
				require.NotNil(t, fake.lastSubmitted)
				assert.Equal(t, "J. Doe", fake.lastSubmitted.Name)
				assert.True(t, fake.lastSubmitted.ConsentShareWithPilots)
			}
		})
	}
}

func TestEnquiryController_Submit_JSONWithHTMLAcceptRedirects(t *testing.T) {
	fake := &fakeIntakeService{}
	ctrl := NewEnquiryController(testLogger, fake, "/thank-you")
	req := httptest.NewRequest(http.MethodPost, "/api/enquiries", bytes.NewBufferString(validSubmissionJSON()))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	rr := httptest.NewRecorder()

	ctrl.Submit(rr, req)

	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/thank-you", rr.Header().Get("Location"))
}

func TestEnquiryController_Submit_CapturesReferer(t *testing.T) {
	fake := &fakeIntakeService{}
	ctrl := NewEnquiryController(testLogger, fake, "/thank-you")
	req := httptest.NewRequest(http.MethodPost, "/api/enquiries", bytes.NewBufferString(validSubmissionJSON()))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Referer", "https://skyviewsurveys.example/services/drone-road-survey")
	rr := httptest.NewRecorder()

	ctrl.Submit(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, fake.lastSubmitted)
	assert.Equal(t, "https://skyviewsurveys.example/services/drone-road-survey", fake.lastSubmitted.Referer)
}

func TestEnquiryController_Submit_MultipartForm(t *testing.T) {
	var buf bytes.Buffer
	body := "--boundary\r\n" +
		"Content-Disposition: form-data; name=\"name\"\r\n\r\nJ. Doe\r\n" +
		"--boundary\r\n" +
		"Content-Disposition: form-data; name=\"email\"\r\n\r\nj@example.com\r\n" +
		"--boundary\r\n" +
		"Content-Disposition: form-data; name=\"service_slug\"\r\n\r\ndrone-road-survey\r\n" +
		"--boundary\r\n" +
		"Content-Disposition: form-data; name=\"consent_share_with_pilots\"\r\n\r\ntrue\r\n" +
		"--boundary\r\n" +
		"Content-Disposition: form-data; name=\"consent_policy_version\"\r\n\r\n2025-01-01\r\n" +
		"--boundary--\r\n"
	buf.WriteString(body)

	fake := &fakeIntakeService{}
	ctrl := NewEnquiryController(testLogger, fake, "/thank-you")
	req := httptest.NewRequest(http.MethodPost, "/api/enquiries", &buf)
	req.Header.Set("Content-Type", "multipart/form-data; boundary=boundary")
	rr := httptest.NewRecorder()

	ctrl.Submit(rr, req)

	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.NotNil(t, fake.lastSubmitted)
	assert.Equal(t, "drone-road-survey", fake.lastSubmitted.ServiceSlug)
	assert.True(t, fake.lastSubmitted.ConsentShareWithPilots)
}
