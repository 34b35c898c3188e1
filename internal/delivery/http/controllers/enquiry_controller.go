package controllers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"skyviewsurveys/internal/delivery/http/helpers"
	"skyviewsurveys/internal/domain"
)

// genericFailureMessage is the only thing a caller sees when the intake
// transaction fails; internal detail stays in the logs.
const genericFailureMessage = "we could not process your enquiry, please try again shortly"

type EnquiryController struct {
	Logger      *slog.Logger
	Service     domain.IntakeService
	ThankYouURL string
}

func NewEnquiryController(logger *slog.Logger, svc domain.IntakeService, thankYouURL string) *EnquiryController {
	return &EnquiryController{
		Logger:      logger,
		Service:     svc,
		ThankYouURL: thankYouURL,
	}
}

// Submit godoc
// @Summary Submit a new enquiry
// @Description Records a customer enquiry from a service page form and queues an acknowledgement email. Accepts JSON or form-encoded bodies. Browser-style form submissions are redirected to the thank-you page with 303; programmatic submissions receive the enquiry id and status as JSON.
// @Tags enquiries
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Param body body domain.IntakePayload true "Enquiry submission"
// @Success 200 {object} domain.IntakeResult
// @Success 303 {string} string "Redirect to the thank-you page"
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /api/enquiries [post]
func (c *EnquiryController) Submit(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeIntakePayload(r)
	if err != nil {
		helpers.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	payload.Referer = r.Referer()

	result, err := c.Service.Submit(r.Context(), payload)
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			helpers.WriteError(w, http.StatusBadRequest, vErr.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "enquiry intake failed",
			"path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteError(w, http.StatusInternalServerError, genericFailureMessage)
		return
	}

	if wantsRedirect(r) {
		http.Redirect(w, r, c.ThankYouURL, http.StatusSeeOther)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, result)
}

// decodeIntakePayload reads the submission from either a JSON body or a
// form-encoded body. Unknown fields are ignored; type checking of the known
// fields happens in the service.
func decodeIntakePayload(r *http.Request) (*domain.IntakePayload, error) {
	mediaType := requestMediaType(r)
	if mediaType == "application/json" || mediaType == "" {
		payload := &domain.IntakePayload{}
		if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
			return nil, err
		}
		return payload, nil
	}

	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			return nil, err
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return payloadFromForm(r.PostForm), nil
}

func payloadFromForm(form url.Values) *domain.IntakePayload {
	return &domain.IntakePayload{
		Name:                    form.Get("name"),
		Email:                   form.Get("email"),
		Phone:                   form.Get("phone"),
		ServiceSlug:             form.Get("service_slug"),
		RequestedDate:           form.Get("requested_date"),
		DateFlexibility:         form.Get("date_flexibility"),
		SiteLocation:            form.Get("site_location"),
		Postcode:                form.Get("postcode"),
		JobDetails:              form.Get("job_details"),
		ConsentShareWithPilots:  formBool(form.Get("consent_share_with_pilots")),
		ConsentPolicyVersion:    form.Get("consent_policy_version"),
		MarketplaceTermsVersion: form.Get("marketplace_terms_version"),
		SourcePage:              form.Get("source_page"),
		SourceForm:              form.Get("source_form"),
	}
}

// formBool accepts the values browsers send for checked checkboxes.
func formBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "on", "1", "yes":
		return true
	}
	return false
}

func requestMediaType(r *http.Request) string {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return ct
	}
	return mediaType
}

// wantsRedirect reports whether the caller is a browser-style form submission
// that expects a 303 to the thank-you page rather than a JSON body.
func wantsRedirect(r *http.Request) bool {
	switch requestMediaType(r) {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
