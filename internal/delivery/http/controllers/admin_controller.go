package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"

	"skyviewsurveys/internal/delivery/http/helpers"
	"skyviewsurveys/internal/domain"
)

// uuidRegex matches a canonical UUID string (8-4-4-4-12 hex).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

type AdminController struct {
	Logger  *slog.Logger
	Service domain.IntakeService
}

func NewAdminController(logger *slog.Logger, svc domain.IntakeService) *AdminController {
	return &AdminController{
		Logger:  logger,
		Service: svc,
	}
}

// ListEnquiriesResponse is the response body for GET /admin/enquiries.
type ListEnquiriesResponse struct {
	Enquiries []*domain.Enquiry      `json:"enquiries"`
	Meta      helpers.PaginationMeta `json:"meta"`
}

// ListEnquiries godoc
// @Summary List enquiries
// @Description Returns enquiries newest first with pagination. Supports filtering by status (NEW or ACK_SENT).
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status (NEW or ACK_SENT)"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListEnquiriesResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /admin/enquiries [get]
func (c *AdminController) ListEnquiries(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	status := r.URL.Query().Get("status")

	enquiries, total, err := c.Service.List(r.Context(), status, params)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed",
			"path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteError(w, http.StatusInternalServerError, "failed to list enquiries")
		return
	}

	if enquiries == nil {
		enquiries = []*domain.Enquiry{}
	}
	helpers.WriteJSON(w, http.StatusOK, ListEnquiriesResponse{
		Enquiries: enquiries,
		Meta:      helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// GetEnquiryResponse is the response body for GET /admin/enquiries/{enquiryID}.
type GetEnquiryResponse struct {
	Enquiry    *domain.Enquiry      `json:"enquiry"`
	AuditTrail []*domain.AuditEvent `json:"audit_trail"`
}

// GetEnquiry godoc
// @Summary Get one enquiry with its audit trail
// @Description Returns the enquiry and its full append-only audit trail in creation order.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param enquiryID path string true "Enquiry ID (UUID)"
// @Success 200 {object} controllers.GetEnquiryResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /admin/enquiries/{enquiryID} [get]
func (c *AdminController) GetEnquiry(w http.ResponseWriter, r *http.Request) {
	enquiryID := r.PathValue("enquiryID")
	if !uuidRegex.MatchString(enquiryID) {
		helpers.WriteError(w, http.StatusBadRequest, "invalid enquiryID")
		return
	}

	enquiry, trail, err := c.Service.Get(r.Context(), enquiryID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteError(w, http.StatusNotFound, "enquiry not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed",
			"path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteError(w, http.StatusInternalServerError, "failed to load enquiry")
		return
	}

	if trail == nil {
		trail = []*domain.AuditEvent{}
	}
	helpers.WriteJSON(w, http.StatusOK, GetEnquiryResponse{
		Enquiry:    enquiry,
		AuditTrail: trail,
	})
}
