package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	h "resumemailer/internal/delivery/http/helpers"
	"resumemailer/internal/delivery/http/middleware"
	"resumemailer/internal/domain"
)

// SendBulkRequest is the request body for POST /emails/send-bulk
type SendBulkRequest struct {
	CompanyIDs    []string `json:"company_ids"`
	ResumeID      *string  `json:"resume_id"`
	TemplateID    *string  `json:"template_id"`
	CustomSubject *string  `json:"custom_subject"`
	CustomMessage *string  `json:"custom_message"`
}

// SendTestEmailRequest is the request body for POST /emails/send-test
type SendTestEmailRequest struct {
	Email         string  `json:"email"`
	ResumeID      string  `json:"resume_id"`
	TemplateID    *string `json:"template_id"`
	CustomSubject *string `json:"custom_subject"`
	CustomMessage *string `json:"custom_message"`
}

// Validate implements Validator.
func (s SendTestEmailRequest) Validate() []string {
	var errs []string
	email := strings.TrimSpace(s.Email)
	if email == "" {
		errs = append(errs, "email is required")
	} else if !emailRegexp.MatchString(email) {
		errs = append(errs, "invalid email format")
	}
	if strings.TrimSpace(s.ResumeID) == "" {
		errs = append(errs, "resume_id is required")
	}
	return errs
}

// HistoryListResponse is the response body for GET /emails/history
type HistoryListResponse struct {
	Records []*domain.EmailHistory `json:"records"`
	Total   int                    `json:"total"`
	Page    int                    `json:"page"`
	Limit   int                    `json:"limit"`
}

type EmailController struct {
	Logger   *slog.Logger
	Dispatch domain.DispatchService
	History  domain.HistoryService
}

func NewEmailController(logger *slog.Logger, dispatch domain.DispatchService, history domain.HistoryService) *EmailController {
	return &EmailController{
		Logger:   logger,
		Dispatch: dispatch,
		History:  history,
	}
}

// SendBulk godoc
// @Summary Send a batch of emails
// @Description Render and send one email per selected company, sequentially with a delay between sends. Per-recipient failures do not abort the batch.
// @Tags emails
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SendBulkRequest true "Batch parameters"
// @Success 200 {object} helpers.APIResponse "data contains sent_count, failed_count, total, results"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /emails/send-bulk [post]
func (c *EmailController) SendBulk(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "authentication required")
		return
	}
	var req SendBulkRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	result, err := c.Dispatch.DispatchBatch(r.Context(), userID, &domain.BatchRequest{
		CompanyIDs:    req.CompanyIDs,
		ResumeID:      req.ResumeID,
		TemplateID:    req.TemplateID,
		CustomSubject: req.CustomSubject,
		CustomMessage: req.CustomMessage,
	})
	if err != nil {
		c.writeDispatchError(w, r, err)
		return
	}

	h.WriteJSONSuccess(w, http.StatusOK, result)
}

// SendTest godoc
// @Summary Send a test email
// @Description Render a message against fixture company data and send it to the given address. No history is recorded.
// @Tags emails
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SendTestEmailRequest true "Test send parameters"
// @Success 200 {object} helpers.APIResponse "data contains a confirmation message"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /emails/send-test [post]
func (c *EmailController) SendTest(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "authentication required")
		return
	}
	var req SendTestEmailRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	err := c.Dispatch.SendTest(r.Context(), userID, &domain.TestSendRequest{
		Email:         strings.TrimSpace(req.Email),
		ResumeID:      req.ResumeID,
		TemplateID:    req.TemplateID,
		CustomSubject: req.CustomSubject,
		CustomMessage: req.CustomMessage,
	})
	if err != nil {
		c.writeDispatchError(w, r, err)
		return
	}

	h.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "test email sent successfully"})
}

// ListHistory godoc
// @Summary List email history
// @Description List the user's send attempts, newest first. Supports status, date_from, date_to (YYYY-MM-DD), page, and limit query parameters.
// @Tags emails
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status (sent or failed)"
// @Param date_from query string false "Inclusive lower bound, YYYY-MM-DD"
// @Param date_to query string false "Inclusive upper bound, YYYY-MM-DD"
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 50, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains records, total, page, limit"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /emails/history [get]
func (c *EmailController) ListHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "authentication required")
		return
	}
	filter := domain.HistoryFilter{
		Status: r.URL.Query().Get("status"),
		Page:   h.QueryInt(r, "page", 1),
		Limit:  h.QueryInt(r, "limit", 50),
	}
	if s := r.URL.Query().Get("date_from"); s != "" {
		t, err := parseDateParam(s)
		if err != nil {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid date_from")
			return
		}
		filter.DateFrom = &t
	}
	if s := r.URL.Query().Get("date_to"); s != "" {
		t, err := parseDateParam(s)
		if err != nil {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid date_to")
			return
		}
		// Upper bound covers the whole day.
		t = t.Add(24*time.Hour - time.Nanosecond)
		filter.DateTo = &t
	}

	records, total, err := c.History.List(r.Context(), userID, filter)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	if records == nil {
		records = []*domain.EmailHistory{}
	}

	h.WriteJSONSuccess(w, http.StatusOK, HistoryListResponse{
		Records: records,
		Total:   total,
		Page:    filter.Page,
		Limit:   filter.Limit,
	})
}

// GetHistory godoc
// @Summary Get one history record
// @Tags emails
// @Produce json
// @Security BearerAuth
// @Param id path string true "History record ID"
// @Success 200 {object} helpers.APIResponse "data contains the record"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /emails/history/{id} [get]
func (c *EmailController) GetHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "authentication required")
		return
	}
	record, err := c.History.Get(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		if errors.Is(err, domain.ErrHistoryNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, domain.ErrHistoryNotFound.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}

	h.WriteJSONSuccess(w, http.StatusOK, record)
}

// Resend godoc
// @Summary Resend a failed email
// @Description Re-render and resend the message behind a failed history record. Only records with status "failed" are eligible; the record is updated in place.
// @Tags emails
// @Produce json
// @Security BearerAuth
// @Param id path string true "History record ID"
// @Success 200 {object} helpers.APIResponse "data contains a confirmation message"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /emails/history/{id}/resend [post]
func (c *EmailController) Resend(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "authentication required")
		return
	}
	err := c.Dispatch.Resend(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrHistoryNotFound):
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, domain.ErrHistoryNotFound.Error())
		case errors.Is(err, domain.ErrHistoryNotResendable):
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, domain.ErrHistoryNotResendable.Error())
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		}
		return
	}

	h.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "email resent successfully"})
}

// Statistics godoc
// @Summary Email statistics
// @Description Totals and success rate over an N-day window (default 30), plus daily sent/failed counts for the last 7 days.
// @Tags emails
// @Produce json
// @Security BearerAuth
// @Param days query int false "Window size in days (default 30)"
// @Success 200 {object} helpers.APIResponse "data contains the statistics"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /emails/statistics [get]
func (c *EmailController) Statistics(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "authentication required")
		return
	}
	stats, err := c.History.Statistics(r.Context(), userID, h.QueryInt(r, "days", 0))
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}

	h.WriteJSONSuccess(w, http.StatusOK, stats)
}

// writeDispatchError maps dispatch service failures onto HTTP statuses:
// validation problems are 400, missing collaborators are 404, anything
// else is 500.
func (c *EmailController) writeDispatchError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNoRecipients),
		errors.Is(err, domain.ErrTooManyRecipients),
		errors.Is(err, domain.ErrNoCompaniesFound),
		errors.Is(err, domain.ErrResumeFileMissing):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrResumeNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
	}
}

func parseDateParam(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
