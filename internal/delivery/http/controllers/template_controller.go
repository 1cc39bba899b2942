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

// CreateTemplateRequest is the request body for POST /templates
type CreateTemplateRequest struct {
	Name        string `json:"name"`
	Subject     string `json:"subject"`
	HTMLContent string `json:"html_content"`
	PlainText   string `json:"plain_text"`
	IsDefault   bool   `json:"is_default"`
}

// Validate implements Validator.
func (t CreateTemplateRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(t.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(t.HTMLContent) == "" {
		errs = append(errs, "html_content is required")
	}
	return errs
}

type TemplateController struct {
	Logger *slog.Logger
	Repo   domain.TemplateRepository
}

func NewTemplateController(logger *slog.Logger, repo domain.TemplateRepository) *TemplateController {
	return &TemplateController{
		Logger: logger,
		Repo:   repo,
	}
}

// Create godoc
// @Summary Create an email template
// @Description Store a message template. Subject and body may contain placeholder tokens that are substituted at send time.
// @Tags templates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateTemplateRequest true "Template data"
// @Success 201 {object} helpers.APIResponse "data contains the created template"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /templates [post]
func (c *TemplateController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "authentication required")
		return
	}
	var req CreateTemplateRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	now := time.Now()
	tmpl := &domain.EmailTemplate{
		UserID:      userID,
		Name:        strings.TrimSpace(req.Name),
		Subject:     req.Subject,
		HTMLContent: req.HTMLContent,
		PlainText:   req.PlainText,
		IsDefault:   req.IsDefault,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := c.Repo.Create(r.Context(), tmpl); err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}

	h.WriteJSONSuccess(w, http.StatusCreated, tmpl)
}

// List godoc
// @Summary List email templates
// @Tags templates
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the user's templates"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /templates [get]
func (c *TemplateController) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "authentication required")
		return
	}
	templates, err := c.Repo.ListByUser(r.Context(), userID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	if templates == nil {
		templates = []*domain.EmailTemplate{}
	}

	h.WriteJSONSuccess(w, http.StatusOK, templates)
}

// Get godoc
// @Summary Get one email template
// @Tags templates
// @Produce json
// @Security BearerAuth
// @Param id path string true "Template ID"
// @Success 200 {object} helpers.APIResponse "data contains the template"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /templates/{id} [get]
func (c *TemplateController) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "authentication required")
		return
	}
	tmpl, err := c.Repo.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrTemplateNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, domain.ErrTemplateNotFound.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	if tmpl.UserID != userID {
		h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, domain.ErrTemplateNotFound.Error())
		return
	}

	h.WriteJSONSuccess(w, http.StatusOK, tmpl)
}
