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

type CompanyController struct {
	Logger *slog.Logger
	Repo   domain.CompanyRepository
}

func NewCompanyController(logger *slog.Logger, repo domain.CompanyRepository) *CompanyController {
	return &CompanyController{
		Logger: logger,
		Repo:   repo,
	}
}

// Create godoc
// @Summary Create a company
// @Description Store an outreach recipient. Only name, email, and position are required; every other field is an optional placeholder source.
// @Tags companies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body domain.Company true "Company data (id, user_id, and timestamps are ignored)"
// @Success 201 {object} helpers.APIResponse "data contains the created company"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /companies [post]
func (c *CompanyController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "authentication required")
		return
	}
	var company domain.Company
	if !h.DecodeAndValidate(w, r, &company) {
		return
	}
	company.Name = strings.TrimSpace(company.Name)
	company.Email = strings.TrimSpace(company.Email)
	company.Position = strings.TrimSpace(company.Position)

	var errs []string
	if company.Name == "" {
		errs = append(errs, "name is required")
	}
	if company.Email == "" {
		errs = append(errs, "email is required")
	} else if !emailRegexp.MatchString(company.Email) {
		errs = append(errs, "invalid email format")
	}
	if company.Position == "" {
		errs = append(errs, "position is required")
	}
	if len(errs) > 0 {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, strings.Join(errs, "; "))
		return
	}

	now := time.Now()
	company.ID = ""
	company.UserID = userID
	company.CreatedAt = now
	company.UpdatedAt = now

	if err := c.Repo.Create(r.Context(), &company); err != nil {
		if errors.Is(err, domain.ErrDuplicateCompany) {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, domain.ErrDuplicateCompany.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}

	h.WriteJSONSuccess(w, http.StatusCreated, &company)
}

// List godoc
// @Summary List companies
// @Tags companies
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the user's companies"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /companies [get]
func (c *CompanyController) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "authentication required")
		return
	}
	companies, err := c.Repo.ListByUser(r.Context(), userID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	if companies == nil {
		companies = []*domain.Company{}
	}

	h.WriteJSONSuccess(w, http.StatusOK, companies)
}

// Get godoc
// @Summary Get one company
// @Tags companies
// @Produce json
// @Security BearerAuth
// @Param id path string true "Company ID"
// @Success 200 {object} helpers.APIResponse "data contains the company"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /companies/{id} [get]
func (c *CompanyController) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "authentication required")
		return
	}
	company, err := c.Repo.GetByID(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		if errors.Is(err, domain.ErrCompanyNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, domain.ErrCompanyNotFound.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}

	h.WriteJSONSuccess(w, http.StatusOK, company)
}
