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

// CreateSMTPConfigRequest is the request body for POST /smtp-configs
type CreateSMTPConfigRequest struct {
	Name      string `json:"name"`
	Host      string `json:"host"`
	Port      int    `json:"port"`
	Secure    bool   `json:"secure"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	FromEmail string `json:"from_email"`
	FromName  string `json:"from_name"`
	IsDefault bool   `json:"is_default"`
}

// Validate implements Validator.
func (c CreateSMTPConfigRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(c.Host) == "" {
		errs = append(errs, "host is required")
	}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, "port must be between 1 and 65535")
	}
	if strings.TrimSpace(c.Username) == "" {
		errs = append(errs, "username is required")
	}
	if c.Password == "" {
		errs = append(errs, "password is required")
	}
	fromEmail := strings.TrimSpace(c.FromEmail)
	if fromEmail == "" {
		errs = append(errs, "from_email is required")
	} else if !emailRegexp.MatchString(fromEmail) {
		errs = append(errs, "invalid from_email format")
	}
	return errs
}

type SMTPConfigController struct {
	Logger  *slog.Logger
	Repo    domain.SMTPConfigRepository
	Service domain.SMTPConfigService
}

func NewSMTPConfigController(logger *slog.Logger, repo domain.SMTPConfigRepository, svc domain.SMTPConfigService) *SMTPConfigController {
	return &SMTPConfigController{
		Logger:  logger,
		Repo:    repo,
		Service: svc,
	}
}

// Create godoc
// @Summary Create an SMTP configuration
// @Description Store a named outbound mail server configuration. The config starts untested and inactive; test and activate it before dispatch will use it. The password is never returned in responses.
// @Tags smtp-configs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateSMTPConfigRequest true "SMTP configuration"
// @Success 201 {object} helpers.APIResponse "data contains the created config"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /smtp-configs [post]
func (c *SMTPConfigController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "authentication required")
		return
	}
	var req CreateSMTPConfigRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	now := time.Now()
	cfg := &domain.SMTPConfig{
		UserID:     userID,
		Name:       strings.TrimSpace(req.Name),
		Host:       strings.TrimSpace(req.Host),
		Port:       req.Port,
		Secure:     req.Secure,
		Username:   strings.TrimSpace(req.Username),
		Password:   req.Password,
		FromEmail:  strings.TrimSpace(req.FromEmail),
		FromName:   strings.TrimSpace(req.FromName),
		IsDefault:  req.IsDefault,
		TestStatus: domain.TestStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := c.Repo.Create(r.Context(), cfg); err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}

	h.WriteJSONSuccess(w, http.StatusCreated, cfg)
}

// List godoc
// @Summary List SMTP configurations
// @Tags smtp-configs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the user's configs"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /smtp-configs [get]
func (c *SMTPConfigController) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "authentication required")
		return
	}
	configs, err := c.Repo.ListByUser(r.Context(), userID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	if configs == nil {
		configs = []*domain.SMTPConfig{}
	}

	h.WriteJSONSuccess(w, http.StatusOK, configs)
}

// Get godoc
// @Summary Get one SMTP configuration
// @Tags smtp-configs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Config ID"
// @Success 200 {object} helpers.APIResponse "data contains the config"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /smtp-configs/{id} [get]
func (c *SMTPConfigController) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "authentication required")
		return
	}
	cfg, err := c.Repo.GetByID(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		c.writeRepoError(w, r, err)
		return
	}

	h.WriteJSONSuccess(w, http.StatusOK, cfg)
}

// Delete godoc
// @Summary Delete an SMTP configuration
// @Tags smtp-configs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Config ID"
// @Success 200 {object} helpers.APIResponse "data contains a confirmation message"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /smtp-configs/{id} [delete]
func (c *SMTPConfigController) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "authentication required")
		return
	}
	if err := c.Repo.Delete(r.Context(), r.PathValue("id"), userID); err != nil {
		c.writeRepoError(w, r, err)
		return
	}

	h.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "smtp configuration deleted"})
}

// Test godoc
// @Summary Test an SMTP configuration
// @Description Verify connectivity and send a self-addressed test email. The outcome is persisted on the config as test_status, test_error_message, and last_tested.
// @Tags smtp-configs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Config ID"
// @Success 200 {object} helpers.APIResponse "data contains the test outcome"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (test failed; outcome persisted)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /smtp-configs/{id}/test [post]
func (c *SMTPConfigController) Test(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "authentication required")
		return
	}
	if err := c.Service.Test(r.Context(), r.PathValue("id"), userID); err != nil {
		if errors.Is(err, domain.ErrSMTPConfigNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, domain.ErrSMTPConfigNotFound.Error())
			return
		}
		// The failed outcome is already persisted on the record.
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
		return
	}

	h.WriteJSONSuccess(w, http.StatusOK, map[string]string{
		"message":     "smtp configuration verified",
		"test_status": domain.TestStatusSuccess,
	})
}

// Activate godoc
// @Summary Activate an SMTP configuration
// @Description Mark the config as the user's active transport and deactivate all others.
// @Tags smtp-configs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Config ID"
// @Success 200 {object} helpers.APIResponse "data contains a confirmation message"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /smtp-configs/{id}/activate [post]
func (c *SMTPConfigController) Activate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "authentication required")
		return
	}
	if err := c.Service.Activate(r.Context(), r.PathValue("id"), userID); err != nil {
		c.writeRepoError(w, r, err)
		return
	}

	h.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "smtp configuration activated"})
}

func (c *SMTPConfigController) writeRepoError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrSMTPConfigNotFound) {
		h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, domain.ErrSMTPConfigNotFound.Error())
		return
	}
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
}
