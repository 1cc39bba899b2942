package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"resumemailer/internal/delivery/http/controllers"
)

// NewRouter initializes the HTTP router with all application routes.
// requireAuth wraps handlers that need an authenticated user.
func NewRouter(
	authController *controllers.AuthController,
	emailController *controllers.EmailController,
	smtpController *controllers.SMTPConfigController,
	companyController *controllers.CompanyController,
	templateController *controllers.TemplateController,
	requireAuth func(http.HandlerFunc) http.HandlerFunc,
) *http.ServeMux {
	mux := http.NewServeMux()

	// Auth
	mux.HandleFunc("POST /auth/signup", authController.SignUp)
	mux.HandleFunc("POST /auth/login", authController.Login)

	// Email dispatch and history
	mux.HandleFunc("POST /emails/send-bulk", requireAuth(emailController.SendBulk))
	mux.HandleFunc("POST /emails/send-test", requireAuth(emailController.SendTest))
	mux.HandleFunc("GET /emails/history", requireAuth(emailController.ListHistory))
	mux.HandleFunc("GET /emails/history/{id}", requireAuth(emailController.GetHistory))
	mux.HandleFunc("POST /emails/history/{id}/resend", requireAuth(emailController.Resend))
	mux.HandleFunc("GET /emails/statistics", requireAuth(emailController.Statistics))

	// SMTP configurations
	mux.HandleFunc("POST /smtp-configs", requireAuth(smtpController.Create))
	mux.HandleFunc("GET /smtp-configs", requireAuth(smtpController.List))
	mux.HandleFunc("GET /smtp-configs/{id}", requireAuth(smtpController.Get))
	mux.HandleFunc("DELETE /smtp-configs/{id}", requireAuth(smtpController.Delete))
	mux.HandleFunc("POST /smtp-configs/{id}/test", requireAuth(smtpController.Test))
	mux.HandleFunc("POST /smtp-configs/{id}/activate", requireAuth(smtpController.Activate))

	// Companies
	mux.HandleFunc("POST /companies", requireAuth(companyController.Create))
	mux.HandleFunc("GET /companies", requireAuth(companyController.List))
	mux.HandleFunc("GET /companies/{id}", requireAuth(companyController.Get))

	// Templates
	mux.HandleFunc("POST /templates", requireAuth(templateController.Create))
	mux.HandleFunc("GET /templates", requireAuth(templateController.List))
	mux.HandleFunc("GET /templates/{id}", requireAuth(templateController.Get))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
