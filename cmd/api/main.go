package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"resumemailer/config"
	_ "resumemailer/docs"
	authadapter "resumemailer/internal/adapters/auth"
	"resumemailer/internal/adapters/email"
	"resumemailer/internal/adapters/storage"
	deliveryhttp "resumemailer/internal/delivery/http"
	"resumemailer/internal/delivery/http/controllers"
	"resumemailer/internal/delivery/http/middleware"
	"resumemailer/internal/repository/postgres"
	"resumemailer/internal/services"
)

// @title Resume Mailer API
// @version 1.0
// @description Backend for rendering and dispatching resume outreach emails.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to reach database", "err", err)
		os.Exit(1)
	}

	userRepo := postgres.NewUserRepository(db)
	companyRepo := postgres.NewCompanyRepository(db)
	templateRepo := postgres.NewTemplateRepository(db)
	resumeRepo := postgres.NewResumeRepository(db)
	historyRepo := postgres.NewHistoryRepository(db)
	smtpRepo := postgres.NewSMTPConfigRepository(db)

	defaultMailer, err := email.NewMailer(email.Config{
		Provider:     cfg.Mailer.Provider,
		SMTPHost:     cfg.Mailer.SMTPHost,
		SMTPPort:     cfg.Mailer.SMTPPort,
		SMTPSecure:   cfg.Mailer.SMTPSecure,
		SMTPUsername: cfg.Mailer.SMTPUsername,
		SMTPPassword: cfg.Mailer.SMTPPassword,
		SES: email.SESConfig{
			Region:          cfg.Mailer.SESRegion,
			AccessKeyID:     cfg.Mailer.SESAccessKeyID,
			SecretAccessKey: cfg.Mailer.SESSecretAccessKey,
		},
		Timeout: cfg.Dispatch.SMTPTimeout,
	})
	if err != nil {
		logger.Error("failed to build default mailer", "err", err)
		os.Exit(1)
	}

	jwtManager := authadapter.NewJWTManager(cfg.JWTSecret)
	hasher := authadapter.NewBcryptHasher(0)
	fileStore := storage.NewLocalFileStore()

	transports := services.NewTransportResolver(
		smtpRepo, defaultMailer, cfg.Mailer.FromAddress,
		cfg.Dispatch.SMTPTimeout, email.FromSMTPConfig, logger,
	)
	throttle := services.NewThrottle(cfg.Dispatch.Delay, nil)

	authService := services.NewAuthService(userRepo, hasher, jwtManager, cfg.TokenExpiry)
	dispatchService := services.NewDispatchService(
		userRepo, companyRepo, templateRepo, resumeRepo, historyRepo,
		fileStore, transports, throttle, logger,
	)
	historyService := services.NewHistoryService(historyRepo)
	smtpService := services.NewSMTPConfigService(smtpRepo, email.FromSMTPConfig, cfg.Dispatch.SMTPTimeout, logger)

	authController := controllers.NewAuthController(logger, authService)
	emailController := controllers.NewEmailController(logger, dispatchService, historyService)
	smtpController := controllers.NewSMTPConfigController(logger, smtpRepo, smtpService)
	companyController := controllers.NewCompanyController(logger, companyRepo)
	templateController := controllers.NewTemplateController(logger, templateRepo)

	requireAuth := middleware.RequireAuth(jwtManager)
	mux := deliveryhttp.NewRouter(
		authController, emailController, smtpController,
		companyController, templateController, requireAuth,
	)

	var handler http.Handler = mux
	handler = middleware.Logging(logger, handler)
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		handler = middleware.CORS(strings.Split(origins, ","), handler)
	}

	// No WriteTimeout: a full batch of 50 with the mandatory inter-send delay
	// legitimately holds the connection for minutes.
	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	// Batches in flight get a grace period to finish the current recipient.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "err", err)
	}
	logger.Info("server stopped")
}
