package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"skyviewsurveys/config"
	_ "skyviewsurveys/docs"
	"skyviewsurveys/internal/adapters/auth"
	"skyviewsurveys/internal/adapters/email"
	delivery "skyviewsurveys/internal/delivery/http"
	"skyviewsurveys/internal/delivery/http/controllers"
	"skyviewsurveys/internal/delivery/http/middleware"
	"skyviewsurveys/internal/repository/postgres"
	"skyviewsurveys/internal/services"
)

// @title Sky View Surveys API
// @version 1.0
// @description Enquiry intake and back-office API for the Sky View Surveys drone survey site.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:             cfg.SESRegion,
			AccessKeyID:        cfg.SESAccessKeyID,
			SecretAccessKey:    cfg.SESSecretAccessKey,
			InsecureSkipVerify: cfg.SESInsecureSkipVerify,
		},
	})
	if err != nil {
		log.Fatalf("failed to create mailer: %v", err)
	}

	enquiryRepo := postgres.NewEnquiryRepository(db)
	auditRepo := postgres.NewAuditEventRepository(db)
	emailLogRepo := postgres.NewEmailLogRepository(db)
	operatorRepo := postgres.NewOperatorRepository(db)

	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)
	tokenIssuer := auth.NewJWTIssuer(cfg.JWTSecret)
	tokenVerifier := auth.NewJWTVerifier(cfg.JWTSecret)

	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer())
	dispatcher := services.NewDispatcher(logger, emailService, emailLogRepo)
	intakeService := services.NewIntakeService(logger, enquiryRepo, auditRepo, dispatcher)
	authService := services.NewAuthService(operatorRepo, hasher, tokenIssuer, cfg.TokenExpiry)

	enquiryController := controllers.NewEnquiryController(logger, intakeService, cfg.ThankYouURL)
	adminController := controllers.NewAdminController(logger, intakeService)
	authController := controllers.NewAuthController(logger, authService)
	healthController := controllers.NewHealthController(db)

	mux := delivery.NewRouter(enquiryController, adminController, authController, healthController, tokenVerifier)

	handler := middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", server.Addr, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
	logger.Info("server stopped")
}
