package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"skyviewsurveys/internal/delivery/http/controllers"
	"skyviewsurveys/internal/delivery/http/middleware"
	"skyviewsurveys/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(
	enquiryController *controllers.EnquiryController,
	adminController *controllers.AdminController,
	authController *controllers.AuthController,
	healthController *controllers.HealthController,
	verifier domain.TokenVerifier,
) *http.ServeMux {
	mux := http.NewServeMux()
	requireAuth := middleware.RequireAuth(verifier)

	// Public intake surface
	mux.HandleFunc("POST /api/enquiries", enquiryController.Submit)
	mux.HandleFunc("GET /api/health", healthController.Check)

	// Back-office
	mux.HandleFunc("POST /auth/login", authController.Login)
	mux.HandleFunc("GET /admin/enquiries", requireAuth(adminController.ListEnquiries))
	mux.HandleFunc("GET /admin/enquiries/{enquiryID}", requireAuth(adminController.GetEnquiry))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
