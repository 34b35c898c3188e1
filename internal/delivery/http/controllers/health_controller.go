package controllers

import (
	"database/sql"
	"net/http"

	"skyviewsurveys/internal/delivery/http/helpers"
)

type HealthController struct {
	DB *sql.DB
}

func NewHealthController(db *sql.DB) *HealthController {
	return &HealthController{DB: db}
}

// Check godoc
// @Summary Health check
// @Description Reports whether the service and its database connection are up.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} helpers.ErrorResponse
// @Router /api/health [get]
func (c *HealthController) Check(w http.ResponseWriter, r *http.Request) {
	if err := c.DB.PingContext(r.Context()); err != nil {
		helpers.WriteError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
