package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthController handles health check endpoints.
type HealthController struct {
	dbHealthChecker    func() bool
	redisHealthChecker func() bool
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status        string `json:"status"`
	Database      string `json:"database"`
	Notifications string `json:"notifications"`
	Timestamp     string `json:"timestamp"`
}

// NewHealthController creates a new health controller instance. A nil
// redisHealthChecker means notifications are only logged.
func NewHealthController(dbHealthChecker, redisHealthChecker func() bool) *HealthController {
	return &HealthController{
		dbHealthChecker:    dbHealthChecker,
		redisHealthChecker: redisHealthChecker,
	}
}

// Check handles GET /health requests.
// It returns the current health status of the API and its dependencies.
func (h *HealthController) Check(c *gin.Context) {
	dbStatus := "disconnected"
	if h.dbHealthChecker != nil && h.dbHealthChecker() {
		dbStatus = "connected"
	}

	notifications := "log-only"
	if h.redisHealthChecker != nil {
		notifications = "disconnected"
		if h.redisHealthChecker() {
			notifications = "connected"
		}
	}

	response := HealthResponse{
		Status:        "ok",
		Database:      dbStatus,
		Notifications: notifications,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	}

	c.JSON(http.StatusOK, response)
}
