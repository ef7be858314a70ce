package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"

	"chlsync/internal/services"
)

// HealthHandlers serves the daemon-mode probe endpoints and the manual
// sync trigger.
type HealthHandlers struct {
	db      *pgxpool.Pool
	syncSvc *services.SyncService
}

func NewHealthHandlers(db *pgxpool.Pool, syncSvc *services.SyncService) *HealthHandlers {
	return &HealthHandlers{db: db, syncSvc: syncSvc}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// HealthCheck reports process and database health.
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	health := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  make(map[string]string),
	}

	if err := h.checkDatabase(c.Request().Context()); err != nil {
		health.Services["database"] = "unhealthy"
		health.Status = "degraded"
	} else {
		health.Services["database"] = "healthy"
	}

	statusCode := http.StatusOK
	if health.Status == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}
	return c.JSON(statusCode, health)
}

// ReadinessCheck determines if the daemon can run a sync.
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	if err := h.checkDatabase(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":  "not_ready",
			"message": "database unavailable",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}

// TriggerSync runs one sync immediately, outside the schedule.
func (h *HealthHandlers) TriggerSync(c echo.Context) error {
	if err := h.syncSvc.Run(c.Request().Context()); err != nil {
		if errors.Is(err, services.ErrRunInProgress) {
			return c.JSON(http.StatusConflict, map[string]string{
				"status":  "skipped",
				"message": err.Error(),
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"status":  "failed",
			"message": err.Error(),
		})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "completed"})
}

func (h *HealthHandlers) checkDatabase(ctx context.Context) error {
	_, err := h.db.Exec(ctx, "SELECT 1")
	return err
}
