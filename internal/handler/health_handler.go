package handler

import (
	"database/sql"
	"net/http"
	"time"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	db *sql.DB
}

// NewHealthHandler creates a new HealthHandler instance
func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// HealthStatus is the health check response body
type HealthStatus struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Timestamp time.Time `json:"timestamp"`
}

// HandleHealth handles GET requests to the /health endpoint. The check is
// healthy only when the database answers a ping.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    "healthy",
		Database:  "up",
		Timestamp: time.Now().UTC(),
	}

	httpStatus := http.StatusOK
	if err := h.db.PingContext(r.Context()); err != nil {
		status.Status = "unhealthy"
		status.Database = "down"
		httpStatus = http.StatusServiceUnavailable
	}

	WriteJSON(w, httpStatus, status)
}
