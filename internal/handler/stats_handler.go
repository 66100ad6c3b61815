package handler

import (
	"net/http"

	"mailflow/internal/middleware"
	"mailflow/internal/service"
)

// StatsHandler handles the public home stats and the per-caller report
type StatsHandler struct {
	statsService *service.StatsService
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// Home handles GET /stats/home - public, cached landing-page counters
func (h *StatsHandler) Home(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.Home(r.Context())
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, stats)
}

// Report handles GET /stats/report - the caller's scoped mailing report
func (h *StatsHandler) Report(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	report, err := h.statsService.BuildReport(r.Context(), user)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, report)
}
