package handler

import (
	"net/http"

	"mailflow/internal/middleware"
	"mailflow/internal/service"
)

// AttemptHandler exposes the read-only delivery attempt log
type AttemptHandler struct {
	attemptService *service.AttemptService
}

// NewAttemptHandler creates a new attempt handler
func NewAttemptHandler(attemptService *service.AttemptService) *AttemptHandler {
	return &AttemptHandler{attemptService: attemptService}
}

// List handles GET /attempts
func (h *AttemptHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	attempts, err := h.attemptService.List(r.Context(), user)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, attempts)
}
