package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"mailflow/internal/middleware"
	"mailflow/internal/service"
)

// MailingHandler handles HTTP requests for mailing operations
type MailingHandler struct {
	mailingService  *service.MailingService
	dispatchService *service.DispatchService
}

// NewMailingHandler creates a new mailing handler
func NewMailingHandler(mailingService *service.MailingService, dispatchService *service.DispatchService) *MailingHandler {
	return &MailingHandler{
		mailingService:  mailingService,
		dispatchService: dispatchService,
	}
}

// List handles GET /mailings
func (h *MailingHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	mailings, err := h.mailingService.List(r.Context(), user)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, mailings)
}

// GetByID handles GET /mailings/{id} - returns the mailing with its
// recipients, attempt log and attempt counts
func (h *MailingHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "mailing")
	if !ok {
		return
	}

	user := middleware.UserFromContext(r.Context())
	detail, err := h.mailingService.GetDetail(r.Context(), user, id)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, detail)
}

// Create handles POST /mailings
func (h *MailingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.MailingRequest

	// Parse JSON body
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err == io.EOF {
			WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Request body is empty")
			return
		}
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	user := middleware.UserFromContext(r.Context())
	mailing, err := h.mailingService.Create(r.Context(), user, &req)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteCreated(w, mailing)
}

// Update handles PUT /mailings/{id}
func (h *MailingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "mailing")
	if !ok {
		return
	}

	var req service.MailingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	user := middleware.UserFromContext(r.Context())
	mailing, err := h.mailingService.Update(r.Context(), user, id, &req)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, mailing)
}

// Delete handles DELETE /mailings/{id}
func (h *MailingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "mailing")
	if !ok {
		return
	}

	user := middleware.UserFromContext(r.Context())
	if err := h.mailingService.Delete(r.Context(), user, id); err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteNoContent(w)
}

// Send handles POST /mailings/{id}/send - triggers an immediate dispatch
func (h *MailingHandler) Send(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "mailing")
	if !ok {
		return
	}

	user := middleware.UserFromContext(r.Context())
	report, err := h.dispatchService.SendNow(r.Context(), user, id)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, report)
}

// Disable handles POST /mailings/{id}/disable - force-finishes a mailing
func (h *MailingHandler) Disable(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "mailing")
	if !ok {
		return
	}

	user := middleware.UserFromContext(r.Context())
	mailing, err := h.mailingService.Disable(r.Context(), user, id)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, mailing)
}
