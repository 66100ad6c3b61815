package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"mailflow/internal/middleware"
	"mailflow/internal/service"
)

// RecipientHandler handles HTTP requests for recipient operations
type RecipientHandler struct {
	recipientService *service.RecipientService
}

// NewRecipientHandler creates a new recipient handler
func NewRecipientHandler(recipientService *service.RecipientService) *RecipientHandler {
	return &RecipientHandler{
		recipientService: recipientService,
	}
}

// List handles GET /recipients
func (h *RecipientHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	recipients, err := h.recipientService.List(r.Context(), user)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, recipients)
}

// GetByID handles GET /recipients/{id}
func (h *RecipientHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "recipient")
	if !ok {
		return
	}

	user := middleware.UserFromContext(r.Context())
	recipient, err := h.recipientService.Get(r.Context(), user, id)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, recipient)
}

// Create handles POST /recipients
func (h *RecipientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.RecipientRequest

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
	recipient, err := h.recipientService.Create(r.Context(), user, &req)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteCreated(w, recipient)
}

// Update handles PUT /recipients/{id}
func (h *RecipientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "recipient")
	if !ok {
		return
	}

	var req service.RecipientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	user := middleware.UserFromContext(r.Context())
	recipient, err := h.recipientService.Update(r.Context(), user, id, &req)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, recipient)
}

// Delete handles DELETE /recipients/{id}
func (h *RecipientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "recipient")
	if !ok {
		return
	}

	user := middleware.UserFromContext(r.Context())
	if err := h.recipientService.Delete(r.Context(), user, id); err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteNoContent(w)
}

// pathID extracts and validates the {id} path variable, writing a
// validation error itself when the value is unusable
func pathID(w http.ResponseWriter, r *http.Request, resource string) (int, bool) {
	vars := mux.Vars(r)

	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		WriteValidationError(w, "invalid "+resource+" ID format")
		return 0, false
	}

	if id <= 0 {
		WriteValidationError(w, resource+" ID must be greater than 0")
		return 0, false
	}

	return id, true
}
