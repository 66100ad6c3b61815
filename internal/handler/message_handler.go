package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"mailflow/internal/middleware"
	"mailflow/internal/service"
)

// MessageHandler handles HTTP requests for message template operations
type MessageHandler struct {
	messageService *service.MessageService
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messageService *service.MessageService) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
	}
}

// List handles GET /messages
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	messages, err := h.messageService.List(r.Context(), user)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, messages)
}

// GetByID handles GET /messages/{id}
func (h *MessageHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "message")
	if !ok {
		return
	}

	user := middleware.UserFromContext(r.Context())
	message, err := h.messageService.Get(r.Context(), user, id)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, message)
}

// Create handles POST /messages
func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.MessageRequest

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
	message, err := h.messageService.Create(r.Context(), user, &req)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteCreated(w, message)
}

// Update handles PUT /messages/{id}
func (h *MessageHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "message")
	if !ok {
		return
	}

	var req service.MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	user := middleware.UserFromContext(r.Context())
	message, err := h.messageService.Update(r.Context(), user, id, &req)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, message)
}

// Delete handles DELETE /messages/{id}
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "message")
	if !ok {
		return
	}

	user := middleware.UserFromContext(r.Context())
	if err := h.messageService.Delete(r.Context(), user, id); err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteNoContent(w)
}
