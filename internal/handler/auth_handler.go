package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"mailflow/internal/middleware"
	"mailflow/internal/service"
)

// AuthHandler handles registration, login and profile requests
type AuthHandler struct {
	userService *service.UserService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(userService *service.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest

	// Parse JSON body
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err == io.EOF {
			WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Request body is empty")
			return
		}
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteCreated(w, user)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	token, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		// Bad credentials map to 401, not the usual 403
		if _, ok := err.(*service.PermissionError); ok {
			WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid email or password")
			return
		}
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, token)
}

// Profile handles GET /auth/profile
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	profile, err := h.userService.GetProfile(r.Context(), user.ID)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, profile)
}

// UpdateProfile handles PUT /auth/profile
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req service.ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	user := middleware.UserFromContext(r.Context())
	profile, err := h.userService.UpdateProfile(r.Context(), user.ID, &req)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, profile)
}
