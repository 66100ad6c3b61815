package handler

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mailflow/internal/middleware"
)

// Handlers bundles every handler the router mounts
type Handlers struct {
	Auth      *AuthHandler
	Recipient *RecipientHandler
	Message   *MessageHandler
	Mailing   *MailingHandler
	Attempt   *AttemptHandler
	Stats     *StatsHandler
	Health    *HealthHandler
}

// NewRouter builds the full route table. Everything except registration,
// login, health, metrics and the home stats requires a bearer token.
func NewRouter(h Handlers, verifier middleware.TokenVerifier) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.Recovery)
	router.Use(middleware.Metrics)
	router.Use(middleware.Auth(verifier))

	// Public endpoints
	router.HandleFunc("/health", h.Health.HandleHealth).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	router.HandleFunc("/auth/register", h.Auth.Register).Methods("POST")
	router.HandleFunc("/auth/login", h.Auth.Login).Methods("POST")
	router.HandleFunc("/stats/home", h.Stats.Home).Methods("GET")

	// Authenticated endpoints
	api := router.NewRoute().Subrouter()
	api.Use(middleware.RequireAuth)

	api.HandleFunc("/auth/profile", h.Auth.Profile).Methods("GET")
	api.HandleFunc("/auth/profile", h.Auth.UpdateProfile).Methods("PUT")

	api.HandleFunc("/recipients", h.Recipient.List).Methods("GET")
	api.HandleFunc("/recipients", h.Recipient.Create).Methods("POST")
	api.HandleFunc("/recipients/{id}", h.Recipient.GetByID).Methods("GET")
	api.HandleFunc("/recipients/{id}", h.Recipient.Update).Methods("PUT")
	api.HandleFunc("/recipients/{id}", h.Recipient.Delete).Methods("DELETE")

	api.HandleFunc("/messages", h.Message.List).Methods("GET")
	api.HandleFunc("/messages", h.Message.Create).Methods("POST")
	api.HandleFunc("/messages/{id}", h.Message.GetByID).Methods("GET")
	api.HandleFunc("/messages/{id}", h.Message.Update).Methods("PUT")
	api.HandleFunc("/messages/{id}", h.Message.Delete).Methods("DELETE")

	api.HandleFunc("/mailings", h.Mailing.List).Methods("GET")
	api.HandleFunc("/mailings", h.Mailing.Create).Methods("POST")
	api.HandleFunc("/mailings/{id}", h.Mailing.GetByID).Methods("GET")
	api.HandleFunc("/mailings/{id}", h.Mailing.Update).Methods("PUT")
	api.HandleFunc("/mailings/{id}", h.Mailing.Delete).Methods("DELETE")
	api.HandleFunc("/mailings/{id}/send", h.Mailing.Send).Methods("POST")
	api.HandleFunc("/mailings/{id}/disable", h.Mailing.Disable).Methods("POST")

	api.HandleFunc("/attempts", h.Attempt.List).Methods("GET")
	api.HandleFunc("/stats/report", h.Stats.Report).Methods("GET")

	return router
}
