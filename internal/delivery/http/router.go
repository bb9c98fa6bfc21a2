package http

import (
	"net/http"

	"go-doctor-directory/internal/delivery/http/handler"
	"go-doctor-directory/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	doctorHandler       *handler.DoctorHandler
	sessionHandler      *handler.SessionHandler
	corsMiddleware      *middleware.CORSMiddleware
	loggerMiddleware    *middleware.LoggerMiddleware
	recoveryMiddleware  *middleware.RecoveryMiddleware
	rateLimitMiddleware *middleware.RateLimitMiddleware
}

func NewRouter(
	doctorHandler *handler.DoctorHandler,
	sessionHandler *handler.SessionHandler,
	corsMiddleware *middleware.CORSMiddleware,
	loggerMiddleware *middleware.LoggerMiddleware,
	recoveryMiddleware *middleware.RecoveryMiddleware,
	rateLimitMiddleware *middleware.RateLimitMiddleware,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		doctorHandler:       doctorHandler,
		sessionHandler:      sessionHandler,
		corsMiddleware:      corsMiddleware,
		loggerMiddleware:    loggerMiddleware,
		recoveryMiddleware:  recoveryMiddleware,
		rateLimitMiddleware: rateLimitMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.doctorHandler.Health).Methods(http.MethodGet)

	// Directory
	api.HandleFunc("/doctors", r.doctorHandler.GetDoctors).Methods(http.MethodGet)
	api.HandleFunc("/doctors/suggestions", r.doctorHandler.GetSuggestions).Methods(http.MethodGet)
	api.HandleFunc("/doctors/actions", r.doctorHandler.ApplyAction).Methods(http.MethodPost)
	api.HandleFunc("/specialties", r.doctorHandler.GetSpecialties).Methods(http.MethodGet)

	// Navigation sessions
	sessions := api.PathPrefix("/sessions").Subrouter()
	sessions.HandleFunc("", r.sessionHandler.StartSession).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}", r.sessionHandler.GetSession).Methods(http.MethodGet)
	sessions.HandleFunc("/{id}/actions", r.sessionHandler.DispatchAction).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/back", r.sessionHandler.Back).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/forward", r.sessionHandler.Forward).Methods(http.MethodPost)

	// Preflight requests only need the CORS headers
	r.router.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Outermost first
	r.router.Use(r.recoveryMiddleware.Handle)
	r.router.Use(r.loggerMiddleware.Handle)
	r.router.Use(r.corsMiddleware.Handle)
	r.router.Use(r.rateLimitMiddleware.Handle)

	return r.router
}
