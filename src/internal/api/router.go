package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/maksimkurb/sleep-proxy-client/src/internal/config"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/domain"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/service"
)

// NewRouter creates a new HTTP router with all API endpoints.
func NewRouter(cfg *config.Config, deps *domain.AppDependencies, svc *service.RegistrationService) http.Handler {
	r := chi.NewRouter()

	// Apply middleware
	r.Use(Recovery)
	r.Use(Logger)
	r.Use(PrivateSubnetOnly) // Restrict access to private subnets
	r.Use(JSONContentType)

	h := NewHandler(cfg, deps, svc)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Get("/proxies", h.GetProxies)
		r.Get("/interfaces", h.GetInterfaces)
		r.Get("/request", h.GetRequest)
		r.Get("/health", h.CheckHealth)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, "Endpoint")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, NewAPIError(ErrCodeInvalidRequest, "Method not allowed"))
	})

	return r
}
