package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/exec"
	"strings"

	"github.com/maksimkurb/sleep-proxy-client/src/internal/config"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/domain"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/log"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/service"
)

// Handler manages all API endpoints and dependencies.
type Handler struct {
	cfg  *config.Config
	deps *domain.AppDependencies
	svc  *service.RegistrationService

	lookPath func(file string) (string, error)
}

// NewHandler creates a new API handler.
func NewHandler(cfg *config.Config, deps *domain.AppDependencies, svc *service.RegistrationService) *Handler {
	return &Handler{
		cfg:      cfg,
		deps:     deps,
		svc:      svc,
		lookPath: exec.LookPath,
	}
}

// Register runs a registration for the requested interfaces.
// POST /api/v1/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteInvalidRequest(w, "Invalid request body: "+err.Error())
			return
		}
	}

	interfaces := req.Interfaces
	if len(interfaces) == 0 {
		interfaces = h.cfg.General.Interfaces
	}

	svc := h.svc
	if req.LeaseTimeSec != nil {
		if *req.LeaseTimeSec == 0 {
			WriteValidationError(w, "Validation failed", map[string]interface{}{
				"lease_time_sec": "must be at least 1",
			})
			return
		}
		svc = svc.WithLease(*req.LeaseTimeSec)
	}

	results := svc.RegisterInterfaces(r.Context(), interfaces)
	writeJSONData(w, RegisterResponse{
		Results: results,
		Summary: service.Summary(results),
	})
}

// GetProxies returns the ranked sleep proxies visible on one interface.
// GET /api/v1/proxies?interface=eth0
func (h *Handler) GetProxies(w http.ResponseWriter, r *http.Request) {
	iface, ok := requireInterface(w, r)
	if !ok {
		return
	}

	proxies, err := h.svc.Proxies(r.Context(), iface)
	if err != nil && len(proxies) == 0 {
		WriteDomainError(w, err)
		return
	}
	if err != nil {
		log.Warnf("[%s] Proxy discovery incomplete: %v", iface, err)
	}

	writeJSONData(w, ProxiesResponse{Interface: iface, Proxies: proxies})
}

// GetInterfaces returns all system interfaces with addresses.
// GET /api/v1/interfaces
func (h *Handler) GetInterfaces(w http.ResponseWriter, r *http.Request) {
	interfaces, err := h.deps.InterfaceProvider().ListInterfaces()
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	writeJSONData(w, InterfacesResponse{Interfaces: interfaces})
}

// GetRequest builds the request for one interface without sending it.
// GET /api/v1/request?interface=eth0
func (h *Handler) GetRequest(w http.ResponseWriter, r *http.Request) {
	iface, ok := requireInterface(w, r)
	if !ok {
		return
	}

	plan, err := h.svc.DescribeRequest(r.Context(), iface)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	packed, err := plan.Request.Pack()
	if err != nil {
		WriteInternalError(w, "Failed to pack request: "+err.Error())
		return
	}

	writeJSONData(w, RequestResponse{
		Plan:    plan,
		Records: len(plan.Request.Records()),
		Size:    len(packed),
		Dump:    plan.Request.String(),
	})
}

// CheckHealth performs health checks on the system.
// GET /api/v1/health
func (h *Handler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthCheckResponse{
		Healthy: true,
		Checks:  make(map[string]CheckResult),
	}

	check := func(name string, err error, ok string) {
		if err != nil {
			response.Healthy = false
			response.Checks[name] = CheckResult{Passed: false, Message: err.Error()}
			return
		}
		response.Checks[name] = CheckResult{Passed: true, Message: ok}
	}

	check("config_validation", h.cfg.ValidateConfig(), "Configuration is valid")

	_, err := h.deps.InterfaceProvider().InterfaceNames()
	check("interfaces", err, "Interfaces can be listed")

	check("discovery_backend", h.checkBackend(), fmt.Sprintf("Discovery backend %q is available", h.cfg.Discovery.Backend))

	status := http.StatusOK
	if !response.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, response)
}

// checkBackend verifies the avahi commands can be found. The zeroconf backend needs nothing external.
func (h *Handler) checkBackend() error {
	if h.cfg.Discovery.Backend != config.BackendAvahi {
		return nil
	}
	for _, command := range []string{h.cfg.Discovery.AvahiServicesCommand, h.cfg.Discovery.AvahiProxiesCommand} {
		fields := strings.Fields(command)
		if len(fields) == 0 {
			return fmt.Errorf("avahi command is empty")
		}
		if _, err := h.lookPath(fields[0]); err != nil {
			return fmt.Errorf("%s not found: %w", fields[0], err)
		}
	}
	return nil
}

func requireInterface(w http.ResponseWriter, r *http.Request) (string, bool) {
	iface := strings.TrimSpace(r.URL.Query().Get("interface"))
	if iface == "" {
		WriteInvalidRequest(w, "Query parameter 'interface' is required")
		return "", false
	}
	return iface, true
}

// writeJSON writes a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(DataResponse{Data: data}); err != nil {
		log.Warnf("Failed to encode response: %v", err)
	}
}

// writeJSONData writes a successful JSON response with data.
func writeJSONData(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, data)
}
