package api

import (
	"github.com/maksimkurb/sleep-proxy-client/src/internal/models"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/networking"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/service"
)

// DataResponse wraps successful responses with a "data" field.
type DataResponse struct {
	Data interface{} `json:"data"`
}

// RegisterRequest starts a registration run. Empty fields fall back to the configuration.
type RegisterRequest struct {
	Interfaces   []string `json:"interfaces,omitempty"`
	LeaseTimeSec *uint32  `json:"lease_time_sec,omitempty"`
}

// RegisterResponse returns one result per interface.
type RegisterResponse struct {
	Results []service.InterfaceResult `json:"results"`
	Summary map[service.Status]int    `json:"summary"`
}

// ProxiesResponse returns the ranked sleep proxies of one interface.
type ProxiesResponse struct {
	Interface string                  `json:"interface"`
	Proxies   []models.ProxyCandidate `json:"proxies"`
}

// InterfacesResponse returns all system interfaces.
type InterfacesResponse struct {
	Interfaces []networking.Interface `json:"interfaces"`
}

// RequestResponse describes the request that would be sent for one interface.
type RequestResponse struct {
	*service.Plan
	Records int    `json:"records"`
	Size    int    `json:"size"`
	Dump    string `json:"dump"`
}

// HealthCheckResponse returns the result of health checks.
type HealthCheckResponse struct {
	Healthy bool                   `json:"healthy"`
	Checks  map[string]CheckResult `json:"checks"`
}

// CheckResult is a single health check result.
type CheckResult struct {
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
}
