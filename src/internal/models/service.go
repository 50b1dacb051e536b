package models

import (
	"sort"
	"strconv"
	"strings"
)

// DeviceInfoType is the service type that only gets a TXT record when registered.
const DeviceInfoType = "_device-info._tcp"

// Service is a DNS-SD service instance announced by this host.
type Service struct {
	// Name is the DNS-SD instance name, unescaped.
	Name string `json:"name"`
	// Type is the service type, e.g. "_ssh._tcp".
	Type string `json:"type"`
	// Port is the port the service listens on.
	Port uint16 `json:"port"`
	// TXT holds the TXT tokens, sorted and de-duplicated.
	TXT []string `json:"txt,omitempty"`
}

// NewService creates a Service with a normalized TXT token set.
// Empty tokens are dropped; the remaining ones are sorted and de-duplicated.
func NewService(name, serviceType string, port uint16, txt []string) Service {
	return Service{
		Name: name,
		Type: NormalizeServiceType(serviceType),
		Port: port,
		TXT:  normalizeTokens(txt),
	}
}

// NormalizeServiceType strips a trailing dot and the ".local" domain from a service type.
func NormalizeServiceType(serviceType string) string {
	t := strings.TrimSuffix(serviceType, ".")
	t = strings.TrimSuffix(t, ".local")
	return t
}

// IsDeviceInfo reports whether the service is the device-info pseudo service.
// Both "_device-info._tcp" and "device-info._tcp" are recognised.
func (s Service) IsDeviceInfo() bool {
	t := strings.TrimPrefix(NormalizeServiceType(s.Type), "_")
	return t == strings.TrimPrefix(DeviceInfoType, "_")
}

// Key returns the structural identity of the service.
func (s Service) Key() string {
	var sb strings.Builder
	sb.WriteString(s.Name)
	sb.WriteByte(0)
	sb.WriteString(s.Type)
	sb.WriteByte(0)
	sb.WriteString(strconv.Itoa(int(s.Port)))
	for _, token := range s.TXT {
		sb.WriteByte(0)
		sb.WriteString(token)
	}
	return sb.String()
}

// Equal reports structural equality.
func (s Service) Equal(other Service) bool {
	return s.Key() == other.Key()
}

func normalizeTokens(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	result := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if token == "" {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		result = append(result, token)
	}
	sort.Strings(result)
	return result
}

// ServiceSet is an insertion-ordered set of services keyed by structural identity.
type ServiceSet struct {
	services []Service
	index    map[string]struct{}
}

// NewServiceSet creates an empty set.
func NewServiceSet() *ServiceSet {
	return &ServiceSet{index: make(map[string]struct{})}
}

// Add inserts svc unless an equal service is already present.
// It returns true if the service was added.
func (s *ServiceSet) Add(svc Service) bool {
	key := svc.Key()
	if _, ok := s.index[key]; ok {
		return false
	}
	s.index[key] = struct{}{}
	s.services = append(s.services, svc)
	return true
}

// Contains reports whether an equal service is present.
func (s *ServiceSet) Contains(svc Service) bool {
	_, ok := s.index[svc.Key()]
	return ok
}

// Len returns the number of services.
func (s *ServiceSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.services)
}

// Services returns a copy of the services in insertion order.
func (s *ServiceSet) Services() []Service {
	if s == nil {
		return nil
	}
	result := make([]Service, len(s.services))
	copy(result, s.services)
	return result
}
