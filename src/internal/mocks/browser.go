package mocks

import (
	"context"
	"sync"

	"github.com/maksimkurb/sleep-proxy-client/src/internal/models"
)

// MockServiceBrowser is a mock implementation of the ServiceBrowser interface.
//
// This allows testing registration logic without running avahi-browse or
// sending multicast queries.
type MockServiceBrowser struct {
	// DiscoverServicesFunc is called by DiscoverServices if not nil
	DiscoverServicesFunc func(ctx context.Context, ips []string) (*models.ServiceSet, error)

	// DiscoverSleepProxiesFunc is called by DiscoverSleepProxies if not nil
	DiscoverSleepProxiesFunc func(ctx context.Context, iface string, preferred []string) ([]models.ProxyCandidate, error)

	// Track calls for verification in tests
	mu                        sync.Mutex
	DiscoverServicesCalls     int
	DiscoverSleepProxiesCalls int
}

// NewMockServiceBrowser creates a browser that finds one ssh service and one proxy.
func NewMockServiceBrowser() *MockServiceBrowser {
	return &MockServiceBrowser{}
}

// DefaultProxy is the candidate returned by MockServiceBrowser for iface by default.
func DefaultProxy(iface string) models.ProxyCandidate {
	return models.ProxyCandidate{
		Name:       "proxy.local",
		Instance:   "10-34-10-70 proxy",
		IPAddress:  "192.168.1.10",
		Port:       5353,
		Interface:  iface,
		Properties: "10-34-10-70",
	}
}

// DiscoverServices returns the services advertised on ips.
func (m *MockServiceBrowser) DiscoverServices(ctx context.Context, ips []string) (*models.ServiceSet, error) {
	m.mu.Lock()
	m.DiscoverServicesCalls++
	m.mu.Unlock()

	if m.DiscoverServicesFunc != nil {
		return m.DiscoverServicesFunc(ctx, ips)
	}

	set := models.NewServiceSet()
	set.Add(models.NewService("laptop", "_ssh._tcp", 22, nil))
	return set, nil
}

// DiscoverSleepProxies returns the ranked proxies visible on iface.
func (m *MockServiceBrowser) DiscoverSleepProxies(ctx context.Context, iface string, preferred []string) ([]models.ProxyCandidate, error) {
	m.mu.Lock()
	m.DiscoverSleepProxiesCalls++
	m.mu.Unlock()

	if m.DiscoverSleepProxiesFunc != nil {
		return m.DiscoverSleepProxiesFunc(ctx, iface, preferred)
	}
	return []models.ProxyCandidate{DefaultProxy(iface)}, nil
}
