package mocks

import (
	"net"
	"sort"
	"sync"

	"github.com/maksimkurb/sleep-proxy-client/src/internal/errors"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/models"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/networking"
)

// DefaultHardwareAddr is the MAC reported by MockInterfaceProvider by default.
var DefaultHardwareAddr = net.HardwareAddr{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}

// MockInterfaceProvider is a mock implementation of the InterfaceInfoProvider interface.
//
// It allows tests to provide custom behavior for each method through function fields.
// If a function field is nil, the Interfaces map is consulted.
//
// Example usage:
//
//	mock := &MockInterfaceProvider{
//	    Interfaces: map[string][]string{"eth0": {"192.168.1.50"}},
//	}
//	details, err := mock.ForInterface("eth0")
type MockInterfaceProvider struct {
	// Interfaces maps interface names to their addresses for the default behavior.
	Interfaces map[string][]string

	// ForInterfaceFunc is called by ForInterface if not nil
	ForInterfaceFunc func(name string) (*models.InterfaceDetails, error)

	// InterfaceNamesFunc is called by InterfaceNames if not nil
	InterfaceNamesFunc func() ([]string, error)

	// ListInterfacesFunc is called by ListInterfaces if not nil
	ListInterfacesFunc func() ([]networking.Interface, error)

	// Track calls for verification in tests
	mu                  sync.Mutex
	ForInterfaceCalls   int
	InterfaceNamesCalls int
	ListInterfacesCalls int
}

// NewMockInterfaceProvider creates a provider reporting eth0 with 192.168.1.50.
func NewMockInterfaceProvider() *MockInterfaceProvider {
	return &MockInterfaceProvider{
		Interfaces: map[string][]string{"eth0": {"192.168.1.50"}},
	}
}

// ForInterface returns the details of one interface.
//
// By default an interface missing from Interfaces yields a configuration error.
func (m *MockInterfaceProvider) ForInterface(name string) (*models.InterfaceDetails, error) {
	m.mu.Lock()
	m.ForInterfaceCalls++
	m.mu.Unlock()

	if m.ForInterfaceFunc != nil {
		return m.ForInterfaceFunc(name)
	}

	addresses, ok := m.Interfaces[name]
	if !ok {
		return nil, errors.NewConfigError("interface "+name+" does not exist", nil)
	}
	return models.NewInterfaceDetails(name, addresses, DefaultHardwareAddr), nil
}

// InterfaceNames lists the keys of Interfaces.
func (m *MockInterfaceProvider) InterfaceNames() ([]string, error) {
	m.mu.Lock()
	m.InterfaceNamesCalls++
	m.mu.Unlock()

	if m.InterfaceNamesFunc != nil {
		return m.InterfaceNamesFunc()
	}

	names := make([]string, 0, len(m.Interfaces))
	for name := range m.Interfaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// ListInterfaces describes every interface in Interfaces.
func (m *MockInterfaceProvider) ListInterfaces() ([]networking.Interface, error) {
	m.mu.Lock()
	m.ListInterfacesCalls++
	m.mu.Unlock()

	if m.ListInterfacesFunc != nil {
		return m.ListInterfacesFunc()
	}

	names := make([]string, 0, len(m.Interfaces))
	for name := range m.Interfaces {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]networking.Interface, 0, len(names))
	for _, name := range names {
		addresses := m.Interfaces[name]
		result = append(result, networking.Interface{
			Name:         name,
			Up:           true,
			HardwareAddr: DefaultHardwareAddr.String(),
			IPAddresses:  addresses,
		})
	}
	return result, nil
}
