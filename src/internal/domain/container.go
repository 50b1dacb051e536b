package domain

import (
	"time"

	"github.com/maksimkurb/sleep-proxy-client/src/internal/config"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/discovery"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/log"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/networking"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/sender"
)

// AppDependencies is a dependency injection container that holds all application dependencies.
//
// This container provides a centralized place to manage dependencies and enables:
//   - Easy testing with mock implementations
//   - Configuration-driven dependency creation
//   - Explicit dependency management instead of global state
//
// Usage:
//
//	deps := domain.NewAppDependencies(cfg)
//	details, err := deps.InterfaceProvider().ForInterface("eth0")
type AppDependencies struct {
	interfaceProvider InterfaceInfoProvider
	serviceBrowser    ServiceBrowser
	sender            RegistrationSender
}

// NewAppDependencies creates a new dependency container with production implementations.
//
// The discovery backend and the transport settings are taken from cfg. For testing,
// use NewTestDependencies or inject mocks directly.
func NewAppDependencies(cfg *config.Config) *AppDependencies {
	return &AppDependencies{
		interfaceProvider: networking.NewNetlinkProvider(),
		serviceBrowser:    newServiceBrowser(cfg.Discovery),
		sender:            newSender(cfg.Registration),
	}
}

// NewDefaultDependencies creates dependencies using the built-in default configuration.
func NewDefaultDependencies() *AppDependencies {
	return NewAppDependencies(config.DefaultConfig())
}

// NewTestDependencies creates a dependency container with mock implementations.
//
// This is a convenience method for testing. Provide mock implementations for
// any dependencies you want to control in your tests.
func NewTestDependencies(
	interfaceProvider InterfaceInfoProvider,
	serviceBrowser ServiceBrowser,
	sender RegistrationSender,
) *AppDependencies {
	return &AppDependencies{
		interfaceProvider: interfaceProvider,
		serviceBrowser:    serviceBrowser,
		sender:            sender,
	}
}

// InterfaceProvider returns the interface information provider.
func (d *AppDependencies) InterfaceProvider() InterfaceInfoProvider {
	return d.interfaceProvider
}

// ServiceBrowser returns the service and sleep proxy browser.
func (d *AppDependencies) ServiceBrowser() ServiceBrowser {
	return d.serviceBrowser
}

// Sender returns the registration sender.
func (d *AppDependencies) Sender() RegistrationSender {
	return d.sender
}

func newServiceBrowser(cfg *config.DiscoveryConfig) ServiceBrowser {
	timeout := time.Duration(cfg.BrowseTimeoutSec) * time.Second

	var source discovery.LineSource
	switch cfg.Backend {
	case config.BackendZeroconf:
		source = discovery.NewZeroconfSource(cfg, discovery.NewZeroconfResolver)
	default:
		source = discovery.NewAvahiSource(cfg, discovery.ExecRunner)
	}
	log.Debugf("Using %s discovery backend", cfg.Backend)

	return discovery.NewBrowser(source, timeout)
}

func newSender(cfg *config.RegistrationConfig) RegistrationSender {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	return sender.New(sender.NewClient(cfg.UDPPayloadSize, timeout), timeout)
}
