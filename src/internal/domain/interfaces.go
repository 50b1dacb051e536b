// Package domain defines core interfaces for dependency injection and abstraction.
//
// This package contains the fundamental interfaces that enable loose coupling between
// components and facilitate testing through dependency injection.
package domain

import (
	"context"

	"github.com/maksimkurb/sleep-proxy-client/src/internal/models"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/networking"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/sender"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/update"
)

// InterfaceInfoProvider resolves system interfaces to their addresses and hardware address.
//
// The production implementation reads the kernel via netlink. Tests supply fixed data.
type InterfaceInfoProvider interface {
	// ForInterface returns the details of one interface. Alias names such as
	// "eth0:1" resolve to the parent's hardware address.
	ForInterface(name string) (*models.InterfaceDetails, error)

	// InterfaceNames lists every interface name known to the system, aliases included.
	InterfaceNames() ([]string, error)

	// ListInterfaces describes every interface for display.
	ListInterfaces() ([]networking.Interface, error)
}

// ServiceBrowser discovers locally advertised services and visible sleep proxies.
type ServiceBrowser interface {
	// DiscoverServices returns the services this host advertises on any of ips.
	// A malformed browse line yields the partial set plus an error.
	DiscoverServices(ctx context.Context, ips []string) (*models.ServiceSet, error)

	// DiscoverSleepProxies returns the proxies visible on iface, ranked best first.
	DiscoverSleepProxies(ctx context.Context, iface string, preferred []string) ([]models.ProxyCandidate, error)
}

// RegistrationSender delivers a built request to ranked candidates with fallback.
type RegistrationSender interface {
	// Send tries candidates in order and stops at the first success.
	Send(ctx context.Context, req *update.Request, candidates []models.ProxyCandidate) sender.Outcome
}
