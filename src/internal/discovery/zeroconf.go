package discovery

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/grandcat/zeroconf"
	"golang.org/x/sync/errgroup"

	"github.com/maksimkurb/sleep-proxy-client/src/internal/config"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/log"
)

const mdnsDomain = "local"

// MDNSResolver is the part of *zeroconf.Resolver the source needs.
type MDNSResolver interface {
	Browse(ctx context.Context, service, domain string, entries chan<- *zeroconf.ServiceEntry) error
}

// ResolverFactory creates a resolver bound to ifaces (nil means all multicast interfaces).
type ResolverFactory func(ifaces []net.Interface) (MDNSResolver, error)

// NewZeroconfResolver is the production ResolverFactory.
func NewZeroconfResolver(ifaces []net.Interface) (MDNSResolver, error) {
	r, err := zeroconf.NewResolver(zeroconf.SelectIfaces(ifaces), zeroconf.SelectIPTraffic(zeroconf.IPv4AndIPv6))
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ZeroconfSource browses with the built-in mDNS resolver and renders the
// results as avahi-browse lines. mDNS has no cheap "browse everything", so
// services are browsed per configured service type.
type ZeroconfSource struct {
	serviceTypes     []string
	proxyServiceType string
	newResolver      ResolverFactory
	lookupInterface  func(name string) (*net.Interface, error)
}

// NewZeroconfSource creates a source from the discovery configuration.
// A nil factory means NewZeroconfResolver.
func NewZeroconfSource(cfg *config.DiscoveryConfig, factory ResolverFactory) *ZeroconfSource {
	if factory == nil {
		factory = NewZeroconfResolver
	}
	return &ZeroconfSource{
		serviceTypes:     append([]string(nil), cfg.ServiceTypes...),
		proxyServiceType: cfg.ProxyServiceType,
		newResolver:      factory,
		lookupInterface:  net.InterfaceByName,
	}
}

// ServiceLines browses every configured service type concurrently until ctx is done.
func (s *ZeroconfSource) ServiceLines(ctx context.Context) ([]string, error) {
	var (
		mu    sync.Mutex
		lines []string
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, serviceType := range s.serviceTypes {
		serviceType := serviceType
		g.Go(func() error {
			found, err := s.browse(gctx, serviceType, nil, "")
			mu.Lock()
			lines = append(lines, found...)
			mu.Unlock()
			return err
		})
	}

	err := g.Wait()
	return lines, err
}

// ProxyLines browses sleep proxies on iface only.
func (s *ZeroconfSource) ProxyLines(ctx context.Context, iface string) ([]string, error) {
	var ifaces []net.Interface
	if iface != "" {
		netIface, err := s.lookupInterface(iface)
		if err != nil {
			return nil, fmt.Errorf("failed to look up interface %s: %w", iface, err)
		}
		ifaces = []net.Interface{*netIface}
	}

	return s.browse(ctx, s.proxyServiceType, ifaces, iface)
}

func (s *ZeroconfSource) browse(ctx context.Context, serviceType string, ifaces []net.Interface, iface string) ([]string, error) {
	resolver, err := s.newResolver(ifaces)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	// The resolver closes entries once ctx is done.
	entries := make(chan *zeroconf.ServiceEntry)
	if err := resolver.Browse(ctx, serviceType, mdnsDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse %s: %w", serviceType, err)
	}

	var lines []string
	for {
		select {
		case entry, ok := <-entries:
			if !ok {
				return lines, nil
			}
			if entry == nil {
				continue
			}
			log.Debugf("mDNS entry %q (%s) on %s:%d", entry.Instance, entry.Service, entry.HostName, entry.Port)
			lines = append(lines, EntryLines(entry, iface)...)
		case <-ctx.Done():
			go func() {
				for range entries {
				}
			}()
			return lines, nil
		}
	}
}

// EntryLines renders one resolved entry as a browse line per address.
func EntryLines(entry *zeroconf.ServiceEntry, iface string) []string {
	record := Record{
		Interface:   iface,
		Instance:    Unescape(entry.Instance),
		ServiceType: strings.TrimSuffix(entry.Service, "."),
		Domain:      mdnsDomain,
		Host:        strings.TrimSuffix(entry.HostName, "."),
		Port:        uint16(entry.Port),
		TXT:         entry.Text,
	}

	lines := make([]string, 0, len(entry.AddrIPv4)+len(entry.AddrIPv6))
	for _, ip := range entry.AddrIPv4 {
		r := record
		r.Protocol = "IPv4"
		r.Address = ip.String()
		lines = append(lines, FormatLine(&r))
	}
	for _, ip := range entry.AddrIPv6 {
		r := record
		r.Protocol = "IPv6"
		r.Address = ip.String()
		lines = append(lines, FormatLine(&r))
	}
	return lines
}
