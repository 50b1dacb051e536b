package discovery

import (
	"context"
	"time"

	"github.com/maksimkurb/sleep-proxy-client/src/internal/errors"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/log"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/models"
)

// LineSource produces avahi-browse parsable lines.
type LineSource interface {
	// ServiceLines returns resolved lines for the services announced on the local network.
	ServiceLines(ctx context.Context) ([]string, error)
	// ProxyLines returns resolved sleep proxy advertisements visible on iface.
	ProxyLines(ctx context.Context, iface string) ([]string, error)
}

// Browser implements domain.ServiceBrowser on top of a LineSource.
type Browser struct {
	source  LineSource
	timeout time.Duration
}

// NewBrowser creates a browser. Every browse pass is bounded by timeout.
func NewBrowser(source LineSource, timeout time.Duration) *Browser {
	return &Browser{source: source, timeout: timeout}
}

// DiscoverServices returns the services announced from one of ips.
// On a malformed line the services parsed so far are returned with the error.
func (b *Browser) DiscoverServices(ctx context.Context, ips []string) (*models.ServiceSet, error) {
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()

	lines, err := b.source.ServiceLines(ctx)
	if err != nil {
		if len(lines) == 0 {
			return models.NewServiceSet(), errors.NewDiscoveryError("failed to browse services", err)
		}
		log.Warnf("Service browse ended with error, using %d lines: %v", len(lines), err)
	}

	services, err := ParseServiceLines(lines, ips)
	if err != nil {
		log.Errorf("Discovering services failed for %v: %v", ips, err)
		return services, err
	}

	log.Debugf("Discovered %d services for %v", services.Len(), ips)
	return services, nil
}

// DiscoverSleepProxies returns the ranked sleep proxies visible on iface.
func (b *Browser) DiscoverSleepProxies(ctx context.Context, iface string, preferred []string) ([]models.ProxyCandidate, error) {
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()

	lines, err := b.source.ProxyLines(ctx, models.BaseInterfaceName(iface))
	if err != nil {
		if len(lines) == 0 {
			return nil, errors.NewDiscoveryError("failed to browse sleep proxies on "+iface, err)
		}
		log.Warnf("[%s] Sleep proxy browse ended with error, using %d lines: %v", iface, len(lines), err)
	}

	return RankLines(lines, iface, preferred), nil
}

func (b *Browser) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, b.timeout)
}
