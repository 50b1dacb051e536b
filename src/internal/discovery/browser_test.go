package discovery

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	spcerrors "github.com/maksimkurb/sleep-proxy-client/src/internal/errors"
)

type staticSource struct {
	services  []string
	proxies   []string
	err       error
	proxyIfce string
}

func (s *staticSource) ServiceLines(ctx context.Context) ([]string, error) {
	return s.services, s.err
}

func (s *staticSource) ProxyLines(ctx context.Context, iface string) ([]string, error) {
	s.proxyIfce = iface
	return s.proxies, s.err
}

func TestBrowser_DiscoverServices(t *testing.T) {
	src := &staticSource{services: []string{
		`=;eth0;IPv4;ssh;_ssh._tcp;local;host.local;192.168.1.50;22;""`,
	}}

	services, err := NewBrowser(src, time.Second).DiscoverServices(context.Background(), []string{"192.168.1.50"})
	require.NoError(t, err)
	assert.Equal(t, 1, services.Len())
}

func TestBrowser_SourceFailure(t *testing.T) {
	src := &staticSource{err: errors.New("avahi-browse: not found")}
	b := NewBrowser(src, time.Second)

	services, err := b.DiscoverServices(context.Background(), []string{"192.168.1.50"})
	assert.ErrorIs(t, err, spcerrors.ErrDiscovery)
	assert.Equal(t, 0, services.Len())

	_, err = b.DiscoverSleepProxies(context.Background(), "eth0", nil)
	assert.ErrorIs(t, err, spcerrors.ErrDiscovery)
}

func TestBrowser_PartialOutputIsUsed(t *testing.T) {
	src := &staticSource{
		proxies: []string{`=;eth0;IPv4;10-34-10\.70\032tv;_sleep-proxy._udp;local;tv.local;192.168.1.9;5353;""`},
		err:     errors.New("signal: killed"),
	}

	ranked, err := NewBrowser(src, time.Second).DiscoverSleepProxies(context.Background(), "eth0:1", nil)
	require.NoError(t, err)
	assert.Len(t, ranked, 1)
	assert.Equal(t, "eth0", src.proxyIfce, "alias browses the parent interface")
}
