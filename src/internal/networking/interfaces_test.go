package networking

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vishvananda/netlink"

	"github.com/maksimkurb/sleep-proxy-client/src/internal/errors"
)

func TestNetlinkProvider_ForInterface(t *testing.T) {
	p := NewNetlinkProviderWith(newFakeSystem())

	details, err := p.ForInterface("eth0")
	require.NoError(t, err)

	assert.Equal(t, "eth0", details.Name)
	assert.Equal(t, []string{"192.168.1.50", "fe80::a8bb:ccff:fedd:eeff"}, details.IPAddresses)
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", details.HardwareAddr.String())
}

func TestNetlinkProvider_ForAlias(t *testing.T) {
	p := NewNetlinkProviderWith(newFakeSystem())

	details, err := p.ForInterface("eth0:1")
	require.NoError(t, err)

	assert.Equal(t, []string{"192.168.1.51"}, details.IPAddresses)
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", details.HardwareAddr.String(), "alias uses the parent MAC")
}

func TestNetlinkProvider_Errors(t *testing.T) {
	p := NewNetlinkProviderWith(newFakeSystem())

	_, err := p.ForInterface("eth9")
	assert.ErrorIs(t, err, errors.ErrConfig)

	_, err = p.ForInterface("tun0")
	assert.Equal(t, errors.ErrCodeInterface, errors.CodeOf(err))
}

func TestNetlinkProvider_NoAddresses(t *testing.T) {
	p := NewNetlinkProviderWith(newFakeSystem())

	details, err := p.ForInterface("wlan0")
	require.NoError(t, err)
	assert.Empty(t, details.IPAddresses)
}

func TestNetlinkProvider_NoAddressesWithoutMAC(t *testing.T) {
	sys := &fakeNetlink{
		links: []netlink.Link{device("ppp0", 7, "", net.FlagUp)},
		addrs: map[string][]netlink.Addr{},
	}
	p := NewNetlinkProviderWith(sys)

	details, err := p.ForInterface("ppp0")
	require.NoError(t, err, "a link without addresses is reported by the caller as having no address")
	assert.Empty(t, details.IPAddresses)
	assert.Empty(t, details.HardwareAddr)
}

func TestNetlinkProvider_InterfaceNames(t *testing.T) {
	p := NewNetlinkProviderWith(newFakeSystem())

	names, err := p.InterfaceNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"eth0", "eth0:1", "lo", "tun0", "wlan0"}, names)
}

func TestNetlinkProvider_ListInterfaces(t *testing.T) {
	p := NewNetlinkProviderWith(newFakeSystem())

	ifaces, err := p.ListInterfaces()
	require.NoError(t, err)
	require.Len(t, ifaces, 5)

	byName := map[string]Interface{}
	for _, i := range ifaces {
		byName[i.Name] = i
	}
	assert.True(t, byName["lo"].Loopback)
	assert.False(t, byName["wlan0"].Up)
	assert.Equal(t, []string{"192.168.1.51"}, byName["eth0:1"].IPAddresses)
	assert.Empty(t, byName["tun0"].IPAddresses, "no MAC means no usable details")
}

func TestSelectInterfaces(t *testing.T) {
	available := []string{"eth0", "eth0:1", "lo", "lo0", "wlan0"}

	tests := []struct {
		name         string
		requested    []string
		wantSelected []string
		wantUnknown  []string
	}{
		{"all skips loopback prefix", []string{"all"}, []string{"eth0", "eth0:1", "wlan0"}, nil},
		{"explicit", []string{"wlan0", "eth0"}, []string{"wlan0", "eth0"}, nil},
		{"explicit loopback is kept", []string{"lo"}, []string{"lo"}, nil},
		{"unknown reported", []string{"eth0", "eth9"}, []string{"eth0"}, []string{"eth9"}},
		{"duplicates collapse", []string{"eth0", "eth0"}, []string{"eth0"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			selected, unknown := SelectInterfaces(tt.requested, available)
			assert.Equal(t, tt.wantSelected, selected)
			assert.Equal(t, tt.wantUnknown, unknown)
		})
	}
}
