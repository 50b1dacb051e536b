package networking

import (
	"fmt"
	"net"
	"sort"

	"github.com/vishvananda/netlink"

	"github.com/maksimkurb/sleep-proxy-client/src/internal/errors"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/log"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/models"
)

// Netlink is the subset of the netlink API the provider uses.
type Netlink interface {
	LinkByName(name string) (netlink.Link, error)
	LinkList() ([]netlink.Link, error)
	AddrList(link netlink.Link, family int) ([]netlink.Addr, error)
}

type systemNetlink struct{}

func (systemNetlink) LinkByName(name string) (netlink.Link, error) {
	return netlink.LinkByName(name)
}

func (systemNetlink) LinkList() ([]netlink.Link, error) {
	return netlink.LinkList()
}

func (systemNetlink) AddrList(link netlink.Link, family int) ([]netlink.Addr, error) {
	return netlink.AddrList(link, family)
}

// Interface is a system interface as shown by the interfaces command.
type Interface struct {
	Name         string   `json:"name"`
	Index        int      `json:"index"`
	Up           bool     `json:"up"`
	Loopback     bool     `json:"loopback"`
	HardwareAddr string   `json:"hardware_address,omitempty"`
	IPAddresses  []string `json:"ip_addresses"`
}

// NetlinkProvider implements domain.InterfaceInfoProvider.
type NetlinkProvider struct {
	nl Netlink
}

// NewNetlinkProvider creates a provider backed by the running kernel.
func NewNetlinkProvider() *NetlinkProvider {
	return &NetlinkProvider{nl: systemNetlink{}}
}

// NewNetlinkProviderWith creates a provider backed by nl.
func NewNetlinkProviderWith(nl Netlink) *NetlinkProvider {
	return &NetlinkProvider{nl: nl}
}

// ForInterface returns the addresses and hardware address of name.
// An interface without addresses is not an error; the caller decides. The
// hardware address is only required once there is something to register.
func (p *NetlinkProvider) ForInterface(name string) (*models.InterfaceDetails, error) {
	base := models.BaseInterfaceName(name)

	link, err := p.nl.LinkByName(base)
	if err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("invalid interface specified: %s", name), err)
	}

	addrs, err := p.nl.AddrList(link, netlink.FAMILY_ALL)
	if err != nil {
		return nil, errors.NewInterfaceError(fmt.Sprintf("failed to list addresses of %s", name), err)
	}

	var ips []string
	for _, addr := range addrs {
		if addr.IPNet == nil || !addressBelongsTo(addr, name, base) {
			continue
		}
		ips = append(ips, addr.IP.String())
	}

	hw := link.Attrs().HardwareAddr
	details := models.NewInterfaceDetails(name, ips, append(net.HardwareAddr(nil), hw...))
	if len(details.IPAddresses) == 0 {
		return details, nil
	}
	if len(hw) != 6 {
		return nil, errors.NewInterfaceError(fmt.Sprintf("interface %s has no 6-byte hardware address", name), nil)
	}
	log.Debugf("[%s] IPs: %v, HW-Addr: %s", name, details.IPAddresses, details.HardwareAddr)

	return details, nil
}

// addressBelongsTo decides which addresses of the parent link an interface
// name owns. The parent owns unlabelled addresses and those labelled with its
// own name; an alias owns only addresses labelled with the alias.
func addressBelongsTo(addr netlink.Addr, name, base string) bool {
	if name != base {
		return addr.Label == name
	}
	return addr.Label == "" || addr.Label == base
}

// InterfaceNames returns all link names plus alias labels, sorted.
func (p *NetlinkProvider) InterfaceNames() ([]string, error) {
	links, err := p.nl.LinkList()
	if err != nil {
		return nil, errors.NewInterfaceError("failed to list interfaces", err)
	}

	seen := make(map[string]struct{})
	var names []string
	add := func(name string) {
		if _, ok := seen[name]; ok || name == "" {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	for _, link := range links {
		name := link.Attrs().Name
		add(name)

		addrs, err := p.nl.AddrList(link, netlink.FAMILY_V4)
		if err != nil {
			log.Warnf("Failed to list addresses of %s: %v", name, err)
			continue
		}
		for _, addr := range addrs {
			if addr.Label != name && models.BaseInterfaceName(addr.Label) == name {
				add(addr.Label)
			}
		}
	}

	sort.Strings(names)
	return names, nil
}

// ListInterfaces describes every interface, aliases included.
func (p *NetlinkProvider) ListInterfaces() ([]Interface, error) {
	names, err := p.InterfaceNames()
	if err != nil {
		return nil, err
	}

	result := make([]Interface, 0, len(names))
	for _, name := range names {
		link, err := p.nl.LinkByName(models.BaseInterfaceName(name))
		if err != nil {
			log.Warnf("Failed to get interface %s: %v", name, err)
			continue
		}

		attrs := link.Attrs()
		iface := Interface{
			Name:         name,
			Index:        attrs.Index,
			Up:           attrs.Flags&net.FlagUp != 0,
			Loopback:     attrs.Flags&net.FlagLoopback != 0,
			HardwareAddr: attrs.HardwareAddr.String(),
			IPAddresses:  []string{},
		}

		if details, err := p.ForInterface(name); err == nil {
			iface.IPAddresses = details.IPAddresses
		}

		result = append(result, iface)
	}

	return result, nil
}
