package networking

import (
	"fmt"
	"net"

	"github.com/vishvananda/netlink"
)

// fakeNetlink serves links and addresses from memory.
type fakeNetlink struct {
	links []netlink.Link
	addrs map[string][]netlink.Addr
}

func (f *fakeNetlink) LinkByName(name string) (netlink.Link, error) {
	for _, l := range f.links {
		if l.Attrs().Name == name {
			return l, nil
		}
	}
	return nil, fmt.Errorf("Link not found")
}

func (f *fakeNetlink) LinkList() ([]netlink.Link, error) {
	return f.links, nil
}

func (f *fakeNetlink) AddrList(link netlink.Link, family int) ([]netlink.Addr, error) {
	var result []netlink.Addr
	for _, a := range f.addrs[link.Attrs().Name] {
		isV4 := a.IP.To4() != nil
		if family == netlink.FAMILY_V4 && !isV4 || family == netlink.FAMILY_V6 && isV4 {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

func device(name string, index int, mac string, flags net.Flags) netlink.Link {
	var hw net.HardwareAddr
	if mac != "" {
		hw, _ = net.ParseMAC(mac)
	}
	return &netlink.Device{LinkAttrs: netlink.LinkAttrs{Name: name, Index: index, HardwareAddr: hw, Flags: flags}}
}

func addr(cidr, label string) netlink.Addr {
	ip, ipNet, err := net.ParseCIDR(cidr)
	if err != nil {
		panic(err)
	}
	ipNet.IP = ip
	return netlink.Addr{IPNet: ipNet, Label: label}
}

func newFakeSystem() *fakeNetlink {
	return &fakeNetlink{
		links: []netlink.Link{
			device("lo", 1, "", net.FlagUp|net.FlagLoopback),
			device("eth0", 2, "aa:bb:cc:dd:ee:ff", net.FlagUp),
			device("wlan0", 3, "11:22:33:44:55:66", 0),
			device("tun0", 4, "", net.FlagUp),
		},
		addrs: map[string][]netlink.Addr{
			"lo": {addr("127.0.0.1/8", "lo")},
			"eth0": {
				addr("192.168.1.50/24", "eth0"),
				addr("192.168.1.51/24", "eth0:1"),
				addr("fe80::a8bb:ccff:fedd:eeff/64", ""),
				addr("192.168.1.50/24", "eth0"),
			},
			"tun0": {addr("10.8.0.2/24", "tun0")},
		},
	}
}
