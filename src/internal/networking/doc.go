// Package networking reads interface addresses and hardware addresses from
// the kernel over netlink.
//
// NetlinkProvider implements domain.InterfaceInfoProvider. Alias interfaces
// ("eth0:1") are resolved against their parent link: they report the parent's
// hardware address and only the IPv4 addresses labelled with the alias name.
//
// # Example Usage
//
//	provider := networking.NewNetlinkProvider()
//	names, _ := provider.InterfaceNames()
//	selected, unknown := networking.SelectInterfaces([]string{"all"}, names)
//	for _, name := range selected {
//	    details, err := provider.ForInterface(name)
//	    ...
//	}
package networking
