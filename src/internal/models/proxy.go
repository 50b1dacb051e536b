package models

import (
	"net"
	"net/netip"
	"strconv"
	"strings"
)

const (
	// LinkLocalPenalty is the sort penalty for proxies on 169.254.0.0/16.
	LinkLocalPenalty = 50
	// RoutablePenalty is the sort penalty for every other address.
	RoutablePenalty = 10
)

var ipv4LinkLocal = netip.MustParsePrefix("169.254.0.0/16")

// ProxyCandidate is a sleep proxy advertisement seen on an interface.
type ProxyCandidate struct {
	// Name is the host name the proxy advertises (e.g. "macmini.local").
	Name string `json:"name"`
	// Instance is the full, unescaped DNS-SD instance name.
	Instance string `json:"instance"`
	// IPAddress is the proxy address without zone.
	IPAddress string `json:"ip_address"`
	// Port is the UDP port the proxy accepts updates on.
	Port uint16 `json:"port"`
	// Interface is the interface the advertisement was seen on.
	Interface string `json:"interface,omitempty"`
	// Properties is the advertised priority token (instance name before the first space).
	Properties string `json:"properties"`
	// Preferred is set when the operator listed this proxy as preferred.
	Preferred bool `json:"preferred"`
}

// SortKey orders candidates: smaller is more desirable.
type SortKey struct {
	Preference       int
	Properties       string
	LinkLocalPenalty int
}

// Less compares keys field by field. Properties compare as raw bytes.
func (k SortKey) Less(other SortKey) bool {
	if k.Preference != other.Preference {
		return k.Preference < other.Preference
	}
	if k.Properties != other.Properties {
		return k.Properties < other.Properties
	}
	return k.LinkLocalPenalty < other.LinkLocalPenalty
}

// SortKey derives the ranking key of the candidate.
func (p ProxyCandidate) SortKey() SortKey {
	key := SortKey{
		Preference:       1,
		Properties:       p.Properties,
		LinkLocalPenalty: RoutablePenalty,
	}
	if p.Preferred {
		key.Preference = 0
	}
	if IsIPv4LinkLocal(p.IPAddress) {
		key.LinkLocalPenalty = LinkLocalPenalty
	}
	return key
}

// Address returns host:port for the transport step. IPv6 link-local
// addresses get the interface zone so the datagram leaves the right link.
func (p ProxyCandidate) Address() string {
	host := p.IPAddress
	if addr, err := netip.ParseAddr(host); err == nil && addr.Is6() && addr.IsLinkLocalUnicast() && addr.Zone() == "" && p.Interface != "" {
		host = host + "%" + BaseInterfaceName(p.Interface)
	}
	return net.JoinHostPort(host, strconv.Itoa(int(p.Port)))
}

// String returns a short human-readable description.
func (p ProxyCandidate) String() string {
	return p.Name + " (" + net.JoinHostPort(p.IPAddress, strconv.Itoa(int(p.Port))) + ")"
}

// IsIPv4LinkLocal reports whether ip lies in 169.254.0.0/16.
func IsIPv4LinkLocal(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	return addr.Is4() && ipv4LinkLocal.Contains(addr)
}

// BaseInterfaceName strips an alias suffix: "eth0:1" becomes "eth0".
func BaseInterfaceName(name string) string {
	if idx := strings.Index(name, ":"); idx != -1 {
		return name[:idx]
	}
	return name
}
