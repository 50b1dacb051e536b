package models

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net"
	"net/netip"
	"strings"
)

// InterfaceDetails describes one interface for a single registration attempt.
type InterfaceDetails struct {
	Name         string           `json:"name"`
	IPAddresses  []string         `json:"ip_addresses"`
	HardwareAddr net.HardwareAddr `json:"hardware_address"`
}

// NewInterfaceDetails normalizes addresses: zone suffixes are stripped,
// invalid entries dropped and duplicates removed, keeping first-seen order.
func NewInterfaceDetails(name string, addresses []string, hw net.HardwareAddr) *InterfaceDetails {
	seen := make(map[string]struct{}, len(addresses))
	ips := make([]string, 0, len(addresses))
	for _, a := range addresses {
		addr, err := netip.ParseAddr(StripZone(a))
		if err != nil {
			continue
		}
		s := addr.String()
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		ips = append(ips, s)
	}

	return &InterfaceDetails{
		Name:         name,
		IPAddresses:  ips,
		HardwareAddr: hw,
	}
}

// MarshalJSON renders the hardware address in its colon form.
func (d InterfaceDetails) MarshalJSON() ([]byte, error) {
	view := struct {
		Name         string   `json:"name"`
		IPAddresses  []string `json:"ip_addresses"`
		HardwareAddr string   `json:"hardware_address,omitempty"`
	}{
		Name:         d.Name,
		IPAddresses:  d.IPAddresses,
		HardwareAddr: d.HardwareAddr.String(),
	}
	return json.Marshal(view)
}

// HasAddress reports whether ip is one of the interface addresses.
func (d *InterfaceDetails) HasAddress(ip string) bool {
	ip = StripZone(ip)
	for _, a := range d.IPAddresses {
		if a == ip {
			return true
		}
	}
	return false
}

// StripZone removes a "%zone" suffix from an address string.
func StripZone(ip string) string {
	if idx := strings.Index(ip, "%"); idx != -1 {
		return ip[:idx]
	}
	return ip
}

// ParseHardwareAddr parses a 6-byte MAC address. Separators (":", "-", ".")
// and letter case are ignored.
func ParseHardwareAddr(s string) (net.HardwareAddr, error) {
	clean := strings.NewReplacer(":", "", "-", "", ".", "").Replace(strings.TrimSpace(s))
	raw, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("invalid hardware address %q: %w", s, err)
	}
	if len(raw) != 6 {
		return nil, fmt.Errorf("invalid hardware address %q: expected 6 bytes, got %d", s, len(raw))
	}
	return net.HardwareAddr(raw), nil
}
