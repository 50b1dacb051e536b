package update

import (
	"fmt"
	"net/netip"
	"strings"

	"github.com/miekg/dns"

	"github.com/maksimkurb/sleep-proxy-client/src/internal/errors"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/models"
)

const (
	// Zone is the zone named in the UPDATE question section.
	Zone = "."

	servicesMetaName = "_services._dns-sd._udp.local."
	localDomain      = "local"

	// SleepProxyMarker tags TXT records registered through a sleep proxy.
	SleepProxyMarker = "spc=1"
)

// Builder assembles registration requests. It holds no per-request state.
type Builder struct {
	Hostname string
	TTLShort uint32
	TTLLong  uint32
	UDPSize  uint16
}

// HostLocal returns the fully qualified "<hostname>.local." name.
func (b *Builder) HostLocal() string {
	return dns.Fqdn(b.Hostname + "." + localDomain)
}

// Build creates the request for iface and services. It fails only when the
// interface has no address or no usable hardware address.
func (b *Builder) Build(iface *models.InterfaceDetails, services *models.ServiceSet, lease uint32) (*Request, error) {
	if iface == nil || len(iface.IPAddresses) == 0 {
		name := ""
		if iface != nil {
			name = iface.Name
		}
		return nil, errors.NewNoAddressError(fmt.Sprintf("no IPv4 or IPv6 addresses found for interface %s", name))
	}

	owner, err := OwnerOption(iface.HardwareAddr)
	if err != nil {
		return nil, errors.NewInterfaceError(fmt.Sprintf("cannot build owner option for %s", iface.Name), err)
	}

	hostRecords, err := b.hostRecords(iface.IPAddresses)
	if err != nil {
		return nil, err
	}

	var serviceRecords []dns.RR
	for _, svc := range services.Services() {
		serviceRecords = append(serviceRecords, b.serviceRecords(svc)...)
	}

	m := new(dns.Msg)
	m.SetUpdate(Zone)
	m.Insert(hostRecords)
	m.Insert(serviceRecords)

	opt := &dns.OPT{Hdr: dns.RR_Header{Name: ".", Rrtype: dns.TypeOPT}}
	opt.SetUDPSize(b.UDPSize)
	opt.Option = append(opt.Option, LeaseOption(lease), owner)
	m.Extra = append(m.Extra, opt)

	return &Request{
		Interface:   iface.Name,
		HostRecords: len(hostRecords),
		Lease:       lease,
		msg:         m,
	}, nil
}

func (b *Builder) hostRecords(addresses []string) ([]dns.RR, error) {
	host := b.HostLocal()
	rrs := make([]dns.RR, 0, 2*len(addresses))

	for _, a := range addresses {
		ip, err := netip.ParseAddr(models.StripZone(a))
		if err != nil {
			return nil, errors.NewInternalError(fmt.Sprintf("invalid interface address %q", a), err)
		}

		reverse, err := dns.ReverseAddr(ip.String())
		if err != nil {
			return nil, errors.NewInternalError(fmt.Sprintf("cannot build reverse name for %s", ip), err)
		}

		rrs = append(rrs, &dns.PTR{
			Hdr: header(reverse, dns.TypePTR, b.TTLShort),
			Ptr: host,
		})

		if ip.Is4() || ip.Is4In6() {
			rrs = append(rrs, &dns.A{
				Hdr: header(host, dns.TypeA, b.TTLShort),
				A:   ip.Unmap().AsSlice(),
			})
		} else {
			rrs = append(rrs, &dns.AAAA{
				Hdr:  header(host, dns.TypeAAAA, b.TTLShort),
				AAAA: ip.AsSlice(),
			})
		}
	}

	return rrs, nil
}

func (b *Builder) serviceRecords(svc models.Service) []dns.RR {
	serviceType := dns.Fqdn(svc.Type + "." + localDomain)
	serviceTypeHost := escapeLabel(svc.Name) + "." + serviceType

	rrs := []dns.RR{&dns.TXT{
		Hdr: header(serviceTypeHost, dns.TypeTXT, b.TTLLong),
		Txt: txtTokens(svc.TXT),
	}}

	if svc.IsDeviceInfo() {
		return rrs
	}

	return append(rrs,
		&dns.PTR{
			Hdr: header(servicesMetaName, dns.TypePTR, b.TTLLong),
			Ptr: serviceType,
		},
		&dns.PTR{
			Hdr: header(serviceType, dns.TypePTR, b.TTLLong),
			Ptr: serviceTypeHost,
		},
		&dns.SRV{
			Hdr:      header(serviceTypeHost, dns.TypeSRV, b.TTLShort),
			Priority: 0,
			Weight:   0,
			Port:     svc.Port,
			Target:   b.HostLocal(),
		},
	)
}

// txtTokens appends the marker to the service tokens. A service without
// tokens gets a single empty string.
func txtTokens(tokens []string) []string {
	if len(tokens) == 0 {
		return []string{""}
	}
	result := make([]string, 0, len(tokens)+1)
	result = append(result, tokens...)
	return append(result, SleepProxyMarker)
}

func header(name string, rrtype uint16, ttl uint32) dns.RR_Header {
	return dns.RR_Header{Name: name, Rrtype: rrtype, Class: dns.ClassINET, Ttl: ttl}
}

// escapeLabel makes an instance name a single presentation-format label.
func escapeLabel(label string) string {
	return strings.NewReplacer(`\`, `\\`, `.`, `\.`).Replace(label)
}
