package update

import (
	"encoding/binary"
	"fmt"
	"net"

	"github.com/miekg/dns"
)

const (
	// OptionLease is the EDNS0 update lease option code.
	OptionLease uint16 = dns.EDNS0UL
	// OptionOwner is the EDNS0 owner option code.
	OptionOwner uint16 = 4

	ownerVersionSeq = 2
)

// LeaseOption returns the lease option carrying seconds as a 4-byte value.
func LeaseOption(seconds uint32) *dns.EDNS0_UL {
	return &dns.EDNS0_UL{Code: dns.EDNS0UL, Lease: seconds}
}

// EncodeOwner returns the owner option payload: version and sequence bytes
// (both zero) followed by the 6-byte hardware address.
func EncodeOwner(hw net.HardwareAddr) ([]byte, error) {
	if len(hw) != 6 {
		return nil, fmt.Errorf("owner option requires a 6-byte hardware address, got %d bytes", len(hw))
	}
	payload := make([]byte, ownerVersionSeq, ownerVersionSeq+len(hw))
	return append(payload, hw...), nil
}

// OwnerOption returns the owner option for hw.
func OwnerOption(hw net.HardwareAddr) (*dns.EDNS0_LOCAL, error) {
	payload, err := EncodeOwner(hw)
	if err != nil {
		return nil, err
	}
	return &dns.EDNS0_LOCAL{Code: OptionOwner, Data: payload}, nil
}

// DecodeLease extracts the lease from an OPT record. The second result is
// false when the option is absent.
func DecodeLease(opt *dns.OPT) (uint32, bool) {
	if opt == nil {
		return 0, false
	}
	for _, o := range opt.Option {
		switch v := o.(type) {
		case *dns.EDNS0_UL:
			return v.Lease, true
		case *dns.EDNS0_LOCAL:
			if v.Code == OptionLease && len(v.Data) >= 4 {
				return binary.BigEndian.Uint32(v.Data), true
			}
		}
	}
	return 0, false
}

// DecodeOwner extracts the hardware address from an OPT record.
func DecodeOwner(opt *dns.OPT) (net.HardwareAddr, bool) {
	if opt == nil {
		return nil, false
	}
	for _, o := range opt.Option {
		if o.Option() != OptionOwner {
			continue
		}
		var data []byte
		switch v := o.(type) {
		case *dns.EDNS0_LOCAL:
			data = v.Data
		case *dns.EDNS0_ESU:
			// code 4 is registered to ENUM Source-URI and unpacks as such
			data = []byte(v.Uri)
		default:
			continue
		}
		if len(data) < ownerVersionSeq+6 {
			return nil, false
		}
		return net.HardwareAddr(data[ownerVersionSeq : ownerVersionSeq+6]), true
	}
	return nil, false
}
