package update

import (
	"github.com/miekg/dns"
)

// Request is a built registration message. It is not modified after Build;
// Message returns a copy for every transmission.
type Request struct {
	// Interface is the interface the request registers.
	Interface string
	// HostRecords is the number of address and reverse records at the start of the update section.
	HostRecords int
	// Lease is the requested lease in seconds.
	Lease uint32

	msg *dns.Msg
}

// Message returns a copy of the DNS message with a fresh ID.
func (r *Request) Message() *dns.Msg {
	m := r.msg.Copy()
	m.Id = dns.Id()
	return m
}

// Records returns the update section in order.
func (r *Request) Records() []dns.RR {
	return append([]dns.RR(nil), r.msg.Ns...)
}

// ServiceRecords returns the records that follow the host records.
func (r *Request) ServiceRecords() []dns.RR {
	return append([]dns.RR(nil), r.msg.Ns[r.HostRecords:]...)
}

// OPT returns the EDNS0 record.
func (r *Request) OPT() *dns.OPT {
	return r.msg.IsEdns0()
}

// Options returns the EDNS0 options in order: lease, then owner.
func (r *Request) Options() []dns.EDNS0 {
	if opt := r.OPT(); opt != nil {
		return append([]dns.EDNS0(nil), opt.Option...)
	}
	return nil
}

// Pack returns the wire format of the message.
func (r *Request) Pack() ([]byte, error) {
	return r.msg.Pack()
}

// String renders the message in presentation format.
func (r *Request) String() string {
	return r.msg.String()
}
