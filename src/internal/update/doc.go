// Package update builds the DNS UPDATE message that registers a sleeping
// host with a sleep proxy.
//
// The message carries, in order: a reverse PTR and an A/AAAA record per
// interface address, then per service a TXT record and (except for
// _device-info._tcp) the DNS-SD meta PTR, the service type PTR and an SRV
// record. Two EDNS0 options follow: the update lease (code 2, 4 bytes) and the
// owner option (code 4, two zero bytes followed by the MAC address).
//
// A built Request does not depend on the proxy it is sent to.
package update
