// Package discovery turns mDNS browse results into typed services and ranked
// sleep proxy candidates.
//
// Both backends produce avahi-browse "parsable" lines:
//
//	=;eth0;IPv4;70-35-60\.1\032macmini;_sleep-proxy._udp;local;macmini.local;192.168.1.2;5353;""
//
// AvahiSource runs avahi-browse, ZeroconfSource browses with the built-in
// grandcat/zeroconf resolver and renders its entries in the same format. The
// parsers and the ranking are pure functions over those lines so that they can
// be tested without a network.
package discovery
