// Package models contains the value types shared by discovery, the update
// builder, and the sender: discovered services, sleep proxy candidates and
// the per-interface address details.
//
// All types are plain values. Identity is structural: two services with the
// same name, type, port and TXT token set are the same service, which is how
// records seen over both IPv4 and IPv6 collapse into one.
package models
