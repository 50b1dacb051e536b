package utils

import "strings"

// NormalizeHostName lowercases name and strips a trailing dot and the ".local" suffix.
//
// "MacMini.local." and "macmini" both normalize to "macmini".
func NormalizeHostName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.TrimSuffix(name, ".")
	name = strings.TrimSuffix(name, ".local")
	return name
}

// MatchHostName reports whether two mDNS host names refer to the same host.
// Comparison is case-insensitive and ignores the ".local" domain.
func MatchHostName(a, b string) bool {
	a = NormalizeHostName(a)
	return a != "" && a == NormalizeHostName(b)
}

// FirstLabel returns the part of a host name before the first dot.
func FirstLabel(name string) string {
	if idx := strings.Index(name, "."); idx != -1 {
		return name[:idx]
	}
	return name
}
