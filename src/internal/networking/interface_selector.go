package networking

import (
	"strings"

	"github.com/maksimkurb/sleep-proxy-client/src/internal/config"
)

// loopbackPrefix excludes interfaces from "all".
const loopbackPrefix = "lo"

// SelectInterfaces resolves the requested interface names against the
// interfaces present on the system.
//
// "all" expands to every available interface whose name does not start with
// "lo". Explicit names are kept in request order; names that do not exist are
// returned separately so the caller can report them and continue.
func SelectInterfaces(requested []string, available []string) (selected []string, unknown []string) {
	present := make(map[string]struct{}, len(available))
	for _, name := range available {
		present[name] = struct{}{}
	}

	seen := make(map[string]struct{})
	add := func(name string) {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		selected = append(selected, name)
	}

	for _, name := range requested {
		if name == config.AllInterfaces {
			for _, iface := range available {
				if !strings.HasPrefix(iface, loopbackPrefix) {
					add(iface)
				}
			}
			continue
		}

		if _, ok := present[name]; !ok {
			unknown = append(unknown, name)
			continue
		}
		add(name)
	}

	return selected, unknown
}
