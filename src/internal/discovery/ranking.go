package discovery

import (
	"sort"
	"strings"

	"github.com/maksimkurb/sleep-proxy-client/src/internal/log"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/models"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/utils"
)

// Rank orders candidates from most to least desirable.
//
// Preferred proxies come first, then lower properties tokens, then routable
// addresses before 169.254.0.0/16. Ties keep their input order. Identical
// advertisements seen twice collapse to the first one.
func Rank(candidates []models.ProxyCandidate, preferred []string) []models.ProxyCandidate {
	ranked := make([]models.ProxyCandidate, 0, len(candidates))
	seen := make(map[models.ProxyCandidate]struct{}, len(candidates))

	for _, c := range candidates {
		c.Preferred = IsPreferred(c, preferred)
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		ranked = append(ranked, c)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].SortKey().Less(ranked[j].SortKey())
	})

	return ranked
}

// IsPreferred reports whether the operator listed the candidate. A name matches
// the advertised host name or the instance name after the properties token.
func IsPreferred(c models.ProxyCandidate, preferred []string) bool {
	if len(preferred) == 0 {
		return false
	}

	instanceName := ""
	if idx := strings.Index(c.Instance, " "); idx != -1 {
		instanceName = c.Instance[idx+1:]
	}

	for _, name := range preferred {
		if utils.MatchHostName(name, c.Name) {
			return true
		}
		if instanceName != "" && strings.EqualFold(strings.TrimSpace(name), instanceName) {
			return true
		}
	}
	return false
}

// RankLines parses proxy advertisements seen on iface and ranks them.
// Malformed lines are logged and skipped. Alias names ("eth0:1") match
// advertisements seen on the parent interface. Identical advertisements are
// removed before ranking, so the result may be shorter than lines.
func RankLines(lines []string, iface string, preferred []string) []models.ProxyCandidate {
	base := models.BaseInterfaceName(iface)

	var candidates []models.ProxyCandidate
	for _, line := range lines {
		if !IsResolved(line) {
			continue
		}

		candidate, err := ParseProxyLine(line)
		if err != nil {
			log.Errorf("[%s] Skipping sleep proxy advertisement: %v", iface, err)
			continue
		}

		if iface != "" && candidate.Interface != base {
			continue
		}

		candidate.Interface = iface
		log.Debugf("[%s] Available sleep proxy %s with properties %q", iface, candidate, candidate.Properties)
		candidates = append(candidates, candidate)
	}

	return Rank(candidates, preferred)
}
