package service

import (
	"fmt"
	"strings"

	"github.com/maksimkurb/sleep-proxy-client/src/internal/models"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/networking"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

// FormatInterfacesForCLI renders interfaces one per line, addresses indented below.
func FormatInterfacesForCLI(interfaces []networking.Interface) string {
	var sb strings.Builder

	for _, iface := range interfaces {
		sb.WriteString(fmt.Sprintf("%d. %s%s%s (%sup%s=%s%v%s)",
			iface.Index,
			colorCyan, iface.Name, colorReset,
			colorCyan, colorReset,
			colorForBool(iface.Up), iface.Up, colorReset))
		if iface.HardwareAddr != "" {
			sb.WriteString(" " + iface.HardwareAddr)
		}
		sb.WriteString("\n")

		for _, ip := range iface.IPAddresses {
			family := "IPv4"
			if strings.Contains(ip, ":") {
				family = "IPv6"
			}
			sb.WriteString(fmt.Sprintf("  IP Address (%s): %s\n", family, ip))
		}
	}

	return sb.String()
}

// FormatProxiesForCLI renders ranked candidates of one interface, best first.
func FormatProxiesForCLI(iface string, candidates []models.ProxyCandidate) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s%s%s:\n", colorCyan, iface, colorReset))
	if len(candidates) == 0 {
		sb.WriteString(fmt.Sprintf("  %sno sleep proxies found%s\n", colorYellow, colorReset))
		return sb.String()
	}

	for i, c := range candidates {
		marker := "  "
		if i == 0 {
			marker = colorGreen + "->" + colorReset
		}
		preferred := ""
		if c.Preferred {
			preferred = " " + colorGreen + "[preferred]" + colorReset
		}
		sb.WriteString(fmt.Sprintf("%s %d. %s %s (properties=%s)%s\n",
			marker, i+1, c.Name, c.Address(), c.Properties, preferred))
	}

	return sb.String()
}

// FormatResultsForCLI renders one line per interface result.
func FormatResultsForCLI(results []InterfaceResult) string {
	var sb strings.Builder

	for _, r := range results {
		color := colorForStatus(r.Status)
		sb.WriteString(fmt.Sprintf("%s%s%s: %s%s%s", colorCyan, r.Interface, colorReset, color, r.Status, colorReset))
		switch {
		case r.Proxy != nil && r.GrantedLease > 0:
			sb.WriteString(fmt.Sprintf(" via %s, lease %ds", r.Proxy, r.GrantedLease))
		case r.Proxy != nil:
			sb.WriteString(fmt.Sprintf(" via %s", r.Proxy))
		case r.Err != nil:
			sb.WriteString(fmt.Sprintf(" (%v)", r.Err))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func colorForBool(value bool) string {
	if value {
		return colorGreen
	}
	return colorRed
}

func colorForStatus(status Status) string {
	switch status {
	case StatusRegistered:
		return colorGreen
	case StatusSkipped:
		return colorYellow
	default:
		return colorRed
	}
}
