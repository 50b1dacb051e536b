package discovery

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/maksimkurb/sleep-proxy-client/src/internal/errors"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/models"
)

// Field positions of an avahi-browse parsable line.
const (
	fieldFlag = iota
	fieldInterface
	fieldProtocol
	fieldInstance
	fieldServiceType
	fieldDomain
	fieldHost
	fieldAddress
	fieldPort
	fieldTXT

	minFields
)

// ResolvedFlag marks lines that carry a resolved address and port.
const ResolvedFlag = "="

// Record is one resolved browse line.
type Record struct {
	Interface   string
	Protocol    string
	Instance    string
	ServiceType string
	Domain      string
	Host        string
	Address     string
	Port        uint16
	TXT         []string
}

// IsResolved reports whether line is a resolved ("=") browse line.
func IsResolved(line string) bool {
	return strings.HasPrefix(line, ResolvedFlag+";")
}

// ParseLine parses a resolved browse line. The TXT field is the remainder of
// the line, so semicolons inside TXT values are kept.
func ParseLine(line string) (*Record, error) {
	line = strings.TrimRight(line, "\r\n")
	fields := strings.SplitN(line, ";", minFields)
	if len(fields) < minFields {
		return nil, errors.NewDiscoveryError(
			fmt.Sprintf("malformed browse line: expected %d fields, got %d", minFields, len(fields)), nil)
	}

	port, err := strconv.ParseUint(fields[fieldPort], 10, 16)
	if err != nil {
		return nil, errors.NewDiscoveryError(fmt.Sprintf("malformed browse line: invalid port %q", fields[fieldPort]), err)
	}

	return &Record{
		Interface:   fields[fieldInterface],
		Protocol:    fields[fieldProtocol],
		Instance:    Unescape(fields[fieldInstance]),
		ServiceType: fields[fieldServiceType],
		Domain:      fields[fieldDomain],
		Host:        fields[fieldHost],
		Address:     models.StripZone(fields[fieldAddress]),
		Port:        uint16(port),
		TXT:         ParseTXT(fields[fieldTXT]),
	}, nil
}

// ParseTXT splits an avahi TXT field ("a=1" "b=2") into unescaped tokens.
// Inside quotes a backslash escapes the next character or starts a \DDD escape.
func ParseTXT(field string) []string {
	var (
		tokens  []string
		current strings.Builder
		inQuote bool
	)

	for i := 0; i < len(field); i++ {
		c := field[i]
		switch {
		case c == '"':
			if inQuote {
				tokens = append(tokens, Unescape(current.String()))
				current.Reset()
			}
			inQuote = !inQuote
		case c == '\\' && inQuote && i+1 < len(field):
			// keep the escape for Unescape, but never let it close the quote
			current.WriteByte(c)
			current.WriteByte(field[i+1])
			i++
		case inQuote:
			current.WriteByte(c)
		}
	}

	return tokens
}

// ParseServiceLines collects the services announced from one of ips.
// Non-resolved lines are ignored. A malformed resolved line stops the pass:
// the services collected so far are returned along with a DiscoveryError.
func ParseServiceLines(lines []string, ips []string) (*models.ServiceSet, error) {
	wanted := make(map[string]struct{}, len(ips))
	for _, ip := range ips {
		wanted[models.StripZone(ip)] = struct{}{}
	}

	services := models.NewServiceSet()
	for _, line := range lines {
		if !IsResolved(line) {
			continue
		}

		record, err := ParseLine(line)
		if err != nil {
			return services, err
		}

		if _, ok := wanted[record.Address]; !ok {
			continue
		}

		services.Add(models.NewService(record.Instance, record.ServiceType, record.Port, record.TXT))
	}

	return services, nil
}

// ParseProxyLine parses a sleep proxy advertisement.
func ParseProxyLine(line string) (models.ProxyCandidate, error) {
	record, err := ParseLine(line)
	if err != nil {
		return models.ProxyCandidate{}, err
	}

	return models.ProxyCandidate{
		Name:       record.Host,
		Instance:   record.Instance,
		IPAddress:  record.Address,
		Port:       record.Port,
		Interface:  record.Interface,
		Properties: Properties(record.Instance),
	}, nil
}

// Properties returns the priority token of an unescaped proxy instance name,
// i.e. everything before the first space.
func Properties(instance string) string {
	if idx := strings.Index(instance, " "); idx != -1 {
		return instance[:idx]
	}
	return instance
}

// FormatLine renders a record as a resolved browse line.
func FormatLine(r *Record) string {
	quoted := make([]string, 0, len(r.TXT))
	for _, token := range r.TXT {
		quoted = append(quoted, `"`+escapeTXT(token)+`"`)
	}

	return strings.Join([]string{
		ResolvedFlag,
		r.Interface,
		r.Protocol,
		Escape(r.Instance),
		r.ServiceType,
		r.Domain,
		r.Host,
		r.Address,
		strconv.Itoa(int(r.Port)),
		strings.Join(quoted, " "),
	}, ";")
}

func escapeTXT(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteByte(c)
	}
	return sb.String()
}
