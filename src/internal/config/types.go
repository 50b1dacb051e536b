package config

import (
	"path/filepath"

	"github.com/maksimkurb/sleep-proxy-client/src/internal/utils"
)

// AllInterfaces selects every system interface that is not loopback.
const AllInterfaces = "all"

const (
	BackendAvahi    = "avahi"
	BackendZeroconf = "zeroconf"
)

// Template variables available in avahi command templates.
const (
	AVAHI_TMPL_SERVICE_TYPE = "service_type"
)

type Config struct {
	// General holds general configuration.
	General *GeneralConfig `toml:"general" json:"general"`
	// Registration controls the content and transport of the update request.
	Registration *RegistrationConfig `toml:"registration" json:"registration"`
	// Discovery selects how services and sleep proxies are browsed.
	Discovery *DiscoveryConfig `toml:"discovery" json:"discovery"`
	// API configures the optional HTTP trigger server.
	API *APIConfig `toml:"api" json:"api"`

	_absConfigFilePath string
}

type GeneralConfig struct {
	// Interfaces to register. "all" selects every interface whose name does not start with "lo" (default: ["all"]).
	Interfaces []string `toml:"interfaces" json:"interfaces" validate:"required,min=1,dive,iface_name"`
	// Hostname overrides the system host name. Only the first label is used.
	Hostname string `toml:"hostname" json:"hostname,omitempty" validate:"omitempty,host_label"`
	// LogFile redirects log output to a file. Relative paths are resolved against the config directory.
	LogFile string `toml:"log_file" json:"log_file,omitempty"`
	// Debug enables verbose output including the request dump.
	Debug bool `toml:"debug" json:"debug"`
}

type RegistrationConfig struct {
	// LeaseTimeSec is the lease requested from the proxy. The host is woken after this period (default: 7200).
	LeaseTimeSec uint32 `toml:"lease_time_sec" json:"lease_time_sec" validate:"required,min=1"`
	// TTLShortSec is the TTL of address, reverse and SRV records (default: 120).
	TTLShortSec uint32 `toml:"ttl_short_sec" json:"ttl_short_sec" validate:"required,min=1"`
	// TTLLongSec is the TTL of TXT and PTR service records (default: 4500).
	TTLLongSec uint32 `toml:"ttl_long_sec" json:"ttl_long_sec" validate:"required,min=1"`
	// UDPPayloadSize is the EDNS0 UDP payload size advertised in the request (default: 1440).
	UDPPayloadSize uint16 `toml:"udp_payload_size" json:"udp_payload_size" validate:"required,min=512"`
	// TimeoutSec is the per-proxy response timeout (default: 10).
	TimeoutSec int `toml:"timeout_sec" json:"timeout_sec" validate:"required,min=1,max=300"`
	// ParallelInterfaces registers all interfaces concurrently (default: false).
	ParallelInterfaces bool `toml:"parallel_interfaces" json:"parallel_interfaces"`
}

type DiscoveryConfig struct {
	// Backend is either "avahi" (runs avahi-browse) or "zeroconf" (built-in mDNS browser) (default: "avahi").
	Backend string `toml:"backend" json:"backend" validate:"required,oneof=avahi zeroconf"`
	// BrowseTimeoutSec bounds a single browse pass (default: 5).
	BrowseTimeoutSec int `toml:"browse_timeout_sec" json:"browse_timeout_sec" validate:"required,min=1,max=120"`
	// PreferredProxies lists proxy host names that are always tried first, in any order.
	PreferredProxies []string `toml:"preferred_proxies" json:"preferred_proxies,omitempty" validate:"dive,required"`
	// ProxyServiceType is the service type sleep proxies advertise (default: "_sleep-proxy._udp").
	ProxyServiceType string `toml:"proxy_service_type" json:"proxy_service_type" validate:"required,service_type"`
	// ServiceTypes are browsed by the zeroconf backend. The avahi backend browses everything.
	ServiceTypes []string `toml:"service_types" json:"service_types" validate:"dive,service_type"`
	// AvahiServicesCommand lists resolved local services. Available variables: {{service_type}}.
	AvahiServicesCommand string `toml:"avahi_services_command" json:"avahi_services_command" validate:"required_if=Backend avahi"`
	// AvahiProxiesCommand lists resolved sleep proxies. Available variables: {{service_type}}.
	AvahiProxiesCommand string `toml:"avahi_proxies_command" json:"avahi_proxies_command" validate:"required_if=Backend avahi"`
}

type APIConfig struct {
	// Listen is the address of the HTTP trigger server (default: "127.0.0.1:8053").
	Listen string `toml:"listen" json:"listen" validate:"required,hostname_port"`
}

// GetConfigDir returns the directory of the loaded config file, or "" for built-in defaults.
func (c *Config) GetConfigDir() string {
	if c._absConfigFilePath == "" {
		return ""
	}
	return filepath.Dir(c._absConfigFilePath)
}

// GetAbsLogFile resolves the log file against the config directory.
func (c *Config) GetAbsLogFile() string {
	if c.General == nil {
		return ""
	}
	return utils.GetAbsolutePath(c.General.LogFile, c.GetConfigDir())
}

// HasAllInterfaces reports whether "all" is among the configured interfaces.
func (g *GeneralConfig) HasAllInterfaces() bool {
	for _, iface := range g.Interfaces {
		if iface == AllInterfaces {
			return true
		}
	}
	return false
}
