package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/pelletier/go-toml/v2"

	"github.com/maksimkurb/sleep-proxy-client/src/internal/log"
)

// DefaultConfigPath is where the client looks for its configuration file.
const DefaultConfigPath = "/opt/etc/sleep-proxy-client/sleep-proxy-client.conf"

var (
	ifaceNameRegexp    = regexp.MustCompile(`^[A-Za-z0-9_.@-]{1,15}(:[A-Za-z0-9_-]+)?$`)
	hostLabelRegexp    = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9-]{0,61}[A-Za-z0-9])?$`)
	serviceTypeRegexp  = regexp.MustCompile(`^_[A-Za-z0-9-]+\._(tcp|udp)$`)
	defaultServiceList = []string{
		"_ssh._tcp",
		"_sftp-ssh._tcp",
		"_http._tcp",
		"_smb._tcp",
		"_afpovertcp._tcp",
		"_rfb._tcp",
		"_device-info._tcp",
	}
)

// DefaultConfig returns the built-in configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		General: &GeneralConfig{
			Interfaces: []string{AllInterfaces},
		},
		Registration: &RegistrationConfig{
			LeaseTimeSec:   7200,
			TTLShortSec:    120,
			TTLLongSec:     4500,
			UDPPayloadSize: 1440,
			TimeoutSec:     10,
		},
		Discovery: &DiscoveryConfig{
			Backend:              BackendAvahi,
			BrowseTimeoutSec:     5,
			ProxyServiceType:     "_sleep-proxy._udp",
			ServiceTypes:         append([]string(nil), defaultServiceList...),
			AvahiServicesCommand: "avahi-browse --all --resolve --parsable --no-db-lookup --terminate",
			AvahiProxiesCommand:  "avahi-browse --resolve --parsable --no-db-lookup --terminate {{" + AVAHI_TMPL_SERVICE_TYPE + "}}",
		},
		API: &APIConfig{
			Listen: "127.0.0.1:8053",
		},
	}
}

// LoadConfig reads configPath on top of DefaultConfig.
// A missing file is not an error: the defaults are returned.
func LoadConfig(configPath string) (*Config, error) {
	configFile := filepath.Clean(configPath)

	if !filepath.IsAbs(configFile) {
		if path, err := filepath.Abs(configFile); err != nil {
			return nil, fmt.Errorf("failed to get absolute path: %v", err)
		} else {
			configFile = path
		}
	}

	config := DefaultConfig()

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		log.Debugf("Configuration file not found, using defaults: %s", configFile)
		return config, nil
	}

	content, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	if err := toml.Unmarshal(content, config); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			log.Errorf(derr.String())
			row, col := derr.Position()
			log.Errorf("Error at line %d, column %d", row, col)
			return nil, fmt.Errorf("failed to parse config file")
		}
		return nil, fmt.Errorf("failed to parse config file: %v", err)
	}

	config.fillMissingSections()
	config._absConfigFilePath = configFile

	log.Debugf("Configuration file path: %s", configFile)

	return config, nil
}

// fillMissingSections sets every nil section to its default.
func (c *Config) fillMissingSections() {
	defaults := DefaultConfig()
	if c.General == nil {
		c.General = defaults.General
	}
	if c.Registration == nil {
		c.Registration = defaults.Registration
	}
	if c.Discovery == nil {
		c.Discovery = defaults.Discovery
	}
	if c.API == nil {
		c.API = defaults.API
	}
}

func (c *Config) SerializeConfig() (*bytes.Buffer, error) {
	buf := bytes.Buffer{}
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	return &buf, nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	clone := &Config{_absConfigFilePath: c._absConfigFilePath}

	if c.General != nil {
		g := *c.General
		g.Interfaces = append([]string(nil), c.General.Interfaces...)
		clone.General = &g
	}
	if c.Registration != nil {
		r := *c.Registration
		clone.Registration = &r
	}
	if c.Discovery != nil {
		d := *c.Discovery
		d.PreferredProxies = append([]string(nil), c.Discovery.PreferredProxies...)
		d.ServiceTypes = append([]string(nil), c.Discovery.ServiceTypes...)
		clone.Discovery = &d
	}
	if c.API != nil {
		a := *c.API
		clone.API = &a
	}

	return clone
}

// Overrides are values taken from the command line. Nil fields keep the file value.
type Overrides struct {
	Interfaces       []string
	LeaseTimeSec     *uint32
	TimeoutSec       *int
	PreferredProxies []string
	Backend          *string
	LogFile          *string
	Debug            *bool
	Listen           *string
}

// WithOverrides returns a copy of c with the overrides applied. c itself is not modified.
func (c *Config) WithOverrides(o Overrides) *Config {
	result := c.Clone()
	result.fillMissingSections()

	if len(o.Interfaces) > 0 {
		result.General.Interfaces = append([]string(nil), o.Interfaces...)
	}
	if o.LeaseTimeSec != nil {
		result.Registration.LeaseTimeSec = *o.LeaseTimeSec
	}
	if o.TimeoutSec != nil {
		result.Registration.TimeoutSec = *o.TimeoutSec
	}
	if len(o.PreferredProxies) > 0 {
		result.Discovery.PreferredProxies = append([]string(nil), o.PreferredProxies...)
	}
	if o.Backend != nil {
		result.Discovery.Backend = *o.Backend
	}
	if o.LogFile != nil {
		result.General.LogFile = *o.LogFile
	}
	if o.Debug != nil {
		result.General.Debug = *o.Debug
	}
	if o.Listen != nil {
		result.API.Listen = *o.Listen
	}

	return result
}
