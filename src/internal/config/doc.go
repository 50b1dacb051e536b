// Package config handles configuration file parsing and validation for sleep-proxy-client.
//
// This package reads an optional TOML configuration file on top of built-in
// defaults and provides strongly-typed structures for accessing configuration
// data. Command-line flags are applied with WithOverrides, which returns a new
// value; a loaded *Config is never mutated afterwards.
//
// # Configuration Structure
//
// The configuration file defines:
//   - General settings (interfaces, host name override, log file, debug)
//   - Registration settings (lease time, record TTLs, EDNS0 payload size, timeout)
//   - Discovery settings (avahi or zeroconf backend, preferred proxies, browse commands)
//   - API settings (listen address of the HTTP trigger server)
//
// # Example Usage
//
// Loading and validating a configuration file:
//
//	cfg, err := config.LoadConfig(config.DefaultConfigPath)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cfg = cfg.WithOverrides(config.Overrides{Interfaces: []string{"eth0"}})
//	if err := cfg.ValidateConfig(); err != nil {
//	    log.Fatal(err)
//	}
//
// A minimal file:
//
//	[general]
//	interfaces = ["eth0", "wlan0"]
//
//	[registration]
//	lease_time_sec = 3600
//
//	[discovery]
//	preferred_proxies = ["appletv.local"]
package config
