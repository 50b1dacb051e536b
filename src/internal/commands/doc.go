// Package commands implements CLI command handlers for sleep-proxy-client.
//
// Each command implements the Runner interface and delegates business logic to
// the service layer.
//
// # Command Structure
//
// All commands follow a consistent pattern:
//   - Init(): Parse arguments, load and validate configuration
//   - Run(): Execute command using service layer
//   - Name(): Return command name for routing
//
// # Available Commands
//
//   - register: Register this host's services with a sleep proxy (default)
//   - interfaces: List system interfaces with addresses
//   - proxies: Show ranked sleep proxies per interface
//   - dump: Print the request that would be sent, without sending it
//   - server: Run the HTTP trigger API
//
// Per-interface failures are logged and never make a command fail. Only invalid
// usage or configuration does.
package commands
