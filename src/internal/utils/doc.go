// Package utils provides small helpers shared across sleep-proxy-client.
//
// # Components
//
//   - Path utilities: resolve paths relative to the configuration directory
//   - Host names: compare mDNS host names regardless of case and ".local"
//
// # Example Usage
//
// Path resolution:
//
//	absPath := utils.GetAbsolutePath("client.log", "/opt/etc/sleep-proxy-client")
//	// Returns: /opt/etc/sleep-proxy-client/client.log
//
// Host name matching:
//
//	if utils.MatchHostName("MacMini.local.", "macmini") {
//	    fmt.Println("same host")
//	}
package utils
