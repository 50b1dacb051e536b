package service

import (
	"os"

	"github.com/maksimkurb/sleep-proxy-client/src/internal/config"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/errors"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/update"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/utils"
)

// Options is the immutable configuration of one registration run.
type Options struct {
	Hostname  string
	Lease     uint32
	TTLShort  uint32
	TTLLong   uint32
	UDPSize   uint16
	Preferred []string
	Parallel  bool
}

// hostnameFunc is replaced in tests.
var hostnameFunc = os.Hostname

// OptionsFromConfig derives run options from cfg. Without a configured
// hostname the system host name is used. Only the first label is kept.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	hostname := cfg.General.Hostname
	if hostname == "" {
		h, err := hostnameFunc()
		if err != nil {
			return Options{}, errors.NewConfigError("failed to get system host name", err)
		}
		hostname = h
	}

	hostname = utils.FirstLabel(hostname)
	if hostname == "" {
		return Options{}, errors.NewConfigError("host name is empty", nil)
	}

	return Options{
		Hostname:  hostname,
		Lease:     cfg.Registration.LeaseTimeSec,
		TTLShort:  cfg.Registration.TTLShortSec,
		TTLLong:   cfg.Registration.TTLLongSec,
		UDPSize:   cfg.Registration.UDPPayloadSize,
		Preferred: append([]string(nil), cfg.Discovery.PreferredProxies...),
		Parallel:  cfg.Registration.ParallelInterfaces,
	}, nil
}

func (o Options) builder() *update.Builder {
	return &update.Builder{
		Hostname: o.Hostname,
		TTLShort: o.TTLShort,
		TTLLong:  o.TTLLong,
		UDPSize:  o.UDPSize,
	}
}
