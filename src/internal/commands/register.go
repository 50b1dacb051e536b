package commands

import (
	"context"
	"flag"
	"fmt"
	"math"

	"github.com/maksimkurb/sleep-proxy-client/src/internal/config"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/domain"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/log"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/service"
)

func CreateRegisterCommand() *RegisterCommand {
	return &RegisterCommand{
		fs: flag.NewFlagSet("register", flag.ContinueOnError),
	}
}

// RegisterCommand registers the selected interfaces once and exits.
type RegisterCommand struct {
	fs   *flag.FlagSet
	ctx  *AppContext
	cfg  *config.Config
	deps *domain.AppDependencies
	svc  *service.RegistrationService

	interfaces listFlag
	preferred  listFlag
	lease      uint64
	timeout    int
	backend    string
	parallel   bool

	// newDeps is replaced in tests.
	newDeps func(cfg *config.Config) *domain.AppDependencies
}

func (c *RegisterCommand) Name() string {
	return c.fs.Name()
}

func (c *RegisterCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx

	c.fs.Var(&c.interfaces, "interfaces", "Comma separated interfaces to register, or \"all\"")
	c.fs.Var(&c.preferred, "prefer", "Comma separated sleep proxy names to try first")
	c.fs.Uint64Var(&c.lease, "ttl", 0, "Requested lease time in seconds")
	c.fs.IntVar(&c.timeout, "timeout", 0, "Per-proxy response timeout in seconds")
	c.fs.StringVar(&c.backend, "backend", "", "Discovery backend: avahi or zeroconf")
	c.fs.BoolVar(&c.parallel, "parallel", false, "Register interfaces concurrently")

	if err := c.fs.Parse(args); err != nil {
		return err
	}

	o := config.Overrides{
		Interfaces:       c.interfaces,
		PreferredProxies: c.preferred,
	}
	if isFlagSet(c.fs, "ttl") {
		if c.lease > math.MaxUint32 {
			return fmt.Errorf("lease time %d does not fit in 32 bits", c.lease)
		}
		lease := uint32(c.lease)
		o.LeaseTimeSec = &lease
	}
	if isFlagSet(c.fs, "timeout") {
		o.TimeoutSec = &c.timeout
	}
	if isFlagSet(c.fs, "backend") {
		o.Backend = &c.backend
	}

	cfg, err := loadAndValidateConfig(ctx, o)
	if err != nil {
		return err
	}
	if c.parallel {
		cfg.Registration.ParallelInterfaces = true
	}
	c.cfg = cfg

	if log.IsVerbose() {
		if buf, err := cfg.SerializeConfig(); err == nil {
			log.Debugf("Effective configuration:\n%s", buf.String())
		}
	}

	opts, err := service.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}

	newDeps := c.newDeps
	if newDeps == nil {
		newDeps = domain.NewAppDependencies
	}
	c.deps = newDeps(cfg)
	c.svc = service.NewRegistrationService(c.deps, opts)

	return nil
}

func (c *RegisterCommand) Run() error {
	log.Infof("Registering %s as %s.local for %ds", c.cfg.General.Interfaces, c.svc.Options().Hostname, c.svc.Options().Lease)

	results := c.svc.RegisterInterfaces(context.Background(), c.cfg.General.Interfaces)

	fmt.Print(service.FormatResultsForCLI(results))

	summary := service.Summary(results)
	log.Infof("Done: %d registered, %d skipped, %d failed",
		summary[service.StatusRegistered], summary[service.StatusSkipped], summary[service.StatusFailed])

	return nil
}
