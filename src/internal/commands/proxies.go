package commands

import (
	"context"
	"flag"
	"fmt"

	"github.com/maksimkurb/sleep-proxy-client/src/internal/config"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/domain"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/log"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/service"
)

func CreateProxiesCommand() *ProxiesCommand {
	return &ProxiesCommand{
		fs: flag.NewFlagSet("proxies", flag.ContinueOnError),
	}
}

// ProxiesCommand shows the ranked sleep proxies of every selected interface.
type ProxiesCommand struct {
	fs  *flag.FlagSet
	ctx *AppContext
	cfg *config.Config
	svc *service.RegistrationService

	interfaces listFlag
	preferred  listFlag
	backend    string

	newDeps func(cfg *config.Config) *domain.AppDependencies
}

func (c *ProxiesCommand) Name() string {
	return c.fs.Name()
}

func (c *ProxiesCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx

	c.fs.Var(&c.interfaces, "interfaces", "Comma separated interfaces to browse, or \"all\"")
	c.fs.Var(&c.preferred, "prefer", "Comma separated sleep proxy names to rank first")
	c.fs.StringVar(&c.backend, "backend", "", "Discovery backend: avahi or zeroconf")

	if err := c.fs.Parse(args); err != nil {
		return err
	}

	o := config.Overrides{Interfaces: c.interfaces, PreferredProxies: c.preferred}
	if isFlagSet(c.fs, "backend") {
		o.Backend = &c.backend
	}

	svc, cfg, err := newRegistrationService(ctx, o, c.newDeps)
	if err != nil {
		return err
	}
	c.svc, c.cfg = svc, cfg
	return nil
}

func (c *ProxiesCommand) Run() error {
	names, _, err := c.svc.SelectInterfaces(c.cfg.General.Interfaces)
	if err != nil {
		return err
	}

	for _, name := range names {
		candidates, err := c.svc.Proxies(context.Background(), name)
		if err != nil {
			log.Warnf("[%s] %v", name, err)
		}
		fmt.Print(service.FormatProxiesForCLI(name, candidates))
	}
	return nil
}

// newRegistrationService loads configuration and wires a registration service.
func newRegistrationService(ctx *AppContext, o config.Overrides, newDeps func(*config.Config) *domain.AppDependencies) (*service.RegistrationService, *config.Config, error) {
	cfg, err := loadAndValidateConfig(ctx, o)
	if err != nil {
		return nil, nil, err
	}

	opts, err := service.OptionsFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	if newDeps == nil {
		newDeps = domain.NewAppDependencies
	}
	return service.NewRegistrationService(newDeps(cfg), opts), cfg, nil
}
