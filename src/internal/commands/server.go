package commands

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/maksimkurb/sleep-proxy-client/src/internal/api"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/config"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/domain"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/log"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/service"
)

// ServerCommand implements the server command for running the HTTP trigger API.
type ServerCommand struct {
	fs   *flag.FlagSet
	ctx  *AppContext
	cfg  *config.Config
	deps *domain.AppDependencies
	svc  *service.RegistrationService

	listen string
}

// CreateServerCommand creates a new server command.
func CreateServerCommand() *ServerCommand {
	return &ServerCommand{
		fs: flag.NewFlagSet("server", flag.ContinueOnError),
	}
}

// Name returns the command name.
func (c *ServerCommand) Name() string {
	return c.fs.Name()
}

// Init initializes the server command with arguments.
func (c *ServerCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx

	c.fs.StringVar(&c.listen, "listen", "", "Address to bind the HTTP server (default from config)")

	if err := c.fs.Parse(args); err != nil {
		return err
	}

	var o config.Overrides
	if isFlagSet(c.fs, "listen") {
		o.Listen = &c.listen
	}

	cfg, err := loadAndValidateConfig(ctx, o)
	if err != nil {
		return err
	}
	c.cfg = cfg

	opts, err := service.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}

	c.deps = domain.NewAppDependencies(cfg)
	c.svc = service.NewRegistrationService(c.deps, opts)

	return nil
}

// Run starts the HTTP API server and blocks until SIGINT or SIGTERM.
func (c *ServerCommand) Run() error {
	log.Infof("Starting sleep-proxy-client API server on %s", c.cfg.API.Listen)
	log.Infof("Access restricted to private, link-local and loopback addresses")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	router := api.NewRouter(c.cfg, c.deps, c.svc)
	return api.NewServer(c.cfg.API.Listen, router).Run(ctx)
}
