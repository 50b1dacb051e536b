package commands

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/maksimkurb/sleep-proxy-client/src/internal/config"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/domain"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/log"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/service"
)

func CreateDumpCommand() *DumpCommand {
	return &DumpCommand{
		fs:  flag.NewFlagSet("dump", flag.ContinueOnError),
		out: os.Stdout,
	}
}

// DumpCommand prints the request each interface would send, without sending it.
type DumpCommand struct {
	fs  *flag.FlagSet
	ctx *AppContext
	cfg *config.Config
	svc *service.RegistrationService
	out io.Writer

	interfaces listFlag
	raw        bool

	newDeps func(cfg *config.Config) *domain.AppDependencies
}

func (c *DumpCommand) Name() string {
	return c.fs.Name()
}

func (c *DumpCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx

	c.fs.Var(&c.interfaces, "interfaces", "Comma separated interfaces to dump, or \"all\"")
	c.fs.BoolVar(&c.raw, "raw", false, "Also print the packed message as hex")

	if err := c.fs.Parse(args); err != nil {
		return err
	}

	svc, cfg, err := newRegistrationService(ctx, config.Overrides{Interfaces: c.interfaces}, c.newDeps)
	if err != nil {
		return err
	}
	c.svc, c.cfg = svc, cfg
	return nil
}

func (c *DumpCommand) Run() error {
	names, _, err := c.svc.SelectInterfaces(c.cfg.General.Interfaces)
	if err != nil {
		return err
	}

	for _, name := range names {
		plan, err := c.svc.DescribeRequest(context.Background(), name)
		if err != nil {
			log.Errorf("[%s] %v", name, err)
			continue
		}

		fmt.Fprintf(c.out, ";; Interface %s, %d services, %d sleep proxies\n",
			name, len(plan.Services), len(plan.Candidates))
		for i, candidate := range plan.Candidates {
			fmt.Fprintf(c.out, ";; proxy %d: %s\n", i+1, candidate)
		}
		fmt.Fprintln(c.out, plan.Request.String())

		if c.raw {
			packed, err := plan.Request.Pack()
			if err != nil {
				return fmt.Errorf("failed to pack request for %s: %w", name, err)
			}
			fmt.Fprintln(c.out, hex.Dump(packed))
		}
	}
	return nil
}
