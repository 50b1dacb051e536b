package commands

import (
	"flag"
	"fmt"

	"github.com/maksimkurb/sleep-proxy-client/src/internal/domain"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/networking"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/service"
)

func CreateInterfacesCommand() *InterfacesCommand {
	gc := &InterfacesCommand{
		fs: flag.NewFlagSet("interfaces", flag.ContinueOnError),
	}
	return gc
}

type InterfacesCommand struct {
	fs       *flag.FlagSet
	ctx      *AppContext
	provider domain.InterfaceInfoProvider
}

func (g *InterfacesCommand) Name() string {
	return g.fs.Name()
}

func (g *InterfacesCommand) Init(args []string, ctx *AppContext) error {
	g.ctx = ctx

	if err := g.fs.Parse(args); err != nil {
		return err
	}

	if _, err := loadAndValidateConfig(ctx, noOverrides); err != nil {
		return err
	}

	if g.provider == nil {
		g.provider = networking.NewNetlinkProvider()
	}

	return nil
}

func (g *InterfacesCommand) Run() error {
	interfaces, err := g.provider.ListInterfaces()
	if err != nil {
		return fmt.Errorf("failed to get interfaces: %v", err)
	}

	fmt.Print(service.FormatInterfacesForCLI(interfaces))
	return nil
}
