package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/maksimkurb/sleep-proxy-client/src/internal/commands"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/config"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/log"
)

var (
	version = "dev"
	commit  = "n/a"
	date    = "n/a"
)

const defaultCommand = "register"

func main() {
	ctx := &commands.AppContext{}

	// Define flags
	flag.StringVar(&ctx.ConfigPath, "config", config.DefaultConfigPath, "Path to configuration file")
	flag.BoolVar(&ctx.Verbose, "verbose", false, "Enable debug logging")
	flag.BoolVar(&ctx.Verbose, "debug", false, "Enable debug logging and request dumps (alias for -verbose)")
	flag.StringVar(&ctx.LogFile, "log-file", "", "Write logs to this file instead of the console")

	// Custom usage message
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Sleep Proxy Client\n")
		fmt.Fprintf(os.Stderr, "Version: %s (Commit: %s, Date: %s)\n\n", version, commit, date)
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [command] [command options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  register                Register services with a sleep proxy (default)\n")
		fmt.Fprintf(os.Stderr, "  interfaces              Get available interfaces list\n")
		fmt.Fprintf(os.Stderr, "  proxies                 Show ranked sleep proxies per interface\n")
		fmt.Fprintf(os.Stderr, "  dump                    Print the update request without sending it\n")
		fmt.Fprintf(os.Stderr, "  server                  Run the HTTP trigger API\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if ctx.Verbose {
		log.SetVerbose(true)
	}

	cmds := []commands.Runner{
		commands.CreateRegisterCommand(),
		commands.CreateInterfacesCommand(),
		commands.CreateProxiesCommand(),
		commands.CreateDumpCommand(),
		commands.CreateServerCommand(),
	}

	args := flag.Args()
	subcommand := defaultCommand
	if len(args) > 0 {
		subcommand, args = args[0], args[1:]
	}

	for _, cmd := range cmds {
		if cmd.Name() == subcommand {
			if err := cmd.Init(args, ctx); err != nil {
				if err == flag.ErrHelp {
					os.Exit(0)
				}
				log.Fatalf("Failed to initialize command: %v", err)
			}

			if err := cmd.Run(); err != nil {
				log.Fatalf("Failed to run command: %v", err)
			}

			os.Exit(0)
		}
	}

	fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", subcommand)
	flag.Usage()
	os.Exit(2)
}
