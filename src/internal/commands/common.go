package commands

import (
	"flag"
	"fmt"
	"strings"

	"github.com/maksimkurb/sleep-proxy-client/src/internal/config"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/log"
)

// noOverrides keeps every configuration value from the file.
var noOverrides = config.Overrides{}

type Runner interface {
	Init(args []string, globalArgs *AppContext) error
	Run() error
	Name() string
}

// AppContext holds the global flags shared by all commands.
type AppContext struct {
	ConfigPath string
	Verbose    bool
	LogFile    string
}

// overrides returns the global flag values that take precedence over the file.
func (c *AppContext) overrides() config.Overrides {
	var o config.Overrides
	if c.Verbose {
		verbose := true
		o.Debug = &verbose
	}
	if c.LogFile != "" {
		logFile := c.LogFile
		o.LogFile = &logFile
	}
	return o
}

// loadAndValidateConfig loads configuration, applies command line overrides and validates the result.
// Logging is configured from the final configuration.
func loadAndValidateConfig(ctx *AppContext, o config.Overrides) (*config.Config, error) {
	cfg, err := config.LoadConfig(ctx.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %v", err)
	}

	global := ctx.overrides()
	if global.Debug != nil {
		o.Debug = global.Debug
	}
	if global.LogFile != nil {
		o.LogFile = global.LogFile
	}
	cfg = cfg.WithOverrides(o)

	if err := cfg.ValidateConfig(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %v", err)
	}

	if err := setupLogging(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setupLogging(cfg *config.Config) error {
	if cfg.General.Debug {
		log.SetVerbose(true)
	}
	if err := log.SetOutput(cfg.GetAbsLogFile()); err != nil {
		return err
	}
	return nil
}

// listFlag is a comma separated list flag. Repeating the flag appends.
type listFlag []string

func (l *listFlag) String() string {
	return strings.Join(*l, ",")
}

func (l *listFlag) Set(value string) error {
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			*l = append(*l, item)
		}
	}
	return nil
}

// isFlagSet reports whether name was given explicitly on the command line.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
