package discovery

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/valyala/fasttemplate"

	"github.com/maksimkurb/sleep-proxy-client/src/internal/config"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/log"
)

// CommandRunner runs a command and returns its standard output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs commands with os/exec. Standard error is discarded.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	err := cmd.Run()
	return stdout.Bytes(), err
}

// AvahiSource reads browse lines from avahi-browse.
type AvahiSource struct {
	servicesCommand  string
	proxiesCommand   string
	proxyServiceType string
	run              CommandRunner
}

// NewAvahiSource creates a source from the discovery configuration.
// A nil runner means ExecRunner.
func NewAvahiSource(cfg *config.DiscoveryConfig, run CommandRunner) *AvahiSource {
	if run == nil {
		run = ExecRunner
	}
	return &AvahiSource{
		servicesCommand:  cfg.AvahiServicesCommand,
		proxiesCommand:   cfg.AvahiProxiesCommand,
		proxyServiceType: cfg.ProxyServiceType,
		run:              run,
	}
}

func (s *AvahiSource) ServiceLines(ctx context.Context) ([]string, error) {
	return s.runTemplate(ctx, s.servicesCommand, "")
}

// ProxyLines returns every resolved proxy line. Interface filtering happens in RankLines.
func (s *AvahiSource) ProxyLines(ctx context.Context, iface string) ([]string, error) {
	lines, err := s.runTemplate(ctx, s.proxiesCommand, s.proxyServiceType)
	log.Debugf("[%s] avahi-browse returned %d sleep proxy lines", iface, len(lines))
	return lines, err
}

func (s *AvahiSource) runTemplate(ctx context.Context, template string, serviceType string) ([]string, error) {
	command, err := RenderCommand(template, serviceType)
	if err != nil {
		return nil, err
	}
	if len(command) == 0 {
		return nil, fmt.Errorf("empty browse command")
	}

	log.Debugf("Running %s", strings.Join(command, " "))
	out, runErr := s.run(ctx, command[0], command[1:]...)
	lines := resolvedLines(out)
	if runErr != nil {
		return lines, fmt.Errorf("%s: %w", command[0], runErr)
	}
	return lines, nil
}

// RenderCommand expands {{service_type}} in template and splits the result into arguments.
func RenderCommand(template string, serviceType string) ([]string, error) {
	if !strings.Contains(template, "{{") {
		return strings.Fields(template), nil
	}

	t, err := fasttemplate.NewTemplate(template, "{{", "}}")
	if err != nil {
		return nil, fmt.Errorf("invalid command template %q: %w", template, err)
	}

	rendered := t.ExecuteString(map[string]interface{}{
		config.AVAHI_TMPL_SERVICE_TYPE: serviceType,
	})
	return strings.Fields(rendered), nil
}

func resolvedLines(out []byte) []string {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if IsResolved(line) {
			lines = append(lines, line)
		}
	}
	return lines
}
