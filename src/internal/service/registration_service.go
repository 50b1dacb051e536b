package service

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/maksimkurb/sleep-proxy-client/src/internal/domain"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/errors"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/log"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/models"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/networking"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/update"
)

// Status is the final state of one interface in a registration run.
type Status string

const (
	StatusRegistered Status = "registered"
	StatusFailed     Status = "failed"
	StatusSkipped    Status = "skipped"
)

// InterfaceResult reports what happened to one interface.
type InterfaceResult struct {
	Interface    string                 `json:"interface"`
	Status       Status                 `json:"status"`
	Proxy        *models.ProxyCandidate `json:"proxy,omitempty"`
	GrantedLease uint32                 `json:"granted_lease,omitempty"`
	Attempts     int                    `json:"attempts"`
	Error        string                 `json:"error,omitempty"`
	ErrorCode    errors.ErrorCode       `json:"error_code,omitempty"`

	Err error `json:"-"`
}

func skipped(iface string, err error) InterfaceResult {
	return InterfaceResult{Interface: iface, Status: StatusSkipped, Err: err}
}

func failed(iface string, err error) InterfaceResult {
	return InterfaceResult{Interface: iface, Status: StatusFailed, Err: err}
}

// Plan is everything needed to register one interface, before sending.
type Plan struct {
	Interface  *models.InterfaceDetails `json:"interface"`
	Services   []models.Service         `json:"services"`
	Candidates []models.ProxyCandidate  `json:"candidates"`
	Request    *update.Request          `json:"-"`
}

// RegistrationService registers this host's services with sleep proxies.
// It keeps no state between runs.
type RegistrationService struct {
	interfaces domain.InterfaceInfoProvider
	browser    domain.ServiceBrowser
	sender     domain.RegistrationSender
	opts       Options
}

// NewRegistrationService creates a registration service.
func NewRegistrationService(deps *domain.AppDependencies, opts Options) *RegistrationService {
	return &RegistrationService{
		interfaces: deps.InterfaceProvider(),
		browser:    deps.ServiceBrowser(),
		sender:     deps.Sender(),
		opts:       opts,
	}
}

// Options returns the options of this service.
func (s *RegistrationService) Options() Options {
	return s.opts
}

// WithLease returns a copy of the service requesting a different lease.
func (s *RegistrationService) WithLease(lease uint32) *RegistrationService {
	c := *s
	c.opts.Lease = lease
	return &c
}

// SelectInterfaces resolves requested names against the system interfaces.
// Unknown names come back as skipped results.
func (s *RegistrationService) SelectInterfaces(requested []string) ([]string, []InterfaceResult, error) {
	available, err := s.interfaces.InterfaceNames()
	if err != nil {
		return nil, nil, errors.NewInterfaceError("failed to list interfaces", err)
	}

	selected, unknown := networking.SelectInterfaces(requested, available)

	var rejected []InterfaceResult
	for _, name := range unknown {
		result := skipped(name, errors.NewConfigError(fmt.Sprintf("interface %s does not exist", name), nil))
		logResult(result)
		rejected = append(rejected, finalize(result))
	}

	return selected, rejected, nil
}

// RegisterInterfaces registers every requested interface and returns one
// result per interface. Interfaces that do not exist are reported as skipped.
func (s *RegistrationService) RegisterInterfaces(ctx context.Context, requested []string) []InterfaceResult {
	selected, rejected, err := s.SelectInterfaces(requested)
	if err != nil {
		log.Errorf("%v", err)
		results := make([]InterfaceResult, 0, len(requested))
		for _, name := range requested {
			results = append(results, finalize(failed(name, err)))
		}
		return results
	}

	if len(selected) == 0 {
		log.Warnf("No interfaces to register")
	}

	results := make([]InterfaceResult, len(selected))
	if s.opts.Parallel {
		var g errgroup.Group
		for i, name := range selected {
			i, name := i, name
			g.Go(func() error {
				results[i] = s.RegisterInterface(ctx, name)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, name := range selected {
			results[i] = s.RegisterInterface(ctx, name)
		}
	}

	return append(results, rejected...)
}

// RegisterInterface runs discovery, builds the request and sends it for one interface.
func (s *RegistrationService) RegisterInterface(ctx context.Context, name string) InterfaceResult {
	result := s.registerInterface(ctx, name)
	logResult(result)
	return finalize(result)
}

func (s *RegistrationService) registerInterface(ctx context.Context, name string) InterfaceResult {
	details, err := s.resolve(name)
	if err != nil {
		return skipped(name, err)
	}

	services, candidates, err := s.discover(ctx, details)
	if err != nil {
		log.Warnf("[%s] Discovery incomplete: %v", name, err)
	}

	if len(candidates) == 0 {
		return skipped(name, errors.NewNoProxyError(fmt.Sprintf("no sleep proxy found on %s", name)))
	}
	log.Infof("[%s] Found %d sleep proxies, best: %s", name, len(candidates), candidates[0])

	req, err := s.opts.builder().Build(details, services, s.opts.Lease)
	if err != nil {
		return failed(name, err)
	}
	if log.IsVerbose() {
		log.Debugf("[%s] Request:\n%s", name, req)
	}

	outcome := s.sender.Send(ctx, req, candidates)
	result := InterfaceResult{
		Interface: name,
		Attempts:  len(outcome.Attempts),
	}
	if !outcome.Success {
		result.Status = StatusFailed
		result.Err = outcome.Err
		return result
	}

	result.Status = StatusRegistered
	result.Proxy = outcome.Candidate
	if outcome.LeaseEchoed {
		result.GrantedLease = outcome.GrantedLease
	}
	return result
}

// resolve returns the interface details, rejecting interfaces without addresses.
func (s *RegistrationService) resolve(name string) (*models.InterfaceDetails, error) {
	details, err := s.interfaces.ForInterface(name)
	if err != nil {
		return nil, err
	}
	if len(details.IPAddresses) == 0 {
		return nil, errors.NewNoAddressError(fmt.Sprintf("interface %s has no usable address", name))
	}
	return details, nil
}

// discover browses services and sleep proxies concurrently. Both results are
// always usable; the error combines whatever went wrong in either browse.
func (s *RegistrationService) discover(ctx context.Context, details *models.InterfaceDetails) (*models.ServiceSet, []models.ProxyCandidate, error) {
	var (
		services              *models.ServiceSet
		candidates            []models.ProxyCandidate
		servicesErr, proxyErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		services, servicesErr = s.browser.DiscoverServices(ctx, details.IPAddresses)
		return nil
	})
	g.Go(func() error {
		candidates, proxyErr = s.browser.DiscoverSleepProxies(ctx, details.Name, s.opts.Preferred)
		return nil
	})
	_ = g.Wait()

	if services == nil {
		services = models.NewServiceSet()
	}
	return services, candidates, multierr.Combine(servicesErr, proxyErr)
}

// DescribeRequest builds the request for name without sending it.
// Missing proxies are not an error here.
func (s *RegistrationService) DescribeRequest(ctx context.Context, name string) (*Plan, error) {
	details, err := s.resolve(name)
	if err != nil {
		return nil, err
	}

	services, candidates, err := s.discover(ctx, details)
	if err != nil {
		log.Warnf("[%s] Discovery incomplete: %v", name, err)
	}

	req, err := s.opts.builder().Build(details, services, s.opts.Lease)
	if err != nil {
		return nil, err
	}

	return &Plan{
		Interface:  details,
		Services:   services.Services(),
		Candidates: candidates,
		Request:    req,
	}, nil
}

// Proxies returns the ranked sleep proxies visible on name.
func (s *RegistrationService) Proxies(ctx context.Context, name string) ([]models.ProxyCandidate, error) {
	if _, err := s.interfaces.ForInterface(name); err != nil {
		return nil, err
	}
	candidates, err := s.browser.DiscoverSleepProxies(ctx, name, s.opts.Preferred)
	if candidates == nil {
		candidates = []models.ProxyCandidate{}
	}
	return candidates, err
}

// finalize fills the serializable error fields from Err.
func finalize(r InterfaceResult) InterfaceResult {
	if r.Err != nil {
		r.Error = r.Err.Error()
		r.ErrorCode = errors.CodeOf(r.Err)
	}
	return r
}

// logResult logs the outcome with a severity that depends on the failure kind.
// A missing proxy is expected and only warned about.
func logResult(r InterfaceResult) {
	switch r.Status {
	case StatusRegistered:
		if r.GrantedLease > 0 {
			log.Infof("[%s] Registered with %s, lease %ds", r.Interface, r.Proxy.Name, r.GrantedLease)
		} else {
			log.Infof("[%s] Registered with %s", r.Interface, r.Proxy.Name)
		}
	case StatusSkipped:
		if errors.CodeOf(r.Err) == errors.ErrCodeNoProxy {
			log.Warnf("[%s] Skipped: %v", r.Interface, r.Err)
		} else {
			log.Errorf("[%s] Skipped: %v", r.Interface, r.Err)
		}
	case StatusFailed:
		log.Errorf("[%s] Registration failed after %d attempts: %v", r.Interface, r.Attempts, r.Err)
	}
}

// Summary counts results per status.
func Summary(results []InterfaceResult) map[Status]int {
	summary := map[Status]int{StatusRegistered: 0, StatusFailed: 0, StatusSkipped: 0}
	for _, r := range results {
		summary[r.Status]++
	}
	return summary
}
