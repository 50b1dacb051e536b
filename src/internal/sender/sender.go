// Package sender delivers a registration request to ranked sleep proxies,
// one UDP exchange per candidate, stopping at the first success.
package sender

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/miekg/dns"
	"go.uber.org/multierr"

	"github.com/maksimkurb/sleep-proxy-client/src/internal/errors"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/log"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/models"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/update"
)

// Exchanger sends one message and waits for the reply. *dns.Client implements it.
type Exchanger interface {
	ExchangeContext(ctx context.Context, m *dns.Msg, address string) (*dns.Msg, time.Duration, error)
}

// NewClient returns a UDP client that accepts replies up to udpSize bytes.
func NewClient(udpSize uint16, timeout time.Duration) *dns.Client {
	return &dns.Client{
		Net:     "udp",
		UDPSize: udpSize,
		Timeout: timeout,
	}
}

// NoRcode marks an attempt that produced no response code.
const NoRcode = -1

// Attempt is the result of one exchange with one candidate.
type Attempt struct {
	Candidate models.ProxyCandidate `json:"candidate"`
	Rcode     int                   `json:"rcode"`
	RTT       time.Duration         `json:"rtt"`
	Err       error                 `json:"-"`
}

// Outcome is the result of a whole fallback chain.
type Outcome struct {
	Success      bool                   `json:"success"`
	Candidate    *models.ProxyCandidate `json:"candidate,omitempty"`
	GrantedLease uint32                 `json:"granted_lease,omitempty"`
	LeaseEchoed  bool                   `json:"lease_echoed"`
	Attempts     []Attempt              `json:"attempts"`
	Err          error                  `json:"-"`
}

// Sender tries candidates in order. It keeps no state between calls.
type Sender struct {
	exchanger Exchanger
	timeout   time.Duration
}

// New creates a sender. timeout bounds every single attempt.
func New(exchanger Exchanger, timeout time.Duration) *Sender {
	return &Sender{exchanger: exchanger, timeout: timeout}
}

// Send delivers req to the candidates in order until one accepts it.
// Each candidate is tried at most once.
func (s *Sender) Send(ctx context.Context, req *update.Request, candidates []models.ProxyCandidate) Outcome {
	var outcome Outcome

	if len(candidates) == 0 {
		outcome.Err = errors.NewNoProxyError(fmt.Sprintf("no sleep proxy available for interface %s", req.Interface))
		return outcome
	}

	var errs error
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			errs = multierr.Append(errs, errors.NewTransportError("registration aborted", err))
			break
		}

		attempt, resp := s.attempt(ctx, req, candidate)
		outcome.Attempts = append(outcome.Attempts, attempt)

		if attempt.Err != nil {
			log.Warnf("[%s] Unable to register with sleep proxy %s: %v", req.Interface, candidate, attempt.Err)
			errs = multierr.Append(errs, attempt.Err)
			continue
		}

		c := candidate
		outcome.Success = true
		outcome.Candidate = &c
		outcome.GrantedLease, outcome.LeaseEchoed = update.DecodeLease(resp.IsEdns0())

		if outcome.LeaseEchoed {
			log.Debugf("[%s] Sleep proxy %s accepted the update, lease %ds", req.Interface, candidate, outcome.GrantedLease)
		} else {
			log.Debugf("[%s] Sleep proxy %s accepted the update", req.Interface, candidate)
		}
		log.Debugf("[%s] Response: %s", req.Interface, resp)
		return outcome
	}

	outcome.Err = errs
	return outcome
}

func (s *Sender) attempt(ctx context.Context, req *update.Request, candidate models.ProxyCandidate) (Attempt, *dns.Msg) {
	attempt := Attempt{Candidate: candidate, Rcode: NoRcode}

	actx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		actx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	address := candidate.Address()
	log.Debugf("[%s] Sending update to %s", req.Interface, address)

	resp, rtt, err := s.exchanger.ExchangeContext(actx, req.Message(), address)
	attempt.RTT = rtt

	switch {
	case err != nil:
		attempt.Err = classify(candidate, err)
	case resp == nil:
		attempt.Err = errors.NewProtocolError(fmt.Sprintf("empty response from %s", candidate), nil)
	case resp.Rcode != dns.RcodeSuccess:
		attempt.Rcode = resp.Rcode
		attempt.Err = errors.NewProtocolError(
			fmt.Sprintf("%s answered with %s", candidate, rcodeName(resp.Rcode)), nil)
		log.Debugf("[%s] Response: %s", req.Interface, resp)
	default:
		attempt.Rcode = resp.Rcode
	}

	return attempt, resp
}

// classify separates malformed replies from timeouts and network failures.
func classify(candidate models.ProxyCandidate, err error) error {
	var dnsErr *dns.Error
	if stderrors.As(err, &dnsErr) {
		return errors.NewProtocolError(fmt.Sprintf("malformed response from %s", candidate), err)
	}
	return errors.NewTransportError(fmt.Sprintf("no response from %s", candidate), err)
}

func rcodeName(rcode int) string {
	if name, ok := dns.RcodeToString[rcode]; ok {
		return name
	}
	return fmt.Sprintf("RCODE%d", rcode)
}
