package mocks

import (
	"context"
	"sync"

	"github.com/maksimkurb/sleep-proxy-client/src/internal/models"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/sender"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/update"
)

// MockSender is a mock implementation of the RegistrationSender interface.
//
// By default the first candidate accepts the request and echoes the requested lease.
// Every request passed to Send is kept in Requests.
type MockSender struct {
	// SendFunc is called by Send if not nil
	SendFunc func(ctx context.Context, req *update.Request, candidates []models.ProxyCandidate) sender.Outcome

	// Track calls for verification in tests
	mu        sync.Mutex
	SendCalls int
	Requests  []*update.Request
}

// NewMockSender creates a sender that always succeeds with the first candidate.
func NewMockSender() *MockSender {
	return &MockSender{}
}

// Send records req and returns the configured outcome.
func (m *MockSender) Send(ctx context.Context, req *update.Request, candidates []models.ProxyCandidate) sender.Outcome {
	m.mu.Lock()
	m.SendCalls++
	m.Requests = append(m.Requests, req)
	m.mu.Unlock()

	if m.SendFunc != nil {
		return m.SendFunc(ctx, req, candidates)
	}

	if len(candidates) == 0 {
		return sender.Outcome{}
	}
	c := candidates[0]
	return sender.Outcome{
		Success:      true,
		Candidate:    &c,
		GrantedLease: req.Lease,
		LeaseEchoed:  true,
		Attempts:     []sender.Attempt{{Candidate: c}},
	}
}
