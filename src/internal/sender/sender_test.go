package sender

import (
	"bytes"
	"context"
	stderrors "errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maksimkurb/sleep-proxy-client/src/internal/errors"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/models"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/update"
)

type reply struct {
	msg *dns.Msg
	err error
}

// scriptedExchanger answers each address from a fixed table and records the call order.
type scriptedExchanger struct {
	mu      sync.Mutex
	replies map[string]reply
	calls   []string
}

func (e *scriptedExchanger) ExchangeContext(_ context.Context, m *dns.Msg, address string) (*dns.Msg, time.Duration, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, address)

	r, ok := e.replies[address]
	if !ok {
		return nil, 0, &net.OpError{Op: "read", Net: "udp", Err: stderrors.New("i/o timeout")}
	}
	if r.err != nil {
		return nil, 0, r.err
	}
	resp := r.msg.Copy()
	resp.Id = m.Id
	return resp, time.Millisecond, nil
}

func testRequest(t *testing.T) *update.Request {
	t.Helper()
	hw, err := models.ParseHardwareAddr("AA:BB:CC:DD:EE:FF")
	require.NoError(t, err)

	iface := models.NewInterfaceDetails("eth0", []string{"192.168.1.50"}, hw)
	services := models.NewServiceSet()
	services.Add(models.NewService("laptop", "_ssh._tcp", 22, nil))

	b := &update.Builder{Hostname: "laptop", TTLShort: 120, TTLLong: 4500, UDPSize: 1440}
	req, err := b.Build(iface, services, 7200)
	require.NoError(t, err)
	return req
}

func candidate(name, ip string) models.ProxyCandidate {
	return models.ProxyCandidate{Name: name, Instance: "10-34-10-70 " + name, IPAddress: ip, Port: 5353, Interface: "eth0", Properties: "10-34-10-70"}
}

func okReply(lease uint32, withLease bool) *dns.Msg {
	m := new(dns.Msg)
	m.Response = true
	m.Opcode = dns.OpcodeUpdate
	if withLease {
		opt := &dns.OPT{Hdr: dns.RR_Header{Name: ".", Rrtype: dns.TypeOPT}}
		opt.Option = append(opt.Option, update.LeaseOption(lease))
		m.Extra = append(m.Extra, opt)
	}
	return m
}

func rcodeReply(rcode int) *dns.Msg {
	m := okReply(0, false)
	m.Rcode = rcode
	return m
}

func TestSend_FallsBackUntilSuccess(t *testing.T) {
	candidates := []models.ProxyCandidate{
		candidate("p1", "192.168.1.10"),
		candidate("p2", "192.168.1.11"),
		candidate("p3", "192.168.1.12"),
	}
	ex := &scriptedExchanger{replies: map[string]reply{
		"192.168.1.11:5353": {msg: rcodeReply(dns.RcodeRefused)},
		"192.168.1.12:5353": {msg: okReply(3600, true)},
	}}

	outcome := New(ex, time.Second).Send(context.Background(), testRequest(t), candidates)

	require.True(t, outcome.Success)
	require.NoError(t, outcome.Err)
	assert.Equal(t, []string{"192.168.1.10:5353", "192.168.1.11:5353", "192.168.1.12:5353"}, ex.calls)
	require.Len(t, outcome.Attempts, 3)

	assert.ErrorIs(t, outcome.Attempts[0].Err, errors.ErrTransport)
	assert.Equal(t, NoRcode, outcome.Attempts[0].Rcode)
	assert.ErrorIs(t, outcome.Attempts[1].Err, errors.ErrProtocol)
	assert.Equal(t, dns.RcodeRefused, outcome.Attempts[1].Rcode)
	assert.NoError(t, outcome.Attempts[2].Err)

	require.NotNil(t, outcome.Candidate)
	assert.Equal(t, "p3", outcome.Candidate.Name)
	assert.True(t, outcome.LeaseEchoed)
	assert.Equal(t, uint32(3600), outcome.GrantedLease)
}

func TestSend_StopsAtFirstSuccess(t *testing.T) {
	candidates := []models.ProxyCandidate{
		candidate("p1", "192.168.1.10"),
		candidate("p2", "192.168.1.11"),
	}
	ex := &scriptedExchanger{replies: map[string]reply{
		"192.168.1.10:5353": {msg: okReply(0, false)},
		"192.168.1.11:5353": {msg: okReply(0, false)},
	}}

	outcome := New(ex, time.Second).Send(context.Background(), testRequest(t), candidates)

	require.True(t, outcome.Success)
	assert.Equal(t, []string{"192.168.1.10:5353"}, ex.calls)
	assert.False(t, outcome.LeaseEchoed)
}

func TestSend_AllCandidatesFail(t *testing.T) {
	candidates := []models.ProxyCandidate{
		candidate("p1", "192.168.1.10"),
		candidate("p2", "192.168.1.11"),
		candidate("p3", "192.168.1.12"),
	}
	ex := &scriptedExchanger{replies: map[string]reply{
		"192.168.1.10:5353": {msg: rcodeReply(dns.RcodeServerFailure)},
		"192.168.1.11:5353": {err: &dns.Error{}},
	}}

	outcome := New(ex, time.Second).Send(context.Background(), testRequest(t), candidates)

	assert.False(t, outcome.Success)
	assert.Nil(t, outcome.Candidate)
	assert.Len(t, ex.calls, 3)
	require.Len(t, outcome.Attempts, 3)
	assert.ErrorIs(t, outcome.Attempts[0].Err, errors.ErrProtocol)
	assert.ErrorIs(t, outcome.Attempts[1].Err, errors.ErrProtocol)
	assert.ErrorIs(t, outcome.Attempts[2].Err, errors.ErrTransport)

	require.Error(t, outcome.Err)
	assert.ErrorIs(t, outcome.Err, errors.ErrTransport)
	assert.ErrorIs(t, outcome.Err, errors.ErrProtocol)
}

func TestSend_NoCandidates(t *testing.T) {
	ex := &scriptedExchanger{}

	outcome := New(ex, time.Second).Send(context.Background(), testRequest(t), nil)

	assert.False(t, outcome.Success)
	assert.ErrorIs(t, outcome.Err, errors.ErrNoProxy)
	assert.Empty(t, ex.calls)
	assert.Empty(t, outcome.Attempts)
}

func TestSend_CanceledContext(t *testing.T) {
	ex := &scriptedExchanger{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome := New(ex, time.Second).Send(ctx, testRequest(t), []models.ProxyCandidate{candidate("p1", "192.168.1.10")})

	assert.False(t, outcome.Success)
	assert.Empty(t, ex.calls)
	assert.ErrorIs(t, outcome.Err, errors.ErrTransport)
}

func TestSend_EachAttemptGetsOwnMessage(t *testing.T) {
	var sent []*dns.Msg
	ex := exchangerFunc(func(_ context.Context, m *dns.Msg, _ string) (*dns.Msg, time.Duration, error) {
		sent = append(sent, m)
		return nil, 0, &net.OpError{Op: "read", Net: "udp", Err: stderrors.New("connection refused")}
	})
	candidates := []models.ProxyCandidate{candidate("p1", "192.168.1.10"), candidate("p2", "192.168.1.11")}

	New(ex, time.Second).Send(context.Background(), testRequest(t), candidates)

	require.Len(t, sent, 2)
	assert.NotSame(t, sent[0], sent[1])
	assert.Equal(t, len(sent[0].Ns), len(sent[1].Ns))
}

type exchangerFunc func(ctx context.Context, m *dns.Msg, address string) (*dns.Msg, time.Duration, error)

func (f exchangerFunc) ExchangeContext(ctx context.Context, m *dns.Msg, address string) (*dns.Msg, time.Duration, error) {
	return f(ctx, m, address)
}

// fakeProxy answers one UDP update on the loopback interface and hands back the raw packet.
func fakeProxy(t *testing.T, rcode int, lease uint32) (port uint16, packets <-chan []byte) {
	t.Helper()

	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	out := make(chan []byte, 1)
	go func() {
		buf := make([]byte, 65535)
		n, addr, err := conn.ReadFrom(buf)
		if err != nil {
			return
		}
		raw := append([]byte(nil), buf[:n]...)
		out <- raw

		req := new(dns.Msg)
		if err := req.Unpack(raw); err != nil {
			return
		}
		resp := new(dns.Msg)
		resp.SetRcode(req, rcode)
		opt := &dns.OPT{Hdr: dns.RR_Header{Name: ".", Rrtype: dns.TypeOPT}}
		opt.SetUDPSize(1440)
		opt.Option = append(opt.Option, update.LeaseOption(lease))
		resp.Extra = append(resp.Extra, opt)

		packed, err := resp.Pack()
		if err != nil {
			return
		}
		_, _ = conn.WriteTo(packed, addr)
	}()

	return uint16(conn.LocalAddr().(*net.UDPAddr).Port), out
}

func TestSend_LoopbackProxy(t *testing.T) {
	port, packets := fakeProxy(t, dns.RcodeSuccess, 1800)
	proxy := candidate("local-proxy", "127.0.0.1")
	proxy.Port = port

	s := New(NewClient(1440, 2*time.Second), 2*time.Second)
	outcome := s.Send(context.Background(), testRequest(t), []models.ProxyCandidate{proxy})

	require.True(t, outcome.Success, "err: %v", outcome.Err)
	assert.True(t, outcome.LeaseEchoed)
	assert.Equal(t, uint32(1800), outcome.GrantedLease)

	raw := <-packets
	tail := []byte{
		0x00, 0x02, 0x00, 0x04, 0x00, 0x00, 0x1C, 0x20,
		0x00, 0x04, 0x00, 0x08, 0x00, 0x00, 0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF,
	}
	assert.True(t, bytes.HasSuffix(raw, tail), "packet must end with lease and owner options, got % X", raw)

	// Opcode UPDATE in the header flags.
	assert.Equal(t, byte(dns.OpcodeUpdate<<3), raw[2]&0x78)
}

func TestSend_LoopbackProxyRefuses(t *testing.T) {
	port, packets := fakeProxy(t, dns.RcodeRefused, 0)
	proxy := candidate("local-proxy", "127.0.0.1")
	proxy.Port = port

	s := New(NewClient(1440, 2*time.Second), 2*time.Second)
	outcome := s.Send(context.Background(), testRequest(t), []models.ProxyCandidate{proxy})
	<-packets

	assert.False(t, outcome.Success)
	require.Len(t, outcome.Attempts, 1)
	assert.Equal(t, dns.RcodeRefused, outcome.Attempts[0].Rcode)
	assert.ErrorIs(t, outcome.Err, errors.ErrProtocol)
}
