package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maksimkurb/sleep-proxy-client/src/internal/config"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/domain"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/mocks"
	"github.com/maksimkurb/sleep-proxy-client/src/internal/service"
)

type testAPI struct {
	handler  http.Handler
	provider *mocks.MockInterfaceProvider
	browser  *mocks.MockServiceBrowser
	sender   *mocks.MockSender
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Discovery.Backend = config.BackendZeroconf

	a := &testAPI{
		provider: mocks.NewMockInterfaceProvider(),
		browser:  mocks.NewMockServiceBrowser(),
		sender:   mocks.NewMockSender(),
	}
	deps := domain.NewTestDependencies(a.provider, a.browser, a.sender)
	svc := service.NewRegistrationService(deps, service.Options{
		Hostname: "laptop", Lease: 7200, TTLShort: 120, TTLLong: 4500, UDPSize: 1440,
	})
	a.handler = NewRouter(cfg, deps, svc)
	return a
}

func (a *testAPI) do(method, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.RemoteAddr = "127.0.0.1:40000"
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, v))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) APIError {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func TestRegister_DefaultsToConfiguredInterfaces(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(http.MethodPost, "/api/v1/register", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp RegisterResponse
	decodeData(t, rec, &resp)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "eth0", resp.Results[0].Interface)
	assert.Equal(t, service.StatusRegistered, resp.Results[0].Status)
	assert.Equal(t, 1, resp.Summary[service.StatusRegistered])
}

func TestRegister_WithLeaseAndInterfaces(t *testing.T) {
	a := newTestAPI(t)
	body, _ := json.Marshal(map[string]interface{}{
		"interfaces":     []string{"eth0", "wlan9"},
		"lease_time_sec": 900,
	})

	rec := a.do(http.MethodPost, "/api/v1/register", body)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp RegisterResponse
	decodeData(t, rec, &resp)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, service.StatusSkipped, resp.Results[1].Status)
	assert.Equal(t, "CONFIG_ERROR", string(resp.Results[1].ErrorCode))
	require.Len(t, a.sender.Requests, 1)
	assert.Equal(t, uint32(900), a.sender.Requests[0].Lease)
}

func TestRegister_InvalidBody(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(http.MethodPost, "/api/v1/register", []byte("{"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrCodeInvalidRequest, decodeError(t, rec).Code)
	assert.Equal(t, 0, a.sender.SendCalls)
}

func TestRegister_ZeroLease(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(http.MethodPost, "/api/v1/register", []byte(`{"lease_time_sec":0}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrCodeValidationFailed, decodeError(t, rec).Code)
}

func TestRegister_WrongContentType(t *testing.T) {
	a := newTestAPI(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/register", bytes.NewReader([]byte("interfaces=eth0")))
	req.RemoteAddr = "127.0.0.1:40000"
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	a.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProxies(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(http.MethodGet, "/api/v1/proxies?interface=eth0", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ProxiesResponse
	decodeData(t, rec, &resp)
	assert.Equal(t, "eth0", resp.Interface)
	require.Len(t, resp.Proxies, 1)
	assert.Equal(t, "proxy.local", resp.Proxies[0].Name)
}

func TestGetProxies_Errors(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(http.MethodGet, "/api/v1/proxies", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodGet, "/api/v1/proxies?interface=wlan9", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetInterfaces(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(http.MethodGet, "/api/v1/interfaces", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp InterfacesResponse
	decodeData(t, rec, &resp)
	require.Len(t, resp.Interfaces, 1)
	assert.Equal(t, "eth0", resp.Interfaces[0].Name)
	assert.Equal(t, []string{"192.168.1.50"}, resp.Interfaces[0].IPAddresses)
}

func TestGetRequest(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(http.MethodGet, "/api/v1/request?interface=eth0", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Interface struct {
			Name         string `json:"name"`
			HardwareAddr string `json:"hardware_address"`
		} `json:"interface"`
		Records int    `json:"records"`
		Size    int    `json:"size"`
		Dump    string `json:"dump"`
	}
	decodeData(t, rec, &resp)
	assert.Equal(t, "eth0", resp.Interface.Name)
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", resp.Interface.HardwareAddr)
	assert.Equal(t, 6, resp.Records)
	assert.Greater(t, resp.Size, 0)
	assert.Contains(t, resp.Dump, "laptop.local.")
	assert.Equal(t, 0, a.sender.SendCalls)
}

func TestGetRequest_NoAddress(t *testing.T) {
	a := newTestAPI(t)
	a.provider.Interfaces = map[string][]string{"eth0": {}}

	rec := a.do(http.MethodGet, "/api/v1/request?interface=eth0", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCheckHealth(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(http.MethodGet, "/api/v1/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp HealthCheckResponse
	decodeData(t, rec, &resp)
	assert.True(t, resp.Healthy)
	assert.True(t, resp.Checks["config_validation"].Passed)
	assert.True(t, resp.Checks["discovery_backend"].Passed)
}

func TestCheckHealth_MissingAvahi(t *testing.T) {
	cfg := config.DefaultConfig()
	deps := domain.NewTestDependencies(mocks.NewMockInterfaceProvider(), mocks.NewMockServiceBrowser(), mocks.NewMockSender())
	h := NewHandler(cfg, deps, service.NewRegistrationService(deps, service.Options{Hostname: "laptop"}))
	h.lookPath = func(file string) (string, error) { return "", assert.AnError }

	rec := httptest.NewRecorder()
	h.CheckHealth(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var resp HealthCheckResponse
	decodeData(t, rec, &resp)
	assert.False(t, resp.Healthy)
	assert.False(t, resp.Checks["discovery_backend"].Passed)
}

func TestPrivateSubnetOnly(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		want       int
	}{
		{"loopback", "127.0.0.1:1234", http.StatusOK},
		{"lan", "192.168.1.20:1234", http.StatusOK},
		{"link-local v6", "[fe80::1%eth0]:1234", http.StatusOK},
		{"mapped v4", "[::ffff:10.0.0.1]:1234", http.StatusOK},
		{"public", "8.8.8.8:1234", http.StatusForbidden},
		{"garbage", "not-an-ip", http.StatusForbidden},
	}

	handler := PrivateSubnetOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
			req.RemoteAddr = tt.remoteAddr
			req.Header.Set("X-Forwarded-For", "127.0.0.1")
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRecovery(t *testing.T) {
	handler := Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestUnknownEndpoint(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(http.MethodGet, "/api/v1/lists", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_StopsOnCancel(t *testing.T) {
	a := newTestAPI(t)
	ctx, cancel := context.WithCancel(context.Background())
	srv := NewServer("127.0.0.1:0", a.handler)

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	cancel()

	assert.NoError(t, <-done)
}
