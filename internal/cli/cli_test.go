package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"mockpay/internal/core/domain"
	"mockpay/pkg/apperror"
	"mockpay/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// controlServer fakes the control plane and records the last body it saw.
type controlServer struct {
	*httptest.Server
	lastBody atomic.Value
}

func newControlServer(t *testing.T) *controlServer {
	cs := &controlServer{}
	record := func(c *gin.Context) {
		b, _ := io.ReadAll(c.Request.Body)
		cs.lastBody.Store(string(b))
	}

	r := gin.New()
	r.GET("/__health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/__control/outcome", func(c *gin.Context) {
		var req struct {
			Result string `json:"result"`
		}
		_ = c.ShouldBindJSON(&req)
		o, ok := domain.ParseOutcome(req.Result)
		if !ok {
			response.Error(c, apperror.ErrInvalidOutcome(req.Result))
			return
		}
		response.OK(c, gin.H{"result": o})
	})
	r.POST("/__control/fault", func(c *gin.Context) {
		response.OK(c, gin.H{"error": domain.FaultNetworkDrop})
	})
	r.GET("/__control/webhook-config", func(c *gin.Context) {
		response.OK(c, domain.WebhookPolicy{DelayMs: 1500, RetryDelayMs: 2000})
	})
	r.PATCH("/__control/webhook-config", func(c *gin.Context) {
		record(c)
		response.OK(c, domain.WebhookPolicy{DelayMs: 1500, RetryCount: 3, RetryDelayMs: 2000, Drop: true})
	})
	r.POST("/__control/webhook/resend", func(c *gin.Context) {
		response.OK(c, gin.H{"resent": true})
	})
	r.POST("/__control/reset", func(c *gin.Context) {
		response.Error(c, apperror.ErrDatabaseError(fmt.Errorf("boom")))
	})

	cs.Server = httptest.NewServer(r)
	t.Cleanup(cs.Close)
	return cs
}

func testClient(baseURL string) *Client {
	return NewClient(baseURL, ClientOptions{RetryWaitMin: time.Millisecond, RetryWaitMax: 5 * time.Millisecond}, zerolog.Nop())
}

func portOf(t *testing.T, raw string) string {
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u.Port()
}

// closedPort returns a port nothing listens on.
func closedPort(t *testing.T) string {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := fmt.Sprint(l.Addr().(*net.TCPAddr).Port)
	require.NoError(t, l.Close())
	return port
}

func runCLI(t *testing.T, paystackPort, flutterwavePort string, args ...string) (string, error) {
	t.Setenv("MOCKPAY_SERVER_HOST", "127.0.0.1")
	t.Setenv("MOCKPAY_SERVER_PAYSTACK_PORT", paystackPort)
	t.Setenv("MOCKPAY_SERVER_FLUTTERWAVE_PORT", flutterwavePort)
	t.Setenv("MOCKPAY_DATA_DIR", filepath.Join(t.TempDir(), "data"))

	var out bytes.Buffer
	root := NewRootCommand(Options{Version: "test"})
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// --- Runtime file ---

func TestRuntime_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "runtime.json")

	rt, err := ReadRuntime(path)
	require.NoError(t, err)
	assert.Nil(t, rt)

	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, WriteRuntime(path, Runtime{PID: 4242, StartedAt: started, DataDir: "/tmp/data"}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"startedAt"`)
	assert.Contains(t, string(raw), `"dataDir"`)

	rt, err = ReadRuntime(path)
	require.NoError(t, err)
	require.NotNil(t, rt)
	assert.Equal(t, 4242, rt.PID)
	assert.True(t, started.Equal(rt.StartedAt))

	require.NoError(t, ClearRuntime(path))
	require.NoError(t, ClearRuntime(path))
	rt, err = ReadRuntime(path)
	require.NoError(t, err)
	assert.Nil(t, rt)
}

func TestRuntime_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runtime.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := ReadRuntime(path)
	assert.Error(t, err)
}

func TestPidRunning(t *testing.T) {
	assert.True(t, pidRunning(os.Getpid()))
	assert.False(t, pidRunning(0))
}

// --- Client ---

func TestClient_ControlCalls(t *testing.T) {
	srv := newControlServer(t)
	c := testClient(srv.URL)
	ctx := context.Background()

	require.NoError(t, c.Health(ctx))

	result, err := c.SetOutcome(ctx, "cancel")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", result)

	fault, err := c.SetFault(ctx, "network")
	require.NoError(t, err)
	assert.Equal(t, "network_drop", fault)

	policy, err := c.WebhookConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2000, policy.RetryDelayMs)

	resent, err := c.ResendWebhook(ctx)
	require.NoError(t, err)
	assert.True(t, resent)
}

func TestClient_APIError(t *testing.T) {
	srv := newControlServer(t)
	c := testClient(srv.URL)

	_, err := c.SetOutcome(context.Background(), "maybe")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "VAL_002", apiErr.Code)
}

func TestClient_ServerErrorIsReturnedAfterRetries(t *testing.T) {
	srv := newControlServer(t)
	c := NewClient(srv.URL, ClientOptions{RetryMax: 1, RetryWaitMin: time.Millisecond, RetryWaitMax: time.Millisecond}, zerolog.Nop())

	err := c.Reset(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "SYS_001", apiErr.Code)
}

func TestClient_HealthRetriesUntilUp(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, ClientOptions{RetryMax: 5, RetryWaitMin: time.Millisecond, RetryWaitMax: time.Millisecond}, zerolog.Nop())
	require.NoError(t, c.Health(context.Background()))
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_StreamLogs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("history"))
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, ":keep-alive\n\n")
		fmt.Fprint(w, `data: {"level":"info","message":"Transaction initialized","source":"paystack"}`+"\n\n")
		fmt.Fprint(w, "data: not-json\n\n")
		fmt.Fprint(w, `data: {"level":"warn","message":"Webhook dropped (simulated)","source":"webhook"}`+"\n\n")
	}))
	defer srv.Close()

	var got []domain.LogEntry
	err := testClient(srv.URL).StreamLogs(context.Background(), 5, func(e domain.LogEntry) {
		got = append(got, e)
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "paystack", got[0].Source)
	assert.Equal(t, "warn", got[1].Level)
}

// --- Commands ---

func TestPayCommand(t *testing.T) {
	srv := newControlServer(t)

	out, err := runCLI(t, portOf(t, srv.URL), closedPort(t), "pay", "fail")
	require.NoError(t, err)
	assert.Equal(t, "Next payment result set to failed\n", out)
}

func TestPayCommand_RejectsUnknownResult(t *testing.T) {
	_, err := runCLI(t, closedPort(t), closedPort(t), "pay", "maybe")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected success|fail|cancel")
}

func TestErrorCommand(t *testing.T) {
	srv := newControlServer(t)

	out, err := runCLI(t, portOf(t, srv.URL), closedPort(t), "error", "network")
	require.NoError(t, err)
	assert.Equal(t, "Next error set to network_drop\n", out)

	_, err = runCLI(t, portOf(t, srv.URL), closedPort(t), "error", "404")
	assert.Error(t, err)
}

func TestWebhookConfigCommand_PatchesOnlyChangedFlags(t *testing.T) {
	srv := newControlServer(t)

	out, err := runCLI(t, portOf(t, srv.URL), closedPort(t), "webhook", "config", "--retry", "3", "--drop")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Webhook config updated\n"))
	assert.Contains(t, out, `"retry_count": 3`)

	var sent map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(srv.lastBody.Load().(string)), &sent))
	assert.Equal(t, map[string]interface{}{"retry_count": float64(3), "drop": true}, sent)
}

func TestWebhookConfigCommand_ShowsPolicy(t *testing.T) {
	srv := newControlServer(t)

	out, err := runCLI(t, portOf(t, srv.URL), closedPort(t), "webhook", "config")
	require.NoError(t, err)
	assert.NotContains(t, out, "updated")
	assert.Contains(t, out, `"delay_ms": 1500`)
}

func TestWebhookResendCommand(t *testing.T) {
	srv := newControlServer(t)

	out, err := runCLI(t, portOf(t, srv.URL), closedPort(t), "webhook", "resend")
	require.NoError(t, err)
	assert.Equal(t, "Webhook resent\n", out)
}

func TestStatusCommand(t *testing.T) {
	srv := newControlServer(t)

	out, err := runCLI(t, portOf(t, srv.URL), closedPort(t), "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Paystack running")
	assert.NotContains(t, out, "Flutterwave running")

	out, err = runCLI(t, closedPort(t), closedPort(t), "status")
	require.NoError(t, err)
	assert.Equal(t, "Not running\n", out)
}

func TestStopCommand_NotRunning(t *testing.T) {
	out, err := runCLI(t, closedPort(t), closedPort(t), "stop")
	require.NoError(t, err)
	assert.Equal(t, "Mockpay is not running\n", out)
}

func TestControlCommand_ServerDown(t *testing.T) {
	_, err := runCLI(t, closedPort(t), closedPort(t), "reset")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is mockpay running?")
}

func TestFormatEntry(t *testing.T) {
	ts := time.Date(2026, 1, 1, 9, 30, 0, 0, time.Local)
	assert.Equal(t, "09:30:00 [gate] Simulating timeout error",
		formatEntry(domain.LogEntry{Message: "Simulating timeout error", Source: "gate", Timestamp: ts}))
	assert.Equal(t, "09:30:00 plain", formatEntry(domain.LogEntry{Message: "plain", Timestamp: ts}))
}
