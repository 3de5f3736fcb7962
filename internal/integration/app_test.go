// Package integration drives both provider servers end to end over the
// memory ledger and a miniredis-backed settings store.
package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"mockpay/internal/adapter/http/handler"
	"mockpay/internal/adapter/logstream"
	"mockpay/internal/adapter/storage/memory"
	redisStorage "mockpay/internal/adapter/storage/redis"
	"mockpay/internal/core/domain"
	"mockpay/internal/core/ports"
	"mockpay/internal/service"
	"mockpay/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// receivedWebhook is one POST seen by the merchant receiver.
type receivedWebhook struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`

	raw    []byte
	header http.Header
}

// receiver stands in for the merchant's webhook endpoint.
type receiver struct {
	*httptest.Server
	mu     sync.Mutex
	events []receivedWebhook
}

func newReceiver(t *testing.T) *receiver {
	r := &receiver{}
	r.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		raw, _ := io.ReadAll(req.Body)
		var body receivedWebhook
		_ = json.Unmarshal(raw, &body)
		body.raw = raw
		body.header = req.Header.Clone()
		r.mu.Lock()
		r.events = append(r.events, body)
		r.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(r.Close)
	return r
}

func (r *receiver) received() []receivedWebhook {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]receivedWebhook(nil), r.events...)
}

func (r *receiver) hookURL() string {
	return r.URL + "/hook"
}

// testApp runs the Paystack and Flutterwave servers over shared services.
type testApp struct {
	paystack    *httptest.Server
	flutterwave *httptest.Server
	dispatcher  *service.Dispatcher
	txRepo      *memory.TransactionRepo
	hub         *logstream.Hub
	redis       *miniredis.Miniredis
	shutdowns   chan struct{}
}

const (
	testPaystackSecret  = "sk_test_integration"
	testFlutterwaveHash = "flw_integration_hash"
)

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})

	settings := redisStorage.NewSettingsStore(rdb)
	txRepo := memory.NewTransactionRepo()
	transfers := memory.NewTransferRepo()
	webhooks := memory.NewWebhookRepo()
	logs := memory.NewLogRepo(500)

	hub := logstream.NewHub(logs)
	log := logger.NewWithWriter("debug", hub)

	dispatcher := service.NewDispatcher(log)
	outcomes := service.NewOutcomeService(settings, log)
	webhookSvc := service.NewWebhookService(
		settings,
		webhooks,
		&http.Client{Timeout: 2 * time.Second},
		dispatcher,
		service.WebhookSettings{
			Defaults:       domain.WebhookPolicy{RetryDelayMs: 10},
			AttemptTimeout: 2 * time.Second,
			Signer:         service.NewWebhookSigner(testPaystackSecret, testFlutterwaveHash),
		},
		log,
	)
	payments := service.NewPaymentService(txRepo, transfers, outcomes, webhookSvc, service.PaymentSettings{}, log)
	control := service.NewControlService(settings, txRepo, transfers, webhooks, logs, log)

	app := &testApp{
		dispatcher: dispatcher,
		txRepo:     txRepo,
		hub:        hub,
		redis:      mr,
		shutdowns:  make(chan struct{}, 4),
	}

	build := func(p domain.Provider) *httptest.Server {
		return httptest.NewServer(handler.SetupRouter(handler.RouterDeps{
			Provider:       p,
			Payments:       payments,
			Outcomes:       outcomes,
			Webhooks:       webhookSvc,
			Control:        control,
			Logs:           hub,
			HealthCheckers: []ports.HealthChecker{redisStorage.NewHealthCheck(rdb)},
			Checkout:       handler.CheckoutLinks{FrontendURL: "http://checkout.test"},
			TimeoutDelay:   20 * time.Millisecond,
			DropDelay:      time.Millisecond,
			Shutdown:       func() { app.shutdowns <- struct{}{} },
			Logger:         log,
		}))
	}
	app.paystack = build(domain.ProviderPaystack)
	app.flutterwave = build(domain.ProviderFlutterwave)

	t.Cleanup(func() {
		app.paystack.Close()
		app.flutterwave.Close()
		dispatcher.Shutdown(time.Second)
		_ = hub.Close()
		_ = rdb.Close()
		mr.Close()
	})
	return app
}

// settle waits for every dispatched webhook to finish.
func (a *testApp) settle() {
	a.dispatcher.Wait()
}

type apiResponse struct {
	Status  interface{}     `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (r apiResponse) decode(t *testing.T, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Data, v))
}

func call(t *testing.T, method, url string, body interface{}) (int, apiResponse) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out apiResponse
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func (a *testApp) setOutcome(t *testing.T, result string) {
	t.Helper()
	code, _ := call(t, http.MethodPost, a.paystack.URL+"/__control/outcome", map[string]string{"result": result})
	require.Equal(t, http.StatusOK, code)
}

func (a *testApp) setFault(t *testing.T, fault string) {
	t.Helper()
	code, _ := call(t, http.MethodPost, a.paystack.URL+"/__control/fault", map[string]string{"error": fault})
	require.Equal(t, http.StatusOK, code)
}

func (a *testApp) patchWebhookConfig(t *testing.T, patch map[string]interface{}) {
	t.Helper()
	code, _ := call(t, http.MethodPatch, a.paystack.URL+"/__control/webhook-config", patch)
	require.Equal(t, http.StatusOK, code)
}

// initPaystack creates a Paystack transaction and returns its reference.
func (a *testApp) initPaystack(t *testing.T, callback string) string {
	t.Helper()
	code, resp := call(t, http.MethodPost, a.paystack.URL+"/transaction/initialize", map[string]interface{}{
		"amount":       500000,
		"email":        "ada@example.com",
		"callback_url": callback,
	})
	require.Equal(t, http.StatusOK, code)

	var data struct {
		Reference        string `json:"reference"`
		AuthorizationURL string `json:"authorization_url"`
	}
	resp.decode(t, &data)
	require.NotEmpty(t, data.Reference)
	return data.Reference
}

// initFlutterwave creates a Flutterwave transaction and returns its tx_ref.
func (a *testApp) initFlutterwave(t *testing.T, callback string) string {
	t.Helper()
	code, resp := call(t, http.MethodPost, a.flutterwave.URL+"/payments", map[string]interface{}{
		"amount":       2500,
		"currency":     "NGN",
		"redirect_url": callback,
		"customer":     map[string]string{"email": "ada@example.com", "name": "Ada"},
	})
	require.Equal(t, http.StatusOK, code)

	var data struct {
		TxRef string `json:"tx_ref"`
	}
	resp.decode(t, &data)
	require.NotEmpty(t, data.TxRef)
	return data.TxRef
}

type verifyData struct {
	ID        string `json:"id"`
	Reference string `json:"reference"`
	TxRef     string `json:"tx_ref"`
	Status    string `json:"status"`
}
