package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"mockpay/internal/adapter/storage/memory"
	"mockpay/internal/core/domain"
	"mockpay/internal/core/ports"
	"mockpay/internal/core/ports/mocks"
	"mockpay/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// mockHTTPClient implements HTTPClient for testing.
type mockHTTPClient struct {
	doFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.doFunc(req)
}

func newTestLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

// scriptedClient answers with statuses in order, repeating the last one.
type scriptedClient struct {
	mu       sync.Mutex
	statuses []int
	requests []capturedRequest
}

type capturedRequest struct {
	url         string
	contentType string
	body        string
}

func (c *scriptedClient) Do(req *http.Request) (*http.Response, error) {
	body, _ := io.ReadAll(req.Body)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, capturedRequest{
		url:         req.URL.String(),
		contentType: req.Header.Get("Content-Type"),
		body:        string(body),
	})
	status := c.statuses[0]
	if len(c.statuses) > 1 {
		c.statuses = c.statuses[1:]
	}
	return &http.Response{StatusCode: status, Body: http.NoBody}, nil
}

func (c *scriptedClient) calls() []capturedRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]capturedRequest(nil), c.requests...)
}

type webhookFixture struct {
	svc        *webhookService
	settings   *memory.SettingsStore
	repo       *memory.WebhookRepo
	dispatcher *Dispatcher
}

func newWebhookFixture(client HTTPClient, defaults domain.WebhookPolicy) webhookFixture {
	settings := memory.NewSettingsStore()
	repo := memory.NewWebhookRepo()
	dispatcher := NewDispatcher(newTestLogger())
	svc := NewWebhookService(settings, repo, client, dispatcher, WebhookSettings{
		DefaultURL: "http://localhost:9999/webhook",
		Defaults:   defaults,
	}, newTestLogger())
	return webhookFixture{svc: svc, settings: settings, repo: repo, dispatcher: dispatcher}
}

func chargeRequest() ports.WebhookRequest {
	return ports.WebhookRequest{
		Provider: domain.ProviderPaystack,
		Event:    "charge.success",
		URL:      "http://receiver.test/hook",
		Payload:  []byte(`{"event":"charge.success","data":{"reference":"PSK_1"}}`),
	}
}

func TestWebhookService_Deliver_Success(t *testing.T) {
	client := &scriptedClient{statuses: []int{200}}
	f := newWebhookFixture(client, domain.WebhookPolicy{})

	d := f.svc.Deliver(context.Background(), chargeRequest(), domain.WebhookPolicy{})

	assert.Equal(t, domain.WebhookStatusSent, d.Status)
	assert.Equal(t, 1, d.Attempts)
	require.NotNil(t, d.LastHTTPStatus)
	assert.Equal(t, 200, *d.LastHTTPStatus)
	assert.Nil(t, d.LastError)

	calls := client.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "http://receiver.test/hook", calls[0].url)
	assert.Equal(t, "application/json", calls[0].contentType)
	assert.JSONEq(t, `{"event":"charge.success","data":{"reference":"PSK_1"}}`, calls[0].body)

	stored, err := f.repo.GetByID(context.Background(), d.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, domain.WebhookStatusSent, stored.Status)
	assert.Equal(t, 1, stored.Attempts)
}

func TestWebhookService_Deliver_DropMakesNoRequest(t *testing.T) {
	var calls atomic.Int32
	client := &mockHTTPClient{doFunc: func(req *http.Request) (*http.Response, error) {
		calls.Add(1)
		return &http.Response{StatusCode: 200, Body: http.NoBody}, nil
	}}
	f := newWebhookFixture(client, domain.WebhookPolicy{})

	d := f.svc.Deliver(context.Background(), chargeRequest(), domain.WebhookPolicy{Drop: true, Duplicate: true, RetryCount: 3})

	assert.Equal(t, domain.WebhookStatusDropped, d.Status)
	assert.Equal(t, 0, d.Attempts)
	assert.Equal(t, int32(0), calls.Load())

	stored, err := f.repo.List(context.Background(), domain.WebhookFilter{Status: domain.WebhookStatusDropped})
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestWebhookService_Deliver_DuplicateSendsTwice(t *testing.T) {
	client := &scriptedClient{statuses: []int{200}}
	f := newWebhookFixture(client, domain.WebhookPolicy{})

	d := f.svc.Deliver(context.Background(), chargeRequest(), domain.WebhookPolicy{Duplicate: true})

	assert.Equal(t, domain.WebhookStatusSent, d.Status)
	assert.Equal(t, 2, d.Attempts)
	calls := client.calls()
	require.Len(t, calls, 2)
	assert.Equal(t, calls[0].body, calls[1].body)
}

func TestWebhookService_Deliver_DuplicateWithRetry(t *testing.T) {
	tests := []struct {
		name       string
		statuses   []int
		retryCount int
		attempts   int
		status     domain.WebhookStatus
	}{
		{"both succeed", []int{200}, 0, 2, domain.WebhookStatusSent},
		{"both fail without retry", []int{500}, 0, 2, domain.WebhookStatusFailed},
		{"first ok duplicate fails skips retries", []int{200, 500}, 3, 2, domain.WebhookStatusFailed},
		{"first fails duplicate ok still retries", []int{500, 200}, 3, 3, domain.WebhookStatusSent},
		{"retry stops on first success", []int{500, 500, 200}, 3, 3, domain.WebhookStatusSent},
		{"all fail exhausts retries", []int{500}, 2, 4, domain.WebhookStatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &scriptedClient{statuses: tt.statuses}
			f := newWebhookFixture(client, domain.WebhookPolicy{})

			d := f.svc.Deliver(context.Background(), chargeRequest(),
				domain.WebhookPolicy{Duplicate: true, RetryCount: tt.retryCount, RetryDelayMs: 1})

			assert.Equal(t, tt.status, d.Status)
			assert.Equal(t, tt.attempts, d.Attempts)
			assert.Len(t, client.calls(), tt.attempts)

			stored, err := f.repo.GetByID(context.Background(), d.ID)
			require.NoError(t, err)
			require.NotNil(t, stored)
			assert.Equal(t, tt.status, stored.Status)
			assert.Equal(t, tt.attempts, stored.Attempts)
		})
	}
}

func TestWebhookService_Deliver_RetryStopsOnSuccess(t *testing.T) {
	client := &scriptedClient{statuses: []int{500, 200}}
	f := newWebhookFixture(client, domain.WebhookPolicy{})

	d := f.svc.Deliver(context.Background(), chargeRequest(), domain.WebhookPolicy{RetryCount: 3, RetryDelayMs: 1})

	assert.Equal(t, domain.WebhookStatusSent, d.Status)
	assert.Equal(t, 2, d.Attempts)
	assert.Len(t, client.calls(), 2)
	assert.Nil(t, d.LastError)
}

func TestWebhookService_Deliver_RetriesExhausted(t *testing.T) {
	client := &scriptedClient{statuses: []int{503}}
	f := newWebhookFixture(client, domain.WebhookPolicy{})

	d := f.svc.Deliver(context.Background(), chargeRequest(), domain.WebhookPolicy{RetryCount: 2})

	assert.Equal(t, domain.WebhookStatusFailed, d.Status)
	assert.Equal(t, 3, d.Attempts)
	assert.Len(t, client.calls(), 3)
	require.NotNil(t, d.LastHTTPStatus)
	assert.Equal(t, 503, *d.LastHTTPStatus)
	require.NotNil(t, d.LastError)
	assert.Contains(t, *d.LastError, "503")
}

func TestWebhookService_Deliver_TransportError(t *testing.T) {
	client := &mockHTTPClient{doFunc: func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	}}
	f := newWebhookFixture(client, domain.WebhookPolicy{})

	d := f.svc.Deliver(context.Background(), chargeRequest(), domain.WebhookPolicy{})

	assert.Equal(t, domain.WebhookStatusFailed, d.Status)
	assert.Equal(t, 1, d.Attempts)
	assert.Nil(t, d.LastHTTPStatus)
	require.NotNil(t, d.LastError)
	assert.Contains(t, *d.LastError, "connection refused")
}

func TestWebhookService_Deliver_NoRetryWhenDisabled(t *testing.T) {
	client := &scriptedClient{statuses: []int{500}}
	f := newWebhookFixture(client, domain.WebhookPolicy{})

	d := f.svc.Deliver(context.Background(), chargeRequest(), domain.WebhookPolicy{})

	assert.Equal(t, domain.WebhookStatusFailed, d.Status)
	assert.Len(t, client.calls(), 1)
}

func TestWebhookService_SendThenResend(t *testing.T) {
	client := &scriptedClient{statuses: []int{200}}
	f := newWebhookFixture(client, domain.WebhookPolicy{})
	ctx := context.Background()

	f.svc.Send(ctx, chargeRequest())
	f.dispatcher.Wait()

	ok, err := f.svc.ResendLast(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	f.dispatcher.Wait()

	calls := client.calls()
	require.Len(t, calls, 2)
	assert.Equal(t, calls[0], calls[1])

	deliveries, err := f.svc.ListDeliveries(ctx, domain.WebhookFilter{})
	require.NoError(t, err)
	assert.Len(t, deliveries, 2)
}

func TestWebhookService_ResendNothingStored(t *testing.T) {
	client := &scriptedClient{statuses: []int{200}}
	f := newWebhookFixture(client, domain.WebhookPolicy{})

	ok, err := f.svc.ResendLast(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	f.dispatcher.Wait()
	assert.Empty(t, client.calls())
}

func TestWebhookService_ResendUsesDefaultURL(t *testing.T) {
	client := &scriptedClient{statuses: []int{200}}
	f := newWebhookFixture(client, domain.WebhookPolicy{})
	ctx := context.Background()

	require.NoError(t, f.settings.Set(ctx, domain.SettingLastWebhook,
		[]byte(`{"provider":"paystack","event":"charge.failed","url":"","payload":{"event":"charge.failed"}}`)))

	ok, err := f.svc.ResendLast(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	f.dispatcher.Wait()

	calls := client.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "http://localhost:9999/webhook", calls[0].url)
}

func TestWebhookService_SendUsesPolicyAtDispatch(t *testing.T) {
	var calls atomic.Int32
	client := &mockHTTPClient{doFunc: func(req *http.Request) (*http.Response, error) {
		calls.Add(1)
		return &http.Response{StatusCode: 200, Body: http.NoBody}, nil
	}}
	f := newWebhookFixture(client, domain.WebhookPolicy{})
	ctx := context.Background()

	_, err := f.svc.UpdatePolicy(ctx, domain.WebhookPolicyPatch{Drop: lo.ToPtr(true)})
	require.NoError(t, err)

	f.svc.Send(ctx, chargeRequest())
	f.dispatcher.Wait()

	assert.Equal(t, int32(0), calls.Load())
	deliveries, err := f.svc.ListDeliveries(ctx, domain.WebhookFilter{})
	require.NoError(t, err)
	require.Len(t, deliveries, 1)
	assert.Equal(t, domain.WebhookStatusDropped, deliveries[0].Status)
}

func TestWebhookService_PolicyDefaultsAndPartialUpdate(t *testing.T) {
	defaults := domain.WebhookPolicy{DelayMs: 0, RetryCount: 1, RetryDelayMs: 2000}
	f := newWebhookFixture(&scriptedClient{statuses: []int{200}}, defaults)
	ctx := context.Background()

	assert.Equal(t, defaults, f.svc.Policy(ctx))

	got, err := f.svc.UpdatePolicy(ctx, domain.WebhookPolicyPatch{DelayMs: lo.ToPtr(250), Duplicate: lo.ToPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, domain.WebhookPolicy{DelayMs: 250, RetryCount: 1, RetryDelayMs: 2000, Duplicate: true}, got)
	assert.Equal(t, got, f.svc.Policy(ctx))

	got, err = f.svc.UpdatePolicy(ctx, domain.WebhookPolicyPatch{Duplicate: lo.ToPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, 250, got.DelayMs)
	assert.False(t, got.Duplicate)
}

func TestWebhookService_UpdatePolicyRejectsNegative(t *testing.T) {
	f := newWebhookFixture(&scriptedClient{statuses: []int{200}}, domain.WebhookPolicy{})
	ctx := context.Background()

	_, err := f.svc.UpdatePolicy(ctx, domain.WebhookPolicyPatch{RetryCount: lo.ToPtr(-1)})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VAL_006", appErr.Code)

	assert.Equal(t, domain.WebhookPolicy{}, f.svc.Policy(ctx))
}

func TestWebhookService_PolicyStoreUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSettingsStore(ctrl)
	defaults := domain.WebhookPolicy{RetryCount: 2}
	svc := NewWebhookService(store, memory.NewWebhookRepo(), &scriptedClient{statuses: []int{200}},
		NewDispatcher(newTestLogger()), WebhookSettings{Defaults: defaults}, newTestLogger())

	store.EXPECT().Get(gomock.Any(), domain.SettingWebhookPolicy).Return(nil, errors.New("connection refused"))
	assert.Equal(t, defaults, svc.Policy(context.Background()))

	store.EXPECT().Get(gomock.Any(), domain.SettingWebhookPolicy).Return(nil, nil)
	store.EXPECT().Set(gomock.Any(), domain.SettingWebhookPolicy, gomock.Any()).Return(errors.New("connection refused"))
	_, err := svc.UpdatePolicy(context.Background(), domain.WebhookPolicyPatch{Drop: lo.ToPtr(true)})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "SYS_002", appErr.Code)
}

func TestWebhookService_ListDeliveriesError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockWebhookRepository(ctrl)
	svc := NewWebhookService(memory.NewSettingsStore(), repo, &scriptedClient{statuses: []int{200}},
		NewDispatcher(newTestLogger()), WebhookSettings{}, newTestLogger())

	repo.EXPECT().List(gomock.Any(), domain.WebhookFilter{Limit: 10}).Return(nil, errors.New("db down"))

	_, err := svc.ListDeliveries(context.Background(), domain.WebhookFilter{Limit: 10})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "SYS_001", appErr.Code)
}

func TestWebhookService_RecordFailureDoesNotStopDelivery(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockWebhookRepository(ctrl)
	client := &scriptedClient{statuses: []int{200}}
	svc := NewWebhookService(memory.NewSettingsStore(), repo, client,
		NewDispatcher(newTestLogger()), WebhookSettings{}, newTestLogger())

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
	repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

	d := svc.Deliver(context.Background(), chargeRequest(), domain.WebhookPolicy{})
	assert.Equal(t, domain.WebhookStatusSent, d.Status)
	assert.Len(t, client.calls(), 1)
}

func TestWebhookService_Deliver_SignsPerProvider(t *testing.T) {
	var headers []http.Header
	var mu sync.Mutex
	client := &mockHTTPClient{doFunc: func(req *http.Request) (*http.Response, error) {
		mu.Lock()
		headers = append(headers, req.Header.Clone())
		mu.Unlock()
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
	}}
	signer := NewWebhookSigner("sk_test_key", "flw-hash")
	svc := NewWebhookService(memory.NewSettingsStore(), memory.NewWebhookRepo(), client,
		NewDispatcher(newTestLogger()), WebhookSettings{Signer: signer}, newTestLogger())

	paystack := chargeRequest()
	svc.Deliver(context.Background(), paystack, domain.WebhookPolicy{})

	flutterwave := ports.WebhookRequest{
		Provider: domain.ProviderFlutterwave,
		Event:    "charge.completed",
		URL:      "http://receiver.test/hook",
		Payload:  []byte(`{"event":"charge.completed"}`),
	}
	svc.Deliver(context.Background(), flutterwave, domain.WebhookPolicy{})

	require.Len(t, headers, 2)
	assert.True(t, signer.Verify("sk_test_key", paystack.Payload, headers[0].Get(HeaderPaystackSignature)))
	assert.Empty(t, headers[0].Get(HeaderFlutterwaveHash))
	assert.Equal(t, "flw-hash", headers[1].Get(HeaderFlutterwaveHash))
	assert.Empty(t, headers[1].Get(HeaderPaystackSignature))
}
