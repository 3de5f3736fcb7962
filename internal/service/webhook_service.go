package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"mockpay/internal/core/domain"
	"mockpay/internal/core/ports"
	"mockpay/pkg/apperror"
	"mockpay/pkg/logger"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// WebhookSettings is the static part of webhook delivery configuration.
type WebhookSettings struct {
	// DefaultURL replaces an empty stored URL on resend.
	DefaultURL string
	// Defaults applies until a policy is stored.
	Defaults       domain.WebhookPolicy
	AttemptTimeout time.Duration
	// Signer adds provider signature headers; nil sends unsigned webhooks.
	Signer *WebhookSigner
}

// webhookService implements ports.WebhookService.
type webhookService struct {
	settings   ports.SettingsStore
	repo       ports.WebhookRepository
	httpClient HTTPClient
	dispatcher *Dispatcher
	cfg        WebhookSettings
	policyMu   sync.Mutex
	log        zerolog.Logger
}

// NewWebhookService creates a new webhook service.
func NewWebhookService(
	settings ports.SettingsStore,
	repo ports.WebhookRepository,
	httpClient HTTPClient,
	dispatcher *Dispatcher,
	cfg WebhookSettings,
	log zerolog.Logger,
) *webhookService {
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = 10 * time.Second
	}
	return &webhookService{
		settings:   settings,
		repo:       repo,
		httpClient: httpClient,
		dispatcher: dispatcher,
		cfg:        cfg,
		log:        logger.WithSource(log, "webhook"),
	}
}

// Send records the webhook as the last one sent, snapshots the active
// policy and hands delivery to the dispatcher.
func (s *webhookService) Send(ctx context.Context, req ports.WebhookRequest) {
	s.saveLast(ctx, req)
	policy := s.Policy(ctx)

	s.dispatcher.Go("webhook:"+req.Event, func(taskCtx context.Context) {
		s.Deliver(taskCtx, req, policy)
	})
}

// ResendLast re-dispatches the stored last webhook under the current policy.
func (s *webhookService) ResendLast(ctx context.Context) (bool, error) {
	raw, err := s.settings.Get(ctx, domain.SettingLastWebhook)
	if err != nil {
		return false, apperror.ErrStoreUnavailable(err)
	}
	if raw == nil {
		s.log.Warn().Msg("No webhook to resend")
		return false, nil
	}

	var last domain.LastWebhook
	if err := json.Unmarshal(raw, &last); err != nil {
		return false, apperror.InternalError(fmt.Errorf("decode last webhook: %w", err))
	}
	if last.URL == "" {
		last.URL = s.cfg.DefaultURL
	}

	s.log.Info().Str("event", last.Event).Str("url", last.URL).Msg("Resending last webhook")
	s.Send(ctx, ports.WebhookRequest{
		Provider: last.Provider,
		Event:    last.Event,
		URL:      last.URL,
		Payload:  last.Payload,
	})
	return true, nil
}

// Policy returns the stored policy, falling back to the configured defaults
// for missing fields or when the store is unreadable.
func (s *webhookService) Policy(ctx context.Context) domain.WebhookPolicy {
	policy := s.cfg.Defaults

	raw, err := s.settings.Get(ctx, domain.SettingWebhookPolicy)
	if err != nil {
		s.log.Warn().Err(err).Msg("settings store unavailable, using default webhook policy")
		return policy
	}
	if raw == nil {
		return policy
	}
	if err := json.Unmarshal(raw, &policy); err != nil {
		s.log.Warn().Err(err).Msg("corrupt webhook policy, using defaults")
		return s.cfg.Defaults
	}
	return policy
}

// UpdatePolicy merges patch into the current policy and stores the result.
func (s *webhookService) UpdatePolicy(ctx context.Context, patch domain.WebhookPolicyPatch) (domain.WebhookPolicy, error) {
	s.policyMu.Lock()
	defer s.policyMu.Unlock()

	next := s.Policy(ctx).Apply(patch)
	if err := next.Validate(); err != nil {
		return domain.WebhookPolicy{}, apperror.ErrInvalidPolicy(err.Error())
	}

	b, err := json.Marshal(next)
	if err != nil {
		return domain.WebhookPolicy{}, apperror.InternalError(err)
	}
	if err := s.settings.Set(ctx, domain.SettingWebhookPolicy, b); err != nil {
		return domain.WebhookPolicy{}, apperror.ErrStoreUnavailable(err)
	}

	s.log.Info().
		Int("delay_ms", next.DelayMs).
		Int("retry_count", next.RetryCount).
		Int("retry_delay_ms", next.RetryDelayMs).
		Bool("duplicate", next.Duplicate).
		Bool("drop", next.Drop).
		Msg("Webhook config updated")
	return next, nil
}

// ListDeliveries returns recorded deliveries, newest first.
func (s *webhookService) ListDeliveries(ctx context.Context, filter domain.WebhookFilter) ([]domain.WebhookDelivery, error) {
	out, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if out == nil {
		out = []domain.WebhookDelivery{}
	}
	return out, nil
}

// Deliver runs the full delivery sequence for one webhook under policy and
// returns the final record. Failures are recorded, never returned.
func (s *webhookService) Deliver(ctx context.Context, req ports.WebhookRequest, policy domain.WebhookPolicy) *domain.WebhookDelivery {
	now := time.Now().UTC()
	d := &domain.WebhookDelivery{
		ID:        uuid.New(),
		Provider:  req.Provider,
		Event:     req.Event,
		URL:       req.URL,
		Status:    domain.WebhookStatusPending,
		Payload:   req.Payload,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if policy.Drop {
		d.Status = domain.WebhookStatusDropped
		s.create(ctx, d)
		s.log.Warn().Str("event", d.Event).Str("url", d.URL).Msg("Webhook dropped (simulated)")
		return d
	}

	s.create(ctx, d)

	ok := s.attempt(ctx, d, policy)

	if policy.Duplicate {
		s.log.Info().Str("event", d.Event).Msg("Sending duplicate webhook (simulated)")
		s.attempt(ctx, d, policy)
	}

	if !ok && policy.RetryCount > 0 {
		b := backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewConstantBackOff(policy.RetryDelay()), uint64(policy.RetryCount)),
			ctx,
		)
		for {
			wait := b.NextBackOff()
			if wait == backoff.Stop {
				break
			}
			if err := sleepContext(ctx, wait); err != nil {
				break
			}
			if s.attempt(ctx, d, policy) {
				break
			}
		}
	}

	if d.Status == domain.WebhookStatusFailed {
		s.log.Error().Str("event", d.Event).Str("url", d.URL).Int("attempts", d.Attempts).Msg("Webhook delivery failed")
	}
	return d
}

// attempt waits the policy delay, POSTs once and records the result.
func (s *webhookService) attempt(ctx context.Context, d *domain.WebhookDelivery, policy domain.WebhookPolicy) bool {
	if err := sleepContext(ctx, policy.Delay()); err != nil {
		return false
	}

	status, err := s.post(ctx, d.Provider, d.URL, d.Payload)
	ok := err == nil && status >= 200 && status < 300

	now := time.Now().UTC()
	d.Attempts++
	d.LastAttemptAt = &now
	d.UpdatedAt = now
	d.LastHTTPStatus = nil
	d.LastError = nil
	if status != 0 {
		d.LastHTTPStatus = &status
	}

	if ok {
		d.Status = domain.WebhookStatusSent
		s.log.Info().Str("event", d.Event).Str("url", d.URL).Int("status", status).Int("attempt", d.Attempts).Msg("Webhook sent")
	} else {
		d.Status = domain.WebhookStatusFailed
		msg := fmt.Sprintf("non-2xx response: %d", status)
		if err != nil {
			msg = err.Error()
		}
		d.LastError = &msg
		s.log.Warn().Str("event", d.Event).Str("url", d.URL).Int("attempt", d.Attempts).Str("error", msg).Msg("Webhook attempt failed")
	}

	if err := s.repo.Update(ctx, d); err != nil {
		s.log.Warn().Err(err).Str("delivery_id", d.ID.String()).Msg("failed to record webhook attempt")
	}
	return ok
}

func (s *webhookService) post(ctx context.Context, provider domain.Provider, url string, payload []byte) (int, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, s.cfg.AttemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if name, value, ok := s.cfg.Signer.Header(provider, payload); ok {
		req.Header.Set(name, value)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp.StatusCode, nil
}

func (s *webhookService) create(ctx context.Context, d *domain.WebhookDelivery) {
	if err := s.repo.Create(ctx, d); err != nil {
		s.log.Warn().Err(err).Str("event", d.Event).Msg("failed to record webhook delivery")
	}
}

func (s *webhookService) saveLast(ctx context.Context, req ports.WebhookRequest) {
	b, err := json.Marshal(domain.LastWebhook{
		Provider: req.Provider,
		Event:    req.Event,
		URL:      req.URL,
		Payload:  req.Payload,
	})
	if err == nil {
		err = s.settings.Set(ctx, domain.SettingLastWebhook, b)
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to persist last webhook")
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
