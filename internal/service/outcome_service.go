package service

import (
	"context"
	"encoding/json"
	"fmt"

	"mockpay/internal/core/domain"
	"mockpay/internal/core/ports"
	"mockpay/pkg/apperror"
	"mockpay/pkg/logger"

	"github.com/rs/zerolog"
)

// OutcomeService implements ports.OutcomeController over a SettingsStore.
// Every take is a single Swap against the store, so a value set once is
// observed by exactly one take.
type OutcomeService struct {
	settings ports.SettingsStore
	log      zerolog.Logger
}

// NewOutcomeService creates a new OutcomeService.
func NewOutcomeService(settings ports.SettingsStore, log zerolog.Logger) *OutcomeService {
	return &OutcomeService{
		settings: settings,
		log:      logger.WithSource(log, "controller"),
	}
}

// TakeNextOutcome returns the pending outcome and resets it to success.
func (s *OutcomeService) TakeNextOutcome(ctx context.Context) domain.Outcome {
	raw, ok := s.take(ctx, domain.SettingNextOutcome, string(domain.DefaultOutcome))
	if !ok {
		return domain.DefaultOutcome
	}
	outcome, valid := domain.ParseOutcome(raw)
	if !valid {
		s.log.Warn().Str("value", raw).Msg("ignoring unrecognised stored outcome")
		return domain.DefaultOutcome
	}
	return outcome
}

// SetNextOutcome arms the outcome for the next resolved payment.
func (s *OutcomeService) SetNextOutcome(ctx context.Context, outcome string) (domain.Outcome, error) {
	o, ok := domain.ParseOutcome(outcome)
	if !ok {
		return "", apperror.ErrInvalidOutcome(outcome)
	}
	if err := s.put(ctx, domain.SettingNextOutcome, string(o)); err != nil {
		return "", err
	}
	s.log.Info().Str("outcome", string(o)).Msg("Next payment result set")
	return o, nil
}

// TakeNextFault returns the pending fault and resets it to none.
func (s *OutcomeService) TakeNextFault(ctx context.Context) domain.Fault {
	raw, ok := s.take(ctx, domain.SettingNextFault, string(domain.DefaultFault))
	if !ok {
		return domain.DefaultFault
	}
	fault, valid := domain.ParseFault(raw)
	if !valid {
		s.log.Warn().Str("value", raw).Msg("ignoring unrecognised stored fault")
		return domain.DefaultFault
	}
	return fault
}

// SetNextFault arms the fault for the next gated request.
func (s *OutcomeService) SetNextFault(ctx context.Context, fault string) (domain.Fault, error) {
	f, ok := domain.ParseFault(fault)
	if !ok {
		return "", apperror.ErrInvalidFault(fault)
	}
	if err := s.put(ctx, domain.SettingNextFault, string(f)); err != nil {
		return "", err
	}
	s.log.Info().Str("fault", string(f)).Msg("Next error set")
	return f, nil
}

// take swaps the default in and returns the previous value. ok is false
// when the key was absent or unreadable.
func (s *OutcomeService) take(ctx context.Context, key, def string) (string, bool) {
	defJSON, _ := json.Marshal(def)

	prev, err := s.settings.Swap(ctx, key, defJSON)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("settings store unavailable, using default")
		return "", false
	}
	if prev == nil {
		return "", false
	}

	var v string
	if err := json.Unmarshal(prev, &v); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("corrupt setting, using default")
		return "", false
	}
	return v, true
}

func (s *OutcomeService) put(ctx context.Context, key, value string) error {
	b, err := json.Marshal(value)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("encode %s: %w", key, err))
	}
	if err := s.settings.Set(ctx, key, b); err != nil {
		return apperror.ErrStoreUnavailable(err)
	}
	return nil
}
