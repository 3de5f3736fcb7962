package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"mockpay/internal/core/domain"
	"mockpay/internal/core/ports"
	"mockpay/pkg/apperror"
	"mockpay/pkg/logger"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PaymentSettings is the static configuration of the payment service.
type PaymentSettings struct {
	// DefaultWebhookURL is used when an initialize request names no callback.
	DefaultWebhookURL string
}

// PaymentServiceImpl implements ports.PaymentService.
type PaymentServiceImpl struct {
	txRepo       ports.TransactionRepository
	transferRepo ports.TransferRepository
	outcomes     ports.OutcomeController
	webhooks     ports.WebhookService
	cfg          PaymentSettings
	// resolveMu keeps the read, take and resolve of one verification together
	// so a one-shot outcome is never consumed by a request that loses the race.
	resolveMu sync.Mutex
	log       zerolog.Logger
}

// NewPaymentService creates a new PaymentServiceImpl.
func NewPaymentService(
	txRepo ports.TransactionRepository,
	transferRepo ports.TransferRepository,
	outcomes ports.OutcomeController,
	webhooks ports.WebhookService,
	cfg PaymentSettings,
	log zerolog.Logger,
) *PaymentServiceImpl {
	return &PaymentServiceImpl{
		txRepo:       txRepo,
		transferRepo: transferRepo,
		outcomes:     outcomes,
		webhooks:     webhooks,
		cfg:          cfg,
		log:          log,
	}
}

// Initialize creates a pending transaction.
func (s *PaymentServiceImpl) Initialize(ctx context.Context, req ports.InitializeRequest) (*domain.Transaction, error) {
	profile, err := profileOf(req.Provider)
	if err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}

	currency := req.Currency
	if currency == "" {
		currency = profile.DefaultCurrency
	}
	callback := req.CallbackURL
	if callback == "" {
		callback = s.cfg.DefaultWebhookURL
	}

	now := time.Now().UTC()
	tx := &domain.Transaction{
		ID:            uuid.New(),
		Provider:      req.Provider,
		Reference:     domain.NewReference(profile.TransactionPrefix),
		Status:        domain.TransactionStatusPending,
		Amount:        req.Amount,
		Currency:      currency,
		CustomerEmail: req.CustomerEmail,
		CustomerName:  req.CustomerName,
		Metadata:      req.Metadata,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if callback != "" {
		tx.CallbackURL = &callback
	}

	if err := s.txRepo.Create(ctx, tx); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("create transaction: %w", err))
	}

	log := s.logFor(req.Provider)
	log.Info().
		Str("reference", tx.Reference).
		Str("amount", tx.Amount.String()).
		Str("currency", tx.Currency).
		Msg("Transaction initialized")
	return tx, nil
}

// Verify resolves the transaction identified by reference.
func (s *PaymentServiceImpl) Verify(ctx context.Context, provider domain.Provider, reference string) (*domain.Transaction, error) {
	if reference == "" {
		return nil, apperror.ErrMissingReference()
	}
	profile, err := profileOf(provider)
	if err != nil {
		return nil, err
	}

	tx, err := s.txRepo.GetByReference(ctx, provider, reference)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get transaction: %w", err))
	}
	if tx == nil {
		return nil, apperror.ErrNotFound("Transaction")
	}
	return s.verify(ctx, profile, tx)
}

// VerifyByID resolves the transaction identified by its ID.
func (s *PaymentServiceImpl) VerifyByID(ctx context.Context, provider domain.Provider, id string) (*domain.Transaction, error) {
	profile, err := profileOf(provider)
	if err != nil {
		return nil, err
	}

	txID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.ErrNotFound("Transaction")
	}
	tx, err := s.txRepo.GetByID(ctx, txID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get transaction: %w", err))
	}
	if tx == nil || tx.Provider != provider {
		return nil, apperror.ErrNotFound("Transaction")
	}
	return s.verify(ctx, profile, tx)
}

// Complete resolves a transaction from the hosted checkout page. An explicit
// status wins over the one-shot outcome and leaves it armed.
func (s *PaymentServiceImpl) Complete(ctx context.Context, req ports.CompleteRequest) (*domain.Transaction, error) {
	if req.Reference == "" {
		return nil, apperror.ErrMissingReference()
	}
	profile, err := profileOf(req.Provider)
	if err != nil {
		return nil, err
	}

	var explicit *domain.Outcome
	if req.Status != "" {
		o, ok := outcomeFromStatus(profile, req.Status)
		if !ok {
			return nil, apperror.ErrInvalidOutcome(req.Status)
		}
		explicit = &o
	}

	tx, err := s.txRepo.GetByReference(ctx, req.Provider, req.Reference)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get transaction: %w", err))
	}
	if tx == nil {
		return nil, apperror.ErrNotFound("Transaction")
	}

	tx, resolved, err := s.resolve(ctx, profile, tx, explicit)
	if err != nil {
		return nil, err
	}
	if resolved {
		s.fire(ctx, profile, tx)
	}
	return tx, nil
}

// CreateTransfer queues a payout. Transfers are recorded and stay pending.
func (s *PaymentServiceImpl) CreateTransfer(ctx context.Context, req ports.TransferRequest) (*domain.Transfer, error) {
	profile, err := profileOf(req.Provider)
	if err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}

	currency := req.Currency
	if currency == "" {
		currency = profile.DefaultCurrency
	}

	now := time.Now().UTC()
	tr := &domain.Transfer{
		ID:            uuid.New(),
		Provider:      req.Provider,
		Reference:     domain.NewReference(profile.TransferPrefix),
		Status:        domain.TransactionStatusPending,
		Amount:        req.Amount,
		Currency:      currency,
		BankCode:      req.BankCode,
		AccountNumber: req.AccountNumber,
		Narration:     req.Narration,
		Metadata:      req.Metadata,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.Provider == domain.ProviderPaystack {
		tr.TransferCode = domain.NewReference(domain.PrefixTransferCode)
	}

	if err := s.transferRepo.Create(ctx, tr); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("create transfer: %w", err))
	}

	log := s.logFor(req.Provider)
	log.Info().
		Str("reference", tr.Reference).
		Str("amount", tr.Amount.String()).
		Msg("Transfer queued")
	return tr, nil
}

func (s *PaymentServiceImpl) verify(ctx context.Context, profile domain.ProviderProfile, tx *domain.Transaction) (*domain.Transaction, error) {
	tx, resolved, err := s.resolve(ctx, profile, tx, nil)
	if err != nil {
		return nil, err
	}

	log := s.logFor(profile.Provider)
	log.Info().
		Str("reference", tx.Reference).
		Str("status", string(tx.Status)).
		Bool("resolved", resolved).
		Msg("Transaction verified")

	if resolved || profile.RefireOnVerify {
		s.fire(ctx, profile, tx)
	}
	return tx, nil
}

// resolve moves a pending transaction to its terminal status and reports
// whether this call made the transition. Terminal transactions are returned
// unchanged.
func (s *PaymentServiceImpl) resolve(
	ctx context.Context,
	profile domain.ProviderProfile,
	tx *domain.Transaction,
	explicit *domain.Outcome,
) (*domain.Transaction, bool, error) {
	if tx.IsTerminal() {
		return tx, false, nil
	}

	s.resolveMu.Lock()
	defer s.resolveMu.Unlock()

	current, err := s.txRepo.GetByID(ctx, tx.ID)
	if err != nil {
		return nil, false, apperror.ErrDatabaseError(fmt.Errorf("get transaction: %w", err))
	}
	if current == nil {
		return nil, false, apperror.ErrNotFound("Transaction")
	}
	if current.IsTerminal() {
		return current, false, nil
	}

	var outcome domain.Outcome
	if explicit != nil {
		outcome = *explicit
	} else {
		outcome = s.outcomes.TakeNextOutcome(ctx)
	}
	status := profile.StatusFor(outcome)

	ok, err := s.txRepo.Resolve(ctx, current.ID, status)
	if err != nil {
		return nil, false, apperror.ErrDatabaseError(fmt.Errorf("resolve transaction: %w", err))
	}
	if !ok {
		// resolved by another process sharing the ledger
		latest, err := s.txRepo.GetByID(ctx, current.ID)
		if err != nil || latest == nil {
			return nil, false, apperror.ErrDatabaseError(fmt.Errorf("reload transaction: %w", err))
		}
		return latest, false, nil
	}

	current.Status = status
	current.UpdatedAt = time.Now().UTC()
	return current, true, nil
}

// fire hands the charge event for tx to the webhook engine.
func (s *PaymentServiceImpl) fire(ctx context.Context, profile domain.ProviderProfile, tx *domain.Transaction) {
	log := s.logFor(profile.Provider)
	if !tx.HasCallback() {
		log.Warn().Str("reference", tx.Reference).Msg("No callback URL provided for webhook")
		return
	}

	event := profile.EventFor(tx.Status)
	payload, err := json.Marshal(domain.NewChargePayload(tx, event))
	if err != nil {
		log.Error().Err(err).Str("reference", tx.Reference).Msg("failed to encode webhook payload")
		return
	}

	s.webhooks.Send(ctx, ports.WebhookRequest{
		Provider: profile.Provider,
		Event:    event,
		URL:      *tx.CallbackURL,
		Payload:  payload,
	})
}

func (s *PaymentServiceImpl) logFor(p domain.Provider) zerolog.Logger {
	return logger.WithSource(s.log, string(p))
}

func profileOf(p domain.Provider) (domain.ProviderProfile, error) {
	profile := domain.ProfileFor(p)
	if profile.Provider == "" {
		return profile, apperror.ErrInvalidProvider(string(p))
	}
	return profile, nil
}

// outcomeFromStatus accepts outcome names and this provider's status names.
func outcomeFromStatus(profile domain.ProviderProfile, status string) (domain.Outcome, bool) {
	if o, ok := domain.ParseOutcome(status); ok {
		return o, true
	}
	return profile.OutcomeFor(domain.TransactionStatus(status))
}
