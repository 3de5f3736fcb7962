package ports

import (
	"context"
	"encoding/json"

	"mockpay/internal/core/domain"

	"github.com/shopspring/decimal"
)

// HealthChecker checks external dependency health.
type HealthChecker interface {
	// Ping verifies connectivity. Returns nil if healthy.
	Ping(ctx context.Context) error
	// Name returns the dependency name (e.g., "postgresql", "redis").
	Name() string
}

// OutcomeController owns the two one-shot control flags.
// Takes never fail: an unreadable store yields the default value.
type OutcomeController interface {
	TakeNextOutcome(ctx context.Context) domain.Outcome
	SetNextOutcome(ctx context.Context, outcome string) (domain.Outcome, error)
	TakeNextFault(ctx context.Context) domain.Fault
	SetNextFault(ctx context.Context, fault string) (domain.Fault, error)
}

// WebhookService dispatches webhooks under the active delivery policy.
type WebhookService interface {
	// Send hands a webhook to the dispatcher and returns immediately.
	Send(ctx context.Context, req WebhookRequest)
	// ResendLast re-dispatches the most recent webhook. It returns false
	// when nothing has ever been sent.
	ResendLast(ctx context.Context) (bool, error)
	Policy(ctx context.Context) domain.WebhookPolicy
	UpdatePolicy(ctx context.Context, patch domain.WebhookPolicyPatch) (domain.WebhookPolicy, error)
	ListDeliveries(ctx context.Context, filter domain.WebhookFilter) ([]domain.WebhookDelivery, error)
}

// WebhookRequest is one webhook to dispatch.
type WebhookRequest struct {
	Provider domain.Provider
	Event    string
	URL      string
	Payload  json.RawMessage
}

// PaymentService drives the mock transaction lifecycle.
type PaymentService interface {
	Initialize(ctx context.Context, req InitializeRequest) (*domain.Transaction, error)
	// Verify resolves a pending transaction by reference and returns it.
	Verify(ctx context.Context, provider domain.Provider, reference string) (*domain.Transaction, error)
	// VerifyByID is Verify keyed by the transaction ID.
	VerifyByID(ctx context.Context, provider domain.Provider, id string) (*domain.Transaction, error)
	// Complete resolves a transaction from the hosted checkout page.
	Complete(ctx context.Context, req CompleteRequest) (*domain.Transaction, error)
	CreateTransfer(ctx context.Context, req TransferRequest) (*domain.Transfer, error)
}

// InitializeRequest holds validated input for a new checkout.
type InitializeRequest struct {
	Provider      domain.Provider
	Amount        decimal.Decimal
	Currency      string
	CustomerEmail string
	CustomerName  *string
	CallbackURL   string
	Metadata      json.RawMessage
}

// CompleteRequest holds a hosted checkout completion. An empty Status
// consumes the one-shot outcome; otherwise Status decides the result.
type CompleteRequest struct {
	Provider  domain.Provider
	Reference string
	Status    string
}

// TransferRequest holds validated input for a payout.
type TransferRequest struct {
	Provider      domain.Provider
	Amount        decimal.Decimal
	Currency      string
	BankCode      *string
	AccountNumber *string
	Narration     *string
	Metadata      json.RawMessage
}

// ControlService bundles the operator actions that span several stores.
type ControlService interface {
	// Reset clears every collection. Each clear runs even if an earlier one fails.
	Reset(ctx context.Context) error
}
