package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

// TransactionStatus represents the lifecycle state of a mock transaction.
// Terminal names differ per provider, see ProfileFor.
type TransactionStatus string

const (
	TransactionStatusPending    TransactionStatus = "pending"
	TransactionStatusSuccess    TransactionStatus = "success"
	TransactionStatusSuccessful TransactionStatus = "successful"
	TransactionStatusFailed     TransactionStatus = "failed"
	TransactionStatusAbandoned  TransactionStatus = "abandoned"
	TransactionStatusCancelled  TransactionStatus = "cancelled"
)

// Transaction is a mock checkout keyed by provider + reference.
type Transaction struct {
	ID            uuid.UUID         `json:"id"`
	Provider      Provider          `json:"provider"`
	Reference     string            `json:"reference"`
	Status        TransactionStatus `json:"status"`
	Amount        decimal.Decimal   `json:"amount"`
	Currency      string            `json:"currency"`
	CustomerEmail string            `json:"customer_email"`
	CustomerName  *string           `json:"customer_name,omitempty"`
	CallbackURL   *string           `json:"callback_url,omitempty"`
	Metadata      json.RawMessage   `json:"metadata,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// IsTerminal returns true once the transaction has left pending.
func (t *Transaction) IsTerminal() bool {
	return t.Status != TransactionStatusPending
}

// HasCallback reports whether a webhook target is known for the transaction.
func (t *Transaction) HasCallback() bool {
	return t.CallbackURL != nil && *t.CallbackURL != ""
}

// Transfer is a queued payout. Transfers never leave pending.
type Transfer struct {
	ID            uuid.UUID         `json:"id"`
	Provider      Provider          `json:"provider"`
	Reference     string            `json:"reference"`
	TransferCode  string            `json:"transfer_code,omitempty"`
	Status        TransactionStatus `json:"status"`
	Amount        decimal.Decimal   `json:"amount"`
	Currency      string            `json:"currency"`
	BankCode      *string           `json:"bank_code,omitempty"`
	AccountNumber *string           `json:"account_number,omitempty"`
	Narration     *string           `json:"narration,omitempty"`
	Metadata      json.RawMessage   `json:"metadata,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// Reference prefixes.
const (
	PrefixPaystackTransaction    = "PSK"
	PrefixFlutterwaveTransaction = "FLW"
	PrefixPaystackTransfer       = "PST"
	PrefixFlutterwaveTransfer    = "FLT"
	PrefixAccessCode             = "AC"
	PrefixTransferCode           = "TRF"
)

// NewReference returns a sortable unique reference such as PSK_01HZX...
func NewReference(prefix string) string {
	return prefix + "_" + ulid.Make().String()
}

// ProviderProfile centralizes everything that varies between the two APIs.
type ProviderProfile struct {
	Provider          Provider
	TransactionPrefix string
	TransferPrefix    string
	DefaultCurrency   string
	// RefireOnVerify makes every verify call dispatch the webhook again,
	// not only the one that resolved the transaction.
	RefireOnVerify bool
	statuses       map[Outcome]TransactionStatus
	events         map[TransactionStatus]string
}

var profiles = map[Provider]ProviderProfile{
	ProviderPaystack: {
		Provider:          ProviderPaystack,
		TransactionPrefix: PrefixPaystackTransaction,
		TransferPrefix:    PrefixPaystackTransfer,
		DefaultCurrency:   "NGN",
		statuses: map[Outcome]TransactionStatus{
			OutcomeSuccess:   TransactionStatusSuccess,
			OutcomeFailed:    TransactionStatusFailed,
			OutcomeCancelled: TransactionStatusAbandoned,
		},
		events: map[TransactionStatus]string{
			TransactionStatusSuccess:   "charge.success",
			TransactionStatusFailed:    "charge.failed",
			TransactionStatusAbandoned: "charge.abandoned",
		},
	},
	ProviderFlutterwave: {
		Provider:          ProviderFlutterwave,
		TransactionPrefix: PrefixFlutterwaveTransaction,
		TransferPrefix:    PrefixFlutterwaveTransfer,
		DefaultCurrency:   "NGN",
		RefireOnVerify:    true,
		statuses: map[Outcome]TransactionStatus{
			OutcomeSuccess:   TransactionStatusSuccessful,
			OutcomeFailed:    TransactionStatusFailed,
			OutcomeCancelled: TransactionStatusCancelled,
		},
		events: map[TransactionStatus]string{
			TransactionStatusSuccessful: "charge.completed",
			TransactionStatusFailed:     "charge.failed",
			TransactionStatusCancelled:  "charge.failed",
		},
	},
}

// ProfileFor returns the mapping table of a provider.
func ProfileFor(p Provider) ProviderProfile {
	return profiles[p]
}

// StatusFor maps an outcome to this provider's terminal status name.
func (p ProviderProfile) StatusFor(o Outcome) TransactionStatus {
	if s, ok := p.statuses[o]; ok {
		return s
	}
	return p.statuses[DefaultOutcome]
}

// EventFor returns the webhook event fired for a terminal status.
func (p ProviderProfile) EventFor(s TransactionStatus) string {
	return p.events[s]
}

// IsSuccess reports whether status is this provider's success status.
func (p ProviderProfile) IsSuccess(s TransactionStatus) bool {
	return s == p.statuses[OutcomeSuccess]
}

// OutcomeFor maps a terminal status name back to its outcome.
func (p ProviderProfile) OutcomeFor(s TransactionStatus) (Outcome, bool) {
	for o, status := range p.statuses {
		if status == s {
			return o, true
		}
	}
	return "", false
}
