package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// WebhookStatus represents the delivery state of a webhook.
type WebhookStatus string

const (
	WebhookStatusPending WebhookStatus = "pending"
	WebhookStatusSent    WebhookStatus = "sent"
	WebhookStatusFailed  WebhookStatus = "failed"
	WebhookStatusDropped WebhookStatus = "dropped"
)

// WebhookDelivery records one dispatch and the attempts made for it.
type WebhookDelivery struct {
	ID             uuid.UUID       `json:"id"`
	Provider       Provider        `json:"provider"`
	Event          string          `json:"event"`
	URL            string          `json:"url"`
	Status         WebhookStatus   `json:"status"`
	Attempts       int             `json:"attempts"`
	Payload        json.RawMessage `json:"payload"`
	LastHTTPStatus *int            `json:"last_http_status,omitempty"`
	LastError      *string         `json:"last_error,omitempty"`
	LastAttemptAt  *time.Time      `json:"last_attempt_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// WebhookFilter narrows a delivery listing. Zero values match everything.
type WebhookFilter struct {
	Provider Provider
	Status   WebhookStatus
	Limit    int
}

// WebhookPolicy governs how webhooks sent after it was set are delivered.
type WebhookPolicy struct {
	DelayMs      int  `json:"delay_ms"`
	RetryCount   int  `json:"retry_count"`
	RetryDelayMs int  `json:"retry_delay_ms"`
	Duplicate    bool `json:"duplicate"`
	Drop         bool `json:"drop"`
}

// Validate rejects negative timings and counts.
func (p WebhookPolicy) Validate() error {
	if p.DelayMs < 0 {
		return fmt.Errorf("delay_ms must be >= 0")
	}
	if p.RetryCount < 0 {
		return fmt.Errorf("retry_count must be >= 0")
	}
	if p.RetryDelayMs < 0 {
		return fmt.Errorf("retry_delay_ms must be >= 0")
	}
	return nil
}

// Delay returns the pre-attempt wait.
func (p WebhookPolicy) Delay() time.Duration {
	return time.Duration(p.DelayMs) * time.Millisecond
}

// RetryDelay returns the wait before each retry.
func (p WebhookPolicy) RetryDelay() time.Duration {
	return time.Duration(p.RetryDelayMs) * time.Millisecond
}

// WebhookPolicyPatch is a partial policy update; nil fields keep the current value.
type WebhookPolicyPatch struct {
	DelayMs      *int  `json:"delay_ms,omitempty"`
	RetryCount   *int  `json:"retry_count,omitempty"`
	RetryDelayMs *int  `json:"retry_delay_ms,omitempty"`
	Duplicate    *bool `json:"duplicate,omitempty"`
	Drop         *bool `json:"drop,omitempty"`
}

// Apply merges the patch over p.
func (p WebhookPolicy) Apply(patch WebhookPolicyPatch) WebhookPolicy {
	return WebhookPolicy{
		DelayMs:      lo.FromPtrOr(patch.DelayMs, p.DelayMs),
		RetryCount:   lo.FromPtrOr(patch.RetryCount, p.RetryCount),
		RetryDelayMs: lo.FromPtrOr(patch.RetryDelayMs, p.RetryDelayMs),
		Duplicate:    lo.FromPtrOr(patch.Duplicate, p.Duplicate),
		Drop:         lo.FromPtrOr(patch.Drop, p.Drop),
	}
}

// LastWebhook is the most recently dispatched webhook, kept for resend.
type LastWebhook struct {
	Provider Provider        `json:"provider"`
	Event    string          `json:"event"`
	URL      string          `json:"url"`
	Payload  json.RawMessage `json:"payload"`
}

// WebhookPayload is the body POSTed to the receiver.
type WebhookPayload struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Customer is the customer block embedded in provider payloads.
type Customer struct {
	Email string  `json:"email"`
	Name  *string `json:"name,omitempty"`
}

// PaystackChargeData is the data block of a Paystack charge event.
type PaystackChargeData struct {
	Reference string      `json:"reference"`
	Status    string      `json:"status"`
	Amount    json.Number `json:"amount"`
	Currency  string      `json:"currency"`
	Customer  Customer    `json:"customer"`
}

// FlutterwaveChargeData is the data block of a Flutterwave charge event.
type FlutterwaveChargeData struct {
	ID       string      `json:"id"`
	TxRef    string      `json:"tx_ref"`
	Status   string      `json:"status"`
	Amount   json.Number `json:"amount"`
	Currency string      `json:"currency"`
	Customer Customer    `json:"customer"`
}

// NewChargePayload builds the provider-shaped webhook body for a resolved transaction.
func NewChargePayload(tx *Transaction, event string) WebhookPayload {
	customer := Customer{Email: tx.CustomerEmail, Name: tx.CustomerName}
	amount := json.Number(tx.Amount.String())

	if tx.Provider == ProviderFlutterwave {
		return WebhookPayload{
			Event: event,
			Data: FlutterwaveChargeData{
				ID:       tx.ID.String(),
				TxRef:    tx.Reference,
				Status:   string(tx.Status),
				Amount:   amount,
				Currency: tx.Currency,
				Customer: customer,
			},
		}
	}

	return WebhookPayload{
		Event: event,
		Data: PaystackChargeData{
			Reference: tx.Reference,
			Status:    string(tx.Status),
			Amount:    amount,
			Currency:  tx.Currency,
			Customer:  customer,
		},
	}
}
