package dto

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// DefaultCustomerEmail is used when a checkout names no customer.
const DefaultCustomerEmail = "customer@example.com"

// ---- Paystack ----

// PaystackInitializeRequest is the body of POST /transaction/initialize.
type PaystackInitializeRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Email       string          `json:"email" binding:"omitempty,email"`
	Currency    string          `json:"currency" binding:"omitempty,iso4217"`
	CallbackURL string          `json:"callback_url" binding:"omitempty,safe_url"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
}

// PaystackInitializeResponse is the data block of an initialize response.
type PaystackInitializeResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// PaystackCustomer is the customer block of Paystack responses.
type PaystackCustomer struct {
	Email string `json:"email"`
}

// PaystackVerifyResponse is the data block of a verify response.
type PaystackVerifyResponse struct {
	ID              string           `json:"id"`
	Amount          json.Number      `json:"amount"`
	Currency        string           `json:"currency"`
	TransactionDate string           `json:"transaction_date"`
	Status          string           `json:"status"`
	Reference       string           `json:"reference"`
	GatewayResponse string           `json:"gateway_response"`
	Customer        PaystackCustomer `json:"customer"`
}

// PaystackTransferRequest is the body of POST /transfer.
type PaystackTransferRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency" binding:"omitempty,iso4217"`
	BankCode      *string         `json:"bank_code,omitempty" binding:"omitempty,safe_id"`
	AccountNumber *string         `json:"account_number,omitempty" binding:"omitempty,numeric"`
	Reason        *string         `json:"reason,omitempty" binding:"omitempty,max=255"`
	Metadata      json.RawMessage `json:"metadata,omitempty"`
}

// PaystackTransferResponse is the data block of a transfer response.
type PaystackTransferResponse struct {
	ID           string      `json:"id"`
	TransferCode string      `json:"transfer_code"`
	Reference    string      `json:"reference"`
	Status       string      `json:"status"`
	Amount       json.Number `json:"amount"`
	Currency     string      `json:"currency"`
}

// ---- Flutterwave ----

// FlutterwaveCustomer is the customer block of a Flutterwave payment.
type FlutterwaveCustomer struct {
	Email string  `json:"email" binding:"omitempty,email"`
	Name  *string `json:"name,omitempty" binding:"omitempty,max=100"`
}

// FlutterwavePaymentRequest is the body of POST /payments.
type FlutterwavePaymentRequest struct {
	Amount      decimal.Decimal     `json:"amount"`
	Currency    string              `json:"currency" binding:"omitempty,iso4217"`
	RedirectURL string              `json:"redirect_url" binding:"omitempty,safe_url"`
	Customer    FlutterwaveCustomer `json:"customer"`
	Meta        json.RawMessage     `json:"meta,omitempty"`
}

// FlutterwavePaymentResponse is the data block of a hosted link response.
type FlutterwavePaymentResponse struct {
	Link  string `json:"link"`
	TxRef string `json:"tx_ref"`
}

// FlutterwaveVerifyResponse is the data block of a verify response.
type FlutterwaveVerifyResponse struct {
	ID        string              `json:"id"`
	TxRef     string              `json:"tx_ref"`
	Status    string              `json:"status"`
	Amount    json.Number         `json:"amount"`
	Currency  string              `json:"currency"`
	CreatedAt string              `json:"created_at"`
	Customer  FlutterwaveCustomer `json:"customer"`
}

// FlutterwaveTransferRequest is the body of POST /transfers.
type FlutterwaveTransferRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency" binding:"omitempty,iso4217"`
	BankCode      *string         `json:"bank_code,omitempty" binding:"omitempty,safe_id"`
	AccountNumber *string         `json:"account_number,omitempty" binding:"omitempty,numeric"`
	Narration     *string         `json:"narration,omitempty" binding:"omitempty,max=255"`
	Meta          json.RawMessage `json:"meta,omitempty"`
}

// FlutterwaveTransferResponse is the data block of a transfer response.
type FlutterwaveTransferResponse struct {
	ID        string      `json:"id"`
	Reference string      `json:"reference"`
	Status    string      `json:"status"`
	Amount    json.Number `json:"amount"`
	Currency  string      `json:"currency"`
}

// BankResponse is one entry of a bank listing.
type BankResponse struct {
	ID   int    `json:"id,omitempty"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// ---- Shared ----

// CompleteRequest is the body of POST /mock/complete sent by the hosted checkout.
type CompleteRequest struct {
	Provider  string `json:"provider" binding:"omitempty,oneof=paystack flutterwave"`
	Reference string `json:"reference" binding:"omitempty,safe_id"`
	Status    string `json:"status" binding:"omitempty,max=32"`
}

// CompleteResponse is returned to the hosted checkout.
type CompleteResponse struct {
	Reference      string `json:"reference"`
	Status         string `json:"status"`
	CheckoutStatus string `json:"checkout_status"`
	TransactionID  string `json:"transaction_id,omitempty"`
}

// HealthResponse is the body of the liveness endpoints.
type HealthResponse struct {
	Status   string            `json:"status"`
	Provider string            `json:"provider"`
	Checks   map[string]string `json:"checks,omitempty"`
}

// ---- Control plane ----

// OutcomeRequest is the body of POST /__control/outcome.
type OutcomeRequest struct {
	Result string `json:"result" binding:"required"`
}

// OutcomeResponse echoes the armed outcome.
type OutcomeResponse struct {
	Result string `json:"result"`
}

// FaultRequest is the body of POST /__control/fault.
type FaultRequest struct {
	Error string `json:"error" binding:"required"`
}

// FaultResponse echoes the armed fault.
type FaultResponse struct {
	Error string `json:"error"`
}

// WebhookConfigRequest is a partial webhook policy update.
type WebhookConfigRequest struct {
	DelayMs      *int  `json:"delay_ms,omitempty" binding:"omitempty,min=0"`
	RetryCount   *int  `json:"retry_count,omitempty" binding:"omitempty,min=0"`
	RetryDelayMs *int  `json:"retry_delay_ms,omitempty" binding:"omitempty,min=0"`
	Duplicate    *bool `json:"duplicate,omitempty"`
	Drop         *bool `json:"drop,omitempty"`
}

// ResendResponse reports whether a webhook was re-dispatched.
type ResendResponse struct {
	Resent bool `json:"resent"`
}

// WebhookListQuery filters GET /__control/webhooks.
type WebhookListQuery struct {
	Provider string `form:"provider" binding:"omitempty,oneof=paystack flutterwave"`
	Status   string `form:"status" binding:"omitempty,oneof=pending sent failed dropped"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=1000"`
}

// LogQuery controls the replayed history of GET /__logs.
type LogQuery struct {
	History int `form:"history" binding:"omitempty,min=0,max=1000"`
}
