package service

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"

	"mockpay/internal/core/domain"
)

// Webhook signature headers as the real providers send them.
const (
	HeaderPaystackSignature = "x-paystack-signature"
	HeaderFlutterwaveHash   = "verif-hash"
)

// WebhookSigner adds provider-style authenticity headers to webhook POSTs.
// Paystack signs the raw body with HMAC-SHA512 of the secret key; Flutterwave
// echoes the configured secret hash.
type WebhookSigner struct {
	PaystackSecret  string
	FlutterwaveHash string
}

// NewWebhookSigner creates a new WebhookSigner. Empty secrets disable the
// corresponding header.
func NewWebhookSigner(paystackSecret, flutterwaveHash string) *WebhookSigner {
	return &WebhookSigner{PaystackSecret: paystackSecret, FlutterwaveHash: flutterwaveHash}
}

// Sign returns lowercase hex HMAC-SHA512(secret, payload).
func (s *WebhookSigner) Sign(secret string, payload []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks signature in constant time.
func (s *WebhookSigner) Verify(secret string, payload []byte, signature string) bool {
	return hmac.Equal([]byte(s.Sign(secret, payload)), []byte(signature))
}

// Header returns the header name and value for a webhook from provider.
// ok is false when nothing should be added.
func (s *WebhookSigner) Header(provider domain.Provider, payload []byte) (name, value string, ok bool) {
	if s == nil {
		return "", "", false
	}
	switch provider {
	case domain.ProviderPaystack:
		if s.PaystackSecret == "" {
			return "", "", false
		}
		return HeaderPaystackSignature, s.Sign(s.PaystackSecret, payload), true
	case domain.ProviderFlutterwave:
		if s.FlutterwaveHash == "" {
			return "", "", false
		}
		return HeaderFlutterwaveHash, s.FlutterwaveHash, true
	}
	return "", "", false
}
