package handler

import (
	"net/url"
	"strings"

	"mockpay/internal/adapter/http/dto"
	"mockpay/internal/core/domain"
	"mockpay/internal/core/ports"
	"mockpay/pkg/apperror"
	"mockpay/pkg/response"

	"github.com/gin-gonic/gin"
)

// CheckoutLinks builds hosted checkout URLs for new transactions.
type CheckoutLinks struct {
	FrontendURL string
	// APIBase is where the checkout page posts /mock/complete.
	APIBase string
}

// URL returns the hosted checkout link for tx.
func (l CheckoutLinks) URL(tx *domain.Transaction) string {
	q := url.Values{}
	q.Set("ref", tx.Reference)
	q.Set("provider", string(tx.Provider))
	q.Set("amount", tx.Amount.String())
	q.Set("currency", tx.Currency)
	q.Set("email", tx.CustomerEmail)
	if tx.CustomerName != nil {
		q.Set("name", *tx.CustomerName)
	}
	if tx.HasCallback() {
		q.Set("callback_url", *tx.CallbackURL)
	}
	if l.APIBase != "" {
		q.Set("api_base", l.APIBase)
	}
	return strings.TrimRight(l.FrontendURL, "/") + "/checkout?" + q.Encode()
}

// CheckoutHandler serves POST /mock/complete for the hosted checkout page.
type CheckoutHandler struct {
	payments ports.PaymentService
	provider domain.Provider
	style    response.Style
}

// NewCheckoutHandler creates a CheckoutHandler for the server of provider.
func NewCheckoutHandler(payments ports.PaymentService, provider domain.Provider, style response.Style) *CheckoutHandler {
	return &CheckoutHandler{payments: payments, provider: provider, style: style}
}

// Complete handles POST /mock/complete.
func (h *CheckoutHandler) Complete(c *gin.Context) {
	var req dto.CompleteRequest
	if err := dto.BindJSON(c, &req); err != nil {
		response.ProviderError(c, h.style, apperror.Validation(err.Error()))
		return
	}

	provider := h.provider
	if req.Provider != "" {
		provider = domain.Provider(req.Provider)
	}

	tx, err := h.payments.Complete(c.Request.Context(), ports.CompleteRequest{
		Provider:  provider,
		Reference: req.Reference,
		Status:    req.Status,
	})
	if err != nil {
		response.ProviderError(c, h.style, err)
		return
	}

	out := dto.CompleteResponse{
		Reference: tx.Reference,
		Status:    string(tx.Status),
	}
	if o, ok := domain.ProfileFor(tx.Provider).OutcomeFor(tx.Status); ok {
		out.CheckoutStatus = string(o)
	}
	if tx.Provider == domain.ProviderFlutterwave {
		out.TransactionID = tx.ID.String()
	}
	response.Provider(c, h.style, "Payment completed", out)
}
