package handler

import (
	"encoding/json"
	"time"

	"mockpay/internal/adapter/http/dto"
	"mockpay/internal/core/domain"
	"mockpay/internal/core/ports"
	"mockpay/pkg/apperror"
	"mockpay/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// PaystackHandler serves the Paystack-shaped API.
type PaystackHandler struct {
	payments ports.PaymentService
	checkout CheckoutLinks
}

// NewPaystackHandler creates a new PaystackHandler.
func NewPaystackHandler(payments ports.PaymentService, checkout CheckoutLinks) *PaystackHandler {
	return &PaystackHandler{payments: payments, checkout: checkout}
}

// Initialize handles POST /transaction/initialize.
func (h *PaystackHandler) Initialize(c *gin.Context) {
	var req dto.PaystackInitializeRequest
	if err := dto.BindJSON(c, &req); err != nil {
		response.ProviderError(c, response.StylePaystack, apperror.Validation(err.Error()))
		return
	}

	tx, err := h.payments.Initialize(c.Request.Context(), ports.InitializeRequest{
		Provider:      domain.ProviderPaystack,
		Amount:        req.Amount,
		Currency:      req.Currency,
		CustomerEmail: lo.Ternary(req.Email != "", req.Email, dto.DefaultCustomerEmail),
		CallbackURL:   req.CallbackURL,
		Metadata:      req.Metadata,
	})
	if err != nil {
		response.ProviderError(c, response.StylePaystack, err)
		return
	}

	response.Provider(c, response.StylePaystack, "Authorization URL created", dto.PaystackInitializeResponse{
		AuthorizationURL: h.checkout.URL(tx),
		AccessCode:       domain.NewReference(domain.PrefixAccessCode),
		Reference:        tx.Reference,
	})
}

// Verify handles GET|POST /transaction/verify/:reference.
func (h *PaystackHandler) Verify(c *gin.Context) {
	tx, err := h.payments.Verify(c.Request.Context(), domain.ProviderPaystack, c.Param("reference"))
	if err != nil {
		response.ProviderError(c, response.StylePaystack, err)
		return
	}

	response.Provider(c, response.StylePaystack, "Verification successful", toPaystackVerify(tx))
}

// CreateTransfer handles POST /transfer.
func (h *PaystackHandler) CreateTransfer(c *gin.Context) {
	var req dto.PaystackTransferRequest
	if err := dto.BindJSON(c, &req); err != nil {
		response.ProviderError(c, response.StylePaystack, apperror.Validation(err.Error()))
		return
	}

	tr, err := h.payments.CreateTransfer(c.Request.Context(), ports.TransferRequest{
		Provider:      domain.ProviderPaystack,
		Amount:        req.Amount,
		Currency:      req.Currency,
		BankCode:      req.BankCode,
		AccountNumber: req.AccountNumber,
		Narration:     req.Reason,
		Metadata:      req.Metadata,
	})
	if err != nil {
		response.ProviderError(c, response.StylePaystack, err)
		return
	}

	response.Provider(c, response.StylePaystack, "Transfer queued", dto.PaystackTransferResponse{
		ID:           tr.ID.String(),
		TransferCode: tr.TransferCode,
		Reference:    tr.Reference,
		Status:       string(tr.Status),
		Amount:       json.Number(tr.Amount.String()),
		Currency:     tr.Currency,
	})
}

// ListBanks handles GET /banks.
func (h *PaystackHandler) ListBanks(c *gin.Context) {
	response.Provider(c, response.StylePaystack, "Banks retrieved",
		toBankResponses(domain.BanksFor(domain.ProviderPaystack, c.Query("country"))))
}

func toPaystackVerify(tx *domain.Transaction) dto.PaystackVerifyResponse {
	return dto.PaystackVerifyResponse{
		ID:              tx.ID.String(),
		Amount:          json.Number(tx.Amount.String()),
		Currency:        tx.Currency,
		TransactionDate: tx.UpdatedAt.UTC().Format(time.RFC3339),
		Status:          string(tx.Status),
		Reference:       tx.Reference,
		GatewayResponse: lo.Ternary(domain.ProfileFor(domain.ProviderPaystack).IsSuccess(tx.Status), "Approved", "Declined"),
		Customer:        dto.PaystackCustomer{Email: tx.CustomerEmail},
	}
}

func toBankResponses(banks []domain.Bank) []dto.BankResponse {
	return lo.Map(banks, func(b domain.Bank, _ int) dto.BankResponse {
		return dto.BankResponse{ID: b.ID, Name: b.Name, Code: b.Code}
	})
}
