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

// FlutterwaveHandler serves the Flutterwave-shaped API.
type FlutterwaveHandler struct {
	payments ports.PaymentService
	checkout CheckoutLinks
}

// NewFlutterwaveHandler creates a new FlutterwaveHandler.
func NewFlutterwaveHandler(payments ports.PaymentService, checkout CheckoutLinks) *FlutterwaveHandler {
	return &FlutterwaveHandler{payments: payments, checkout: checkout}
}

// Initialize handles POST /payments.
func (h *FlutterwaveHandler) Initialize(c *gin.Context) {
	var req dto.FlutterwavePaymentRequest
	if err := dto.BindJSON(c, &req); err != nil {
		response.ProviderError(c, response.StyleFlutterwave, apperror.Validation(err.Error()))
		return
	}

	tx, err := h.payments.Initialize(c.Request.Context(), ports.InitializeRequest{
		Provider:      domain.ProviderFlutterwave,
		Amount:        req.Amount,
		Currency:      req.Currency,
		CustomerEmail: lo.Ternary(req.Customer.Email != "", req.Customer.Email, dto.DefaultCustomerEmail),
		CustomerName:  req.Customer.Name,
		CallbackURL:   req.RedirectURL,
		Metadata:      req.Meta,
	})
	if err != nil {
		response.ProviderError(c, response.StyleFlutterwave, err)
		return
	}

	response.Provider(c, response.StyleFlutterwave, "Hosted Link created", dto.FlutterwavePaymentResponse{
		Link:  h.checkout.URL(tx),
		TxRef: tx.Reference,
	})
}

// VerifyByReference handles GET /transactions/verify_by_reference?tx_ref=.
func (h *FlutterwaveHandler) VerifyByReference(c *gin.Context) {
	tx, err := h.payments.Verify(c.Request.Context(), domain.ProviderFlutterwave, c.Query("tx_ref"))
	if err != nil {
		response.ProviderError(c, response.StyleFlutterwave, err)
		return
	}
	response.Provider(c, response.StyleFlutterwave, "Transaction fetched successfully", toFlutterwaveVerify(tx))
}

// VerifyByID handles GET /transactions/:id/verify.
func (h *FlutterwaveHandler) VerifyByID(c *gin.Context) {
	tx, err := h.payments.VerifyByID(c.Request.Context(), domain.ProviderFlutterwave, c.Param("id"))
	if err != nil {
		response.ProviderError(c, response.StyleFlutterwave, err)
		return
	}
	response.Provider(c, response.StyleFlutterwave, "Transaction fetched successfully", toFlutterwaveVerify(tx))
}

// CreateTransfer handles POST /transfers.
func (h *FlutterwaveHandler) CreateTransfer(c *gin.Context) {
	var req dto.FlutterwaveTransferRequest
	if err := dto.BindJSON(c, &req); err != nil {
		response.ProviderError(c, response.StyleFlutterwave, apperror.Validation(err.Error()))
		return
	}

	tr, err := h.payments.CreateTransfer(c.Request.Context(), ports.TransferRequest{
		Provider:      domain.ProviderFlutterwave,
		Amount:        req.Amount,
		Currency:      req.Currency,
		BankCode:      req.BankCode,
		AccountNumber: req.AccountNumber,
		Narration:     req.Narration,
		Metadata:      req.Meta,
	})
	if err != nil {
		response.ProviderError(c, response.StyleFlutterwave, err)
		return
	}

	response.Provider(c, response.StyleFlutterwave, "Transfer queued", dto.FlutterwaveTransferResponse{
		ID:        tr.ID.String(),
		Reference: tr.Reference,
		Status:    string(tr.Status),
		Amount:    json.Number(tr.Amount.String()),
		Currency:  tr.Currency,
	})
}

// ListBanks handles GET /banks/:country.
func (h *FlutterwaveHandler) ListBanks(c *gin.Context) {
	response.Provider(c, response.StyleFlutterwave, "Banks fetched successfully",
		toBankResponses(domain.BanksFor(domain.ProviderFlutterwave, c.Param("country"))))
}

func toFlutterwaveVerify(tx *domain.Transaction) dto.FlutterwaveVerifyResponse {
	return dto.FlutterwaveVerifyResponse{
		ID:        tx.ID.String(),
		TxRef:     tx.Reference,
		Status:    string(tx.Status),
		Amount:    json.Number(tx.Amount.String()),
		Currency:  tx.Currency,
		CreatedAt: tx.CreatedAt.UTC().Format(time.RFC3339),
		Customer:  dto.FlutterwaveCustomer{Email: tx.CustomerEmail, Name: tx.CustomerName},
	}
}
