package handler

import (
	"mockpay/internal/adapter/http/dto"
	"mockpay/internal/core/domain"
	"mockpay/internal/core/ports"
	"mockpay/pkg/apperror"
	"mockpay/pkg/response"

	"github.com/gin-gonic/gin"
)

// ControlHandler serves the /__control API used by the CLI and tests.
type ControlHandler struct {
	outcomes ports.OutcomeController
	webhooks ports.WebhookService
	control  ports.ControlService
	shutdown func()
}

// NewControlHandler creates a new ControlHandler. shutdown may be nil, in
// which case POST /__shutdown is refused.
func NewControlHandler(
	outcomes ports.OutcomeController,
	webhooks ports.WebhookService,
	control ports.ControlService,
	shutdown func(),
) *ControlHandler {
	return &ControlHandler{outcomes: outcomes, webhooks: webhooks, control: control, shutdown: shutdown}
}

// SetOutcome handles POST /__control/outcome.
func (h *ControlHandler) SetOutcome(c *gin.Context) {
	var req dto.OutcomeRequest
	if err := dto.BindJSON(c, &req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	o, err := h.outcomes.SetNextOutcome(c.Request.Context(), req.Result)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.OutcomeResponse{Result: string(o)})
}

// SetFault handles POST /__control/fault.
func (h *ControlHandler) SetFault(c *gin.Context) {
	var req dto.FaultRequest
	if err := dto.BindJSON(c, &req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	f, err := h.outcomes.SetNextFault(c.Request.Context(), req.Error)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FaultResponse{Error: string(f)})
}

// GetWebhookConfig handles GET /__control/webhook-config.
func (h *ControlHandler) GetWebhookConfig(c *gin.Context) {
	response.OK(c, h.webhooks.Policy(c.Request.Context()))
}

// UpdateWebhookConfig handles PATCH /__control/webhook-config.
func (h *ControlHandler) UpdateWebhookConfig(c *gin.Context) {
	var req dto.WebhookConfigRequest
	if err := dto.BindJSON(c, &req); err != nil {
		response.Error(c, apperror.ErrInvalidPolicy(err.Error()))
		return
	}

	policy, err := h.webhooks.UpdatePolicy(c.Request.Context(), domain.WebhookPolicyPatch{
		DelayMs:      req.DelayMs,
		RetryCount:   req.RetryCount,
		RetryDelayMs: req.RetryDelayMs,
		Duplicate:    req.Duplicate,
		Drop:         req.Drop,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, policy)
}

// ResendWebhook handles POST /__control/webhook/resend.
func (h *ControlHandler) ResendWebhook(c *gin.Context) {
	ok, err := h.webhooks.ResendLast(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ResendResponse{Resent: ok})
}

// ListWebhooks handles GET /__control/webhooks.
func (h *ControlHandler) ListWebhooks(c *gin.Context) {
	var q dto.WebhookListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	if q.Limit == 0 {
		q.Limit = 50
	}

	deliveries, err := h.webhooks.ListDeliveries(c.Request.Context(), domain.WebhookFilter{
		Provider: domain.Provider(q.Provider),
		Status:   domain.WebhookStatus(q.Status),
		Limit:    q.Limit,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, deliveries)
}

// Reset handles POST /__control/reset.
func (h *ControlHandler) Reset(c *gin.Context) {
	if err := h.control.Reset(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"reset": true})
}

// Shutdown handles POST /__shutdown. The response is written before the
// shutdown callback runs.
func (h *ControlHandler) Shutdown(c *gin.Context) {
	if h.shutdown == nil {
		response.Error(c, apperror.ErrShutdownUnavailable())
		return
	}
	response.OK(c, gin.H{"shutting_down": true})
	c.Writer.Flush()
	go h.shutdown()
}
