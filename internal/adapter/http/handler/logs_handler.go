package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"mockpay/internal/adapter/http/dto"
	"mockpay/internal/core/domain"
	"mockpay/pkg/apperror"
	"mockpay/pkg/response"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/gin-gonic/gin"
)

// LogSource is the live log feed behind GET /__logs.
type LogSource interface {
	Subscribe(ctx context.Context) (<-chan *message.Message, error)
	History(ctx context.Context, limit int) ([]domain.LogEntry, error)
}

// LogsHandler streams log entries as server-sent events.
type LogsHandler struct {
	source    LogSource
	keepAlive time.Duration
}

// NewLogsHandler creates a LogsHandler. keepAlive <= 0 selects 15s.
func NewLogsHandler(source LogSource, keepAlive time.Duration) *LogsHandler {
	if keepAlive <= 0 {
		keepAlive = 15 * time.Second
	}
	return &LogsHandler{source: source, keepAlive: keepAlive}
}

// Stream handles GET /__logs. With ?history=N the newest N persisted
// entries are replayed before live entries.
func (h *LogsHandler) Stream(c *gin.Context) {
	var q dto.LogQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	ctx := c.Request.Context()
	msgs, err := h.source.Subscribe(ctx)
	if err != nil {
		response.Error(c, apperror.InternalError(err))
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(200)

	if q.History > 0 {
		if entries, err := h.source.History(ctx, q.History); err == nil {
			for _, e := range entries {
				if b, err := json.Marshal(e); err == nil {
					writeEvent(c.Writer, b)
				}
			}
		}
	}
	c.Writer.Flush()

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-msgs:
			if !ok {
				return false
			}
			writeEvent(w, msg.Payload)
			msg.Ack()
			return true
		case <-ticker.C:
			_, _ = io.WriteString(w, ":keep-alive\n\n")
			return true
		case <-ctx.Done():
			return false
		}
	})
}

func writeEvent(w io.Writer, payload []byte) {
	_, _ = fmt.Fprintf(w, "data: %s\n\n", payload)
}
