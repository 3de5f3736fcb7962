package domain

import (
	"time"

	"github.com/google/uuid"
)

// Setting keys. Values are stored as JSON.
const (
	SettingNextOutcome   = "next_payment_result"
	SettingNextFault     = "next_error"
	SettingWebhookPolicy = "webhook_config"
	SettingLastWebhook   = "last_webhook"
)

// Log levels carried by LogEntry.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// LogEntry is a single line of the persisted and streamed log.
type LogEntry struct {
	ID        uuid.UUID `json:"id"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Source    string    `json:"source,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
