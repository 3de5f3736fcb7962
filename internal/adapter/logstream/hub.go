// Package logstream fans log lines out to live subscribers and persists them.
package logstream

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"mockpay/internal/core/domain"
	"mockpay/internal/core/ports"
	"mockpay/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Topic is the pub/sub topic log entries are published on.
const Topic = "logs"

const (
	queueSize      = 1024
	persistTimeout = 2 * time.Second
	defaultSource  = "server"
)

// Hub is an io.Writer for zerolog JSON lines. Each line is decoded into a
// domain.LogEntry, published to subscribers and queued for persistence.
// The hub never logs itself and never reports a write failure.
type Hub struct {
	pubsub *gochannel.GoChannel
	repo   ports.LogRepository

	queue     chan domain.LogEntry
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// NewHub creates a Hub and starts its persistence loop.
func NewHub(repo ports.LogRepository) *Hub {
	h := &Hub{
		pubsub: gochannel.NewGoChannel(
			gochannel.Config{
				OutputChannelBuffer:            256,
				BlockPublishUntilSubscriberAck: false,
			},
			watermill.NopLogger{},
		),
		repo:    repo,
		queue:   make(chan domain.LogEntry, queueSize),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go h.persistLoop()
	return h
}

// Write implements io.Writer.
func (h *Hub) Write(p []byte) (int, error) {
	entry, ok := decode(p)
	if !ok {
		return len(p), nil
	}
	h.Publish(entry)
	return len(p), nil
}

// Publish fans entry out to subscribers and queues it for persistence.
// Entries are dropped when the persistence queue is full.
func (h *Hub) Publish(entry domain.LogEntry) {
	select {
	case <-h.done:
		return
	default:
	}

	if payload, err := json.Marshal(entry); err == nil {
		_ = h.pubsub.Publish(Topic, message.NewMessage(entry.ID.String(), payload))
	}

	select {
	case h.queue <- entry:
	default:
	}
}

// Subscribe returns a channel of log messages that closes when ctx is done.
// Callers must Ack every message they receive.
func (h *Hub) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	return h.pubsub.Subscribe(ctx, Topic)
}

// History returns the newest persisted entries, oldest first.
func (h *Hub) History(ctx context.Context, limit int) ([]domain.LogEntry, error) {
	return h.repo.List(ctx, limit)
}

// Close stops accepting entries, flushes the persistence queue and closes
// all subscriptions.
func (h *Hub) Close() error {
	var err error
	h.closeOnce.Do(func() {
		close(h.done)
		<-h.stopped
		err = h.pubsub.Close()
	})
	return err
}

func (h *Hub) persistLoop() {
	defer close(h.stopped)
	for {
		select {
		case entry := <-h.queue:
			h.persist(entry)
		case <-h.done:
			for {
				select {
				case entry := <-h.queue:
					h.persist(entry)
				default:
					return
				}
			}
		}
	}
}

func (h *Hub) persist(entry domain.LogEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	_ = h.repo.Create(ctx, &entry)
}

// decode turns one zerolog JSON line into a LogEntry.
func decode(p []byte) (domain.LogEntry, bool) {
	var fields map[string]interface{}
	if err := json.Unmarshal(p, &fields); err != nil {
		return domain.LogEntry{}, false
	}

	entry := domain.LogEntry{
		ID:        uuid.New(),
		Level:     stringField(fields, zerolog.LevelFieldName),
		Message:   stringField(fields, zerolog.MessageFieldName),
		Source:    stringField(fields, logger.SourceField),
		Timestamp: time.Now().UTC(),
	}
	if entry.Level == "" {
		entry.Level = domain.LogLevelInfo
	}
	if entry.Source == "" {
		entry.Source = defaultSource
	}
	if ts, err := time.Parse(time.RFC3339Nano, stringField(fields, zerolog.TimestampFieldName)); err == nil {
		entry.Timestamp = ts.UTC()
	}
	return entry, true
}

func stringField(fields map[string]interface{}, key string) string {
	s, _ := fields[key].(string)
	return s
}
