// Package events publishes and relays analysis-completed events over NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/maithilyrajpure/trend-decline-gen/internal/config"
	"github.com/maithilyrajpure/trend-decline-gen/internal/domain/trend"
)

// Conn is the subset of *nats.Conn the bus uses
type Conn interface {
	Publish(subj string, data []byte) error
	Subscribe(subj string, cb nats.MsgHandler) (*nats.Subscription, error)
}

var _ Conn = (*nats.Conn)(nil)

// Subject returns the subject analysis events are published on
func Subject(topic string) string {
	return topic + ".analyzed"
}

// Connect dials NATS with reconnect handling
func Connect(cfg config.NATSConfig, logger *slog.Logger) (*nats.Conn, error) {
	if logger == nil {
		logger = slog.Default()
	}

	options := []nats.Option{
		nats.Name("trend-decline"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}

	return nc, nil
}

// Bus publishes analysis events to NATS and lets callers follow them
type Bus struct {
	conn    Conn
	subject string
	logger  *slog.Logger
}

// NewBus creates a bus publishing on <topic>.analyzed
func NewBus(conn Conn, topic string, logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		conn:    conn,
		subject: Subject(topic),
		logger:  logger.With("component", "events", "subject", Subject(topic)),
	}
}

// PublishAnalysis implements trend.EventPublisher
func (b *Bus) PublishAnalysis(ctx context.Context, event trend.AnalysisEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("error marshaling event: %w", err)
	}

	if err := b.conn.Publish(b.subject, data); err != nil {
		return fmt.Errorf("error publishing event: %w", err)
	}

	b.logger.DebugContext(ctx, "analysis event published", "event_id", event.ID)
	return nil
}

// Subscribe delivers every raw analysis event to fn until the returned
// function is called
func (b *Bus) Subscribe(fn func(data []byte)) (func() error, error) {
	sub, err := b.conn.Subscribe(b.subject, func(msg *nats.Msg) {
		fn(msg.Data)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", b.subject, err)
	}
	return sub.Unsubscribe, nil
}

// Noop drops every event
type Noop struct{}

// PublishAnalysis implements trend.EventPublisher
func (Noop) PublishAnalysis(context.Context, trend.AnalysisEvent) error {
	return nil
}
