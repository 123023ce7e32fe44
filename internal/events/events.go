// Package events publishes domain events to NATS.
package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// Event names.
const (
	RoadmapImported = "roadmap.imported"
	RoadmapDeleted  = "roadmap.deleted"
	TaskToggled     = "task.toggled"
	AccountDeleted  = "account.deleted"
)

// Publisher emits domain events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, name string, payload interface{}) error
}

// Envelope is the wire format of every event.
type Envelope struct {
	Name          string          `json:"name"`
	OccurredAt    time.Time       `json:"occurred_at"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// Encode wraps payload into an envelope.
func Encode(name string, payload interface{}, at time.Time, correlationID string) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Name: name, OccurredAt: at.UTC(), CorrelationID: correlationID, Payload: raw})
}

// CorrelationFunc extracts a correlation id from a request context.
type CorrelationFunc func(context.Context) string

// NATSPublisher publishes to <prefix>.<name>. A nil connection turns every
// publish into a no-op.
type NATSPublisher struct {
	conn        *nats.Conn
	prefix      string
	correlation CorrelationFunc
	logger      zerolog.Logger
	now         func() time.Time
}

// NewNATSPublisher constructs a publisher.
func NewNATSPublisher(conn *nats.Conn, prefix string, correlation CorrelationFunc, logger zerolog.Logger) *NATSPublisher {
	return &NATSPublisher{
		conn:        conn,
		prefix:      strings.Trim(strings.TrimSpace(prefix), "."),
		correlation: correlation,
		logger:      logger.With().Str("component", "event_publisher").Logger(),
		now:         time.Now,
	}
}

// Subject returns the subject an event is published on.
func (p *NATSPublisher) Subject(name string) string {
	if p.prefix == "" {
		return name
	}
	return p.prefix + "." + name
}

// Publish encodes and sends one event.
func (p *NATSPublisher) Publish(ctx context.Context, name string, payload interface{}) error {
	if p == nil || p.conn == nil {
		return nil
	}

	correlationID := ""
	if p.correlation != nil {
		correlationID = p.correlation(ctx)
	}
	data, err := Encode(name, payload, p.now(), correlationID)
	if err != nil {
		return err
	}

	if err := p.conn.Publish(p.Subject(name), data); err != nil {
		return err
	}
	p.logger.Debug().Str("subject", p.Subject(name)).Msg("event published")
	return nil
}

// Nop discards events.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, string, interface{}) error { return nil }
