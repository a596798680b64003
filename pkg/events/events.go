package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spacevoyager/bookings/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type Subscriber interface {
	Subscribe(subject string, handler func(msg *Message)) error
	Close() error
}

type EventBus interface {
	Publisher
	Subscriber
}

type Message struct {
	Subject   string
	Data      []byte
	Timestamp time.Time
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Subscribe(subject string, handler func(msg *Message)) error {
	_, err := n.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
		})
	})
	return err
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// NoopBus satisfies Publisher when no NATS server is configured. A
// missing broker degrades to no eventing rather than refusing to start;
// bookings never depend on it.
type NoopBus struct{}

func NewNoopBus() *NoopBus { return &NoopBus{} }

func (*NoopBus) Publish(context.Context, string, interface{}) error { return nil }

func (*NoopBus) Close() error { return nil }

// Subjects
const (
	BookingCreated = "booking.created"
	SessionOpened  = "session.opened"
	SessionClosed  = "session.closed"
)

// Event payloads
type BookingCreatedEvent struct {
	BookingID     string    `json:"booking_id"`
	Email         string    `json:"email,omitempty"`
	Guest         bool      `json:"guest"`
	Destination   string    `json:"destination"`
	Package       string    `json:"package"`
	DepartureDate string    `json:"departure_date"`
	Passengers    int       `json:"passengers"`
	Accommodation string    `json:"accommodation"`
	Total         float64   `json:"total"`
	CreatedAt     time.Time `json:"created_at"`
}

type SessionOpenedEvent struct {
	Email    string    `json:"email"`
	OpenedAt time.Time `json:"opened_at"`
}

type SessionClosedEvent struct {
	Email    string    `json:"email,omitempty"`
	ClosedAt time.Time `json:"closed_at"`
}
