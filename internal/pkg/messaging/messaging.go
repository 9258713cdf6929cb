package messaging

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrUnsupported is returned when a broker cannot honor a publish option,
// such as delayed delivery.
var ErrUnsupported = errors.New("messaging: unsupported operation")

// Publisher sends messages to a destination (topic or subject).
type Publisher interface {
	io.Closer
	// Publish sends msg to destination.
	Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error)
}

// OutgoingMessage is a broker-agnostic message to publish.
type OutgoingMessage struct {
	// Body is the message payload.
	Body []byte
	// Key is used by Kafka for partitioning and by Pub/Sub as ordering key.
	Key []byte
	// Headers travel as NATS/Kafka headers or Pub/Sub attributes.
	Headers []Header
	// Delay defers delivery; only NSQ supports it.
	Delay time.Duration
}

// Header is a key/value pair attached to a message.
type Header struct {
	Key   string
	Value []byte
}

// PublishResult carries broker metadata about an accepted message.
type PublishResult struct {
	// MessageID is the broker-assigned ID when the broker returns one.
	MessageID string
	// Topic is the destination the message was written to.
	Topic string
	// Timestamp is when the publisher handed off the message.
	Timestamp time.Time
}
