package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

var (
	ErrNATSSubjectRequired = errors.New("messaging: nats subject is required")
	ErrNATSURLRequired     = errors.New("messaging: nats url is required")
)

const natsCloseFlushTimeout = 5 * time.Second

type NATSConfig struct {
	URL string
	// Name identifies this client in the server's connection list.
	Name    string
	Options []nats.Option
}

// NATS publishes core NATS messages. Delivery is at-most-once: Publish only
// waits for the server to acknowledge the flush, not for any subscriber.
type NATS struct {
	conn      *nats.Conn
	closeOnce sync.Once
	closeErr  error
}

func NewNATS(cfg NATSConfig) (*NATS, error) {
	if cfg.URL == "" {
		return nil, ErrNATSURLRequired
	}

	opts := cfg.Options
	if cfg.Name != "" {
		opts = append([]nats.Option{nats.Name(cfg.Name)}, opts...)
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("messaging: nats connect %s: %w", cfg.URL, err)
	}
	return &NATS{conn: conn}, nil
}

func (n *NATS) Publish(ctx context.Context, subject string, msg OutgoingMessage) (PublishResult, error) {
	switch {
	case ctx.Err() != nil:
		return PublishResult{}, ctx.Err()
	case subject == "":
		return PublishResult{}, ErrNATSSubjectRequired
	case msg.Delay > 0:
		return PublishResult{}, ErrUnsupported
	}

	out := &nats.Msg{Subject: subject, Data: msg.Body, Header: nats.Header{}}
	for _, h := range msg.Headers {
		if h.Key != "" {
			out.Header.Add(h.Key, string(h.Value))
		}
	}

	if err := n.conn.PublishMsg(out); err != nil {
		return PublishResult{}, fmt.Errorf("messaging: nats publish %s: %w", subject, err)
	}
	if err := n.conn.FlushWithContext(ctx); err != nil {
		return PublishResult{}, fmt.Errorf("messaging: nats flush: %w", err)
	}

	return PublishResult{Topic: subject, Timestamp: time.Now()}, nil
}

// Close flushes buffered messages, then closes the connection.
func (n *NATS) Close() error {
	n.closeOnce.Do(func() {
		n.closeErr = n.conn.FlushTimeout(natsCloseFlushTimeout)
		n.conn.Close()
	})
	return n.closeErr
}
