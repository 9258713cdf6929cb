package messaging

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Driver names accepted by NewFromDriver.
const (
	DriverNone         = "none"
	DriverNSQ          = "nsq"
	DriverNATS         = "nats"
	DriverKafka        = "kafka"
	DriverGooglePubSub = "google-pubsub"
)

var ErrUnknownDriver = errors.New("messaging: unknown driver")

// FactoryOptions holds the settings of every backend; only the selected
// driver's section is read.
type FactoryOptions struct {
	NSQ    NSQConfig
	Kafka  KafkaConfig
	NATS   NATSConfig
	PubSub PubSubConfig
}

type opener func(ctx context.Context, opts FactoryOptions) (Publisher, error)

var drivers = map[string]opener{
	DriverNone:         func(context.Context, FactoryOptions) (Publisher, error) { return NewDiscard(), nil },
	DriverNSQ:          func(_ context.Context, o FactoryOptions) (Publisher, error) { return NewNSQ(o.NSQ) },
	DriverNATS:         func(_ context.Context, o FactoryOptions) (Publisher, error) { return NewNATS(o.NATS) },
	DriverKafka:        func(_ context.Context, o FactoryOptions) (Publisher, error) { return NewKafka(o.Kafka) },
	DriverGooglePubSub: func(ctx context.Context, o FactoryOptions) (Publisher, error) { return NewPubSub(ctx, o.PubSub) },
}

// Drivers lists the accepted driver names in sorted order.
func Drivers() []string {
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// NewFromDriver opens the publisher for driver. Matching ignores case and
// surrounding space, and an empty name means DriverNone.
func NewFromDriver(ctx context.Context, driver string, opts FactoryOptions) (Publisher, error) {
	name := strings.ToLower(strings.TrimSpace(driver))
	if name == "" {
		name = DriverNone
	}

	open, ok := drivers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownDriver, driver, strings.Join(Drivers(), ", "))
	}
	return open(ctx, opts)
}
