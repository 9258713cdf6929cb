package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromDriver(t *testing.T) {
	ctx := context.Background()

	pub, err := NewFromDriver(ctx, "", FactoryOptions{})
	require.NoError(t, err)
	assert.IsType(t, &Discard{}, pub)

	pub, err = NewFromDriver(ctx, " NONE ", FactoryOptions{})
	require.NoError(t, err)
	assert.IsType(t, &Discard{}, pub)

	_, err = NewFromDriver(ctx, "rabbitmq", FactoryOptions{})
	assert.ErrorIs(t, err, ErrUnknownDriver)
	assert.ErrorContains(t, err, "google-pubsub, kafka, nats, none, nsq")

	_, err = NewFromDriver(ctx, DriverKafka, FactoryOptions{})
	assert.ErrorIs(t, err, ErrKafkaBrokersRequired)

	_, err = NewFromDriver(ctx, DriverNATS, FactoryOptions{})
	assert.ErrorIs(t, err, ErrNATSURLRequired)

	_, err = NewFromDriver(ctx, DriverNSQ, FactoryOptions{})
	assert.ErrorIs(t, err, ErrNSQProducerAddrRequired)

	_, err = NewFromDriver(ctx, DriverGooglePubSub, FactoryOptions{})
	assert.ErrorIs(t, err, ErrPubSubProjectIDRequired)
}

func TestDiscard_Publish(t *testing.T) {
	d := NewDiscard()

	res, err := d.Publish(context.Background(), "identity.verified", OutgoingMessage{Body: []byte(`{}`)})
	require.NoError(t, err)
	assert.Equal(t, "identity.verified", res.Topic)
	assert.NoError(t, d.Close())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = d.Publish(ctx, "identity.verified", OutgoingMessage{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestKafka_PublishValidation(t *testing.T) {
	k, err := NewKafka(KafkaConfig{Brokers: []string{"127.0.0.1:9092"}})
	require.NoError(t, err)
	t.Cleanup(func() { k.Close() })

	_, err = k.Publish(context.Background(), "", OutgoingMessage{})
	assert.ErrorIs(t, err, ErrKafkaTopicRequired)

	_, err = k.Publish(context.Background(), "identity.verified", OutgoingMessage{Delay: time.Second})
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestNSQ_PublishValidation(t *testing.T) {
	n, err := NewNSQ(NSQConfig{ProducerAddr: "127.0.0.1:4150"})
	require.NoError(t, err)
	t.Cleanup(func() { n.Close() })

	_, err = n.Publish(context.Background(), "", OutgoingMessage{})
	assert.ErrorIs(t, err, ErrNSQTopicRequired)
}

func TestPubSubOptions(t *testing.T) {
	assert.Len(t, pubSubOptions(PubSubConfig{EmulatorHost: "localhost:8085"}), 3)
	assert.Len(t, pubSubOptions(PubSubConfig{CredentialsFile: "/tmp/sa.json"}), 1)
	assert.Empty(t, pubSubOptions(PubSubConfig{}))
}

type flakyPublisher struct {
	failures int
	err      error
	calls    int
	closed   bool
}

func (f *flakyPublisher) Publish(_ context.Context, destination string, _ OutgoingMessage) (PublishResult, error) {
	f.calls++
	if f.calls <= f.failures {
		return PublishResult{}, f.err
	}
	return PublishResult{Topic: destination}, nil
}

func (f *flakyPublisher) Close() error {
	f.closed = true
	return nil
}

func TestRetrying_Publish(t *testing.T) {
	t.Run("recovers from transient failures", func(t *testing.T) {
		next := &flakyPublisher{failures: 2, err: errors.New("broker unavailable")}
		pub := NewRetrying(next, 3, time.Millisecond)

		res, err := pub.Publish(context.Background(), "identity.verified", OutgoingMessage{Body: []byte("{}")})
		require.NoError(t, err)
		assert.Equal(t, "identity.verified", res.Topic)
		assert.Equal(t, 3, next.calls)

		require.NoError(t, pub.Close())
		assert.True(t, next.closed)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		errDown := errors.New("broker unavailable")
		next := &flakyPublisher{failures: 10, err: errDown}

		_, err := NewRetrying(next, 2, time.Millisecond).Publish(context.Background(), "t", OutgoingMessage{})
		assert.ErrorIs(t, err, errDown)
		assert.Equal(t, 3, next.calls)
	})

	t.Run("does not retry unsupported", func(t *testing.T) {
		next := &flakyPublisher{failures: 10, err: ErrUnsupported}

		_, err := NewRetrying(next, 5, time.Millisecond).Publish(context.Background(), "t", OutgoingMessage{})
		assert.ErrorIs(t, err, ErrUnsupported)
		assert.Equal(t, 1, next.calls)
	})

	t.Run("zero attempts is passthrough", func(t *testing.T) {
		next := &flakyPublisher{}
		assert.Same(t, next, NewRetrying(next, 0, 0))
	})
}
