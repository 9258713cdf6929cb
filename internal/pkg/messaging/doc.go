// Package messaging publishes domain events to a message broker.
//
// Business code depends on Publisher only. The broker is chosen at startup by
// driver name (NATS, NSQ, Kafka or Google Pub/Sub); the "none" driver keeps
// the service runnable without a broker by logging and dropping events.
package messaging
