// Package messaging publishes messages to a broker without tying callers to
// a specific one.
//
// Business code depends on Publisher only. The broker is picked at startup by
// driver name (NATS, NSQ, Kafka, Google Pub/Sub or none) through NewFromDriver.
package messaging
