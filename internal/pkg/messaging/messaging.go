package messaging

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrDestinationRequired is returned when Publish is called without a topic or subject.
	ErrDestinationRequired = errors.New("pkgmessage: destination is required")
	// ErrClosed is returned when publishing on a closed publisher.
	ErrClosed = errors.New("pkgmessage: publisher is closed")
)

// Publisher sends messages to a destination (topic or subject).
type Publisher interface {
	io.Closer

	// Publish sends msg and returns once the broker accepted it.
	Publish(ctx context.Context, destination string, msg Message) error
}

// Message is a broker-agnostic message.
type Message struct {
	// Key is used for partitioning by brokers that support it (Kafka).
	Key []byte

	// Body is the payload.
	Body []byte

	// Headers are dropped by brokers without header support (NSQ).
	Headers map[string]string
}
