package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	nsq "github.com/nsqio/go-nsq"
)

// ErrNSQProducerAddrRequired is returned when the nsqd address is missing.
var ErrNSQProducerAddrRequired = errors.New("pkgmessage: nsq producer address is required")

// NSQConfig configures the NSQ implementation.
type NSQConfig struct {
	// ProducerAddr is the nsqd TCP address.
	ProducerAddr string

	// ProducerConfig overrides the default producer config.
	ProducerConfig *nsq.Config
}

// NSQ is a Publisher backed by an nsqd producer. NSQ has no headers, so
// Message.Headers and Message.Key are ignored.
type NSQ struct {
	producer *nsq.Producer
	closed   atomic.Bool
}

// NewNSQ creates the producer. The connection is opened lazily on the first publish.
func NewNSQ(cfg NSQConfig) (*NSQ, error) {
	if cfg.ProducerAddr == "" {
		return nil, ErrNSQProducerAddrRequired
	}

	pcfg := cfg.ProducerConfig
	if pcfg == nil {
		pcfg = nsq.NewConfig()
	}

	p, err := nsq.NewProducer(cfg.ProducerAddr, pcfg)
	if err != nil {
		return nil, fmt.Errorf("pkgmessage: nsq new producer: %w", err)
	}
	p.SetLoggerLevel(nsq.LogLevelError)

	return &NSQ{producer: p}, nil
}

// Close stops the producer.
func (n *NSQ) Close() error {
	if n.closed.Swap(true) {
		return nil
	}

	n.producer.Stop()

	return nil
}

// Publish sends msg to an NSQ topic.
func (n *NSQ) Publish(ctx context.Context, destination string, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if destination == "" {
		return ErrDestinationRequired
	}
	if n.closed.Load() {
		return ErrClosed
	}

	if err := n.producer.Publish(destination, msg.Body); err != nil {
		return fmt.Errorf("pkgmessage: nsq publish: %w", err)
	}

	return nil
}
