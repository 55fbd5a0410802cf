package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"cloud.google.com/go/pubsub/v2"
	"google.golang.org/api/option"
)

// ErrPubSubProjectIDRequired is returned when neither a client nor a project id is configured.
var ErrPubSubProjectIDRequired = errors.New("pkgmessage: pubsub project id is required")

// PubSubConfig configures the Google Pub/Sub implementation.
type PubSubConfig struct {
	// ProjectID is the Google Cloud project ID.
	ProjectID string

	// Client provides an existing Pub/Sub client; it is closed by Close.
	Client *pubsub.Client
	// ClientOptions are used when creating a new client.
	ClientOptions []option.ClientOption
}

// PubSub is a Publisher backed by Google Pub/Sub. Headers become message
// attributes and Key becomes the ordering key.
type PubSub struct {
	client *pubsub.Client

	mu         sync.Mutex
	closed     bool
	publishers map[string]*pubsub.Publisher
}

// NewPubSub constructs the client. Topics must already exist.
func NewPubSub(ctx context.Context, cfg PubSubConfig) (*PubSub, error) {
	c := cfg.Client
	if c == nil {
		if cfg.ProjectID == "" {
			return nil, ErrPubSubProjectIDRequired
		}

		var err error
		c, err = pubsub.NewClient(ctx, cfg.ProjectID, cfg.ClientOptions...)
		if err != nil {
			return nil, fmt.Errorf("pkgmessage: pubsub new client: %w", err)
		}
	}

	return &PubSub{client: c, publishers: map[string]*pubsub.Publisher{}}, nil
}

// Close flushes and stops every topic publisher, then closes the client.
func (p *PubSub) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	pubs := make([]*pubsub.Publisher, 0, len(p.publishers))
	for _, pub := range p.publishers {
		pubs = append(pubs, pub)
	}
	p.publishers = nil
	p.mu.Unlock()

	for _, pub := range pubs {
		pub.Stop()
	}

	return p.client.Close()
}

// Publish sends msg to a Pub/Sub topic (id or full name) and waits for the server id.
func (p *PubSub) Publish(ctx context.Context, destination string, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if destination == "" {
		return ErrDestinationRequired
	}

	pub, err := p.publisher(destination)
	if err != nil {
		return err
	}

	pmsg := &pubsub.Message{Data: msg.Body}
	if len(msg.Headers) > 0 {
		pmsg.Attributes = make(map[string]string, len(msg.Headers))
		for k, v := range msg.Headers {
			if k == "" {
				continue
			}
			pmsg.Attributes[k] = v
		}
	}
	if len(msg.Key) > 0 {
		pmsg.OrderingKey = string(msg.Key)
	}

	if _, err := pub.Publish(ctx, pmsg).Get(ctx); err != nil {
		return fmt.Errorf("pkgmessage: pubsub publish: %w", err)
	}

	return nil
}

func (p *PubSub) publisher(topicNameOrID string) (*pubsub.Publisher, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrClosed
	}
	if pub, ok := p.publishers[topicNameOrID]; ok {
		return pub, nil
	}

	pub := p.client.Publisher(topicNameOrID)
	pub.EnableMessageOrdering = true
	p.publishers[topicNameOrID] = pub

	return pub, nil
}
