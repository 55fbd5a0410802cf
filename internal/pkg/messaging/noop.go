package messaging

import (
	"context"
	"log/slog"
)

// Noop drops messages. It only validates the destination.
type Noop struct{}

func NewNoop() *Noop { return &Noop{} }

func (*Noop) Close() error { return nil }

func (*Noop) Publish(ctx context.Context, destination string, msg Message) error {
	if destination == "" {
		return ErrDestinationRequired
	}

	slog.DebugContext(ctx, "message dropped by noop publisher", "destination", destination, "size", len(msg.Body))

	return nil
}
