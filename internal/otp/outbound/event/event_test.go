package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/otpgate/internal/otp/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/messaging"
)

type fakePublisher struct {
	err          error
	destinations []string
	msgs         []messaging.Message
}

func (f *fakePublisher) Publish(_ context.Context, destination string, msg messaging.Message) error {
	f.destinations = append(f.destinations, destination)
	f.msgs = append(f.msgs, msg)
	return f.err
}

func (f *fakePublisher) Close() error { return nil }

func TestEvent_PublishOTPEvent(t *testing.T) {
	// Arrange
	pub := &fakePublisher{}
	e := New(pub, "", instrument.NewNoop())
	ctx := instrument.SetCorrelationID(context.Background(), "cid-1")
	at := time.Unix(1_000_000_000, 0)

	// Act
	err := e.PublishOTPEvent(ctx, entity.Event{
		UserID:  42,
		Email:   "user@example.com",
		Outcome: entity.OutcomeSent,
		At:      at,
	})

	// Assert
	if err != nil {
		t.Fatalf("PublishOTPEvent() error = %v", err)
	}
	if len(pub.msgs) != 1 || pub.destinations[0] != DefaultDestination {
		t.Fatalf("published %d to %v", len(pub.msgs), pub.destinations)
	}

	msg := pub.msgs[0]
	if string(msg.Key) != "42" {
		t.Fatalf("key = %q, want 42", msg.Key)
	}
	if msg.Headers["X-Correlation-ID"] != "cid-1" {
		t.Fatalf("headers = %v", msg.Headers)
	}

	var got Message
	if err := json.Unmarshal(msg.Body, &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got.UserID != 42 || got.Email != "user@example.com" || got.Outcome != "sent" || !got.At.Equal(at) {
		t.Fatalf("body = %+v", got)
	}
	if containsKey(msg.Body, "code") {
		t.Fatalf("body must not carry the code: %s", msg.Body)
	}
}

func containsKey(body []byte, key string) bool {
	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		return false
	}
	_, ok := m[key]
	return ok
}

func TestEvent_PublishOTPEvent_Error(t *testing.T) {
	// Arrange
	errBroker := errors.New("broker down")
	pub := &fakePublisher{err: errBroker}
	e := New(pub, "audit", instrument.NewNoop())

	// Act
	err := e.PublishOTPEvent(context.Background(), entity.Event{UserID: 1, Outcome: entity.OutcomeVerified})

	// Assert
	if !errors.Is(err, errBroker) {
		t.Fatalf("PublishOTPEvent() error = %v, want %v", err, errBroker)
	}
	if pub.destinations[0] != "audit" {
		t.Fatalf("destination = %q, want audit", pub.destinations[0])
	}
}
