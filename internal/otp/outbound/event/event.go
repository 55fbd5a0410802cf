package event

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/shandysiswandi/otpgate/internal/otp/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/messaging"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultDestination is used when no topic is configured.
const DefaultDestination = "otp_events"

// Message is the JSON body published for every event.
type Message struct {
	UserID  int64     `json:"user_id,string"`
	Email   string    `json:"email,omitempty"`
	Outcome string    `json:"outcome"`
	At      time.Time `json:"at"`
}

type Event struct {
	pub         messaging.Publisher
	destination string
	ins         instrument.Instrumentation
}

func New(pub messaging.Publisher, destination string, ins instrument.Instrumentation) *Event {
	if destination == "" {
		destination = DefaultDestination
	}

	return &Event{pub: pub, destination: destination, ins: ins}
}

func (e *Event) PublishOTPEvent(ctx context.Context, ev entity.Event) error {
	ctx, span := e.ins.Tracer("otp.outbound.event").Start(ctx, "PublishOTPEvent",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.destination.name", e.destination),
			attribute.String("otp.outcome", ev.Outcome.String()),
		),
	)
	defer span.End()

	body, err := json.Marshal(Message{
		UserID:  ev.UserID,
		Email:   ev.Email,
		Outcome: ev.Outcome.String(),
		At:      ev.At.UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal otp event: %w", err)
	}

	headers := map[string]string{"Content-Type": "application/json"}
	if cid := instrument.GetCorrelationID(ctx); cid != "" {
		headers["X-Correlation-ID"] = cid
	}

	err = e.pub.Publish(ctx, e.destination, messaging.Message{
		Key:     []byte(strconv.FormatInt(ev.UserID, 10)),
		Body:    body,
		Headers: headers,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "publish failed")
		return err
	}

	return nil
}
