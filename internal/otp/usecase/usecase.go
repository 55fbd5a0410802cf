package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/otpgate/internal/otp/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/idempotency"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/jwt"
	"github.com/shandysiswandi/otpgate/internal/pkg/otp"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	TouchUser(ctx context.Context, userID int64) error
}

type repoMail interface {
	SendOTP(ctx context.Context, address string, code otp.Code) error
}

type repoEvent interface {
	PublishOTPEvent(ctx context.Context, ev entity.Event) error
}

// runner schedules background work; *goroutine.Manager satisfies it.
type runner interface {
	Go(ctx context.Context, name string, f func(ctx context.Context) error) bool
}

type Usecase struct {
	repoDB         repoDB
	repoMail       repoMail
	repoEvent      repoEvent
	idemp          idempotency.Idempotency
	idempotencyTTL time.Duration
	validator      validator.Validator
	totp           otp.OTP
	clock          clock.Clocker
	ins            instrument.Instrumentation
	goroutine      runner

	requests      metric.Int64Counter
	verifications metric.Int64Counter
}

type Dependency struct {
	RepoDB         repoDB
	RepoMail       repoMail
	RepoEvent      repoEvent
	Idempotency    idempotency.Idempotency
	IdempotencyTTL time.Duration
	Validator      validator.Validator
	Totp           otp.OTP
	Clock          clock.Clocker
	Instrument     instrument.Instrumentation
	Goroutine      runner
}

func New(dep Dependency) *Usecase {
	meter := dep.Instrument.Meter("otp.usecase")

	requests, err := meter.Int64Counter("otp.requests", metric.WithDescription("OTP issuance attempts by outcome"))
	if err != nil {
		slog.Error("failed to create otp.requests counter", "error", err)
	}

	verifications, err := meter.Int64Counter("otp.verifications", metric.WithDescription("OTP verification attempts by outcome"))
	if err != nil {
		slog.Error("failed to create otp.verifications counter", "error", err)
	}

	return &Usecase{
		repoDB:         dep.RepoDB,
		repoMail:       dep.RepoMail,
		repoEvent:      dep.RepoEvent,
		idemp:          dep.Idempotency,
		idempotencyTTL: dep.IdempotencyTTL,
		validator:      dep.Validator,
		totp:           dep.Totp,
		clock:          dep.Clock,
		ins:            dep.Instrument,
		goroutine:      dep.Goroutine,
		requests:       requests,
		verifications:  verifications,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("otp.usecase").Start(ctx, name)
}

func (s *Usecase) authenticated(ctx context.Context) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}
	return clm, nil
}

func (s *Usecase) count(ctx context.Context, c metric.Int64Counter, o entity.Outcome) {
	if c == nil {
		return
	}
	c.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", o.String())))
}

// emit publishes the audit event in the background. Failures are logged by
// the goroutine manager and never reach the caller.
func (s *Usecase) emit(ctx context.Context, userID int64, email string, o entity.Outcome) {
	if s.repoEvent == nil {
		return
	}

	ev := entity.Event{UserID: userID, Email: email, Outcome: o, At: s.clock.Now()}
	s.goroutine.Go(ctx, "otp.publish_event", func(ctx context.Context) error {
		return s.repoEvent.PublishOTPEvent(ctx, ev)
	})
}
