package otp

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/otpgate/internal/otp/inbound"
	"github.com/shandysiswandi/otpgate/internal/otp/outbound/db"
	"github.com/shandysiswandi/otpgate/internal/otp/outbound/email"
	"github.com/shandysiswandi/otpgate/internal/otp/outbound/event"
	"github.com/shandysiswandi/otpgate/internal/otp/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/goroutine"
	"github.com/shandysiswandi/otpgate/internal/pkg/idempotency"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/mail"
	"github.com/shandysiswandi/otpgate/internal/pkg/messaging"
	"github.com/shandysiswandi/otpgate/internal/pkg/otp"
	"github.com/shandysiswandi/otpgate/internal/pkg/router"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
)

// Dependency lists what the OTP module needs from the application.
type Dependency struct {
	DBConn      *pgxpool.Pool              `validate:"required"`
	Mail        mail.Mail                  `validate:"required"`
	Messaging   messaging.Publisher        `validate:"required"`
	Goroutine   *goroutine.Manager         `validate:"required"`
	Router      *router.Router             `validate:"required"`
	Idempotency idempotency.Idempotency    `validate:"required"`
	Config      config.Config              `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	Clock       clock.Clocker              `validate:"required"`
	Totp        otp.OTP                    `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
}

// New builds the OTP module and registers its HTTP endpoints on dep.Router.
func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	validFor := time.Duration(dep.Totp.Period()) * time.Second

	uc := usecase.New(usecase.Dependency{
		RepoDB:         db.NewDB(dep.DBConn, dep.Instrument),
		RepoMail:       email.New(dep.Mail, dep.Instrument, validFor),
		RepoEvent:      event.New(dep.Messaging, dep.Config.GetString("modules.otp.event_destination"), dep.Instrument),
		Idempotency:    dep.Idempotency,
		IdempotencyTTL: dep.Config.GetSecond("modules.otp.idempotency_ttl_seconds"),
		Validator:      dep.Validator,
		Totp:           dep.Totp,
		Clock:          dep.Clock,
		Instrument:     dep.Instrument,
		Goroutine:      dep.Goroutine,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
