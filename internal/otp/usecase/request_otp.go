package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/otpgate/internal/otp/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/idempotency"
	"github.com/shandysiswandi/otpgate/internal/pkg/otp"
)

type RequestOTPInput struct {
	Email string `validate:"required,otp_email"`
	// IdempotencyKey is optional; when set a resubmission does not send a
	// second email.
	IdempotencyKey string
}

type RequestOTPOutput struct {
	Email string
	Code  otp.Code
}

// RequestOTP issues the code for the current window and emails it.
func (s *Usecase) RequestOTP(ctx context.Context, in RequestOTPInput) (*RequestOTPOutput, error) {
	ctx, span := s.startSpan(ctx, "RequestOTP")
	defer span.End()

	clm, err := s.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		s.count(ctx, s.requests, entity.OutcomeInvalidAddress)
		return nil, goerror.NewInvalidFormatWithCause(errors.Join(entity.ErrInvalidAddress, err), "Invalid email format")
	}

	code, err := s.totp.Generate(s.clock.Now())
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp", "user_id", clm.UserID, "error", err)
		s.count(ctx, s.requests, entity.OutcomeGenerateFailed)
		return nil, goerror.NewServer(err)
	}

	var (
		sent    bool
		sendErr error
	)
	send := func(ctx context.Context) error {
		sendErr = s.repoMail.SendOTP(ctx, in.Email, code)
		sent = sendErr == nil
		return sendErr
	}

	if key := strings.TrimSpace(in.IdempotencyKey); key != "" && s.idemp != nil {
		key = fmt.Sprintf("otp:request:%d:%s", clm.UserID, key)
		err = s.idemp.Exec(ctx, key, send, idempotency.WithStateTTL(s.idempotencyTTL))
	} else {
		err = send(ctx)
	}

	switch {
	case errors.Is(err, idempotency.ErrAlreadyInProgress), errors.Is(err, idempotency.ErrAlreadyCompleted):
		slog.WarnContext(ctx, "duplicate otp request", "user_id", clm.UserID, "error", err)
		s.count(ctx, s.requests, entity.OutcomeDuplicate)
		return nil, goerror.NewBusinessWithCause(err, "Request already processed", goerror.CodeConflict)
	case err != nil && sent:
		// The email is out; a resubmission with this key may send again.
		slog.WarnContext(ctx, "failed to mark idempotency key completed", "user_id", clm.UserID, "error", err)
	case err != nil && sendErr == nil:
		slog.ErrorContext(ctx, "failed to track idempotency key", "user_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	case err != nil:
		slog.ErrorContext(ctx, "failed to send otp email", "user_id", clm.UserID, "email", in.Email, "error", err)
		s.count(ctx, s.requests, entity.OutcomeDispatchFailed)
		return nil, goerror.NewUpstream("Failed to send OTP email", entity.ErrDispatchFailed, err)
	}

	userID := clm.UserID
	s.goroutine.Go(ctx, "otp.touch_user", func(ctx context.Context) error {
		return s.repoDB.TouchUser(ctx, userID)
	})

	s.count(ctx, s.requests, entity.OutcomeSent)
	s.emit(ctx, userID, in.Email, entity.OutcomeSent)

	return &RequestOTPOutput{Email: in.Email, Code: code}, nil
}
