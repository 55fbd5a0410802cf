package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/otpgate/internal/otp/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/otp"
)

type VerifyOTPInput struct {
	Code otp.Code
}

// VerifyOTP accepts the code only within the window it was issued for. There
// is no grace window and no replay tracking.
func (s *Usecase) VerifyOTP(ctx context.Context, in VerifyOTPInput) error {
	ctx, span := s.startSpan(ctx, "VerifyOTP")
	defer span.End()

	clm, err := s.authenticated(ctx)
	if err != nil {
		return err
	}

	if !s.totp.Verify(in.Code, s.clock.Now()) {
		slog.WarnContext(ctx, "otp verification failed", "user_id", clm.UserID)
		s.count(ctx, s.verifications, entity.OutcomeExpired)
		s.emit(ctx, clm.UserID, clm.UserEmail, entity.OutcomeExpired)
		return goerror.NewBusinessWithCause(entity.ErrOTPExpired, "OTP has expired!", goerror.CodeExpired)
	}

	s.count(ctx, s.verifications, entity.OutcomeVerified)
	s.emit(ctx, clm.UserID, clm.UserEmail, entity.OutcomeVerified)

	return nil
}
