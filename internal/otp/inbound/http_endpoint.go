package inbound

import (
	"github.com/shandysiswandi/otpgate/internal/otp/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/otp"
	"github.com/shandysiswandi/otpgate/internal/pkg/router"
)

// HTTPEndpoint exposes the OTP issuance and verification handlers.
type HTTPEndpoint struct {
	uc uc
}

// RequestOTP issues a code for the current window and emails it.
// @Summary Request an OTP
// @Description Generates the one-time passcode for the current window and sends it to the given address.
// @Tags OTP
// @Produce json
// @Security BearerAuth
// @Param email path string true "Delivery address"
// @Param Idempotency-Key header string false "Client key to make resubmission safe"
// @Success 200 {object} router.successResponse{data=RequestOTPResponse} "OTP sent"
// @Failure 400 {object} router.errorResponse "Invalid email format"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 409 {object} router.errorResponse "Request already processed"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Failure 502 {object} router.errorResponse "Failed to send OTP email"
// @Router /api/v1/otp/request/{email} [post]
func (h *HTTPEndpoint) RequestOTP(r *router.Request) (any, error) {
	resp, err := h.uc.RequestOTP(r.Context(), usecase.RequestOTPInput{
		Email:          r.GetParam("email"),
		IdempotencyKey: r.GetHeader(HeaderIdempotencyKey),
	})
	if err != nil {
		return nil, err
	}

	return RequestOTPResponse{
		Email: resp.Email,
		Code:  resp.Code.String(),
	}, nil
}

// VerifyOTP checks a code against the current window.
// @Summary Verify an OTP
// @Description Accepts the code only inside the window it was issued for.
// @Tags OTP
// @Produce json
// @Security BearerAuth
// @Param otp path string true "Six digit code"
// @Success 200 {object} router.successResponse{data=VerifyOTPResponse} "Verified"
// @Failure 400 {object} router.errorResponse "OTP has expired!"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Router /api/v1/otp/verify/{otp} [post]
func (h *HTTPEndpoint) VerifyOTP(r *router.Request) (any, error) {
	code, err := otp.ParseCode(r.GetParam("otp"))
	if err != nil {
		return nil, goerror.NewInvalidFormatWithCause(err, "OTP must be numeric")
	}

	if err := h.uc.VerifyOTP(r.Context(), usecase.VerifyOTPInput{Code: code}); err != nil {
		return nil, err
	}

	return VerifyOTPResponse{}, nil
}
