package inbound

// HeaderIdempotencyKey lets clients resubmit a request without a second email.
const HeaderIdempotencyKey = "Idempotency-Key"

type RequestOTPResponse struct {
	Email string `json:"email" example:"user@example.com"`
	Code  string `json:"code" example:"012345"`
}

func (r RequestOTPResponse) Message() string {
	return "OTP has been sent to email: " + r.Email
}

type VerifyOTPResponse struct{}

func (VerifyOTPResponse) Message() string {
	return "Verified successful!"
}
