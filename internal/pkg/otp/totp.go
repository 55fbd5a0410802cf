package otp

import (
	"bytes"
	"time"
)

// OTP is the contract used by request handlers: the secret and the period are
// fixed, only the time varies.
type OTP interface {
	// Generate returns the code of the window containing at.
	Generate(at time.Time) (Code, error)
	// Verify reports whether code belongs to the window containing at.
	Verify(code Code, at time.Time) bool
	// Period returns the window length in seconds.
	Period() uint
}

// TOTP binds a deployment-wide secret and period. It holds no mutable state
// and is safe for concurrent use.
type TOTP struct {
	secret []byte
	period uint
}

// NewTOTP validates and captures the secret and period. The secret is copied.
func NewTOTP(secret []byte, period uint) (*TOTP, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	if period == 0 {
		return nil, ErrInvalidPeriod
	}

	return &TOTP{
		secret: bytes.Clone(secret),
		period: period,
	}, nil
}

// Generate returns the code of the window containing at.
func (o *TOTP) Generate(at time.Time) (Code, error) {
	return Generate(o.secret, o.period, at.Unix())
}

// Verify reports whether code belongs to the window containing at.
func (o *TOTP) Verify(code Code, at time.Time) bool {
	return Verify(o.secret, code, o.period, at.Unix())
}

// Period returns the window length in seconds.
func (o *TOTP) Period() uint {
	return o.period
}
