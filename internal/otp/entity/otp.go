package entity

import (
	"errors"
	"time"
)

var (
	// ErrInvalidAddress means the delivery address is not a valid email.
	ErrInvalidAddress = errors.New("invalid email address")

	// ErrOTPExpired means the code does not match the current window, either
	// because it is wrong or because its window has elapsed.
	ErrOTPExpired = errors.New("otp expired or invalid")

	// ErrDispatchFailed means the notification transport did not accept the code.
	ErrDispatchFailed = errors.New("otp dispatch failed")
)

// Outcome labels the result of an OTP operation in metrics and logs.
type Outcome string

const (
	OutcomeSent           Outcome = "sent"
	OutcomeVerified       Outcome = "verified"
	OutcomeInvalidAddress Outcome = "invalid_address"
	OutcomeGenerateFailed Outcome = "generate_failed"
	OutcomeDispatchFailed Outcome = "dispatch_failed"
	OutcomeDuplicate      Outcome = "duplicate"
	OutcomeExpired        Outcome = "expired"
)

func (o Outcome) String() string {
	return string(o)
}

// Event is the audit record emitted after an OTP operation. It never carries
// the code itself.
type Event struct {
	UserID  int64
	Email   string
	Outcome Outcome
	At      time.Time
}
