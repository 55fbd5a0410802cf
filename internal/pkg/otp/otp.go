package otp

import (
	"encoding/base32"
	"errors"
	"fmt"
	"strconv"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/hotp"
)

// Digits is the number of decimal digits of every code.
const Digits = 6

// maxCode is 10^Digits; valid codes are in [0, maxCode).
const maxCode Code = 1_000_000

var (
	// ErrCodeGeneration wraps any failure to evaluate the HMAC construction.
	ErrCodeGeneration = errors.New("otp: failed to generate code")
	// ErrEmptySecret is returned when the secret has no bytes.
	ErrEmptySecret = errors.New("otp: secret is empty")
	// ErrInvalidPeriod is returned when the period is zero.
	ErrInvalidPeriod = errors.New("otp: period must be positive")
	// ErrInvalidTimestamp is returned for timestamps before the Unix epoch.
	ErrInvalidTimestamp = errors.New("otp: timestamp must not be negative")
	// ErrInvalidCode is returned by ParseCode for non-numeric input.
	ErrInvalidCode = errors.New("otp: invalid code")
)

var secretEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// Code is a numeric passcode.
type Code uint32

// String renders the code zero-padded to Digits.
func (c Code) String() string {
	return fmt.Sprintf("%0*d", Digits, uint32(c))
}

// ParseCode parses a decimal code as received from a client.
//
// Values above the digit range parse fine; they just never verify.
func ParseCode(s string) (Code, error) {
	if s == "" {
		return 0, ErrInvalidCode
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, ErrInvalidCode
		}
	}

	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, ErrInvalidCode
	}

	return Code(n), nil
}

// Window returns the time-step index floor(timestamp/period).
func Window(period uint, timestamp int64) uint64 {
	if period == 0 || timestamp < 0 {
		return 0
	}
	return uint64(timestamp) / uint64(period)
}

// The RFC 6238 counter is computed here with integer division and handed to
// HOTP, so every non-negative timestamp maps to its exact window.
var hotpOpts = hotp.ValidateOpts{
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

func checkInput(secret []byte, period uint, timestamp int64) error {
	switch {
	case len(secret) == 0:
		return ErrEmptySecret
	case period == 0:
		return ErrInvalidPeriod
	case timestamp < 0:
		return ErrInvalidTimestamp
	default:
		return nil
	}
}

// Generate derives the code of the window containing timestamp (seconds since
// the epoch). The raw secret bytes are the HMAC key.
func Generate(secret []byte, period uint, timestamp int64) (Code, error) {
	if err := checkInput(secret, period, timestamp); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCodeGeneration, err)
	}

	passcode, err := hotp.GenerateCodeCustom(
		secretEncoding.EncodeToString(secret),
		Window(period, timestamp),
		hotpOpts,
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCodeGeneration, err)
	}

	n, err := strconv.ParseUint(passcode, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCodeGeneration, err)
	}

	return Code(n), nil
}

// Verify reports whether code is the code of the window containing timestamp.
//
// The timestamp is the verification time, not the generation time, so a code
// presented after its window elapsed fails.
func Verify(secret []byte, code Code, period uint, timestamp int64) bool {
	if code >= maxCode || checkInput(secret, period, timestamp) != nil {
		return false
	}

	ok, err := hotp.ValidateCustom(
		code.String(),
		Window(period, timestamp),
		secretEncoding.EncodeToString(secret),
		hotpOpts,
	)

	return ok && err == nil
}
