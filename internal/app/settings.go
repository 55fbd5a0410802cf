package app

import (
	"errors"
	"fmt"

	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/duration"
)

var (
	// ErrOTPSecretEmpty is returned when otp.secret is not configured.
	ErrOTPSecretEmpty = errors.New("otp secret must not be empty")

	// ErrOTPPeriodInvalid is returned when the configured expiry is not a positive number of seconds.
	ErrOTPPeriodInvalid = errors.New("otp expiry must be positive")
)

// OTPSettings is the snapshot of the OTP configuration taken at startup.
// Later config reloads never change it.
type OTPSettings struct {
	Secret []byte
	Period uint
}

// LoadOTPSettings reads otp.secret, otp.expiry.value and otp.expiry.unit.
func LoadOTPSettings(cfg config.Config) (OTPSettings, error) {
	secret := cfg.GetString("otp.secret")
	if secret == "" {
		return OTPSettings{}, ErrOTPSecretEmpty
	}

	period, err := duration.Normalize(cfg.GetInt64("otp.expiry.value"), cfg.GetString("otp.expiry.unit"))
	if err != nil {
		return OTPSettings{}, fmt.Errorf("otp expiry: %w", err)
	}
	if period <= 0 {
		return OTPSettings{}, fmt.Errorf("%w: got %d seconds", ErrOTPPeriodInvalid, period)
	}

	return OTPSettings{
		Secret: []byte(secret),
		Period: uint(period),
	}, nil
}
