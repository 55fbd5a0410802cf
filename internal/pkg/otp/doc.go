// Package otp generates and verifies short-lived numeric passcodes bound to a
// time window (RFC 6238, HMAC-SHA1, six digits).
//
// The time step is not fixed at 30 seconds: the caller supplies the period, so
// a code stays constant for the whole window floor(timestamp/period).
// Verification is strict to the window of the supplied timestamp, no adjacent
// window is accepted.
//
// Generate and Verify are pure functions of their inputs. TOTP binds the
// process-wide secret and period for callers that only carry the time.
package otp
