// Package clock provides a tiny time abstraction.
//
// Code that captures "now" (for example the timestamp an OTP window is derived
// from) should depend on Clocker rather than call time.Now directly, so tests
// can pin the instant with a Fixed clock.
package clock
