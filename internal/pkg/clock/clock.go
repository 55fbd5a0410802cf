package clock

import "time"

// Clocker abstracts time so callers can replace real time in tests.
type Clocker interface {
	Now() time.Time
}

// TimeClocker is the production clock implementation backed by time.Now.
type TimeClocker struct{}

// New returns a TimeClocker that reads the current system time.
func New() *TimeClocker {
	return &TimeClocker{}
}

// Now returns the current system time.
func (*TimeClocker) Now() time.Time {
	return time.Now()
}

// Fixed always returns the same instant. Use Set to move it.
type Fixed struct {
	at time.Time
}

// NewFixed returns a clock frozen at t.
func NewFixed(t time.Time) *Fixed {
	return &Fixed{at: t}
}

// Now returns the frozen instant.
func (f *Fixed) Now() time.Time {
	return f.at
}

// Set moves the clock to t. Not safe for concurrent use with Now.
func (f *Fixed) Set(t time.Time) {
	f.at = t
}
