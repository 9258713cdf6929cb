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

// Fixed always reports the same instant until moved with Advance.
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

// Advance moves the clock forward by d.
func (f *Fixed) Advance(d time.Duration) {
	f.at = f.at.Add(d)
}
