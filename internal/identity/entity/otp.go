package entity

import "time"

// OTPCode is a persisted one-time passcode. Code holds the keyed digest of
// the 6-digit value, never the value itself.
type OTPCode struct {
	ID        int64
	Email     string
	Code      string
	ExpiresAt time.Time
	Verified  bool
	CreatedAt time.Time
}

// IsValid reports whether the code is still inside its lifetime at now.
func (o OTPCode) IsValid(now time.Time) bool {
	return now.Before(o.ExpiresAt)
}
