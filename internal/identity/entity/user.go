package entity

import "time"

// User is an identity record. Email is stored trimmed and lower-cased.
type User struct {
	ID              int64
	Email           string
	Name            string
	Image           string
	EmailVerifiedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsVerified reports whether the email has been proven by a verified OTP.
func (u User) IsVerified() bool {
	return u.EmailVerifiedAt != nil
}

// UpsertUser creates an identity or refreshes its name. An empty Name keeps
// the stored one. ID is only used when a new row is inserted.
type UpsertUser struct {
	ID    int64
	Email string
	Name  string
	// VerifiedAt, when set, stamps email_verified_at.
	VerifiedAt *time.Time
	At         time.Time
}
