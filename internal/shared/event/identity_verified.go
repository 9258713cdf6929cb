package event

import "time"

const IdentityVerifiedDestination string = "identity_verified"

// IdentityVerifiedMessage is published after an OTP verification succeeds.
type IdentityVerifiedMessage struct {
	UserID     int64     `json:"user_id,string"`
	Email      string    `json:"email"`
	Name       string    `json:"name,omitempty"`
	Mode       string    `json:"mode"`
	VerifiedAt time.Time `json:"verified_at"`
}
