package entity

import "strings"

// AuthMode tells the OTP flows whether the caller is creating an account or
// signing in to an existing one.
type AuthMode string

const (
	AuthModeSignup AuthMode = "signup"
	AuthModeSignin AuthMode = "signin"
)

// AuthModeFromString normalizes s. Unknown values are returned as-is so the
// validator can reject them.
func AuthModeFromString(s string) AuthMode {
	return AuthMode(strings.ToLower(strings.TrimSpace(s)))
}

func (m AuthMode) String() string {
	return string(m)
}

// IsValid reports whether m is one of the known modes.
func (m AuthMode) IsValid() bool {
	return m == AuthModeSignup || m == AuthModeSignin
}
