// Package otp generates short numeric one-time passcodes.
//
// Codes are drawn from crypto/rand so they cannot be predicted from earlier
// codes. Expiry and single use are the caller's concern.
package otp
