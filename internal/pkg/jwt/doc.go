// Package jwt issues and verifies the session tokens handed out after a
// successful passcode verification.
//
// Tokens are HS512-signed and carry the user ID, email and display name.
// Context helpers store verified claims for downstream handlers.
package jwt
