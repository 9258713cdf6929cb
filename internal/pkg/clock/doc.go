// Package clock provides a tiny time abstraction.
//
// Business code depends on Clocker instead of calling time.Now directly, so
// expiry rules can be exercised in tests with a Fixed clock.
package clock
