// Package hash provides keyed digests for short-lived secrets.
//
// Secrets such as one-time passcodes are stored only as their digest. Lookups
// hash the submitted value with the same key and compare digests, so the
// plaintext never reaches the database.
package hash
