package hash

// Hash produces and checks digests of plaintext secrets.
type Hash interface {
	// Hash returns the digest of str.
	Hash(str string) ([]byte, error)
	// Verify reports whether str produces the given digest.
	Verify(hashed, str string) bool
}
