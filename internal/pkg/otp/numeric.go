package otp

import (
	"crypto/rand"
	"io"
	"math/big"
	"strconv"
)

const (
	minSixDigit int64 = 100000
	maxSixDigit int64 = 999999
)

// Generator produces one-time passcodes.
type Generator interface {
	Generate() (string, error)
}

// Numeric generates fixed-width decimal codes uniformly over [min, max].
type Numeric struct {
	min     int64
	span    *big.Int
	entropy io.Reader
}

// NewNumeric returns a six digit generator: codes fall in [100000, 999999]
// so they never carry a leading zero.
func NewNumeric() *Numeric {
	return &Numeric{
		min:     minSixDigit,
		span:    big.NewInt(maxSixDigit - minSixDigit + 1),
		entropy: rand.Reader,
	}
}

// Generate returns a new code. An error is only returned when the entropy
// source fails.
func (n *Numeric) Generate() (string, error) {
	v, err := rand.Int(n.entropy, n.span)
	if err != nil {
		return "", err
	}

	return strconv.FormatInt(n.min+v.Int64(), 10), nil
}
