package testhelpers

import (
	"math/rand/v2"
	"testing"
	"time"
)

// NewRand returns a deterministic random source so that tests can assert exact random picks.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed)) //nolint:gosec // deterministic test source
}

// Date parses a YYYY-MM-DD date in UTC and fails the test on malformed input.
func Date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}
