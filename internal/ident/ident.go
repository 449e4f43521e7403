// Package ident generates collision-resistant string identifiers for
// project records without a secure-random or UUID dependency.
package ident

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

const (
	base36Digits = "0123456789abcdefghijklmnopqrstuvwxyz"
	suffixLen    = 9
)

// New returns a new identifier: the current Unix-millisecond timestamp in
// base 36, followed by nine base-36 digits expanded from a pseudo-random
// fraction. Safe for use as a storage key suffix.
func New() string {
	return At(time.Now(), rand.Float64())
}

// At builds an identifier from an explicit timestamp and fraction in [0, 1).
// Split out from New so tests can pin both inputs.
func At(ts time.Time, frac float64) string {
	var b strings.Builder
	b.WriteString(strconv.FormatInt(ts.UnixMilli(), 36))

	// Fractional base-36 expansion, one digit per iteration.
	if frac < 0 || frac >= 1 {
		frac = 0
	}
	for range suffixLen {
		frac *= 36
		d := int(frac)
		frac -= float64(d)
		b.WriteByte(base36Digits[d])
	}
	return b.String()
}
