package dng

import (
	"fmt"
	"math/big"
)

// URational is an unsigned TIFF RATIONAL. The numerator and denominator are
// kept as given (not reduced) so writers emit exactly what the adapter computed.
type URational struct {
	N uint32
	D uint32
}

// NewURational returns n/d.
func NewURational(n, d uint32) URational {
	return URational{N: n, D: d}
}

// IsValid reports whether the denominator is non-zero.
func (r URational) IsValid() bool {
	return r.D != 0
}

// Float64 returns the value as a float, 0 when the denominator is zero.
func (r URational) Float64() float64 {
	if r.D == 0 {
		return 0
	}
	return float64(r.N) / float64(r.D)
}

// Rat returns the exact value, nil when the denominator is zero.
func (r URational) Rat() *big.Rat {
	if r.D == 0 {
		return nil
	}
	return new(big.Rat).SetFrac64(int64(r.N), int64(r.D))
}

// Equal compares two rationals by value (4/2 == 2/1).
func (r URational) Equal(o URational) bool {
	if r.D == 0 || o.D == 0 {
		return r == o
	}
	return uint64(r.N)*uint64(o.D) == uint64(o.N)*uint64(r.D)
}

func (r URational) String() string {
	return fmt.Sprintf("%d/%d", r.N, r.D)
}
