// Package mle implements dense multilinear polynomials given by their
// evaluations over the Boolean hypercube.
//
// Variable 0 sits on the least significant bit of the evaluation index, so
// Evals[x] is the value at the point (x&1, (x>>1)&1, ...).
package mle

import (
	"errors"
	"fmt"
	"io"
	"math/bits"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/plonkish/zkmlpc/internal/sample"
)

// ErrInvalidEvaluations is returned when an evaluation vector's length is not
// a power of two.
var ErrInvalidEvaluations = errors.New("mle: evaluation vector length must be a power of two")

// ErrDimensionMismatch is returned when a point's length disagrees with the
// polynomial's number of variables.
var ErrDimensionMismatch = errors.New("mle: point length does not match number of variables")

// Dense is a multilinear polynomial in n variables represented by its 2^n
// hypercube evaluations.
type Dense struct {
	NumVars int       `json:"numVars"`
	Evals   fr.Vector `json:"evaluations"`
}

// FromEvaluations builds a polynomial from a flat evaluation vector. The
// slice is used as-is, not copied.
func FromEvaluations(evals []fr.Element) (*Dense, error) {
	n := len(evals)
	if n == 0 || n&(n-1) != 0 {
		return nil, fmt.Errorf("%w: got length %d", ErrInvalidEvaluations, n)
	}
	return &Dense{
		NumVars: bits.TrailingZeros(uint(n)),
		Evals:   evals,
	}, nil
}

// Rand returns a polynomial in numVars variables with uniformly random
// evaluations drawn from rng.
func Rand(numVars int, rng io.Reader) (*Dense, error) {
	evals, err := sample.Vector(rng, 1<<numVars)
	if err != nil {
		return nil, err
	}
	return &Dense{NumVars: numVars, Evals: evals}, nil
}

// Clone returns a deep copy.
func (d *Dense) Clone() *Dense {
	evals := make(fr.Vector, len(d.Evals))
	copy(evals, d.Evals)
	return &Dense{NumVars: d.NumVars, Evals: evals}
}

// FixVariable binds variable 0 to r, returning a polynomial in one fewer
// variable.
func (d *Dense) FixVariable(r fr.Element) *Dense {
	half := len(d.Evals) >> 1
	evals := make(fr.Vector, half)
	var diff fr.Element
	for b := 0; b < half; b++ {
		// low + r*(high - low)
		diff.Sub(&d.Evals[2*b+1], &d.Evals[2*b])
		evals[b].Mul(&diff, &r).Add(&evals[b], &d.Evals[2*b])
	}
	return &Dense{NumVars: d.NumVars - 1, Evals: evals}
}

// Evaluate returns the polynomial's value at the given point.
func (d *Dense) Evaluate(point []fr.Element) (fr.Element, error) {
	if len(point) != d.NumVars {
		return fr.Element{}, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(point), d.NumVars)
	}
	cur := d
	for _, p := range point {
		cur = cur.FixVariable(p)
	}
	return cur.Evals[0], nil
}

// Sum returns the sum of the evaluations over the full hypercube.
func (d *Dense) Sum() fr.Element {
	var s fr.Element
	for i := range d.Evals {
		s.Add(&s, &d.Evals[i])
	}
	return s
}
