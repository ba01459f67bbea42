package maskpc

import (
	"fmt"
	"io"
	"sort"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/plonkish/zkmlpc/internal/sample"
)

// Monomial identifies a power of a single variable. Deg == 0 is the constant
// monomial, whatever Var holds.
type Monomial struct {
	Var int `json:"var"`
	Deg int `json:"deg"`
}

// Term is a coefficient attached to a monomial. Every term of a mask
// polynomial has nonzero degree in at most one variable; the per-variable
// division in Open relies on this.
type Term struct {
	Coeff fr.Element `json:"coeff"`
	Var   int        `json:"var"`
	Deg   int        `json:"deg"`
}

// Monomial returns the term's monomial key, normalizing all constant terms
// to the same key.
func (t Term) Monomial() Monomial {
	if t.Deg == 0 {
		return Monomial{}
	}
	return Monomial{Var: t.Var, Deg: t.Deg}
}

// Polynomial is a sparse polynomial whose terms each touch at most one
// variable.
type Polynomial struct {
	NumVars int    `json:"numVars"`
	Terms   []Term `json:"terms"`
}

// NewPolynomial builds a polynomial from the given terms, merging duplicate
// monomials and dropping zero coefficients.
func NewPolynomial(numVars int, terms []Term) *Polynomial {
	merged := make(map[Monomial]fr.Element, len(terms))
	for _, t := range terms {
		m := t.Monomial()
		c := merged[m]
		c.Add(&c, &t.Coeff)
		merged[m] = c
	}
	out := make([]Term, 0, len(merged))
	for m, c := range merged {
		if c.IsZero() {
			continue
		}
		out = append(out, Term{Coeff: c, Var: m.Var, Deg: m.Deg})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Var != out[j].Var {
			return out[i].Var < out[j].Var
		}
		return out[i].Deg < out[j].Deg
	})
	return &Polynomial{NumVars: numVars, Terms: out}
}

// Generate produces the random mask polynomial of spec'd shape: the sum, over
// each of numVariables variables, of a univariate polynomial of degree <= deg
// with uniformly random coefficients.
//
// With sumToZero set, the constant coefficient of the first variable's
// univariate is adjusted so that the polynomial sums to zero over the whole
// Boolean hypercube: each constant coefficient is counted twice (it appears
// for both values of its variable) and every higher coefficient once, per the
// hypercube-sum identity for per-variable univariates.
func Generate(rng io.Reader, numVariables, deg int, sumToZero bool) (*Polynomial, error) {
	if numVariables < 1 {
		return nil, ErrInvalidNumberOfVariables
	}
	if deg < 1 {
		return nil, ErrDegreeIsZero
	}

	coeffs := make([][]fr.Element, numVariables)
	var sumG fr.Element
	for v := 0; v < numVariables; v++ {
		cs, err := sample.Vector(rng, deg+1)
		if err != nil {
			return nil, err
		}
		sumG.Add(&sumG, &cs[0]).Add(&sumG, &cs[0])
		for i := 1; i <= deg; i++ {
			sumG.Add(&sumG, &cs[i])
		}
		coeffs[v] = cs
	}
	if sumToZero {
		var two, half fr.Element
		two.SetUint64(2)
		half.Div(&sumG, &two)
		coeffs[0][0].Sub(&coeffs[0][0], &half)
	}

	terms := make([]Term, 0, numVariables*(deg+1))
	for v, cs := range coeffs {
		for d, c := range cs {
			terms = append(terms, Term{Coeff: c, Var: v, Deg: d})
		}
	}
	return NewPolynomial(numVariables, terms), nil
}

// Evaluate returns the polynomial's value at the given point.
func (p *Polynomial) Evaluate(point []fr.Element) (fr.Element, error) {
	var res fr.Element
	if len(point) != p.NumVars {
		return res, fmt.Errorf("%w: point has %d coordinates, polynomial has %d variables",
			ErrDimensionMismatch, len(point), p.NumVars)
	}
	var tmp fr.Element
	for _, t := range p.Terms {
		tmp = t.Coeff
		for d := 0; d < t.Deg; d++ {
			tmp.Mul(&tmp, &point[t.Var])
		}
		res.Add(&res, &tmp)
	}
	return res, nil
}

// Univariates splits the polynomial into its per-variable univariate
// components, each as a dense coefficient slice of length deg+1. The merged
// constant term is attributed to variable 0.
func (p *Polynomial) Univariates(deg int) [][]fr.Element {
	out := make([][]fr.Element, p.NumVars)
	for v := range out {
		out[v] = make([]fr.Element, deg+1)
	}
	for _, t := range p.Terms {
		if t.Deg == 0 {
			out[0][0].Add(&out[0][0], &t.Coeff)
			continue
		}
		out[t.Var][t.Deg].Add(&out[t.Var][t.Deg], &t.Coeff)
	}
	return out
}

// HypercubeSum returns the exact sum of the polynomial's evaluations over all
// 2^NumVars Boolean points, using the same doubled-constant identity that
// Generate enforces.
func (p *Polynomial) HypercubeSum() fr.Element {
	// Each term c*X_v^d contributes c*2^(n-1) for d > 0 (the 2^(n-1) points
	// with X_v = 1) and c*2^n for d == 0.
	var sum, tmp, pow fr.Element
	pow.SetUint64(1)
	for i := 0; i < p.NumVars-1; i++ {
		pow.Add(&pow, &pow)
	}
	for _, t := range p.Terms {
		tmp.Mul(&t.Coeff, &pow)
		if t.Deg == 0 {
			tmp.Add(&tmp, &tmp)
		}
		sum.Add(&sum, &tmp)
	}
	return sum
}
