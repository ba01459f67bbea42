// Package maskpc implements a trapdoor-based commitment scheme specialized to
// the sparse, per-variable-separable mask polynomials produced by Generate.
//
// The structured reference string holds one trapdoor scalar per variable and
// a group-element table for every single-variable monomial up to the maximum
// degree. Openings commit, per variable, to the quotient of the division by
// (X_i - point_i); verification is a multi-pairing equation against
// trapdoor-scaled G2 elements.
package maskpc

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/consensys/gnark-crypto/ecc"
	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"golang.org/x/sync/errgroup"

	"github.com/plonkish/zkmlpc/internal/parallel"
	"github.com/plonkish/zkmlpc/internal/sample"
	"github.com/plonkish/zkmlpc/logger"
)

var (
	// ErrInvalidNumberOfVariables is returned by setup when num_vars < 1.
	ErrInvalidNumberOfVariables = errors.New("maskpc: invalid number of variables")

	// ErrDegreeIsZero is returned by setup when the maximum degree < 1.
	ErrDegreeIsZero = errors.New("maskpc: maximum degree must be at least one")

	// ErrDimensionMismatch is returned when a polynomial, key or point
	// disagree on the number of variables.
	ErrDimensionMismatch = errors.New("maskpc: dimension mismatch")

	// ErrUnsupportedDegree is returned when a term's degree exceeds what the
	// (possibly trimmed) key supports.
	ErrUnsupportedDegree = errors.New("maskpc: unsupported monomial degree")
)

// Params is the universal parameter set for a maximum (num_vars, degree)
// pair. Immutable once constructed; the trapdoor scalars used to derive it
// are zeroed before Setup returns.
type Params struct {
	NumVars   int
	MaxDegree int

	// PowersOfG[m] = [m(betas)]G for every single-variable monomial m of
	// degree 0..MaxDegree.
	PowersOfG map[Monomial]bn254.G1Affine

	// GammaG and its per-variable trapdoor-power tables support a future
	// hiding extension of the openings; commitments do not consume them.
	GammaG         bn254.G1Affine
	PowersOfGammaG [][]bn254.G1Affine

	H     bn254.G2Affine
	BetaH []bn254.G2Affine
}

// CommitterKey is the prover-side slice of the parameters.
type CommitterKey struct {
	NumVars   int
	MaxDegree int

	PowersOfG      map[Monomial]bn254.G1Affine
	GammaG         bn254.G1Affine
	PowersOfGammaG [][]bn254.G1Affine
}

// VerifierKey is the verifier-side slice of the parameters.
type VerifierKey struct {
	NumVars   int
	MaxDegree int

	G      bn254.G1Affine
	GammaG bn254.G1Affine
	H      bn254.G2Affine
	BetaH  []bn254.G2Affine
}

// Proof is an opening proof: one quotient commitment per variable, in
// variable order.
type Proof struct {
	W []bn254.G1Affine
}

// Setup samples fresh trapdoor scalars and derives parameters for the given
// maximum degree and number of variables.
func Setup(maxDegree, numVars int, rng io.Reader) (*Params, error) {
	if numVars < 1 {
		return nil, ErrInvalidNumberOfVariables
	}
	if maxDegree < 1 {
		return nil, ErrDegreeIsZero
	}
	betas, err := sample.Vector(rng, numVars)
	if err != nil {
		return nil, err
	}
	pp, err := SetupWithBetas(maxDegree, numVars, rng, betas)
	for i := range betas {
		betas[i].SetZero()
	}
	return pp, err
}

// SetupWithBetas derives parameters from caller-supplied trapdoor scalars.
// It exists so that a composed scheme can share one trapdoor vector between
// this scheme and a base scheme; the caller owns the betas and must zero
// them once every derivation is done.
func SetupWithBetas(maxDegree, numVars int, rng io.Reader, betas []fr.Element) (*Params, error) {
	if numVars < 1 {
		return nil, ErrInvalidNumberOfVariables
	}
	if maxDegree < 1 {
		return nil, ErrDegreeIsZero
	}
	if len(betas) != numVars {
		return nil, fmt.Errorf("%w: %d trapdoor scalars for %d variables", ErrDimensionMismatch, len(betas), numVars)
	}
	log := logger.Logger().With().Int("nbVariables", numVars).Int("maxDegree", maxDegree).Logger()
	start := time.Now()

	g, err := sample.G1(rng)
	if err != nil {
		return nil, err
	}
	gammaG, err := sample.G1(rng)
	if err != nil {
		return nil, err
	}
	h, err := sample.G2(rng)
	if err != nil {
		return nil, err
	}

	// All monomials beta_v^d for 1 <= d <= maxDegree, one repeated variable
	// each, consistent with the separable mask structure.
	monomials := make([]Monomial, 0, numVars*maxDegree)
	values := make([]fr.Element, 0, numVars*maxDegree)
	cur := make([]fr.Element, numVars)
	for v := range cur {
		cur[v].SetOne()
	}
	for d := 1; d <= maxDegree; d++ {
		for v := 0; v < numVars; v++ {
			cur[v].Mul(&cur[v], &betas[v])
			monomials = append(monomials, Monomial{Var: v, Deg: d})
			values = append(values, cur[v])
		}
	}

	table := bn254.BatchScalarMultiplicationG1(&g, values)
	powersOfG := make(map[Monomial]bn254.G1Affine, len(table)+1)
	for i, m := range monomials {
		powersOfG[m] = table[i]
	}
	powersOfG[Monomial{}] = g

	// Per-variable tables beta_v^j * gammaG for j in 1..maxDegree+1.
	powersOfGammaG := make([][]bn254.G1Affine, numVars)
	parallel.Execute(numVars, func(start, end int) {
		for v := start; v < end; v++ {
			powers := make([]fr.Element, maxDegree+1)
			p := fr.One()
			for j := 0; j <= maxDegree; j++ {
				p.Mul(&p, &betas[v])
				powers[j] = p
			}
			powersOfGammaG[v] = bn254.BatchScalarMultiplicationG1(&gammaG, powers)
		}
	})

	betaH := bn254.BatchScalarMultiplicationG2(&h, betas)

	log.Debug().Dur("took", time.Since(start)).Msg("mask commitment setup done")

	return &Params{
		NumVars:        numVars,
		MaxDegree:      maxDegree,
		PowersOfG:      powersOfG,
		GammaG:         gammaG,
		PowersOfGammaG: powersOfGammaG,
		H:              h,
		BetaH:          betaH,
	}, nil
}

// Trim restricts the parameters to a smaller supported degree.
func Trim(pp *Params, supportedDegree int) (*CommitterKey, *VerifierKey, error) {
	if supportedDegree < 1 {
		return nil, nil, ErrDegreeIsZero
	}
	if supportedDegree > pp.MaxDegree {
		return nil, nil, fmt.Errorf("%w: trim to %d exceeds setup degree %d", ErrUnsupportedDegree, supportedDegree, pp.MaxDegree)
	}

	powersOfG := make(map[Monomial]bn254.G1Affine, len(pp.PowersOfG))
	for m, p := range pp.PowersOfG {
		if m.Deg <= supportedDegree {
			powersOfG[m] = p
		}
	}
	powersOfGammaG := make([][]bn254.G1Affine, len(pp.PowersOfGammaG))
	for v := range pp.PowersOfGammaG {
		powersOfGammaG[v] = pp.PowersOfGammaG[v][:supportedDegree+1]
	}

	ck := &CommitterKey{
		NumVars:        pp.NumVars,
		MaxDegree:      supportedDegree,
		PowersOfG:      powersOfG,
		GammaG:         pp.GammaG,
		PowersOfGammaG: powersOfGammaG,
	}
	vk := &VerifierKey{
		NumVars:   pp.NumVars,
		MaxDegree: supportedDegree,
		G:         pp.PowersOfG[Monomial{}],
		GammaG:    pp.GammaG,
		H:         pp.H,
		BetaH:     pp.BetaH,
	}
	return ck, vk, nil
}

// Commit commits to a mask polynomial by multi-scalar multiplication of its
// coefficients against the monomial table.
func Commit(ck *CommitterKey, p *Polynomial) (bn254.G1Affine, error) {
	var c bn254.G1Affine
	if p.NumVars != ck.NumVars {
		return c, fmt.Errorf("%w: polynomial has %d variables, key has %d", ErrDimensionMismatch, p.NumVars, ck.NumVars)
	}
	return commitTerms(ck, p.Terms)
}

func commitTerms(ck *CommitterKey, terms []Term) (bn254.G1Affine, error) {
	var c bn254.G1Affine
	if len(terms) == 0 {
		return c, nil
	}
	bases := make([]bn254.G1Affine, len(terms))
	scalars := make([]fr.Element, len(terms))
	for i, t := range terms {
		base, ok := ck.PowersOfG[t.Monomial()]
		if !ok {
			return c, fmt.Errorf("%w: no power for X_%d^%d", ErrUnsupportedDegree, t.Var, t.Deg)
		}
		bases[i] = base
		scalars[i] = t.Coeff
	}
	if _, err := c.MultiExp(bases, scalars, ecc.MultiExpConfig{}); err != nil {
		return c, err
	}
	return c, nil
}

// Open computes an opening proof for p at point. The final remainder of the
// per-variable divisions vanishes whenever the claimed value is p(point), so
// only the quotients are committed.
func Open(ck *CommitterKey, p *Polynomial, point []fr.Element) (*Proof, error) {
	if p.NumVars != ck.NumVars {
		return nil, fmt.Errorf("%w: polynomial has %d variables, key has %d", ErrDimensionMismatch, p.NumVars, ck.NumVars)
	}
	if len(point) != p.NumVars {
		return nil, fmt.Errorf("%w: point has %d coordinates, polynomial has %d variables", ErrDimensionMismatch, len(point), p.NumVars)
	}

	quotients := divideAtPoint(p, point)

	proof := &Proof{W: make([]bn254.G1Affine, p.NumVars)}
	var eg errgroup.Group
	for i := range quotients {
		eg.Go(func() error {
			w, err := commitTerms(ck, quotients[i])
			if err != nil {
				return err
			}
			proof.W[i] = w
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return proof, nil
}

// divideAtPoint divides the running dividend by (X_i - point_i) for each
// variable i in turn. Because every term has nonzero degree in at most one
// variable, each division is an ordinary univariate long division: strip the
// highest power of X_i into the quotient, folding coeff *= point_i into the
// remainder. Constant terms are dropped; they cancel in the final remainder.
func divideAtPoint(p *Polynomial, point []fr.Element) [][]Term {
	quotients := make([][]Term, p.NumVars)
	cur := p.Terms
	for i := 0; i < p.NumVars; i++ {
		var quotient, remainder []Term
		for _, t := range cur {
			if t.Deg == 0 {
				continue
			}
			if t.Var != i {
				remainder = append(remainder, t)
				continue
			}
			coeff := t.Coeff
			for d := t.Deg; d > 1; d-- {
				quotient = append(quotient, Term{Coeff: coeff, Var: i, Deg: d - 1})
				coeff.Mul(&coeff, &point[i])
			}
			quotient = append(quotient, Term{Coeff: coeff, Var: i, Deg: 0})
			var rem fr.Element
			rem.Mul(&coeff, &point[i])
			remainder = append(remainder, Term{Coeff: rem, Var: i, Deg: 0})
		}
		quotients[i] = quotient
		cur = remainder
	}
	return quotients
}

// Check verifies that commitment opens to value at point. A false return is
// a rejected proof, not an error; errors are reserved for dimension
// mismatches.
func Check(vk *VerifierKey, commitment bn254.G1Affine, point []fr.Element, value fr.Element, proof *Proof) (bool, error) {
	if len(point) != vk.NumVars {
		return false, fmt.Errorf("%w: point has %d coordinates, key has %d variables", ErrDimensionMismatch, len(point), vk.NumVars)
	}
	if len(proof.W) != vk.NumVars {
		return false, fmt.Errorf("%w: proof has %d quotients, key has %d variables", ErrDimensionMismatch, len(proof.W), vk.NumVars)
	}

	// e(C - value*G, H)
	var valueBig big.Int
	value.BigInt(&valueBig)
	var gJac, acc bn254.G1Jac
	gJac.FromAffine(&vk.G)
	gJac.ScalarMultiplication(&gJac, &valueBig)
	acc.FromAffine(&commitment)
	acc.SubAssign(&gJac)
	var lhs bn254.G1Affine
	lhs.FromJacobian(&acc)

	left, err := bn254.Pair([]bn254.G1Affine{lhs}, []bn254.G2Affine{vk.H})
	if err != nil {
		return false, err
	}

	rights, err := trapdoorOffsets(vk.H, vk.BetaH, point)
	if err != nil {
		return false, err
	}
	right, err := bn254.Pair(proof.W, rights)
	if err != nil {
		return false, err
	}
	return left.Equal(&right), nil
}

// trapdoorOffsets returns (betaH_i - point_i*H) for each variable, the G2
// side of the opening pairing equation.
func trapdoorOffsets(h bn254.G2Affine, betaH []bn254.G2Affine, point []fr.Element) ([]bn254.G2Affine, error) {
	if len(point) != len(betaH) {
		return nil, fmt.Errorf("%w: point has %d coordinates, key has %d trapdoor elements", ErrDimensionMismatch, len(point), len(betaH))
	}
	var hJac bn254.G2Jac
	hJac.FromAffine(&h)
	out := make([]bn254.G2Affine, len(point))
	for i := range point {
		var pBig big.Int
		point[i].BigInt(&pBig)
		var ph, bh bn254.G2Jac
		ph.ScalarMultiplication(&hJac, &pBig)
		bh.FromAffine(&betaH[i])
		bh.SubAssign(&ph)
		out[i].FromJacobian(&bh)
	}
	return out, nil
}
