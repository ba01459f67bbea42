// Package mlpc implements a (non-hiding) pairing-based commitment scheme for
// multilinear polynomials in evaluation form.
//
// The structured reference string is built from one trapdoor scalar per
// variable: for each variable i the setup tabulates the group elements
//
//	PowersOfG[i][x] = [ prod_{j>=i} phi_j(bit_{j-i}(x)) ] G
//
// with phi_j(b) = b ? t_j : 1-t_j, i.e. the equality-extension tensor powers
// of the trapdoor, recorded at every elimination step in size-halving slices.
// A commitment is then a single multi-scalar multiplication of the
// evaluation vector against the full table, which equals [p(t)]G by the
// multilinear-extension identity.
package mlpc

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
	"github.com/plonkish/zkmlpc/mle"
)

var (
	// ErrInvalidNumberOfVariables is returned by setup and trim when the
	// requested number of variables is below one.
	ErrInvalidNumberOfVariables = errors.New("mlpc: invalid number of variables")

	// ErrDimensionMismatch is returned when polynomial, key and point
	// disagree on the number of variables.
	ErrDimensionMismatch = errors.New("mlpc: dimension mismatch")
)

// UniversalParams is the SRS for a maximum number of variables. Immutable
// once constructed.
type UniversalParams struct {
	NumVars int

	G bn254.G1Affine
	H bn254.G2Affine

	// PowersOfG[i] has 2^(NumVars-i) entries; see the package comment.
	PowersOfG [][]bn254.G1Affine
	PowersOfH [][]bn254.G2Affine

	// HMask[i] = [t_i]H, the G2 side of the opening equation.
	HMask []bn254.G2Affine
}

// CommitterKey is the prover-side restriction of the SRS to some number of
// variables.
type CommitterKey struct {
	NumVars int

	G bn254.G1Affine
	H bn254.G2Affine

	PowersOfG [][]bn254.G1Affine
	PowersOfH [][]bn254.G2Affine
}

// VerifierKey is the verifier-side restriction of the SRS.
type VerifierKey struct {
	NumVars int

	G bn254.G1Affine
	H bn254.G2Affine

	HMask []bn254.G2Affine
}

// Commitment is a single group element, [p(t)]G.
type Commitment struct {
	NumVars  int
	GProduct bn254.G1Affine
}

// Proof is an opening proof: one quotient commitment per variable.
type Proof struct {
	Proofs []bn254.G1Affine
}

// Setup samples fresh trapdoor scalars, derives the SRS and zeroes the
// trapdoor before returning.
func Setup(numVars int, rng io.Reader) (*UniversalParams, error) {
	if numVars < 1 {
		return nil, ErrInvalidNumberOfVariables
	}
	t, err := sample.Vector(rng, numVars)
	if err != nil {
		return nil, err
	}
	pp, err := SetupWithTrapdoors(numVars, t, rng)
	for i := range t {
		t[i].SetZero()
	}
	return pp, err
}

// SetupWithTrapdoors derives the SRS from caller-supplied trapdoor scalars,
// so a composed scheme can share one trapdoor vector across sub-schemes. The
// caller owns t and must zero it once every derivation is done.
func SetupWithTrapdoors(numVars int, t []fr.Element, rng io.Reader) (*UniversalParams, error) {
	if numVars < 1 {
		return nil, ErrInvalidNumberOfVariables
	}
	if len(t) != numVars {
		return nil, fmt.Errorf("%w: %d trapdoor scalars for %d variables", ErrDimensionMismatch, len(t), numVars)
	}
	log := logger.Logger().With().Int("nbVariables", numVars).Logger()
	start := time.Now()

	g, err := sample.G1(rng)
	if err != nil {
		return nil, err
	}
	h, err := sample.G2(rng)
	if err != nil {
		return nil, err
	}

	// Equality-extension tensor powers, most significant variable first:
	// tables[i][x] = prod_{j>=i} phi_j(bit_{j-i}(x)), built back to front so
	// each slice extends the previous one by one variable.
	tables := make([][]fr.Element, numVars)
	prev := []fr.Element{fr.One()}
	var one fr.Element
	one.SetOne()
	for i := numVars - 1; i >= 0; i-- {
		var ti, tiNeg fr.Element
		ti.Set(&t[i])
		tiNeg.Sub(&one, &ti)
		cur := make([]fr.Element, 2*len(prev))
		parallel.Execute(len(prev), func(start, end int) {
			for x := start; x < end; x++ {
				cur[2*x].Mul(&prev[x], &tiNeg)
				cur[2*x+1].Mul(&prev[x], &ti)
			}
		})
		tables[i] = cur
		prev = cur
	}

	totalScalars := 0
	for i := 0; i < numVars; i++ {
		totalScalars += 1 << (numVars - i)
	}
	ppPowers := make([]fr.Element, 0, totalScalars)
	for i := 0; i < numVars; i++ {
		ppPowers = append(ppPowers, tables[i]...)
	}

	ppG := bn254.BatchScalarMultiplicationG1(&g, ppPowers)
	ppH := bn254.BatchScalarMultiplicationG2(&h, ppPowers)
	hMask := bn254.BatchScalarMultiplicationG2(&h, t)

	// The tensor powers are trapdoor-derived; drop them with the trapdoor.
	for i := range ppPowers {
		ppPowers[i].SetZero()
	}
	for i := range tables {
		for j := range tables[i] {
			tables[i][j].SetZero()
		}
	}

	powersOfG := make([][]bn254.G1Affine, numVars)
	powersOfH := make([][]bn254.G2Affine, numVars)
	offset := 0
	for i := 0; i < numVars; i++ {
		size := 1 << (numVars - i)
		powersOfG[i] = ppG[offset : offset+size]
		powersOfH[i] = ppH[offset : offset+size]
		offset += size
	}

	log.Debug().Dur("took", time.Since(start)).Msg("multilinear commitment setup done")

	return &UniversalParams{
		NumVars:   numVars,
		G:         g,
		H:         h,
		PowersOfG: powersOfG,
		PowersOfH: powersOfH,
		HMask:     hMask,
	}, nil
}

// Trim restricts the SRS to numVariables by dropping the leading slices,
// which correspond to unused high-order variables.
func Trim(pp *UniversalParams, numVariables int) (*CommitterKey, *VerifierKey, error) {
	if numVariables < 1 {
		return nil, nil, ErrInvalidNumberOfVariables
	}
	if numVariables > pp.NumVars {
		return nil, nil, fmt.Errorf("%w: trim to %d exceeds setup size %d", ErrDimensionMismatch, numVariables, pp.NumVars)
	}
	toReduce := pp.NumVars - numVariables
	ck := &CommitterKey{
		NumVars:   numVariables,
		G:         pp.G,
		H:         pp.H,
		PowersOfG: pp.PowersOfG[toReduce:],
		PowersOfH: pp.PowersOfH[toReduce:],
	}
	vk := &VerifierKey{
		NumVars: numVariables,
		G:       pp.G,
		H:       pp.H,
		HMask:   pp.HMask[toReduce:],
	}
	return ck, vk, nil
}

// Commit commits to a multilinear polynomial with a single MSM of its
// evaluation vector against the full power table.
func Commit(ck *CommitterKey, p *mle.Dense) (Commitment, error) {
	if p.NumVars != ck.NumVars {
		return Commitment{}, fmt.Errorf("%w: polynomial has %d variables, key has %d", ErrDimensionMismatch, p.NumVars, ck.NumVars)
	}
	var c bn254.G1Affine
	if _, err := c.MultiExp(ck.PowersOfG[0], p.Evals, ecc.MultiExpConfig{}); err != nil {
		return Commitment{}, err
	}
	return Commitment{NumVars: p.NumVars, GProduct: c}, nil
}

// Open computes an opening proof at point: for each variable in turn, the
// current table is split into the quotient by (X_i - point_i) and the folded
// remainder, and the quotient is committed against the matching power slice.
func Open(ck *CommitterKey, p *mle.Dense, point []fr.Element) (*Proof, error) {
	if p.NumVars != ck.NumVars {
		return nil, fmt.Errorf("%w: polynomial has %d variables, key has %d", ErrDimensionMismatch, p.NumVars, ck.NumVars)
	}
	if len(point) != p.NumVars {
		return nil, fmt.Errorf("%w: point has %d coordinates, polynomial has %d variables", ErrDimensionMismatch, len(point), p.NumVars)
	}
	nv := p.NumVars

	r := make([]fr.Element, len(p.Evals))
	copy(r, p.Evals)

	// The quotient q_i does not depend on variable i, so its scalars are
	// duplicated across the low bit to line up with the power slice layout.
	scalars := make([][]fr.Element, nv)
	for i := 0; i < nv; i++ {
		half := len(r) >> 1
		q := make([]fr.Element, half)
		next := make([]fr.Element, half)
		for b := 0; b < half; b++ {
			q[b].Sub(&r[2*b+1], &r[2*b])
			next[b].Mul(&q[b], &point[i]).Add(&next[b], &r[2*b])
		}
		dup := make([]fr.Element, 2*half)
		for x := range dup {
			dup[x] = q[x>>1]
		}
		scalars[i] = dup
		r = next
	}

	proof := &Proof{Proofs: make([]bn254.G1Affine, nv)}
	var eg errgroup.Group
	for i := 0; i < nv; i++ {
		eg.Go(func() error {
			_, err := proof.Proofs[i].MultiExp(ck.PowersOfG[i], scalars[i], ecc.MultiExpConfig{})
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return proof, nil
}

// Check verifies that commitment opens to value at point:
//
//	e(C - value*G, H) == prod_i e(proof_i, [t_i]H - point_i*H)
//
// A false return is a rejected proof; errors are reserved for dimension
// mismatches.
func Check(vk *VerifierKey, commitment Commitment, point []fr.Element, value fr.Element, proof *Proof) (bool, error) {
	if commitment.NumVars != vk.NumVars {
		return false, fmt.Errorf("%w: commitment has %d variables, key has %d", ErrDimensionMismatch, commitment.NumVars, vk.NumVars)
	}
	if len(point) != vk.NumVars || len(proof.Proofs) != vk.NumVars {
		return false, fmt.Errorf("%w: point %d / proof %d / key %d", ErrDimensionMismatch, len(point), len(proof.Proofs), vk.NumVars)
	}

	var valueBig big.Int
	value.BigInt(&valueBig)
	var gJac, acc bn254.G1Jac
	gJac.FromAffine(&vk.G)
	gJac.ScalarMultiplication(&gJac, &valueBig)
	acc.FromAffine(&commitment.GProduct)
	acc.SubAssign(&gJac)
	var lhs bn254.G1Affine
	lhs.FromJacobian(&acc)

	left, err := bn254.Pair([]bn254.G1Affine{lhs}, []bn254.G2Affine{vk.H})
	if err != nil {
		return false, err
	}

	rights, err := TrapdoorOffsets(vk.H, vk.HMask, point)
	if err != nil {
		return false, err
	}
	right, err := bn254.Pair(proof.Proofs, rights)
	if err != nil {
		return false, err
	}
	return left.Equal(&right), nil
}

// TrapdoorOffsets returns ([t_i]H - point_i*H) for each variable, the G2
// side of the opening pairing equation. The hiding composition reuses it for
// its combined check.
func TrapdoorOffsets(h bn254.G2Affine, hMask []bn254.G2Affine, point []fr.Element) ([]bn254.G2Affine, error) {
	if len(point) != len(hMask) {
		return nil, fmt.Errorf("%w: point has %d coordinates, key has %d trapdoor elements", ErrDimensionMismatch, len(point), len(hMask))
	}
	var hJac bn254.G2Jac
	hJac.FromAffine(&h)
	out := make([]bn254.G2Affine, len(point))
	for i := range point {
		var pBig big.Int
		point[i].BigInt(&pBig)
		var ph, th bn254.G2Jac
		ph.ScalarMultiplication(&hJac, &pBig)
		th.FromAffine(&hMask[i])
		th.SubAssign(&ph)
		out[i].FromJacobian(&th)
	}
	return out, nil
}
