// Package zkml composes the base multilinear commitment scheme with the mask
// commitment scheme into a hiding multilinear polynomial commitment.
//
// Both sub-schemes are derived from the same trapdoor vector, so a base
// opening and a mask opening at a shared point satisfy one combined pairing
// equation; commitments and proofs are summed in the group and checked in a
// single multi-pairing.
package zkml

import (
	"fmt"
	"io"
	"math/big"
	"time"

	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/plonkish/zkmlpc/internal/sample"
	"github.com/plonkish/zkmlpc/logger"
	"github.com/plonkish/zkmlpc/maskpc"
	"github.com/plonkish/zkmlpc/mle"
	"github.com/plonkish/zkmlpc/mlpc"
)

// UniversalParams pairs the base-scheme SRS with the mask-scheme parameters
// derived from the same trapdoor vector.
type UniversalParams struct {
	Base *mlpc.UniversalParams
	Mask *maskpc.Params
}

// CommitterKey scopes the SRS to a (num_vars, mask degree) target.
type CommitterKey struct {
	Base *mlpc.CommitterKey
	Mask *maskpc.CommitterKey
}

// VerifierKey is the verifier-side counterpart of CommitterKey.
type VerifierKey struct {
	Base *mlpc.VerifierKey
	Mask *maskpc.VerifierKey
}

// Commitment is the published hiding commitment, base + mask.
type Commitment = mlpc.Commitment

// Proof is a hiding opening proof: the element-wise sum of the base and mask
// quotient commitments, plus the mask's evaluation at the opening point.
type Proof struct {
	Proofs    []bn254.G1Affine
	MaskValue fr.Element
}

// Setup derives a hiding SRS for up to numVars variables and mask degree
// hidingBound. One trapdoor vector is sampled, shared between the two
// sub-scheme derivations and zeroed before returning.
func Setup(numVars, hidingBound int, rng io.Reader) (*UniversalParams, error) {
	if numVars < 1 {
		return nil, mlpc.ErrInvalidNumberOfVariables
	}
	if hidingBound < 1 {
		return nil, maskpc.ErrDegreeIsZero
	}
	log := logger.Logger().With().Int("nbVariables", numVars).Int("hidingBound", hidingBound).Logger()
	start := time.Now()

	t, err := sample.Vector(rng, numVars)
	if err != nil {
		return nil, err
	}
	defer func() {
		for i := range t {
			t[i].SetZero()
		}
	}()

	base, err := mlpc.SetupWithTrapdoors(numVars, t, rng)
	if err != nil {
		return nil, err
	}
	mask, err := maskpc.SetupWithBetas(hidingBound, numVars, rng, t)
	if err != nil {
		return nil, err
	}

	log.Debug().Dur("took", time.Since(start)).Msg("hiding srs generated")

	return &UniversalParams{Base: base, Mask: mask}, nil
}

// Trim restricts the SRS to numVariables variables and mask degree
// degForMask. The dropped leading variables must be unused high-order ones;
// the retained mask monomials are re-indexed down by the reduction while
// preserving their relative order, and the mask verifier key is re-sliced so
// every key agrees on the number of variables.
func Trim(pp *UniversalParams, numVariables, degForMask int) (*CommitterKey, *VerifierKey, error) {
	baseCk, baseVk, err := mlpc.Trim(pp.Base, numVariables)
	if err != nil {
		return nil, nil, err
	}
	maskCk, maskVk, err := maskpc.Trim(pp.Mask, degForMask)
	if err != nil {
		return nil, nil, err
	}

	toReduce := pp.Base.NumVars - numVariables
	if toReduce > 0 {
		powersOfG := make(map[maskpc.Monomial]bn254.G1Affine, len(maskCk.PowersOfG))
		for m, p := range maskCk.PowersOfG {
			switch {
			case m.Deg == 0:
				powersOfG[m] = p
			case m.Var >= toReduce:
				powersOfG[maskpc.Monomial{Var: m.Var - toReduce, Deg: m.Deg}] = p
			}
		}
		maskCk.PowersOfG = powersOfG
		maskCk.PowersOfGammaG = maskCk.PowersOfGammaG[toReduce:]
		maskVk.BetaH = maskVk.BetaH[toReduce:]
	}
	maskCk.NumVars = numVariables
	maskVk.NumVars = numVariables

	return &CommitterKey{Base: baseCk, Mask: maskCk}, &VerifierKey{Base: baseVk, Mask: maskVk}, nil
}

// Commit produces a hiding commitment to p: a fresh random mask polynomial
// is committed with the mask scheme and added, in the group, to the base
// commitment. The mask is returned as the opening witness; it must be used
// for exactly one opening, or the hiding guarantee is void.
//
// maskNumVars sizes the mask polynomial; zero means p's own variable count.
func Commit(ck *CommitterKey, p *mle.Dense, hidingBound, maskNumVars int, rng io.Reader) (Commitment, *maskpc.Polynomial, error) {
	nv := maskNumVars
	if nv == 0 {
		nv = p.NumVars
	}
	mask, err := maskpc.Generate(rng, nv, hidingBound, false)
	if err != nil {
		return Commitment{}, nil, err
	}
	maskCommit, err := maskpc.Commit(ck.Mask, mask)
	if err != nil {
		return Commitment{}, nil, err
	}
	baseCommit, err := mlpc.Commit(ck.Base, p)
	if err != nil {
		return Commitment{}, nil, err
	}

	var hidden bn254.G1Affine
	hidden.Add(&baseCommit.GProduct, &maskCommit)
	return Commitment{NumVars: p.NumVars, GProduct: hidden}, mask, nil
}

// Open opens a hiding commitment at point: the base and mask opening proofs
// are summed element-wise, and the returned evaluation is the combined
// p(point) + mask(point). The mask's own share travels in the proof so that
// Check can split the combined value.
func Open(ck *CommitterKey, p *mle.Dense, mask *maskpc.Polynomial, point []fr.Element) (*Proof, fr.Element, error) {
	var zero fr.Element
	baseProof, err := mlpc.Open(ck.Base, p, point)
	if err != nil {
		return nil, zero, err
	}
	maskProof, err := maskpc.Open(ck.Mask, mask, point)
	if err != nil {
		return nil, zero, err
	}
	if len(maskProof.W) != len(baseProof.Proofs) {
		return nil, zero, fmt.Errorf("%w: base proof has %d quotients, mask proof has %d",
			mlpc.ErrDimensionMismatch, len(baseProof.Proofs), len(maskProof.W))
	}

	maskValue, err := mask.Evaluate(point)
	if err != nil {
		return nil, zero, err
	}
	baseValue, err := p.Evaluate(point)
	if err != nil {
		return nil, zero, err
	}

	proofs := make([]bn254.G1Affine, len(baseProof.Proofs))
	for i := range proofs {
		proofs[i].Add(&baseProof.Proofs[i], &maskProof.W[i])
	}

	var evaluation fr.Element
	evaluation.Add(&baseValue, &maskValue)
	return &Proof{Proofs: proofs, MaskValue: maskValue}, evaluation, nil
}

// Check verifies a hiding opening with one combined pairing equation:
//
//	e(C - (value-maskValue)*G - maskValue*G', H) == prod_i e(proof_i, [t_i]H - point_i*H)
//
// where G is the base generator and G' the mask generator. value is the
// combined evaluation returned by Open. Pure and deterministic; a false
// return is a rejected proof.
func Check(vk *VerifierKey, commitment Commitment, point []fr.Element, value fr.Element, proof *Proof) (bool, error) {
	if commitment.NumVars != vk.Base.NumVars {
		return false, fmt.Errorf("%w: commitment has %d variables, key has %d",
			mlpc.ErrDimensionMismatch, commitment.NumVars, vk.Base.NumVars)
	}
	if len(point) != vk.Base.NumVars || len(proof.Proofs) != vk.Base.NumVars {
		return false, fmt.Errorf("%w: point %d / proof %d / key %d",
			mlpc.ErrDimensionMismatch, len(point), len(proof.Proofs), vk.Base.NumVars)
	}

	var baseValue fr.Element
	baseValue.Sub(&value, &proof.MaskValue)

	var baseBig, maskBig big.Int
	baseValue.BigInt(&baseBig)
	proof.MaskValue.BigInt(&maskBig)

	var gJac, gMaskJac, acc bn254.G1Jac
	gJac.FromAffine(&vk.Base.G)
	gJac.ScalarMultiplication(&gJac, &baseBig)
	gMaskJac.FromAffine(&vk.Mask.G)
	gMaskJac.ScalarMultiplication(&gMaskJac, &maskBig)
	acc.FromAffine(&commitment.GProduct)
	acc.SubAssign(&gJac)
	acc.SubAssign(&gMaskJac)
	var lhs bn254.G1Affine
	lhs.FromJacobian(&acc)

	left, err := bn254.Pair([]bn254.G1Affine{lhs}, []bn254.G2Affine{vk.Base.H})
	if err != nil {
		return false, err
	}

	rights, err := mlpc.TrapdoorOffsets(vk.Base.H, vk.Base.HMask, point)
	if err != nil {
		return false, err
	}
	right, err := bn254.Pair(proof.Proofs, rights)
	if err != nil {
		return false, err
	}
	return left.Equal(&right), nil
}
