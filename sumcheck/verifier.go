package sumcheck

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/plonkish/zkmlpc/maskpc"
	"github.com/plonkish/zkmlpc/transcript"
)

// Verify checks a blinded sumcheck proof against claimedSum and returns the
// terminal subclaim about the summed polynomial alone: its expected
// evaluation at the challenge point, with the mask's contribution folded
// out. The transcript must come from NewTranscript with the proof's variable
// count.
//
// Failures are distinguishable: a round polynomial that breaks its degree
// bound or the running sum yields ErrRoundMismatch, a mask commitment that
// does not open to GValue at the subclaim point yields ErrMaskOpeningFailed.
func Verify(vk *maskpc.VerifierKey, claimedSum fr.Element, proof *ZKProof, ts *transcript.Transcript) (*SubClaim, error) {
	n := proof.Info.NumVariables
	if n != vk.NumVars {
		return nil, fmt.Errorf("%w: proof has %d variables, mask key has %d",
			ErrDimensionMismatch, n, vk.NumVars)
	}
	if len(proof.Rounds) != n {
		return nil, fmt.Errorf("%w: got %d round polynomials for %d variables",
			ErrRoundMismatch, len(proof.Rounds), n)
	}

	if err := ts.Append("r1", &proof.GCommit); err != nil {
		return nil, err
	}
	r1, err := ts.ChallengeScalar("r1")
	if err != nil {
		return nil, err
	}

	one := fr.One()
	expected := claimedSum
	point := make([]fr.Element, n)
	for i, poly := range proof.Rounds {
		if len(poly) == 0 || len(poly) > proof.Info.MaxDegree+1 {
			return nil, fmt.Errorf("%w: round %d polynomial has %d coefficients, degree bound is %d",
				ErrRoundMismatch, i, len(poly), proof.Info.MaxDegree)
		}
		atOne := evalUnivariate(poly, one)
		var total fr.Element
		total.Add(&poly[0], &atOne)
		if !total.Equal(&expected) {
			return nil, fmt.Errorf("%w: round %d: p(0)+p(1) != running claim", ErrRoundMismatch, i)
		}
		if err := appendCoeffs(ts, roundID(i), poly); err != nil {
			return nil, err
		}
		r, err := ts.ChallengeScalar(roundID(i))
		if err != nil {
			return nil, err
		}
		point[i] = r
		expected = evalUnivariate(poly, r)
	}

	// The last claim is about f + r1*g; fold the mask's public share out.
	var maskShare fr.Element
	maskShare.Mul(&r1, &proof.GValue)
	expected.Sub(&expected, &maskShare)

	ok, err := maskpc.Check(vk, proof.GCommit, point, proof.GValue, proof.GProof)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrMaskOpeningFailed
	}
	return &SubClaim{Point: point, ExpectedEvaluation: expected}, nil
}
