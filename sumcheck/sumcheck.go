// Package sumcheck implements a Fiat-Shamir multi-round sumcheck over
// multilinear polynomials, blinded with a mask polynomial so that the round
// messages leak nothing about the summed polynomial's partial sums.
//
// The prover commits to a random mask g that sums to zero over the
// hypercube, the verifier folds it in with a challenge r1, and the rounds
// run over f + r1*g; since g's hypercube sum vanishes, the claimed total is
// unchanged. The final subclaim folds r1*g(point) back out, leaving a claim
// about f alone, and the mask commitment is opened at the subclaim point to
// pin g's public evaluation.
package sumcheck

import (
	"errors"
	"fmt"

	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/plonkish/zkmlpc/maskpc"
	"github.com/plonkish/zkmlpc/transcript"
)

var (
	// ErrRoundMismatch is returned when a round polynomial violates its
	// degree bound or disagrees with the running claimed sum.
	ErrRoundMismatch = errors.New("sumcheck: round polynomial does not match claimed sum")

	// ErrMaskOpeningFailed is returned when the rounds verify but the mask
	// commitment does not open to the claimed evaluation at the subclaim
	// point.
	ErrMaskOpeningFailed = errors.New("sumcheck: mask opening failed")

	// ErrDimensionMismatch is returned when the proof and the mask key
	// disagree on the number of variables.
	ErrDimensionMismatch = errors.New("sumcheck: dimension mismatch")
)

// PolynomialInfo describes the shape of the summed polynomial: the number of
// sumcheck rounds and the per-round degree bound.
type PolynomialInfo struct {
	NumVariables int
	MaxDegree    int
}

// SubClaim is the terminal output of a verified sumcheck: the challenge
// point and the expected evaluation of the summed polynomial there.
type SubClaim struct {
	Point              []fr.Element
	ExpectedEvaluation fr.Element
}

// ZKProof is a complete zero-knowledge sumcheck proof.
type ZKProof struct {
	// GCommit is the commitment to the mask polynomial, bound to the
	// transcript before any challenge is derived.
	GCommit bn254.G1Affine

	// Rounds holds one univariate polynomial per variable, in coefficient
	// form, constant term first.
	Rounds [][]fr.Element

	Info PolynomialInfo

	// GProof opens GCommit to GValue at the subclaim point.
	GProof *maskpc.Proof
	GValue fr.Element
}

// NewTranscript returns a transcript with the challenge schedule shared by
// the prover and the verifier: the mask-binding challenge first, then one
// challenge per round.
func NewTranscript(numVariables int) *transcript.Transcript {
	ids := make([]string, 0, numVariables+1)
	ids = append(ids, "r1")
	for i := 0; i < numVariables; i++ {
		ids = append(ids, roundID(i))
	}
	return transcript.New(ids...)
}

func roundID(i int) string {
	return fmt.Sprintf("round.%d", i)
}

// evalUnivariate evaluates a coefficient-form univariate polynomial at x.
func evalUnivariate(coeffs []fr.Element, x fr.Element) fr.Element {
	var res fr.Element
	for i := len(coeffs) - 1; i >= 0; i-- {
		res.Mul(&res, &x).Add(&res, &coeffs[i])
	}
	return res
}

func appendCoeffs(ts *transcript.Transcript, id string, coeffs []fr.Element) error {
	for i := range coeffs {
		if err := ts.Append(id, &coeffs[i]); err != nil {
			return err
		}
	}
	return nil
}
