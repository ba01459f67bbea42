package sumcheck

import (
	"fmt"
	"io"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/plonkish/zkmlpc/maskpc"
	"github.com/plonkish/zkmlpc/mle"
	"github.com/plonkish/zkmlpc/transcript"
)

// Prove runs the blinded sumcheck for f and returns the proof together with
// the claimed hypercube sum. The transcript must come from NewTranscript for
// f's variable count, and the committer key must support degree hidingBound
// over the same variables.
//
// Rounds run over h = f + r1*g, where g is a fresh sum-to-zero mask and r1
// is derived after the mask commitment is absorbed. The mask's separable
// shape keeps each round cheap: its share of the round polynomial is its
// i-th univariate scaled by the number of still-free hypercube points, plus
// a constant collecting the already-fixed and still-free univariates.
func Prove(ck *maskpc.CommitterKey, f *mle.Dense, hidingBound int, ts *transcript.Transcript, rng io.Reader) (*ZKProof, fr.Element, error) {
	var zero fr.Element
	n := f.NumVars
	if n != ck.NumVars {
		return nil, zero, fmt.Errorf("%w: polynomial has %d variables, mask key has %d",
			ErrDimensionMismatch, n, ck.NumVars)
	}
	if hidingBound < 1 {
		return nil, zero, maskpc.ErrDegreeIsZero
	}

	g, err := maskpc.Generate(rng, n, hidingBound, true)
	if err != nil {
		return nil, zero, err
	}
	gCommit, err := maskpc.Commit(ck, g)
	if err != nil {
		return nil, zero, err
	}
	if err := ts.Append("r1", &gCommit); err != nil {
		return nil, zero, err
	}
	r1, err := ts.ChallengeScalar("r1")
	if err != nil {
		return nil, zero, err
	}

	claimedSum := f.Sum()
	us := g.Univariates(hidingBound)

	// suffix[i] = sum_{j >= i} u_j(0) + u_j(1), the mask univariates not yet
	// touched by round i.
	one := fr.One()
	suffix := make([]fr.Element, n+1)
	for i := n - 1; i >= 0; i-- {
		atOne := evalUnivariate(us[i], one)
		suffix[i].Add(&suffix[i+1], &us[i][0])
		suffix[i].Add(&suffix[i], &atOne)
	}

	cur := f.Clone()
	rounds := make([][]fr.Element, n)
	point := make([]fr.Element, n)
	var fixed fr.Element // sum_{j < i} u_j(r_j)
	for i := 0; i < n; i++ {
		m := n - i - 1 // variables still free after this round

		// Mask share: 2^m*(u_i(X) + fixed) + 2^(m-1)*suffix[i+1], then scale
		// by r1. Each free variable splits the remaining hypercube evenly.
		round := make([]fr.Element, hidingBound+1)
		pow := pow2(m)
		for d := 0; d <= hidingBound; d++ {
			round[d].Mul(&pow, &us[i][d])
		}
		var c fr.Element
		c.Mul(&pow, &fixed)
		round[0].Add(&round[0], &c)
		if m > 0 {
			powHalf := pow2(m - 1)
			c.Mul(&powHalf, &suffix[i+1])
			round[0].Add(&round[0], &c)
		}
		for d := range round {
			round[d].Mul(&round[d], &r1)
		}

		// Multilinear share: the partial sum over the folded table is linear
		// in the round variable.
		half := len(cur.Evals) >> 1
		var c0, c1, diff fr.Element
		for b := 0; b < half; b++ {
			c0.Add(&c0, &cur.Evals[2*b])
			diff.Sub(&cur.Evals[2*b+1], &cur.Evals[2*b])
			c1.Add(&c1, &diff)
		}
		round[0].Add(&round[0], &c0)
		round[1].Add(&round[1], &c1)
		rounds[i] = round

		if err := appendCoeffs(ts, roundID(i), round); err != nil {
			return nil, zero, err
		}
		r, err := ts.ChallengeScalar(roundID(i))
		if err != nil {
			return nil, zero, err
		}
		point[i] = r
		cur = cur.FixVariable(r)
		u := evalUnivariate(us[i], r)
		fixed.Add(&fixed, &u)
	}

	gProof, err := maskpc.Open(ck, g, point)
	if err != nil {
		return nil, zero, err
	}
	gValue, err := g.Evaluate(point)
	if err != nil {
		return nil, zero, err
	}

	return &ZKProof{
		GCommit: gCommit,
		Rounds:  rounds,
		Info:    PolynomialInfo{NumVariables: n, MaxDegree: hidingBound},
		GProof:  gProof,
		GValue:  gValue,
	}, claimedSum, nil
}

func pow2(m int) fr.Element {
	p := fr.One()
	for i := 0; i < m; i++ {
		p.Add(&p, &p)
	}
	return p
}
