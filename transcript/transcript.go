// Package transcript wraps the gnark-crypto Fiat-Shamir transcript with the
// append/derive surface used by the commitment and sumcheck components.
//
// Challenge identifiers are registered in protocol order at construction;
// the prover and the verifier must perform the exact same Append/Challenge
// sequence or the derived scalars diverge.
package transcript

import (
	"crypto/sha256"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	fiatshamir "github.com/consensys/gnark-crypto/fiat-shamir"
)

// Serializable is anything with a canonical byte encoding. fr.Element,
// bn254.G1Affine and bn254.G2Affine all qualify.
type Serializable interface {
	Marshal() []byte
}

// Transcript is an append-only Fiat-Shamir state. Create one per proof
// session and discard it after verification.
type Transcript struct {
	fs *fiatshamir.Transcript
}

// New returns a transcript with the given ordered challenge identifiers.
func New(challengeIDs ...string) *Transcript {
	return &Transcript{
		fs: fiatshamir.NewTranscript(sha256.New(), challengeIDs...),
	}
}

// Append absorbs the canonical encodings of values under the given
// domain-separation identifier.
func (t *Transcript) Append(challengeID string, values ...Serializable) error {
	for _, v := range values {
		if err := t.fs.Bind(challengeID, v.Marshal()); err != nil {
			return err
		}
	}
	return nil
}

// ChallengeScalar derives a field element from the current transcript state.
func (t *Transcript) ChallengeScalar(challengeID string) (fr.Element, error) {
	var r fr.Element
	b, err := t.fs.ComputeChallenge(challengeID)
	if err != nil {
		return r, err
	}
	r.SetBytes(b)
	return r, nil
}
