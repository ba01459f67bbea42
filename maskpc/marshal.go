package maskpc

import (
	"io"

	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"
)

// WriteTo writes the proof in canonical compressed form.
func (p *Proof) WriteTo(w io.Writer) (int64, error) {
	enc := bn254.NewEncoder(w)
	if err := enc.Encode(p.W); err != nil {
		return enc.BytesWritten(), err
	}
	return enc.BytesWritten(), nil
}

// ReadFrom reads a proof written by WriteTo. Non-canonical or off-curve
// points are rejected.
func (p *Proof) ReadFrom(r io.Reader) (int64, error) {
	dec := bn254.NewDecoder(r)
	if err := dec.Decode(&p.W); err != nil {
		return dec.BytesRead(), err
	}
	return dec.BytesRead(), nil
}
