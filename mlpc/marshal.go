package mlpc

import (
	"encoding/binary"
	"io"

	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"
)

// WriteTo writes the commitment in canonical compressed form.
func (c *Commitment) WriteTo(w io.Writer) (int64, error) {
	if err := binary.Write(w, binary.BigEndian, uint32(c.NumVars)); err != nil {
		return 0, err
	}
	enc := bn254.NewEncoder(w)
	if err := enc.Encode(&c.GProduct); err != nil {
		return 4 + enc.BytesWritten(), err
	}
	return 4 + enc.BytesWritten(), nil
}

// ReadFrom reads a commitment written by WriteTo. Non-canonical or off-curve
// points are rejected.
func (c *Commitment) ReadFrom(r io.Reader) (int64, error) {
	var numVars uint32
	if err := binary.Read(r, binary.BigEndian, &numVars); err != nil {
		return 0, err
	}
	c.NumVars = int(numVars)
	dec := bn254.NewDecoder(r)
	if err := dec.Decode(&c.GProduct); err != nil {
		return 4 + dec.BytesRead(), err
	}
	return 4 + dec.BytesRead(), nil
}

// WriteTo writes the proof in canonical compressed form.
func (p *Proof) WriteTo(w io.Writer) (int64, error) {
	enc := bn254.NewEncoder(w)
	if err := enc.Encode(p.Proofs); err != nil {
		return enc.BytesWritten(), err
	}
	return enc.BytesWritten(), nil
}

// ReadFrom reads a proof written by WriteTo.
func (p *Proof) ReadFrom(r io.Reader) (int64, error) {
	dec := bn254.NewDecoder(r)
	if err := dec.Decode(&p.Proofs); err != nil {
		return dec.BytesRead(), err
	}
	return dec.BytesRead(), nil
}
