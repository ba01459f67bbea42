package sumcheck

import (
	"encoding/binary"
	"io"

	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/plonkish/zkmlpc/maskpc"
)

// WriteTo writes the proof in canonical compressed form.
func (p *ZKProof) WriteTo(w io.Writer) (int64, error) {
	header := []uint32{
		uint32(p.Info.NumVariables),
		uint32(p.Info.MaxDegree),
		uint32(len(p.Rounds)),
	}
	var n int64
	for _, h := range header {
		if err := binary.Write(w, binary.BigEndian, h); err != nil {
			return n, err
		}
		n += 4
	}

	enc := bn254.NewEncoder(w)
	if err := enc.Encode(&p.GCommit); err != nil {
		return n + enc.BytesWritten(), err
	}
	for _, round := range p.Rounds {
		if err := enc.Encode(round); err != nil {
			return n + enc.BytesWritten(), err
		}
	}
	if err := enc.Encode(p.GProof.W); err != nil {
		return n + enc.BytesWritten(), err
	}
	if err := enc.Encode(&p.GValue); err != nil {
		return n + enc.BytesWritten(), err
	}
	return n + enc.BytesWritten(), nil
}

// ReadFrom reads a proof written by WriteTo. Non-canonical or off-curve
// points are rejected.
func (p *ZKProof) ReadFrom(r io.Reader) (int64, error) {
	var header [3]uint32
	var n int64
	for i := range header {
		if err := binary.Read(r, binary.BigEndian, &header[i]); err != nil {
			return n, err
		}
		n += 4
	}
	p.Info.NumVariables = int(header[0])
	p.Info.MaxDegree = int(header[1])

	dec := bn254.NewDecoder(r)
	if err := dec.Decode(&p.GCommit); err != nil {
		return n + dec.BytesRead(), err
	}
	p.Rounds = make([][]fr.Element, header[2])
	for i := range p.Rounds {
		if err := dec.Decode(&p.Rounds[i]); err != nil {
			return n + dec.BytesRead(), err
		}
	}
	p.GProof = &maskpc.Proof{}
	if err := dec.Decode(&p.GProof.W); err != nil {
		return n + dec.BytesRead(), err
	}
	if err := dec.Decode(&p.GValue); err != nil {
		return n + dec.BytesRead(), err
	}
	return n + dec.BytesRead(), nil
}
