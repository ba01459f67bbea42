package zkml

import (
	"io"

	"github.com/plonkish/zkmlpc/encoder"
)

// SaveParams snapshots the universal parameters in gob form. The snapshot is
// a same-binary interchange format for caching a generated SRS; it is not
// validated on load, so only read snapshots you wrote.
func SaveParams(w io.Writer, pp *UniversalParams) (int64, error) {
	return encoder.EncodeGob(w, pp)
}

// LoadParams reads a snapshot written by SaveParams.
func LoadParams(r io.Reader) (*UniversalParams, error) {
	var pp UniversalParams
	if _, err := encoder.DecodeGob(r, &pp); err != nil {
		return nil, err
	}
	return &pp, nil
}
