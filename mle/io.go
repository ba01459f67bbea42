package mle

import (
	"fmt"
	"io"

	"github.com/plonkish/zkmlpc/encoder"
)

// WriteJSON writes the polynomial as JSON, for witness interchange with
// tooling that produces evaluation vectors.
func (d *Dense) WriteJSON(w io.Writer) (int64, error) {
	return encoder.Encode(w, d)
}

// ReadJSON reads a polynomial written by WriteJSON and validates that the
// evaluation vector matches the declared number of variables.
func ReadJSON(r io.Reader) (*Dense, error) {
	var d Dense
	if _, err := encoder.Decode(r, &d); err != nil {
		return nil, err
	}
	if len(d.Evals) != 1<<d.NumVars {
		return nil, fmt.Errorf("%w: %d evaluations for %d variables",
			ErrInvalidEvaluations, len(d.Evals), d.NumVars)
	}
	return &d, nil
}
