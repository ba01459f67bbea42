package mle

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEvaluations(t *testing.T) {
	_, err := FromEvaluations(nil)
	assert.ErrorIs(t, err, ErrInvalidEvaluations)

	_, err = FromEvaluations(make([]fr.Element, 6))
	assert.ErrorIs(t, err, ErrInvalidEvaluations)

	d, err := FromEvaluations(make([]fr.Element, 8))
	require.NoError(t, err)
	assert.Equal(t, 3, d.NumVars)
}

func TestEvaluateOnHypercube(t *testing.T) {
	const n = 4
	d, err := Rand(n, rand.Reader)
	require.NoError(t, err)

	for x := 0; x < 1<<n; x++ {
		point := make([]fr.Element, n)
		for i := range point {
			point[i].SetUint64(uint64((x >> i) & 1))
		}
		v, err := d.Evaluate(point)
		require.NoError(t, err)
		assert.True(t, v.Equal(&d.Evals[x]), "corner %d", x)
	}
}

// Evaluate folds one variable at a time; cross-check against the direct
// tensor formula p(r) = sum_x eq(x, r)*p(x).
func TestEvaluateMatchesTensorFormula(t *testing.T) {
	const n = 5
	d, err := Rand(n, rand.Reader)
	require.NoError(t, err)
	point := randomPoint(t, n)

	one := fr.One()
	var expected fr.Element
	for x := range d.Evals {
		w := fr.One()
		for i := 0; i < n; i++ {
			var phi fr.Element
			if (x>>i)&1 == 1 {
				phi = point[i]
			} else {
				phi.Sub(&one, &point[i])
			}
			w.Mul(&w, &phi)
		}
		w.Mul(&w, &d.Evals[x])
		expected.Add(&expected, &w)
	}

	got, err := d.Evaluate(point)
	require.NoError(t, err)
	assert.True(t, got.Equal(&expected))

	_, err = d.Evaluate(point[:n-1])
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestSum(t *testing.T) {
	evals := make([]fr.Element, 8)
	for i := range evals {
		evals[i].SetUint64(uint64(i))
	}
	d, err := FromEvaluations(evals)
	require.NoError(t, err)

	var want fr.Element
	want.SetUint64(28)
	got := d.Sum()
	assert.True(t, got.Equal(&want))
}

func TestFixVariable(t *testing.T) {
	const n = 3
	d, err := Rand(n, rand.Reader)
	require.NoError(t, err)
	r := randomPoint(t, 1)[0]

	fixed := d.FixVariable(r)
	require.Equal(t, n-1, fixed.NumVars)

	rest := randomPoint(t, n-1)
	got, err := fixed.Evaluate(rest)
	require.NoError(t, err)
	want, err := d.Evaluate(append([]fr.Element{r}, rest...))
	require.NoError(t, err)
	assert.True(t, got.Equal(&want))
}

func TestJSONRoundTrip(t *testing.T) {
	d, err := Rand(3, rand.Reader)
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := d.WriteJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	back, err := ReadJSON(&buf)
	require.NoError(t, err)
	require.Equal(t, d.NumVars, back.NumVars)
	for i := range d.Evals {
		assert.True(t, d.Evals[i].Equal(&back.Evals[i]))
	}

	_, err = ReadJSON(bytes.NewReader([]byte(`{"numVars":3,"evaluations":["1","2"]}`)))
	assert.ErrorIs(t, err, ErrInvalidEvaluations)
}

func randomPoint(t *testing.T, n int) []fr.Element {
	t.Helper()
	point := make([]fr.Element, n)
	for i := range point {
		_, err := point[i].SetRandom()
		require.NoError(t, err)
	}
	return point
}
