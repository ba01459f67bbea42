package maskpc

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupArguments(t *testing.T) {
	_, err := Setup(1, 0, rand.Reader)
	assert.ErrorIs(t, err, ErrInvalidNumberOfVariables)

	_, err = Setup(0, 3, rand.Reader)
	assert.ErrorIs(t, err, ErrDegreeIsZero)

	_, err = SetupWithBetas(1, 3, rand.Reader, make([]fr.Element, 2))
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestCommitOpenCheck(t *testing.T) {
	for _, n := range []int{1, 2, 3, 5} {
		for _, deg := range []int{1, 2, 4} {
			pp, err := Setup(deg, n, rand.Reader)
			require.NoError(t, err)
			ck, vk, err := Trim(pp, deg)
			require.NoError(t, err)

			g, err := Generate(rand.Reader, n, deg, false)
			require.NoError(t, err)
			c, err := Commit(ck, g)
			require.NoError(t, err)

			point := randomPoint(t, n)
			proof, err := Open(ck, g, point)
			require.NoError(t, err)
			value, err := g.Evaluate(point)
			require.NoError(t, err)

			ok, err := Check(vk, c, point, value, proof)
			require.NoError(t, err)
			assert.True(t, ok, "n=%d deg=%d", n, deg)

			one := fr.One()
			var wrong fr.Element
			wrong.Add(&value, &one)
			ok, err = Check(vk, c, point, wrong, proof)
			require.NoError(t, err)
			assert.False(t, ok, "n=%d deg=%d accepted a wrong value", n, deg)
		}
	}
}

func TestCheckRejectsTamperedProof(t *testing.T) {
	const (
		n   = 3
		deg = 2
	)
	pp, err := Setup(deg, n, rand.Reader)
	require.NoError(t, err)
	ck, vk, err := Trim(pp, deg)
	require.NoError(t, err)

	g, err := Generate(rand.Reader, n, deg, true)
	require.NoError(t, err)
	c, err := Commit(ck, g)
	require.NoError(t, err)

	point := randomPoint(t, n)
	proof, err := Open(ck, g, point)
	require.NoError(t, err)
	value, err := g.Evaluate(point)
	require.NoError(t, err)

	proof.W[0] = vk.G
	ok, err := Check(vk, c, point, value, proof)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTrim(t *testing.T) {
	const n = 3
	pp, err := Setup(4, n, rand.Reader)
	require.NoError(t, err)

	_, _, err = Trim(pp, 0)
	assert.ErrorIs(t, err, ErrDegreeIsZero)
	_, _, err = Trim(pp, 5)
	assert.ErrorIs(t, err, ErrUnsupportedDegree)

	ck, vk, err := Trim(pp, 2)
	require.NoError(t, err)

	// A degree-3 term has no table entry in the trimmed key.
	one := fr.One()
	tooHigh := NewPolynomial(n, []Term{{Coeff: one, Var: 0, Deg: 3}})
	_, err = Commit(ck, tooHigh)
	assert.ErrorIs(t, err, ErrUnsupportedDegree)

	g, err := Generate(rand.Reader, n, 2, true)
	require.NoError(t, err)
	c, err := Commit(ck, g)
	require.NoError(t, err)
	point := randomPoint(t, n)
	proof, err := Open(ck, g, point)
	require.NoError(t, err)
	value, err := g.Evaluate(point)
	require.NoError(t, err)
	ok, err := Check(vk, c, point, value, proof)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestProofSerialization(t *testing.T) {
	const (
		n   = 3
		deg = 2
	)
	pp, err := Setup(deg, n, rand.Reader)
	require.NoError(t, err)
	ck, _, err := Trim(pp, deg)
	require.NoError(t, err)
	g, err := Generate(rand.Reader, n, deg, true)
	require.NoError(t, err)
	proof, err := Open(ck, g, randomPoint(t, n))
	require.NoError(t, err)

	var buf bytes.Buffer
	written, err := proof.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), written)

	var back Proof
	read, err := back.ReadFrom(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, written, read)
	require.Len(t, back.W, len(proof.W))
	for i := range proof.W {
		assert.True(t, proof.W[i].Equal(&back.W[i]))
	}

	var truncated Proof
	_, err = truncated.ReadFrom(bytes.NewReader(buf.Bytes()[:buf.Len()-1]))
	assert.Error(t, err)
}
