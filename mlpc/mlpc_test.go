package mlpc

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plonkish/zkmlpc/mle"
)

func TestSetupArguments(t *testing.T) {
	_, err := Setup(0, rand.Reader)
	assert.ErrorIs(t, err, ErrInvalidNumberOfVariables)

	_, err = SetupWithTrapdoors(3, make([]fr.Element, 2), rand.Reader)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestCommitOpenCheck(t *testing.T) {
	for n := 1; n <= 6; n++ {
		pp, err := Setup(n, rand.Reader)
		require.NoError(t, err)
		ck, vk, err := Trim(pp, n)
		require.NoError(t, err)

		p, err := mle.Rand(n, rand.Reader)
		require.NoError(t, err)
		c, err := Commit(ck, p)
		require.NoError(t, err)

		point := randomPoint(t, n)
		proof, err := Open(ck, p, point)
		require.NoError(t, err)
		value, err := p.Evaluate(point)
		require.NoError(t, err)

		ok, err := Check(vk, c, point, value, proof)
		require.NoError(t, err)
		assert.True(t, ok, "n=%d", n)

		one := fr.One()
		var wrong fr.Element
		wrong.Add(&value, &one)
		ok, err = Check(vk, c, point, wrong, proof)
		require.NoError(t, err)
		assert.False(t, ok, "n=%d accepted a wrong value", n)
	}
}

// Opening at a hypercube corner must certify the corresponding table entry.
func TestOpenAtCorner(t *testing.T) {
	const n = 4
	pp, err := Setup(n, rand.Reader)
	require.NoError(t, err)
	ck, vk, err := Trim(pp, n)
	require.NoError(t, err)

	p, err := mle.Rand(n, rand.Reader)
	require.NoError(t, err)
	c, err := Commit(ck, p)
	require.NoError(t, err)

	const corner = 0b1011
	point := make([]fr.Element, n)
	for i := range point {
		point[i].SetUint64(uint64((corner >> i) & 1))
	}
	proof, err := Open(ck, p, point)
	require.NoError(t, err)
	ok, err := Check(vk, c, point, p.Evals[corner], proof)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCheckRejectsTamperedProof(t *testing.T) {
	const n = 3
	pp, err := Setup(n, rand.Reader)
	require.NoError(t, err)
	ck, vk, err := Trim(pp, n)
	require.NoError(t, err)

	p, err := mle.Rand(n, rand.Reader)
	require.NoError(t, err)
	c, err := Commit(ck, p)
	require.NoError(t, err)
	point := randomPoint(t, n)
	proof, err := Open(ck, p, point)
	require.NoError(t, err)
	value, err := p.Evaluate(point)
	require.NoError(t, err)

	proof.Proofs[0] = vk.G
	ok, err := Check(vk, c, point, value, proof)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTrim(t *testing.T) {
	pp, err := Setup(6, rand.Reader)
	require.NoError(t, err)

	_, _, err = Trim(pp, 0)
	assert.ErrorIs(t, err, ErrInvalidNumberOfVariables)
	_, _, err = Trim(pp, 7)
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	ck, vk, err := Trim(pp, 4)
	require.NoError(t, err)
	require.Equal(t, 4, ck.NumVars)
	require.Len(t, vk.HMask, 4)

	p, err := mle.Rand(4, rand.Reader)
	require.NoError(t, err)
	c, err := Commit(ck, p)
	require.NoError(t, err)
	point := randomPoint(t, 4)
	proof, err := Open(ck, p, point)
	require.NoError(t, err)
	value, err := p.Evaluate(point)
	require.NoError(t, err)
	ok, err := Check(vk, c, point, value, proof)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSerialization(t *testing.T) {
	const n = 3
	pp, err := Setup(n, rand.Reader)
	require.NoError(t, err)
	ck, _, err := Trim(pp, n)
	require.NoError(t, err)
	p, err := mle.Rand(n, rand.Reader)
	require.NoError(t, err)
	c, err := Commit(ck, p)
	require.NoError(t, err)
	proof, err := Open(ck, p, randomPoint(t, n))
	require.NoError(t, err)

	var buf bytes.Buffer
	written, err := c.WriteTo(&buf)
	require.NoError(t, err)
	var cBack Commitment
	read, err := cBack.ReadFrom(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, written, read)
	assert.Equal(t, c.NumVars, cBack.NumVars)
	assert.True(t, c.GProduct.Equal(&cBack.GProduct))

	buf.Reset()
	_, err = proof.WriteTo(&buf)
	require.NoError(t, err)
	var pBack Proof
	_, err = pBack.ReadFrom(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, pBack.Proofs, n)
	for i := range proof.Proofs {
		assert.True(t, proof.Proofs[i].Equal(&pBack.Proofs[i]))
	}

	// Clearing the compression mask of the first point desynchronizes the
	// decoder; the canonical decoder must reject the stream.
	raw := append([]byte(nil), buf.Bytes()...)
	raw[4] &= 0x3f
	var corrupt Proof
	_, err = corrupt.ReadFrom(bytes.NewReader(raw))
	assert.Error(t, err)

	var truncated Proof
	_, err = truncated.ReadFrom(bytes.NewReader(buf.Bytes()[:buf.Len()-1]))
	assert.Error(t, err)
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
