// Package sample draws scalar field elements from a caller-supplied
// randomness source.
package sample

import (
	"crypto/rand"
	"io"
	"math/big"

	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Fr returns a uniformly random field element read from rng.
func Fr(rng io.Reader) (fr.Element, error) {
	var e fr.Element
	b, err := rand.Int(rng, fr.Modulus())
	if err != nil {
		return e, err
	}
	e.SetBigInt(b)
	return e, nil
}

// Vector returns n uniformly random field elements read from rng.
func Vector(rng io.Reader, n int) ([]fr.Element, error) {
	v := make([]fr.Element, n)
	for i := range v {
		var err error
		if v[i], err = Fr(rng); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// G1 returns a uniformly random G1 element, as a random scalar multiple of
// the curve generator.
func G1(rng io.Reader) (bn254.G1Affine, error) {
	var p bn254.G1Affine
	s, err := Fr(rng)
	if err != nil {
		return p, err
	}
	var sBig big.Int
	s.BigInt(&sBig)
	_, _, g1, _ := bn254.Generators()
	p.ScalarMultiplication(&g1, &sBig)
	return p, nil
}

// G2 returns a uniformly random G2 element.
func G2(rng io.Reader) (bn254.G2Affine, error) {
	var p bn254.G2Affine
	s, err := Fr(rng)
	if err != nil {
		return p, err
	}
	var sBig big.Int
	s.BigInt(&sBig)
	_, _, _, g2 := bn254.Generators()
	p.ScalarMultiplication(&g2, &sBig)
	return p, nil
}
