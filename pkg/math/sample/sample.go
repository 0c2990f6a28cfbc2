// Package sample draws the random values the protocol needs from an
// injectable io.Reader.
//
// Production callers pass crypto/rand.Reader; tests may pass a deterministic
// stream. Crypto packages never accept raw caller-chosen scalars as
// randomness: nonce reuse across two encryptions or proofs leaks secrets,
// so randomness only ever enters through a reader.
package sample

import (
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/duskpool/darkpool-go/internal/params"
	"github.com/duskpool/darkpool-go/pkg/math/curve"
)

const maxIterations = 255

var errMaxIterations = fmt.Errorf("sample: failed to generate after %d iterations", maxIterations)

func mustReadBits(rand io.Reader, buf []byte) {
	for i := 0; i < maxIterations; i++ {
		if _, err := io.ReadFull(rand, buf); err == nil {
			return
		}
	}
	panic(errMaxIterations)
}

// ModN samples an element of ℤₙ by rejection.
func ModN(rand io.Reader, n *saferith.Modulus) *saferith.Nat {
	out := new(saferith.Nat)
	buf := make([]byte, (n.BitLen()+7)/8)
	for {
		mustReadBits(rand, buf)
		out.SetBytes(buf)
		_, _, lt := out.CmpMod(n)
		if lt == 1 {
			return out
		}
	}
}

// Scalar samples a uniform scalar mod the curve order.
func Scalar(rand io.Reader) *curve.Scalar {
	return curve.NewScalar().SetNat(ModN(rand, curve.Order()))
}

// ScalarUnit samples a uniform non-zero scalar.
// Blinding factors and proof nonces must not be zero, which would void the
// hiding they provide.
func ScalarUnit(rand io.Reader) *curve.Scalar {
	for i := 0; i < maxIterations; i++ {
		s := Scalar(rand)
		if !s.IsZero() {
			return s
		}
	}
	panic(errMaxIterations)
}

// ScalarPointPair samples a fresh keypair (x, x⋅G).
func ScalarPointPair(rand io.Reader) (*curve.Scalar, *curve.Point) {
	s := ScalarUnit(rand)
	return s, s.ActOnBase()
}

// Salt samples the fixed-length salt that binds an order's commit hash to
// its reveal.
func Salt(rand io.Reader) ([]byte, error) {
	salt := make([]byte, params.BytesSalt)
	if _, err := io.ReadFull(rand, salt); err != nil {
		return nil, fmt.Errorf("sample: salt: %w", err)
	}
	return salt, nil
}
