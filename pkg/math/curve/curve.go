// Package curve implements the prime-order group used by the dark pool's
// confidential commitments and proofs.
//
// The group is secp256k1 in affine coordinates. Coordinates are field
// elements mod P, scalars are integers mod the group order N. The two moduli
// are distinct and must never be mixed up: points live mod P, exponents live
// mod N.
package curve

import (
	"math/big"

	"github.com/cronokirby/saferith"
)

// secp256k1 domain parameters. The curve equation is y² = x³ + 7 (mod P).
var (
	// P is the field prime.
	P, _ = new(big.Int).SetString("fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f", 16)
	// N is the order of the group generated by G.
	N, _ = new(big.Int).SetString("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141", 16)
	// curveB is the constant term of the curve equation. secp256k1 has A = 0.
	curveB = big.NewInt(7)
)

// order is N as a saferith modulus, shared with rejection sampling.
var order = saferith.ModulusFromNat(new(saferith.Nat).SetBytes(N.Bytes()))

// Order returns the group order as a modulus suitable for sampling.
func Order() *saferith.Modulus { return order }

// mod reduces a into the non-negative residue class mod m.
// big.Int.Mod already returns a non-negative result for positive m, but every
// reduction in this package goes through here so the invariant is in one place.
func mod(a, m *big.Int) *big.Int {
	return new(big.Int).Mod(a, m)
}

// modInverse computes a⁻¹ mod m with the extended Euclidean algorithm.
//
// It panics when a ≡ 0 or gcd(a, m) ≠ 1: a zero denominator during slope
// computation means an infinity case was not special-cased, or the inputs
// were off the curve. That is a programming error, not a runtime condition,
// and must not produce a garbage point.
func modInverse(a, m *big.Int) *big.Int {
	a = mod(a, m)
	if a.Sign() == 0 {
		panic("curve: inverse of zero")
	}

	// Extended Euclid: maintain the remainder sequence and the Bézout
	// coefficient of a.
	oldR, r := new(big.Int).Set(a), new(big.Int).Set(m)
	oldS, s := big.NewInt(1), big.NewInt(0)
	for r.Sign() != 0 {
		q := new(big.Int).Div(oldR, r)
		oldR, r = r, new(big.Int).Sub(oldR, new(big.Int).Mul(q, r))
		oldS, s = s, new(big.Int).Sub(oldS, new(big.Int).Mul(q, s))
	}
	if oldR.Cmp(big.NewInt(1)) != 0 {
		panic("curve: element is not invertible")
	}
	return mod(oldS, m)
}

// FromHash converts a hash digest to a Scalar.
//
// The digest is truncated to the bit length of the curve order and excess
// bits are shifted out, following [SECG] as OpenSSL does.
func FromHash(h []byte) *Scalar {
	orderBits := order.BitLen()
	orderBytes := (orderBits + 7) / 8
	if len(h) > orderBytes {
		h = h[:orderBytes]
	}
	s := new(saferith.Nat).SetBytes(h)
	excess := len(h)*8 - orderBits
	if excess > 0 {
		s.Rsh(s, uint(excess), -1)
	}
	return NewScalar().SetNat(s)
}
