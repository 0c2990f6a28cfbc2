package curve

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/duskpool/darkpool-go/internal/params"
	"golang.org/x/crypto/sha3"
)

// PedersenHTag is the domain separation tag under which the secondary
// generator H was derived. Bumping the protocol version means bumping this
// tag and re-deriving H.
const PedersenHTag = "DUSKPOOL_PEDERSEN_H_V1"

var (
	gX, _ = new(big.Int).SetString("79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798", 16)
	gY, _ = new(big.Int).SetString("483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8", 16)

	// H was produced offline by DeriveH(PedersenHTag); the search succeeded
	// at counter 0. Its discrete log with respect to G is unknown, which is
	// what makes Pedersen commitments binding. It is a protocol constant,
	// never recomputed at runtime.
	hX, _ = new(big.Int).SetString("025280c44aef09564c55810ed86c20babbca9bcd51542b677218a3942bc03010", 16)
	hY, _ = new(big.Int).SetString("a1436dcebea555fc269f2cdc8c9a036fd1434e0cb75259e173fdabd527a9e5e8", 16)

	basePoint     = newPointUnchecked(gX, gY)
	pedersenPoint = newPointUnchecked(hX, hY)
)

func init() {
	if err := checkGenerators(); err != nil {
		panic(err)
	}
}

// Generator returns G, the canonical base point.
func Generator() *Point {
	return new(Point).Set(basePoint)
}

// PedersenGenerator returns H, the hash-to-curve generator used for blinding
// factors and for encoding amounts in ciphertexts.
func PedersenGenerator() *Point {
	return new(Point).Set(pedersenPoint)
}

// DeriveH runs the try-and-increment hash-to-curve search for a given domain
// tag: x candidates are SHA3-256(tag ‖ counter) until one lands on the curve,
// and the even-y solution is taken. This is how the hard-coded H constant was
// produced; at runtime it only serves conformance tests.
func DeriveH(tag string) (*Point, uint32, error) {
	exp := new(big.Int).Add(P, big.NewInt(1))
	exp.Rsh(exp, 2) // (P+1)/4, valid square root exponent since P ≡ 3 mod 4

	var ctr [4]byte
	for counter := uint32(0); counter < params.HashToCurveMaxCounter; counter++ {
		binary.BigEndian.PutUint32(ctr[:], counter)
		h := sha3.New256()
		h.Write([]byte(tag))
		h.Write(ctr[:])
		x := new(big.Int).SetBytes(h.Sum(nil))
		x.Mod(x, P)

		// rhs = x³ + 7
		rhs := new(big.Int).Mul(x, x)
		rhs.Mul(rhs, x)
		rhs.Add(rhs, curveB)
		rhs.Mod(rhs, P)

		y := new(big.Int).Exp(rhs, exp, P)
		check := new(big.Int).Mul(y, y)
		check.Mod(check, P)
		if check.Cmp(rhs) != 0 {
			// x³ + 7 is a non-residue, no point with this x.
			continue
		}
		if y.Bit(0) == 1 {
			y.Sub(P, y)
		}
		p, err := NewPoint(x, y)
		if err != nil {
			return nil, 0, err
		}
		return p, counter, nil
	}
	return nil, 0, fmt.Errorf("curve: no point found for tag %q within %d counters", tag, params.HashToCurveMaxCounter)
}

// checkGenerators rejects a corrupted or maliciously substituted H.
// H = k⋅G for small k (in particular 2G) would silently void the binding
// property of every commitment, so this is a hard failure at package init.
func checkGenerators() error {
	if !basePoint.IsOnCurve() {
		return fmt.Errorf("curve: base point G is not on the curve")
	}
	if !pedersenPoint.IsOnCurve() {
		return fmt.Errorf("curve: generator H is not on the curve")
	}
	acc := NewIdentityPoint()
	for k := 1; k <= 256; k++ {
		acc.Add(acc, basePoint)
		if acc.Equal(pedersenPoint) {
			return fmt.Errorf("curve: generator H equals %d⋅G", k)
		}
	}
	return nil
}
