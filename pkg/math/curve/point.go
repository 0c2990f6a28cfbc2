package curve

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/duskpool/darkpool-go/internal/params"
)

// Point is an affine point on the curve, or the point at infinity.
// The zero value is the point at infinity.
type Point struct {
	x, y     big.Int
	infinity bool
}

// NewIdentityPoint returns the point at infinity, the group identity.
func NewIdentityPoint() *Point {
	return &Point{infinity: true}
}

// NewPoint returns the affine point (x, y) after checking that it satisfies
// the curve equation. Off-curve coordinates are rejected here so that group
// operations never see a non-conforming point.
func NewPoint(x, y *big.Int) (*Point, error) {
	p := &Point{}
	p.x.Mod(x, P)
	p.y.Mod(y, P)
	if !p.IsOnCurve() {
		return nil, errors.New("curve: point is not on the curve")
	}
	return p, nil
}

// newPointUnchecked is for package-internal constants whose coordinates are
// verified once at init.
func newPointUnchecked(x, y *big.Int) *Point {
	p := &Point{}
	p.x.Set(x)
	p.y.Set(y)
	return p
}

// IsIdentity reports whether v is the point at infinity.
func (v *Point) IsIdentity() bool {
	return v.infinity
}

// IsOnCurve reports whether v satisfies y² = x³ + 7 (mod P).
// The point at infinity is a valid group element.
func (v *Point) IsOnCurve() bool {
	if v.infinity {
		return true
	}
	// y² mod P
	lhs := new(big.Int).Mul(&v.y, &v.y)
	lhs.Mod(lhs, P)
	// x³ + 7 mod P
	rhs := new(big.Int).Mul(&v.x, &v.x)
	rhs.Mul(rhs, &v.x)
	rhs.Add(rhs, curveB)
	rhs.Mod(rhs, P)
	return lhs.Cmp(rhs) == 0
}

// Set sets v = u, and returns v.
func (v *Point) Set(u *Point) *Point {
	v.x.Set(&u.x)
	v.y.Set(&u.y)
	v.infinity = u.infinity
	return v
}

// Equal reports whether v and u are the same group element.
func (v *Point) Equal(u *Point) bool {
	if v.infinity || u.infinity {
		return v.infinity == u.infinity
	}
	return v.x.Cmp(&u.x) == 0 && v.y.Cmp(&u.y) == 0
}

// Add sets v = p + q, and returns v.
//
// All the special cases of the affine chord-and-tangent law are handled
// explicitly: either operand at infinity, p + (−p) = ∞, and p = q which
// must use the tangent formula since the chord formula would divide by zero.
func (v *Point) Add(p, q *Point) *Point {
	if p.infinity {
		return v.Set(q)
	}
	if q.infinity {
		return v.Set(p)
	}
	if p.x.Cmp(&q.x) == 0 {
		yNeg := new(big.Int).Neg(&q.y)
		yNeg.Mod(yNeg, P)
		if p.y.Cmp(yNeg) == 0 {
			// p = −q, vertical chord.
			v.infinity = true
			return v
		}
		return v.Double(p)
	}

	// slope = (y₂ − y₁) / (x₂ − x₁)
	num := new(big.Int).Sub(&q.y, &p.y)
	den := new(big.Int).Sub(&q.x, &p.x)
	slope := num.Mul(num, modInverse(den, P))
	slope.Mod(slope, P)

	// x₃ = slope² − x₁ − x₂
	x3 := new(big.Int).Mul(slope, slope)
	x3.Sub(x3, &p.x)
	x3.Sub(x3, &q.x)
	x3.Mod(x3, P)

	// y₃ = slope⋅(x₁ − x₃) − y₁
	y3 := new(big.Int).Sub(&p.x, x3)
	y3.Mul(y3, slope)
	y3.Sub(y3, &p.y)
	y3.Mod(y3, P)

	v.x.Set(x3)
	v.y.Set(y3)
	v.infinity = false
	return v
}

// Double sets v = p + p using the tangent formula, and returns v.
func (v *Point) Double(p *Point) *Point {
	if p.infinity {
		v.infinity = true
		return v
	}
	if p.y.Sign() == 0 {
		// Vertical tangent. secp256k1 has no such point, but the formula
		// below would divide by zero, so the case is handled, not computed.
		v.infinity = true
		return v
	}

	// slope = 3x² / 2y (the curve has A = 0)
	num := new(big.Int).Mul(&p.x, &p.x)
	num.Mul(num, big.NewInt(3))
	den := new(big.Int).Lsh(&p.y, 1)
	slope := num.Mul(num, modInverse(den, P))
	slope.Mod(slope, P)

	// x₃ = slope² − 2x
	x3 := new(big.Int).Mul(slope, slope)
	x3.Sub(x3, &p.x)
	x3.Sub(x3, &p.x)
	x3.Mod(x3, P)

	// y₃ = slope⋅(x − x₃) − y
	y3 := new(big.Int).Sub(&p.x, x3)
	y3.Mul(y3, slope)
	y3.Sub(y3, &p.y)
	y3.Mod(y3, P)

	v.x.Set(x3)
	v.y.Set(y3)
	v.infinity = false
	return v
}

// Negate sets v = −p, and returns v.
func (v *Point) Negate(p *Point) *Point {
	if p.infinity {
		v.infinity = true
		return v
	}
	v.x.Set(&p.x)
	v.y.Neg(&p.y)
	v.y.Mod(&v.y, P)
	v.infinity = false
	return v
}

// Subtract sets v = p − q, and returns v.
func (v *Point) Subtract(p, q *Point) *Point {
	neg := new(Point).Negate(q)
	return v.Add(p, neg)
}

// X returns a copy of the x-coordinate. It panics on the point at infinity,
// which has no affine coordinates.
func (v *Point) X() *big.Int {
	if v.infinity {
		panic("curve: point at infinity has no x-coordinate")
	}
	return new(big.Int).Set(&v.x)
}

// Y returns a copy of the y-coordinate. It panics on the point at infinity.
func (v *Point) Y() *big.Int {
	if v.infinity {
		panic("curve: point at infinity has no y-coordinate")
	}
	return new(big.Int).Set(&v.y)
}

// Hex returns the coordinates as big-endian hex field elements, the encoding
// the on-chain verifier consumes.
func (v *Point) Hex() (x, y string) {
	if v.infinity {
		return fmt.Sprintf("%064x", 0), fmt.Sprintf("%064x", 0)
	}
	return fmt.Sprintf("%064x", &v.x), fmt.Sprintf("%064x", &v.y)
}

// MarshalBinary implements encoding.BinaryMarshaler.
// Points are encoded uncompressed as 0x04 ‖ X ‖ Y; the identity is a single
// zero byte.
func (v *Point) MarshalBinary() ([]byte, error) {
	if v.infinity {
		return []byte{0x00}, nil
	}
	out := make([]byte, params.BytesPoint)
	out[0] = 0x04
	v.x.FillBytes(out[1 : 1+params.BytesField])
	v.y.FillBytes(out[1+params.BytesField:])
	return out, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
// Coordinates must be reduced mod P and on the curve; anything else is
// rejected before it can reach group arithmetic.
func (v *Point) UnmarshalBinary(data []byte) error {
	if len(data) == 1 && data[0] == 0x00 {
		v.infinity = true
		return nil
	}
	if len(data) != params.BytesPoint {
		return fmt.Errorf("curve: invalid point length %d", len(data))
	}
	if data[0] != 0x04 {
		return errors.New("curve: uncompressed tag missing")
	}
	var x, y big.Int
	x.SetBytes(data[1 : 1+params.BytesField])
	y.SetBytes(data[1+params.BytesField:])
	if x.Cmp(P) >= 0 || y.Cmp(P) >= 0 {
		return errors.New("curve: coordinate not reduced mod P")
	}
	p, err := NewPoint(&x, &y)
	if err != nil {
		return err
	}
	v.Set(p)
	return nil
}

// MarshalText implements encoding.TextMarshaler as the hex of the binary
// encoding.
func (v *Point) MarshalText() ([]byte, error) {
	data, err := v.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return []byte(hex.EncodeToString(data)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Point) UnmarshalText(text []byte) error {
	data, err := hex.DecodeString(string(text))
	if err != nil {
		return fmt.Errorf("curve: point hex: %w", err)
	}
	return v.UnmarshalBinary(data)
}

// WriteTo implements io.WriterTo.
func (v *Point) WriteTo(w io.Writer) (int64, error) {
	data, err := v.MarshalBinary()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain.
func (*Point) Domain() string { return "Point" }
