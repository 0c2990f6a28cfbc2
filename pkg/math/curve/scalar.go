package curve

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/cronokirby/saferith"
	"github.com/duskpool/darkpool-go/internal/params"
)

// Scalar is an integer mod N, the order of the group.
// The zero value is the scalar 0 and ready to use.
type Scalar struct {
	s big.Int
}

// NewScalar returns a new zero Scalar.
func NewScalar() *Scalar {
	return &Scalar{}
}

// NewScalarBigInt returns a new Scalar reduced from a big.Int.
func NewScalarBigInt(n *big.Int) *Scalar {
	var s Scalar
	return s.SetBigInt(n)
}

// NewScalarUInt64 returns a new Scalar from a small value, typically an amount.
func NewScalarUInt64(n uint64) *Scalar {
	var s Scalar
	s.s.SetUint64(n)
	return &s
}

// Add sets s = x + y mod N, and returns s.
func (s *Scalar) Add(x, y *Scalar) *Scalar {
	s.s.Add(&x.s, &y.s)
	s.s.Mod(&s.s, N)
	return s
}

// Subtract sets s = x - y mod N, and returns s.
func (s *Scalar) Subtract(x, y *Scalar) *Scalar {
	s.s.Sub(&x.s, &y.s)
	s.s.Mod(&s.s, N)
	return s
}

// Negate sets s = -x mod N, and returns s.
func (s *Scalar) Negate(x *Scalar) *Scalar {
	s.s.Neg(&x.s)
	s.s.Mod(&s.s, N)
	return s
}

// Multiply sets s = x * y mod N, and returns s.
func (s *Scalar) Multiply(x, y *Scalar) *Scalar {
	s.s.Mul(&x.s, &y.s)
	s.s.Mod(&s.s, N)
	return s
}

// MultiplyAdd sets s = x * y + z mod N, and returns s.
func (s *Scalar) MultiplyAdd(x, y, z *Scalar) *Scalar {
	var r Scalar
	r.s.Mul(&x.s, &y.s)
	r.s.Add(&r.s, &z.s)
	r.s.Mod(&r.s, N)
	return s.Set(&r)
}

// Invert sets s = x⁻¹ mod N, and returns s. It panics when x is zero.
func (s *Scalar) Invert(x *Scalar) *Scalar {
	s.s.Set(modInverse(&x.s, N))
	return s
}

// Set sets s = x, and returns s.
func (s *Scalar) Set(x *Scalar) *Scalar {
	s.s.Set(&x.s)
	return s
}

// SetBigInt sets s to n reduced mod N, and returns s.
func (s *Scalar) SetBigInt(n *big.Int) *Scalar {
	s.s.Mod(n, N)
	return s
}

// SetNat sets s to n reduced mod N, and returns s.
func (s *Scalar) SetNat(n *saferith.Nat) *Scalar {
	s.s.SetBytes(n.Bytes())
	s.s.Mod(&s.s, N)
	return s
}

// SetBytes sets s to the big-endian integer b reduced mod N, and returns s.
func (s *Scalar) SetBytes(b []byte) *Scalar {
	s.s.SetBytes(b)
	s.s.Mod(&s.s, N)
	return s
}

// Equal reports whether s and x represent the same residue.
func (s *Scalar) Equal(x *Scalar) bool {
	return s.s.Cmp(&x.s) == 0
}

// IsZero reports whether s is the zero scalar.
func (s *Scalar) IsZero() bool {
	return s.s.Sign() == 0
}

// BigInt returns a copy of the underlying integer.
func (s *Scalar) BigInt() *big.Int {
	return new(big.Int).Set(&s.s)
}

// Bytes returns s as a fixed-width big-endian slice.
func (s *Scalar) Bytes() []byte {
	out := make([]byte, params.BytesScalar)
	s.s.FillBytes(out)
	return out
}

// Act computes k⋅p with the double-and-add ladder, scanning the bits of k
// from least to most significant. k is already reduced mod N by construction;
// k = 0 or p = ∞ yield the identity.
func (s *Scalar) Act(p *Point) *Point {
	result := NewIdentityPoint()
	if s.IsZero() || p.IsIdentity() {
		return result
	}
	addend := NewIdentityPoint().Set(p)
	k := s.BigInt()
	for i := 0; i < k.BitLen(); i++ {
		if k.Bit(i) == 1 {
			result.Add(result, addend)
		}
		addend.Double(addend)
	}
	return result
}

// ActOnBase computes k⋅G.
func (s *Scalar) ActOnBase() *Point {
	return s.Act(Generator())
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (s *Scalar) MarshalBinary() ([]byte, error) {
	return s.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
// The input must be exactly params.BytesScalar bytes and already reduced:
// a scalar at or above N is malformed input, not something to coerce.
func (s *Scalar) UnmarshalBinary(data []byte) error {
	if len(data) != params.BytesScalar {
		return errors.New("curve: invalid scalar length")
	}
	var n big.Int
	n.SetBytes(data)
	if n.Cmp(N) >= 0 {
		return errors.New("curve: scalar not reduced mod N")
	}
	s.s.Set(&n)
	return nil
}

// MarshalText implements encoding.TextMarshaler as big-endian hex, the
// representation exported notes use.
func (s *Scalar) MarshalText() ([]byte, error) {
	return []byte(hex.EncodeToString(s.Bytes())), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Scalar) UnmarshalText(text []byte) error {
	data, err := hex.DecodeString(string(text))
	if err != nil {
		return fmt.Errorf("curve: scalar hex: %w", err)
	}
	return s.UnmarshalBinary(data)
}

// WriteTo implements io.WriterTo.
func (s *Scalar) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(s.Bytes())
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain.
func (*Scalar) Domain() string { return "Scalar" }
