// Package pedersen implements the binding and hiding commitments that hide
// order amounts.
//
// A commitment is C = value⋅G + blinding⋅H. Binding rests on the discrete log
// of H with respect to G being unknown; hiding rests on the blinding factor
// staying secret. Commitments say nothing about the range of the committed
// value: amounts are unverified until a range proof layer exists.
package pedersen

import (
	"errors"
	"io"

	"github.com/duskpool/darkpool-go/pkg/math/curve"
	"github.com/duskpool/darkpool-go/pkg/math/sample"
)

// Commitment is the public commitment point. It reveals nothing about the
// committed value without the opening.
type Commitment struct {
	c *curve.Point
}

// Opening is the committer's secret bookkeeping for one commitment.
type Opening struct {
	Value    *curve.Scalar
	Blinding *curve.Scalar
}

// Commit commits to value under a fresh blinding factor drawn from rand.
func Commit(rand io.Reader, value *curve.Scalar) (*Commitment, *Opening) {
	blinding := sample.ScalarUnit(rand)
	return commitWith(value, blinding), &Opening{
		Value:    curve.NewScalar().Set(value),
		Blinding: blinding,
	}
}

// commitWith computes value⋅G + blinding⋅H. Unexported: callers outside the
// package never choose their own blinding, except through a reader.
func commitWith(value, blinding *curve.Scalar) *Commitment {
	c := new(curve.Point).Add(value.ActOnBase(), blinding.Act(curve.PedersenGenerator()))
	return &Commitment{c: c}
}

// Verify reports whether the commitment opens to the given value and blinding.
func (c *Commitment) Verify(o *Opening) bool {
	if c == nil || c.c == nil || o == nil || o.Value == nil || o.Blinding == nil {
		return false
	}
	return commitWith(o.Value, o.Blinding).c.Equal(c.c)
}

// Add returns the commitment to the sum: the point sum commits to
// (value₁+value₂, blinding₁+blinding₂).
func (c *Commitment) Add(other *Commitment) *Commitment {
	return &Commitment{c: new(curve.Point).Add(c.c, other.c)}
}

// Sub returns the commitment to the difference.
func (c *Commitment) Sub(other *Commitment) *Commitment {
	return &Commitment{c: new(curve.Point).Subtract(c.c, other.c)}
}

// Equal reports whether two commitments are the same point.
func (c *Commitment) Equal(other *Commitment) bool {
	return c.c.Equal(other.c)
}

// IsZero reports whether c commits to (0, 0), the identity point.
func (c *Commitment) IsZero() bool {
	return c.c.IsIdentity()
}

// Point returns a copy of the commitment point.
func (c *Commitment) Point() *curve.Point {
	return new(curve.Point).Set(c.c)
}

// Validate rejects commitments that cannot have come from Commit.
func (c *Commitment) Validate() error {
	if c == nil || c.c == nil {
		return errors.New("pedersen: nil commitment")
	}
	if c.c.IsIdentity() {
		return errors.New("pedersen: commitment is the identity")
	}
	return nil
}

// WriteTo implements io.WriterTo.
func (c *Commitment) WriteTo(w io.Writer) (int64, error) {
	return c.c.WriteTo(w)
}

// Domain implements hash.WriterToWithDomain.
func (*Commitment) Domain() string { return "Pedersen Commitment" }

// MarshalBinary implements encoding.BinaryMarshaler.
func (c *Commitment) MarshalBinary() ([]byte, error) {
	return c.c.MarshalBinary()
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (c *Commitment) UnmarshalBinary(data []byte) error {
	p := new(curve.Point)
	if err := p.UnmarshalBinary(data); err != nil {
		return err
	}
	c.c = p
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (c *Commitment) MarshalText() ([]byte, error) {
	return c.c.MarshalText()
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Commitment) UnmarshalText(text []byte) error {
	p := new(curve.Point)
	if err := p.UnmarshalText(text); err != nil {
		return err
	}
	c.c = p
	return nil
}

// Add returns the opening of the sum commitment, both parts mod N.
func (o *Opening) Add(other *Opening) *Opening {
	return &Opening{
		Value:    curve.NewScalar().Add(o.Value, other.Value),
		Blinding: curve.NewScalar().Add(o.Blinding, other.Blinding),
	}
}

// Sub returns the opening of the difference commitment.
func (o *Opening) Sub(other *Opening) *Opening {
	return &Opening{
		Value:    curve.NewScalar().Subtract(o.Value, other.Value),
		Blinding: curve.NewScalar().Subtract(o.Blinding, other.Blinding),
	}
}
