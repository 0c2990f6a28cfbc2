// Package elgamal implements the additively homomorphic encryption of
// amounts to a recipient public key.
//
// Ciphertexts encode the plaintext on the Pedersen generator H rather than
// on G, so sums of encrypted amounts stay consistent with sums of Pedersen
// commitments under homomorphic combination.
package elgamal

import (
	"errors"
	"io"

	"github.com/duskpool/darkpool-go/pkg/math/curve"
	"github.com/duskpool/darkpool-go/pkg/math/sample"
)

type (
	// PublicKey is the recipient's point X = x⋅G.
	PublicKey = curve.Point
	// Nonce is the encryption randomness. Reusing one across two
	// encryptions under the same key leaks the difference of plaintexts.
	Nonce = curve.Scalar
)

// SecretKey is an ElGamal private key. It never leaves the owning party.
type SecretKey struct {
	sk *curve.Scalar
}

// GenerateKeyPair samples a keypair (x, x⋅G) from rand.
func GenerateKeyPair(rand io.Reader) (*SecretKey, *PublicKey) {
	x, X := sample.ScalarPointPair(rand)
	return &SecretKey{sk: x}, X
}

// Public recomputes the public key x⋅G.
func (k *SecretKey) Public() *PublicKey {
	return k.sk.ActOnBase()
}

// Scalar exposes the secret scalar to the proof layer.
func (k *SecretKey) Scalar() *curve.Scalar {
	return curve.NewScalar().Set(k.sk)
}

// String implements fmt.Stringer without leaking the key.
func (k *SecretKey) String() string {
	return "elgamal.SecretKey{…}"
}

// Ciphertext is an ElGamal ciphertext over the curve group.
type Ciphertext struct {
	// C1 = nonce⋅G
	C1 *curve.Point
	// C2 = value⋅H + nonce⋅public
	C2 *curve.Point
}

// Encrypt encrypts value to public under a nonce freshly drawn from rand.
// The nonce is returned so the encryptor can archive it in a recovery note;
// it must be treated as secret material.
func Encrypt(rand io.Reader, value *curve.Scalar, public *PublicKey) (*Ciphertext, *Nonce) {
	nonce := sample.ScalarUnit(rand)
	return encryptWithNonce(value, public, nonce), nonce
}

// encryptWithNonce is the deterministic core of Encrypt. Unexported so that
// callers cannot supply (and accidentally reuse) their own randomness.
func encryptWithNonce(value *curve.Scalar, public *PublicKey, nonce *Nonce) *Ciphertext {
	c1 := nonce.ActOnBase()
	c2 := new(curve.Point).Add(value.Act(curve.PedersenGenerator()), nonce.Act(public))
	return &Ciphertext{C1: c1, C2: c2}
}

// Add returns the component-wise sum; it decrypts to the sum of plaintexts
// under the same key.
func (c *Ciphertext) Add(other *Ciphertext) *Ciphertext {
	return &Ciphertext{
		C1: new(curve.Point).Add(c.C1, other.C1),
		C2: new(curve.Point).Add(c.C2, other.C2),
	}
}

// Sub returns the component-wise difference.
func (c *Ciphertext) Sub(other *Ciphertext) *Ciphertext {
	return &Ciphertext{
		C1: new(curve.Point).Subtract(c.C1, other.C1),
		C2: new(curve.Point).Subtract(c.C2, other.C2),
	}
}

// Valid rejects ciphertexts that cannot have come from Encrypt.
func (c *Ciphertext) Valid() bool {
	if c == nil || c.C1 == nil || c.C1.IsIdentity() ||
		c.C2 == nil || c.C2.IsIdentity() {
		return false
	}
	return true
}

// WriteTo implements io.WriterTo.
func (c *Ciphertext) WriteTo(w io.Writer) (int64, error) {
	var total int64

	for _, p := range []*curve.Point{c.C1, c.C2} {
		n, err := p.WriteTo(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Domain implements hash.WriterToWithDomain.
func (*Ciphertext) Domain() string {
	return "ElGamal Ciphertext"
}

var errNilCiphertext = errors.New("elgamal: nil ciphertext")
