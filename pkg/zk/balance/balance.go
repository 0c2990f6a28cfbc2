// Package zkbalance proves possession of the secret key behind a funded
// trading identity, without revealing it.
//
// The proof is a Fiat-Shamir Schnorr proof of knowledge of x with X = x⋅G,
// with the challenge transcript bound to the trader identity and the asset
// being traded. The binding is what stops a proof from being replayed by a
// different trader or against a different asset.
package zkbalance

import (
	"io"

	"github.com/duskpool/darkpool-go/internal/hash"
	"github.com/duskpool/darkpool-go/pkg/math/curve"
	"github.com/duskpool/darkpool-go/pkg/math/sample"
)

// Proof is a non-interactive balance proof.
type Proof struct {
	// C = k⋅G for the prover's ephemeral k.
	C *curve.Point
	// E is the transcript challenge. Verifiers recompute it; a stored
	// challenge that does not match the transcript is a hard rejection.
	E *curve.Scalar
	// Z = k + e⋅x mod N.
	Z *curve.Scalar
}

// challenge derives e from the transcript (C, X, trader, asset).
func challenge(h *hash.Hash, c, public *curve.Point, trader, assetID string) (*curve.Scalar, error) {
	h = h.Clone()
	if err := h.WriteAny(c, public, trader, assetID); err != nil {
		return nil, err
	}
	return curve.FromHash(h.Sum()), nil
}

// NewProof proves knowledge of secret with public = secret⋅G, bound to
// (trader, assetID). The ephemeral nonce is drawn from rand and never reused.
func NewProof(rand io.Reader, h *hash.Hash, secret *curve.Scalar, trader, assetID string) (*Proof, error) {
	k := sample.ScalarUnit(rand)
	c := k.ActOnBase()

	e, err := challenge(h, c, secret.ActOnBase(), trader, assetID)
	if err != nil {
		return nil, err
	}

	return &Proof{
		C: c,
		E: e,
		Z: curve.NewScalar().MultiplyAdd(e, secret, k), // z = e⋅x + k mod N
	}, nil
}

// IsValid rejects structurally malformed proofs before any verification work.
func (p *Proof) IsValid() bool {
	if p == nil || p.C == nil || p.E == nil || p.Z == nil {
		return false
	}
	if p.C.IsIdentity() || p.Z.IsZero() {
		return false
	}
	return true
}

// Verify checks the proof against the claimed public key and binding.
// There is no partial credit: any mismatch, in the recomputed challenge or
// the group equation, rejects the proof.
func (p *Proof) Verify(h *hash.Hash, public *curve.Point, trader, assetID string) bool {
	if !p.IsValid() {
		return false
	}
	if public == nil || public.IsIdentity() {
		return false
	}

	e, err := challenge(h, p.C, public, trader, assetID)
	if err != nil || !e.Equal(p.E) {
		return false
	}

	lhs := p.Z.ActOnBase()                         // z⋅G
	rhs := new(curve.Point).Add(p.C, e.Act(public)) // C + e⋅X
	return lhs.Equal(rhs)
}
