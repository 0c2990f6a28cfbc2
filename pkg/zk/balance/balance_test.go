package zkbalance

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duskpool/darkpool-go/internal/hash"
	"github.com/duskpool/darkpool-go/pkg/math/curve"
	"github.com/duskpool/darkpool-go/pkg/math/sample"
)

func TestProofRoundTrip(t *testing.T) {
	x, X := sample.ScalarPointPair(rand.Reader)

	proof, err := NewProof(rand.Reader, hash.New(), x, "trader-1", "ASSET/USD")
	require.NoError(t, err)
	assert.True(t, proof.Verify(hash.New(), X, "trader-1", "ASSET/USD"))
}

func TestProofReplayAcrossIdentities(t *testing.T) {
	x, X := sample.ScalarPointPair(rand.Reader)

	proof, err := NewProof(rand.Reader, hash.New(), x, "trader-1", "ASSET/USD")
	require.NoError(t, err)

	assert.False(t, proof.Verify(hash.New(), X, "trader-2", "ASSET/USD"), "replay under another trader must fail")
	assert.False(t, proof.Verify(hash.New(), X, "trader-1", "OTHER/USD"), "replay against another asset must fail")
}

func TestProofWrongKey(t *testing.T) {
	x, _ := sample.ScalarPointPair(rand.Reader)
	_, otherPub := sample.ScalarPointPair(rand.Reader)

	proof, err := NewProof(rand.Reader, hash.New(), x, "trader-1", "ASSET/USD")
	require.NoError(t, err)
	assert.False(t, proof.Verify(hash.New(), otherPub, "trader-1", "ASSET/USD"))
}

func TestTamperedProofRejected(t *testing.T) {
	x, X := sample.ScalarPointPair(rand.Reader)
	proof, err := NewProof(rand.Reader, hash.New(), x, "trader-1", "ASSET/USD")
	require.NoError(t, err)

	tampered := &Proof{C: proof.C, E: proof.E, Z: curve.NewScalar().Add(proof.Z, curve.NewScalarUInt64(1))}
	assert.False(t, tampered.Verify(hash.New(), X, "trader-1", "ASSET/USD"))

	forgedE := &Proof{C: proof.C, E: curve.NewScalar().Add(proof.E, curve.NewScalarUInt64(1)), Z: proof.Z}
	assert.False(t, forgedE.Verify(hash.New(), X, "trader-1", "ASSET/USD"), "stored challenge must match the recomputed one")
}

func TestInvalidProofShapes(t *testing.T) {
	_, X := sample.ScalarPointPair(rand.Reader)

	var nilProof *Proof
	assert.False(t, nilProof.Verify(hash.New(), X, "t", "a"))

	degenerate := &Proof{C: curve.NewIdentityPoint(), E: curve.NewScalarUInt64(1), Z: curve.NewScalarUInt64(1)}
	assert.False(t, degenerate.Verify(hash.New(), X, "t", "a"))

	x, _ := sample.ScalarPointPair(rand.Reader)
	proof, err := NewProof(rand.Reader, hash.New(), x, "t", "a")
	require.NoError(t, err)
	assert.False(t, proof.Verify(hash.New(), curve.NewIdentityPoint(), "t", "a"), "identity public key must be rejected")
}
