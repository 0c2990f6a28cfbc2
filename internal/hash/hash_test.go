package hash

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSumDeterministic(t *testing.T) {
	h1 := New()
	require.NoError(t, h1.WriteAny([]byte("hello"), uint64(42)))
	h2 := New()
	require.NoError(t, h2.WriteAny([]byte("hello"), uint64(42)))
	assert.Equal(t, h1.Sum(), h2.Sum())
}

func TestDomainSeparation(t *testing.T) {
	// The same raw bytes written as different types must hash differently.
	h1 := New()
	require.NoError(t, h1.WriteAny([]byte("42")))
	h2 := New()
	require.NoError(t, h2.WriteAny("42"))
	assert.NotEqual(t, h1.Sum(), h2.Sum())
}

func TestFramingPreventsSplicing(t *testing.T) {
	// ("ab","c") and ("a","bc") must not collide.
	h1 := New()
	require.NoError(t, h1.WriteAny([]byte("ab"), []byte("c")))
	h2 := New()
	require.NoError(t, h2.WriteAny([]byte("a"), []byte("bc")))
	assert.NotEqual(t, h1.Sum(), h2.Sum())
}

func TestCloneIndependent(t *testing.T) {
	h := New()
	require.NoError(t, h.WriteAny([]byte("prefix")))
	c := h.Clone()
	require.NoError(t, c.WriteAny([]byte("extra")))
	assert.NotEqual(t, h.Sum(), c.Sum())
}

func TestWriteBigInt(t *testing.T) {
	h := New()
	require.NoError(t, h.WriteAny(big.NewInt(1234)))
	assert.Error(t, New().WriteAny(big.NewInt(-1)))
	var nilInt *big.Int
	assert.Error(t, New().WriteAny(nilInt))
	assert.Len(t, h.Sum(), DigestLengthBytes)
}

func TestCommitDecommit(t *testing.T) {
	h := New()
	c, d, err := h.Commit(rand.Reader, []byte("payload"), uint64(7))
	require.NoError(t, err)

	assert.True(t, h.Decommit(c, d, []byte("payload"), uint64(7)))
	assert.False(t, h.Decommit(c, d, []byte("payload"), uint64(8)), "changed data must not decommit")
	assert.False(t, h.Decommit(c, nil, []byte("payload"), uint64(7)), "missing salt must not decommit")

	c2, _, err := h.Commit(rand.Reader, []byte("payload"), uint64(7))
	require.NoError(t, err)
	assert.NotEqual(t, c, c2, "fresh salts must give fresh commitments")
}
