package pedersen

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duskpool/darkpool-go/pkg/math/curve"
)

func TestCommitVerify(t *testing.T) {
	value := curve.NewScalarUInt64(12345)
	c, o := Commit(rand.Reader, value)

	assert.True(t, c.Verify(o))
	require.NoError(t, c.Validate())

	bad := &Opening{Value: curve.NewScalarUInt64(12346), Blinding: o.Blinding}
	assert.False(t, c.Verify(bad))
}

func TestHomomorphicAdd(t *testing.T) {
	v1, v2 := curve.NewScalarUInt64(1000), curve.NewScalarUInt64(2000)
	c1, o1 := Commit(rand.Reader, v1)
	c2, o2 := Commit(rand.Reader, v2)

	sum := c1.Add(c2)
	opening := o1.Add(o2)

	assert.True(t, sum.Verify(opening))
	assert.True(t, opening.Value.Equal(curve.NewScalarUInt64(3000)))
	assert.True(t, sum.Equal(commitWith(opening.Value, opening.Blinding)))
}

// Committing to 100 and subtracting an identical commitment must leave the
// zero commitment with a zero opening.
func TestSubtractToZero(t *testing.T) {
	value := curve.NewScalarUInt64(100)
	blinding := curve.NewScalarUInt64(7)
	c := commitWith(value, blinding)
	o := &Opening{Value: value, Blinding: blinding}

	diff := c.Sub(c)
	opening := o.Sub(o)

	assert.True(t, diff.IsZero())
	assert.True(t, opening.Value.IsZero())
	assert.True(t, opening.Blinding.IsZero())
	assert.True(t, diff.Verify(opening))
}

// Statistical binding sanity: distinct openings give distinct points.
func TestDistinctOpeningsDistinctPoints(t *testing.T) {
	seen := make(map[string]bool)
	for i := uint64(0); i < 64; i++ {
		c := commitWith(curve.NewScalarUInt64(i), curve.NewScalarUInt64(i+1))
		data, err := c.MarshalBinary()
		require.NoError(t, err)
		key := string(data)
		assert.False(t, seen[key], "commitment collision")
		seen[key] = true
	}
}

func TestHidingFreshBlindings(t *testing.T) {
	value := curve.NewScalarUInt64(555)
	c1, _ := Commit(rand.Reader, value)
	c2, _ := Commit(rand.Reader, value)
	assert.False(t, c1.Equal(c2), "same value with fresh blindings must give different points")
}

func TestMarshalRoundTrip(t *testing.T) {
	c, _ := Commit(rand.Reader, curve.NewScalarUInt64(9))
	data, err := c.MarshalBinary()
	require.NoError(t, err)
	var c2 Commitment
	require.NoError(t, c2.UnmarshalBinary(data))
	assert.True(t, c.Equal(&c2))
}

func TestValidateRejectsIdentity(t *testing.T) {
	zero := commitWith(curve.NewScalar(), curve.NewScalar())
	assert.Error(t, zero.Validate())
	var nilC *Commitment
	assert.Error(t, nilC.Validate())
}
