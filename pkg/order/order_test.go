package order

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duskpool/darkpool-go/internal/hash"
	"github.com/duskpool/darkpool-go/pkg/math/sample"
)

var testParams = Params{
	Side:      Buy,
	GiveAsset: "USD",
	WantAsset: "DSK",
	Price:     250,
	Amount:    1000,
}

func newTestOrder(t *testing.T) *Order {
	t.Helper()
	secret, _ := sample.ScalarPointPair(rand.Reader)
	o, err := New(rand.Reader, testParams, "trader-1", secret, 10_000)
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	o := newTestOrder(t)

	assert.NotEmpty(t, o.ID)
	assert.Equal(t, PhaseCommitted, o.Phase())
	assert.NoError(t, o.CommitHash.Validate())
	assert.NoError(t, o.Salt.Validate())
	require.NoError(t, o.AmountCommitment.Validate())
	assert.True(t, o.Proof.IsValid())
	require.NoError(t, o.CheckReveal())
}

func TestNewOrderInsufficientBalance(t *testing.T) {
	secret, _ := sample.ScalarPointPair(rand.Reader)
	_, err := New(rand.Reader, testParams, "trader-1", secret, 999)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestNewOrderMissingKey(t *testing.T) {
	_, err := New(rand.Reader, testParams, "trader-1", nil, 10_000)
	assert.ErrorIs(t, err, ErrMissingSecretKey)
}

func TestNewOrderRejectsMalformedParams(t *testing.T) {
	secret, _ := sample.ScalarPointPair(rand.Reader)
	for name, params := range map[string]Params{
		"bad side":    {GiveAsset: "USD", WantAsset: "DSK", Price: 1, Amount: 1},
		"same asset":  {Side: Buy, GiveAsset: "USD", WantAsset: "USD", Price: 1, Amount: 1},
		"empty asset": {Side: Buy, GiveAsset: "", WantAsset: "DSK", Price: 1, Amount: 1},
		"zero price":  {Side: Buy, GiveAsset: "USD", WantAsset: "DSK", Price: 0, Amount: 1},
		"zero amount": {Side: Buy, GiveAsset: "USD", WantAsset: "DSK", Price: 1, Amount: 0},
	} {
		_, err := New(rand.Reader, params, "trader-1", secret, 10_000)
		assert.Error(t, err, name)
	}
}

func TestOrderHashDeterministic(t *testing.T) {
	salt, err := sample.Salt(rand.Reader)
	require.NoError(t, err)

	h1, err := ComputeOrderHash(250, 1000, Buy, "USD", "DSK", hash.Decommitment(salt))
	require.NoError(t, err)
	h2, err := ComputeOrderHash(250, 1000, Buy, "USD", "DSK", hash.Decommitment(salt))
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}

func TestOrderHashFieldSensitivity(t *testing.T) {
	salt, err := sample.Salt(rand.Reader)
	require.NoError(t, err)
	base, err := ComputeOrderHash(250, 1000, Buy, "USD", "DSK", hash.Decommitment(salt))
	require.NoError(t, err)

	otherSalt, err := sample.Salt(rand.Reader)
	require.NoError(t, err)

	variants := []hash.Commitment{}
	for _, f := range []func() (hash.Commitment, error){
		func() (hash.Commitment, error) { return ComputeOrderHash(251, 1000, Buy, "USD", "DSK", hash.Decommitment(salt)) },
		func() (hash.Commitment, error) { return ComputeOrderHash(250, 1001, Buy, "USD", "DSK", hash.Decommitment(salt)) },
		func() (hash.Commitment, error) { return ComputeOrderHash(250, 1000, Sell, "USD", "DSK", hash.Decommitment(salt)) },
		func() (hash.Commitment, error) { return ComputeOrderHash(250, 1000, Buy, "EUR", "DSK", hash.Decommitment(salt)) },
		func() (hash.Commitment, error) { return ComputeOrderHash(250, 1000, Buy, "USD", "BTC", hash.Decommitment(salt)) },
		func() (hash.Commitment, error) {
			return ComputeOrderHash(250, 1000, Buy, "USD", "DSK", hash.Decommitment(otherSalt))
		},
	} {
		v, err := f()
		require.NoError(t, err)
		variants = append(variants, v)
	}
	for i, v := range variants {
		assert.NotEqual(t, base, v, "variant %d must change the hash", i)
	}
}

func TestCommitHashMatchesComputeOrderHash(t *testing.T) {
	o := newTestOrder(t)
	recomputed, err := ComputeOrderHash(o.Price, o.Amount, o.Side, o.GiveAsset, o.WantAsset, o.Salt)
	require.NoError(t, err)
	assert.Equal(t, o.CommitHash, recomputed)
}

func TestCheckRevealDetectsTampering(t *testing.T) {
	o := newTestOrder(t)
	require.NoError(t, o.CheckReveal())

	o.Price++
	assert.ErrorIs(t, o.CheckReveal(), ErrRevealMismatch, "a reveal hashing to a different value must be rejected before submission")
	o.Price--
	require.NoError(t, o.CheckReveal())

	o.Salt[0] ^= 1
	assert.ErrorIs(t, o.CheckReveal(), ErrRevealMismatch)
}

func TestPhaseTransitions(t *testing.T) {
	allowed := map[Phase][]Phase{
		PhaseCommitted:   {PhaseRevealed, PhaseCancelled, PhaseExpired},
		PhaseRevealed:    {PhaseFilled, PhasePartialFill, PhaseCancelled, PhaseExpired},
		PhasePartialFill: {PhasePartialFill, PhaseFilled, PhaseCancelled, PhaseExpired},
		PhaseFilled:      {},
		PhaseCancelled:   {},
		PhaseExpired:     {},
	}
	all := []Phase{PhaseCommitted, PhaseRevealed, PhaseFilled, PhasePartialFill, PhaseCancelled, PhaseExpired}
	for from, nexts := range allowed {
		ok := map[Phase]bool{}
		for _, n := range nexts {
			ok[n] = true
		}
		for _, to := range all {
			assert.Equal(t, ok[to], from.CanTransition(to), "%s → %s", from, to)
		}
	}
}

func TestApplyPhase(t *testing.T) {
	o := newTestOrder(t)

	require.NoError(t, o.ApplyPhase(PhaseRevealed, 0))
	assert.Equal(t, PhaseRevealed, o.Phase())

	require.NoError(t, o.ApplyPhase(PhasePartialFill, 400))
	assert.Equal(t, uint64(400), o.FilledAmount())

	require.NoError(t, o.ApplyPhase(PhaseFilled, 1000))
	assert.Equal(t, uint64(1000), o.FilledAmount())
	assert.True(t, o.Phase().Terminal())

	err := o.ApplyPhase(PhaseRevealed, 0)
	var phaseErr *PhaseError
	assert.ErrorAs(t, err, &phaseErr)
}

func TestApplyPhaseRejectsBadFills(t *testing.T) {
	o := newTestOrder(t)
	require.NoError(t, o.ApplyPhase(PhaseRevealed, 0))

	assert.Error(t, o.ApplyPhase(PhaseFilled, 999), "full fill must match the order amount")
	assert.Error(t, o.ApplyPhase(PhasePartialFill, 0))
	assert.Error(t, o.ApplyPhase(PhasePartialFill, 1000), "a fill of the whole amount is not partial")

	require.NoError(t, o.ApplyPhase(PhasePartialFill, 600))
	assert.Error(t, o.ApplyPhase(PhasePartialFill, 500), "fills must not regress")
}

func TestApplyPhaseSkipRevealRejected(t *testing.T) {
	o := newTestOrder(t)
	err := o.ApplyPhase(PhaseFilled, 1000)
	var phaseErr *PhaseError
	require.ErrorAs(t, err, &phaseErr)
	assert.Equal(t, PhaseCommitted, phaseErr.From)
	assert.Equal(t, PhaseFilled, phaseErr.To)
}
