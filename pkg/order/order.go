// Package order models a dark-pool order and its client-side lifecycle.
//
// An order's amount is hidden behind a Pedersen commitment during the commit
// phase and disclosed during reveal, where the verifier checks everything
// against the commit hash. Matching and settlement are external: the client
// builds the protocol messages and tracks the phases the chain reports back.
package order

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/duskpool/darkpool-go/internal/hash"
	"github.com/duskpool/darkpool-go/pkg/math/curve"
	"github.com/duskpool/darkpool-go/pkg/pedersen"
	zkbalance "github.com/duskpool/darkpool-go/pkg/zk/balance"
)

var (
	// ErrInsufficientBalance is returned before any cryptographic work when
	// the trader cannot cover the order amount.
	ErrInsufficientBalance = errors.New("order: insufficient balance for amount")
	// ErrMissingSecretKey is returned when the balance proof cannot be built.
	ErrMissingSecretKey = errors.New("order: missing trader secret key")
	// ErrRevealMismatch is returned by the local pre-submission check when
	// the reveal parameters do not hash to the committed value. Submitting
	// anyway would be rejected on chain; retrying with the same inputs is
	// pointless.
	ErrRevealMismatch = errors.New("order: reveal parameters do not match commit hash")
)

// PhaseError reports a transition the lifecycle does not allow.
type PhaseError struct {
	From, To Phase
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("order: invalid phase transition %s → %s", e.From, e.To)
}

// Params are the trader-chosen order parameters.
type Params struct {
	Side      Side
	GiveAsset string
	WantAsset string
	Price     uint64
	Amount    uint64
}

// Validate rejects malformed parameters before anything is committed.
func (p Params) Validate() error {
	if !p.Side.Valid() {
		return errors.New("order: invalid side")
	}
	if p.GiveAsset == "" || p.WantAsset == "" {
		return errors.New("order: empty asset id")
	}
	if p.GiveAsset == p.WantAsset {
		return errors.New("order: give and want assets are identical")
	}
	if p.Price == 0 {
		return errors.New("order: zero price")
	}
	if p.Amount == 0 {
		return errors.New("order: zero amount")
	}
	return nil
}

// Order is one order tracked by the client. Phase and fill state are only
// mutated through ApplyPhase, in response to what the authority reports.
type Order struct {
	ID     string
	Trader string
	Params

	// CommitHash binds all order parameters; Salt is what opens it at reveal.
	CommitHash hash.Commitment
	Salt       hash.Decommitment

	// AmountCommitment hides the amount on chain; the opening stays local.
	AmountCommitment *pedersen.Commitment
	amountOpening    *pedersen.Opening

	Proof *zkbalance.Proof

	phase  Phase
	filled uint64
}

// ComputeOrderHash is the pure function binding the order parameters and
// salt. Identical inputs always produce the identical hash; changing any
// single field changes it.
func ComputeOrderHash(price, amount uint64, side Side, giveAsset, wantAsset string, salt hash.Decommitment) (hash.Commitment, error) {
	return hash.New().CommitWith(salt, price, amount, uint64(side), giveAsset, wantAsset)
}

// New builds an order ready for commit submission: commit hash, amount
// commitment, and a balance proof bound to (trader, give asset).
//
// The balance check happens first, before any proof construction, so an
// underfunded order costs no cryptographic work.
func New(rand io.Reader, params Params, trader string, secret *curve.Scalar, availableBalance uint64) (*Order, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if params.Amount > availableBalance {
		return nil, ErrInsufficientBalance
	}
	if secret == nil || secret.IsZero() {
		return nil, ErrMissingSecretKey
	}

	commitHash, salt, err := hash.New().Commit(rand,
		params.Price, params.Amount, uint64(params.Side), params.GiveAsset, params.WantAsset)
	if err != nil {
		return nil, fmt.Errorf("order: commit hash: %w", err)
	}

	amountCommitment, opening := pedersen.Commit(rand, curve.NewScalarUInt64(params.Amount))

	proof, err := zkbalance.NewProof(rand, hash.New(), secret, trader, params.GiveAsset)
	if err != nil {
		return nil, fmt.Errorf("order: balance proof: %w", err)
	}

	return &Order{
		ID:               uuid.NewString(),
		Trader:           trader,
		Params:           params,
		CommitHash:       commitHash,
		Salt:             salt,
		AmountCommitment: amountCommitment,
		amountOpening:    opening,
		Proof:            proof,
		phase:            PhaseCommitted,
	}, nil
}

// Phase returns the current lifecycle phase.
func (o *Order) Phase() Phase { return o.phase }

// FilledAmount returns the amount the authority has reported as filled.
func (o *Order) FilledAmount() uint64 { return o.filled }

// Opening returns a copy of the amount commitment's opening. It is secret
// material for the reveal message and recovery notes only.
func (o *Order) Opening() *pedersen.Opening {
	return &pedersen.Opening{
		Value:    curve.NewScalar().Set(o.amountOpening.Value),
		Blinding: curve.NewScalar().Set(o.amountOpening.Blinding),
	}
}

// CheckReveal verifies locally that the stored reveal parameters hash to the
// committed value and open the amount commitment. A mismatch means the order
// state is corrupt and submission would be rejected on chain.
func (o *Order) CheckReveal() error {
	ok := hash.New().Decommit(o.CommitHash, o.Salt,
		o.Price, o.Amount, uint64(o.Side), o.GiveAsset, o.WantAsset)
	if !ok {
		return ErrRevealMismatch
	}
	if !o.AmountCommitment.Verify(o.amountOpening) {
		return ErrRevealMismatch
	}
	if !o.amountOpening.Value.Equal(curve.NewScalarUInt64(o.Amount)) {
		return ErrRevealMismatch
	}
	return nil
}

// ApplyPhase records a transition reported by the authority. Fill amounts
// accompany PhaseFilled and PhasePartialFill reports.
func (o *Order) ApplyPhase(next Phase, filledAmount uint64) error {
	if !o.phase.CanTransition(next) {
		return &PhaseError{From: o.phase, To: next}
	}
	switch next {
	case PhaseFilled:
		if filledAmount != o.Amount {
			return fmt.Errorf("order: filled with %d of %d", filledAmount, o.Amount)
		}
		o.filled = filledAmount
	case PhasePartialFill:
		if filledAmount == 0 || filledAmount >= o.Amount {
			return fmt.Errorf("order: partial fill of %d out of %d", filledAmount, o.Amount)
		}
		if filledAmount < o.filled {
			return fmt.Errorf("order: fill regressed from %d to %d", o.filled, filledAmount)
		}
		o.filled = filledAmount
	}
	o.phase = next
	return nil
}
