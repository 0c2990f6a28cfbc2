// Package protocol packages cryptographic outputs into the calls the
// on-chain verifier consumes, and drives an order through its phases.
//
// The package's responsibility ends at producing field values; transaction
// submission and phase polling belong to the caller's chain transport.
package protocol

import (
	"encoding/hex"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/duskpool/darkpool-go/pkg/elgamal"
	"github.com/duskpool/darkpool-go/pkg/math/curve"
	"github.com/duskpool/darkpool-go/pkg/order"
	"github.com/duskpool/darkpool-go/pkg/pedersen"
)

// Message is one call at the verifier boundary.
type Message interface {
	// Kind names the contract entrypoint the payload is for.
	Kind() string
}

// Deposit funds a confidential balance: a commitment to the amount plus the
// amount encrypted to the depositor's own key for later recovery.
type Deposit struct {
	CommitmentX  string `cbor:"commitment_x"`
	CommitmentY  string `cbor:"commitment_y"`
	EncryptedC1X string `cbor:"enc_c1_x"`
	EncryptedC1Y string `cbor:"enc_c1_y"`
	EncryptedC2X string `cbor:"enc_c2_x"`
	EncryptedC2Y string `cbor:"enc_c2_y"`
	AssetID      string `cbor:"asset_id"`
	Amount       uint64 `cbor:"amount"`
}

func (*Deposit) Kind() string { return "deposit" }

// CommitOrder places an order with its parameters hidden: the commit hash,
// the amount commitment, side and assets in the clear, and the balance proof.
type CommitOrder struct {
	OrderID   string `cbor:"order_id"`
	OrderHash string `cbor:"order_hash"`

	AmountCommitmentX string `cbor:"amount_commitment_x"`
	AmountCommitmentY string `cbor:"amount_commitment_y"`

	Side      uint8  `cbor:"side"`
	GiveAsset string `cbor:"give_asset"`
	WantAsset string `cbor:"want_asset"`

	ProofCommitmentX string `cbor:"proof_commitment_x"`
	ProofCommitmentY string `cbor:"proof_commitment_y"`
	ProofChallenge   string `cbor:"proof_challenge"`
	ProofResponse    string `cbor:"proof_response"`
}

func (*CommitOrder) Kind() string { return "commitOrder" }

// RevealOrder discloses the parameters committed earlier. The verifier
// recomputes the commit hash and rejects any mismatch; there is no retry
// with the same inputs.
type RevealOrder struct {
	OrderID  string `cbor:"order_id"`
	Price    uint64 `cbor:"price"`
	Amount   uint64 `cbor:"amount"`
	Salt     string `cbor:"salt"`
	Blinding string `cbor:"blinding"`
}

func (*RevealOrder) Kind() string { return "revealOrder" }

// SettleEpoch triggers settlement for an epoch. The call is permissionless
// and carries no private data.
type SettleEpoch struct {
	EpochID uint64 `cbor:"epoch_id"`
}

func (*SettleEpoch) Kind() string { return "settleEpoch" }

// scalarHex encodes a scalar the way the verifier reads field elements:
// big-endian hex, fixed width.
func scalarHex(s *curve.Scalar) string {
	return hex.EncodeToString(s.Bytes())
}

// NewDeposit builds the deposit call for an amount, committing to it and
// encrypting it to the depositor's own public key. The returned opening and
// nonce are the depositor's secret bookkeeping.
func NewDeposit(commitment *pedersen.Commitment, ct *elgamal.Ciphertext, assetID string, amount uint64) (*Deposit, error) {
	if err := commitment.Validate(); err != nil {
		return nil, fmt.Errorf("protocol: deposit: %w", err)
	}
	if !ct.Valid() {
		return nil, fmt.Errorf("protocol: deposit: invalid ciphertext")
	}
	cx, cy := commitment.Point().Hex()
	c1x, c1y := ct.C1.Hex()
	c2x, c2y := ct.C2.Hex()
	return &Deposit{
		CommitmentX:  cx,
		CommitmentY:  cy,
		EncryptedC1X: c1x,
		EncryptedC1Y: c1y,
		EncryptedC2X: c2x,
		EncryptedC2Y: c2y,
		AssetID:      assetID,
		Amount:       amount,
	}, nil
}

// NewCommitOrder extracts the commit-phase payload from an order.
func NewCommitOrder(o *order.Order) (*CommitOrder, error) {
	if err := o.AmountCommitment.Validate(); err != nil {
		return nil, fmt.Errorf("protocol: commit: %w", err)
	}
	if !o.Proof.IsValid() {
		return nil, fmt.Errorf("protocol: commit: invalid balance proof")
	}
	acx, acy := o.AmountCommitment.Point().Hex()
	pcx, pcy := o.Proof.C.Hex()
	return &CommitOrder{
		OrderID:           o.ID,
		OrderHash:         hex.EncodeToString(o.CommitHash),
		AmountCommitmentX: acx,
		AmountCommitmentY: acy,
		Side:              uint8(o.Side),
		GiveAsset:         o.GiveAsset,
		WantAsset:         o.WantAsset,
		ProofCommitmentX:  pcx,
		ProofCommitmentY:  pcy,
		ProofChallenge:    scalarHex(o.Proof.E),
		ProofResponse:     scalarHex(o.Proof.Z),
	}, nil
}

// NewRevealOrder extracts the reveal-phase payload, after checking locally
// that it actually opens the commitment made earlier.
func NewRevealOrder(o *order.Order) (*RevealOrder, error) {
	if err := o.CheckReveal(); err != nil {
		return nil, err
	}
	return &RevealOrder{
		OrderID:  o.ID,
		Price:    o.Price,
		Amount:   o.Amount,
		Salt:     hex.EncodeToString(o.Salt),
		Blinding: scalarHex(o.Opening().Blinding),
	}, nil
}

// Encode frames a message for transport.
func Encode(m Message) ([]byte, error) {
	return cbor.Marshal(m)
}

// Decode recovers a message of a known kind.
func Decode(data []byte, m Message) error {
	return cbor.Unmarshal(data, m)
}
