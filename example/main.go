// Command example runs two traders against an in-process venue.
//
// Each trader deposits a confidential balance, exports the recovery note,
// commits an order with hidden parameters, reveals it, and waits for the
// venue to cross the book at settlement. The venue plays the role of the
// on-chain authority: it verifies reveals against commit hashes and is the
// only party that advances order phases.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/duskpool/darkpool-go/internal/pool"
	"github.com/duskpool/darkpool-go/pkg/elgamal"
	"github.com/duskpool/darkpool-go/pkg/math/curve"
	"github.com/duskpool/darkpool-go/pkg/math/sample"
	"github.com/duskpool/darkpool-go/pkg/note"
	"github.com/duskpool/darkpool-go/pkg/order"
	"github.com/duskpool/darkpool-go/pkg/pedersen"
	"github.com/duskpool/darkpool-go/pkg/protocol"
)

const epochID = 1

// restingOrder is a revealed order waiting for a counterparty.
type restingOrder struct {
	handler *protocol.Handler
	side    order.Side
	price   uint64
	amount  uint64
	filled  uint64
}

// venue is the in-process stand-in for the on-chain verifier and matcher.
type venue struct {
	mtx     sync.Mutex
	traders int

	commits map[string]*protocol.CommitOrder
	book    map[string]*restingOrder
	settles int
}

func newVenue(traders int) *venue {
	return &venue{
		traders: traders,
		commits: make(map[string]*protocol.CommitOrder),
		book:    make(map[string]*restingOrder),
	}
}

// Submit processes one boundary call from a trader's handler. Phase
// transitions flow back through h.Update, never directly.
func (v *venue) Submit(msg protocol.Message, h *protocol.Handler) error {
	v.mtx.Lock()
	defer v.mtx.Unlock()

	switch m := msg.(type) {
	case *protocol.CommitOrder:
		if _, ok := v.commits[m.OrderID]; ok {
			return h.HandleReject(&protocol.Reject{Code: protocol.RejectMalformedInput, Detail: "duplicate order id"})
		}
		v.commits[m.OrderID] = m
		return nil

	case *protocol.RevealOrder:
		commit, ok := v.commits[m.OrderID]
		if !ok {
			return h.HandleReject(&protocol.Reject{Code: protocol.RejectPhaseViolation, Detail: "reveal before commit"})
		}
		salt, err := hex.DecodeString(m.Salt)
		if err != nil {
			return h.HandleReject(&protocol.Reject{Code: protocol.RejectMalformedInput, Detail: "bad salt"})
		}
		side := order.Side(commit.Side)
		recomputed, err := order.ComputeOrderHash(m.Price, m.Amount, side, commit.GiveAsset, commit.WantAsset, salt)
		if err != nil || hex.EncodeToString(recomputed) != commit.OrderHash {
			return h.HandleReject(&protocol.Reject{Code: protocol.RejectProofFailed, Detail: "reveal does not open commit hash"})
		}
		v.book[m.OrderID] = &restingOrder{handler: h, side: side, price: m.Price, amount: m.Amount}
		return h.Update(protocol.PhaseReport{OrderID: m.OrderID, Phase: order.PhaseRevealed})

	case *protocol.SettleEpoch:
		v.settles++
		if v.settles < v.traders {
			return nil
		}
		return v.settle()

	default:
		return nil
	}
}

// settle crosses the book once every trader has triggered settlement, then
// expires whatever is left resting. Called with the lock held.
func (v *venue) settle() error {
	for buyID, buy := range v.book {
		if buy.side != order.Buy {
			continue
		}
		for sellID, sell := range v.book {
			if sell.side != order.Sell || buy.price < sell.price {
				continue
			}
			fill := buy.amount - buy.filled
			if remaining := sell.amount - sell.filled; remaining < fill {
				fill = remaining
			}
			if fill == 0 {
				continue
			}
			if err := v.report(buyID, buy, fill); err != nil {
				return err
			}
			if err := v.report(sellID, sell, fill); err != nil {
				return err
			}
		}
	}
	for id, resting := range v.book {
		if resting.filled < resting.amount {
			err := resting.handler.Update(protocol.PhaseReport{
				OrderID:      id,
				Phase:        order.PhaseExpired,
				FilledAmount: resting.filled,
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (v *venue) report(id string, resting *restingOrder, fill uint64) error {
	resting.filled += fill
	phase := order.PhasePartialFill
	if resting.filled == resting.amount {
		phase = order.PhaseFilled
	}
	return resting.handler.Update(protocol.PhaseReport{
		OrderID:      id,
		Phase:        phase,
		FilledAmount: resting.filled,
	})
}

// Deposit builds a trader's confidential deposit and the recovery note that
// can later reopen it.
func Deposit(trader, assetID string, amount uint64, sk *elgamal.SecretKey) (*protocol.Deposit, *note.Note, error) {
	value := curve.NewScalarUInt64(amount)
	commitment, opening := pedersen.Commit(rand.Reader, value)
	ct, nonce := elgamal.Encrypt(rand.Reader, value, sk.Public())

	deposit, err := protocol.NewDeposit(commitment, ct, assetID, amount)
	if err != nil {
		return nil, nil, err
	}

	nullifier, err := sample.Salt(rand.Reader)
	if err != nil {
		return nil, nil, err
	}
	n := &note.Note{
		Commitment:           commitment,
		Value:                opening.Value,
		Blinding:             opening.Blinding,
		NullifierSecret:      nullifier,
		EncryptionRandomness: nonce,
		PrivateKey:           sk.Scalar(),
		TxHash:               fmt.Sprintf("0x%s-deposit", trader),
		Timestamp:            time.Now().UTC(),
	}
	if err := n.Validate(); err != nil {
		return nil, nil, err
	}
	return deposit, n, nil
}

// Trade drives one order through its full lifecycle against the venue.
func Trade(v *venue, pl *pool.Pool, trader string, balance uint64, params order.Params) error {
	sk, _ := elgamal.GenerateKeyPair(rand.Reader)

	deposit, recovery, err := Deposit(trader, params.GiveAsset, balance, sk)
	if err != nil {
		return err
	}
	exported, err := recovery.Export()
	if err != nil {
		return err
	}

	// The deposited amount is recoverable from the ciphertext alone.
	ct, _ := elgamal.Encrypt(rand.Reader, curve.NewScalarUInt64(balance), sk.Public())
	recovered, err := sk.Decrypt(ct, balance)
	if err != nil {
		return err
	}

	orders, err := protocol.NewOrders(pl, rand.Reader, trader, sk.Scalar(), balance, []order.Params{params})
	if err != nil {
		return err
	}
	h, err := protocol.NewHandler(orders[0], epochID)
	if err != nil {
		return err
	}
	h.Log.Info().
		Str("deposit", deposit.AssetID).
		Uint64("recovered", recovered).
		Int("note_bytes", len(exported)).
		Msg("deposited")

	if err := v.Submit(<-h.Listen(), h); err != nil {
		return err
	}
	if err := h.Reveal(); err != nil {
		return err
	}
	if err := v.Submit(<-h.Listen(), h); err != nil {
		return err
	}
	if err := h.Settle(); err != nil {
		return err
	}
	for msg := range h.Listen() {
		if err := v.Submit(msg, h); err != nil {
			return err
		}
	}

	result, err := h.Result()
	if err != nil {
		return err
	}
	h.Log.Info().
		Str("phase", result.Order.Phase().String()).
		Uint64("filled", result.FilledAmount).
		Msg("done")
	return nil
}

func main() {
	pl := pool.NewPool(0)
	defer pl.TearDown()

	v := newVenue(2)

	var g errgroup.Group
	g.Go(func() error {
		return Trade(v, pl, "alice", 10_000, order.Params{
			Side:      order.Buy,
			GiveAsset: "USDC",
			WantAsset: "WETH",
			Price:     205,
			Amount:    40,
		})
	})
	g.Go(func() error {
		return Trade(v, pl, "bob", 10_000, order.Params{
			Side:      order.Sell,
			GiveAsset: "WETH",
			WantAsset: "USDC",
			Price:     200,
			Amount:    40,
		})
	})
	if err := g.Wait(); err != nil {
		fmt.Println(err)
	}
}
