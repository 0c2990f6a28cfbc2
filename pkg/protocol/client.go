package protocol

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/duskpool/darkpool-go/pkg/order"
)

// PhaseReport is what the caller's chain poller observed for an order.
type PhaseReport struct {
	OrderID      string
	Phase        order.Phase
	FilledAmount uint64
}

// Result is the terminal outcome of one order's lifecycle.
type Result struct {
	Order        *order.Order
	FilledAmount uint64
}

// Handler drives one order through its commit/reveal/settle phases.
//
// It emits the boundary calls on an outgoing channel and consumes the phase
// transitions the authority reports. It never advances phases on its own:
// phase state belongs to the chain, the handler only mirrors it.
type Handler struct {
	mtx sync.Mutex

	Log zerolog.Logger

	order   *order.Order
	epochID uint64

	outChan chan Message
	done    bool
	err     error
}

// NewHandler starts a lifecycle for an order already constructed with
// order.New, and queues its commit call.
func NewHandler(o *order.Order, epochID uint64) (*Handler, error) {
	commit, err := NewCommitOrder(o)
	if err != nil {
		return nil, err
	}

	h := &Handler{
		order:   o,
		epochID: epochID,
		outChan: make(chan Message, 4),
	}
	h.Log = zerolog.New(zerolog.NewConsoleWriter()).Level(zerolog.InfoLevel).With().
		Str("order", o.ID).
		Uint64("epoch", epochID).
		Stack().
		Logger()

	h.Log.Info().Str("phase", o.Phase().String()).Msg("start")
	h.outChan <- commit
	return h, nil
}

// Listen returns the channel of boundary calls the caller must submit.
// The channel is closed once the order reaches a terminal phase or the
// handler aborts.
func (h *Handler) Listen() <-chan Message {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	return h.outChan
}

// Result returns the outcome once the order is terminal.
func (h *Handler) Result() (*Result, error) {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	if h.err != nil {
		return nil, h.err
	}
	if !h.done {
		return nil, errors.New("protocol: not finished")
	}
	return &Result{Order: h.order, FilledAmount: h.order.FilledAmount()}, nil
}

// Reveal queues the reveal call. The caller invokes it when the chain enters
// the reveal window; revealing is the one step with secret inputs, so it is
// never triggered implicitly.
func (h *Handler) Reveal() error {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	if h.done || h.err != nil {
		return fmt.Errorf("protocol: reveal after finish")
	}
	if h.order.Phase() != order.PhaseCommitted {
		return &Reject{Code: RejectPhaseViolation, Phase: h.order.Phase(), Detail: "reveal outside commit phase"}
	}
	reveal, err := NewRevealOrder(h.order)
	if err != nil {
		h.abort(err)
		return err
	}
	h.Log.Info().Msg("reveal queued")
	h.outChan <- reveal
	return nil
}

// Settle queues the permissionless settlement trigger for the epoch.
func (h *Handler) Settle() error {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	if h.done || h.err != nil {
		return fmt.Errorf("protocol: settle after finish")
	}
	h.Log.Info().Msg("settle queued")
	h.outChan <- &SettleEpoch{EpochID: h.epochID}
	return nil
}

// Update applies a phase transition observed on chain.
//
// May be called concurrently; calls block until previous updates finish.
func (h *Handler) Update(report PhaseReport) error {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	if h.done || h.err != nil {
		return h.err
	}

	if report.OrderID != h.order.ID {
		err := fmt.Errorf("protocol: report for order %q, handling %q", report.OrderID, h.order.ID)
		h.Log.Warn().Err(err).Msg("dropped report")
		return err
	}

	if err := h.order.ApplyPhase(report.Phase, report.FilledAmount); err != nil {
		h.Log.Error().Err(err).Str("phase", report.Phase.String()).Msg("failed to apply phase")
		h.abort(err)
		return err
	}

	h.Log.Info().
		Str("phase", report.Phase.String()).
		Uint64("filled", report.FilledAmount).
		Msg("phase applied")

	if h.order.Phase().Terminal() {
		h.finish()
	}
	return nil
}

// HandleReject records a verifier rejection. Non-retryable rejections abort
// the lifecycle; phase violations leave it open so the caller can wait for
// the next boundary.
func (h *Handler) HandleReject(r *Reject) error {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	if h.done || h.err != nil {
		return h.err
	}
	if r.Retryable() {
		h.Log.Warn().Str("code", r.Code.String()).Msg("rejected, waiting for phase boundary")
		return nil
	}
	h.Log.Error().Str("code", r.Code.String()).Str("detail", r.Detail).Msg("rejected")
	h.abort(r)
	return r
}

// finish must be called with the lock held.
func (h *Handler) finish() {
	h.done = true
	close(h.outChan)
	h.Log.Info().Str("phase", h.order.Phase().String()).Uint64("filled", h.order.FilledAmount()).Msg("finished")
}

// abort must be called with the lock held.
func (h *Handler) abort(err error) {
	h.err = err
	h.done = true
	close(h.outChan)
}
