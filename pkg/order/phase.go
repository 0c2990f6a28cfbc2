package order

import "fmt"

// Phase is the lifecycle phase of an order within an epoch.
//
// Phases are only ever advanced by the on-chain authority; the client
// observes them and submits phase-appropriate messages. Filled, Cancelled
// and Expired are absorbing.
type Phase uint8

const (
	// PhaseCommitted: the order hash and amount commitment are on chain,
	// parameters still hidden.
	PhaseCommitted Phase = iota + 1
	// PhaseRevealed: price, amount, salt and blinding have been disclosed
	// and matched the commit hash.
	PhaseRevealed
	// PhaseFilled: fully matched during settlement. Terminal.
	PhaseFilled
	// PhasePartialFill: partially matched; may fill further or expire.
	PhasePartialFill
	// PhaseCancelled: withdrawn by the trader. Terminal.
	PhaseCancelled
	// PhaseExpired: the reveal or settlement window elapsed. Terminal.
	PhaseExpired
)

func (p Phase) String() string {
	switch p {
	case PhaseCommitted:
		return "committed"
	case PhaseRevealed:
		return "revealed"
	case PhaseFilled:
		return "filled"
	case PhasePartialFill:
		return "partial-fill"
	case PhaseCancelled:
		return "cancelled"
	case PhaseExpired:
		return "expired"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// Terminal reports whether no further transition can leave p.
func (p Phase) Terminal() bool {
	switch p {
	case PhaseFilled, PhaseCancelled, PhaseExpired:
		return true
	}
	return false
}

// CanTransition reports whether the authority may move an order from p to next.
func (p Phase) CanTransition(next Phase) bool {
	if p.Terminal() {
		return false
	}
	switch p {
	case PhaseCommitted:
		// Missing the reveal window expires the order; the trader may also
		// cancel before revealing.
		return next == PhaseRevealed || next == PhaseCancelled || next == PhaseExpired
	case PhaseRevealed:
		return next == PhaseFilled || next == PhasePartialFill ||
			next == PhaseCancelled || next == PhaseExpired
	case PhasePartialFill:
		return next == PhasePartialFill || next == PhaseFilled ||
			next == PhaseCancelled || next == PhaseExpired
	}
	return false
}

// Side says whether an order gives the quote asset to buy the base asset,
// or the reverse.
type Side uint8

const (
	Buy Side = iota + 1
	Sell
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return fmt.Sprintf("side(%d)", uint8(s))
	}
}

// Valid reports whether s is one of the two defined sides.
func (s Side) Valid() bool {
	return s == Buy || s == Sell
}
