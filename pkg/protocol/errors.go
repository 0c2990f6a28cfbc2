package protocol

import (
	"fmt"

	"github.com/duskpool/darkpool-go/pkg/order"
)

// RejectCode classifies a rejection reported by the verifier.
type RejectCode uint8

const (
	// RejectMalformedInput: an off-curve point, unreduced scalar, or other
	// input that should have been caught before submission.
	RejectMalformedInput RejectCode = iota + 1
	// RejectProofFailed: balance proof or reveal hash mismatch. Hard
	// rejection; resubmitting the same inputs cannot succeed.
	RejectProofFailed
	// RejectPhaseViolation: the call arrived outside its phase window.
	// The only sensible reaction is waiting for the next phase boundary.
	RejectPhaseViolation
	// RejectInsufficientBalance: the on-chain balance check failed.
	RejectInsufficientBalance
)

func (c RejectCode) String() string {
	switch c {
	case RejectMalformedInput:
		return "malformed-input"
	case RejectProofFailed:
		return "proof-failed"
	case RejectPhaseViolation:
		return "phase-violation"
	case RejectInsufficientBalance:
		return "insufficient-balance"
	default:
		return fmt.Sprintf("reject(%d)", uint8(c))
	}
}

// Reject is a verifier rejection with enough context for the caller to
// decide between waiting for a later phase and aborting.
type Reject struct {
	Code   RejectCode
	Phase  order.Phase
	Detail string
}

func (r *Reject) Error() string {
	return fmt.Sprintf("protocol: rejected (%s) in phase %s: %s", r.Code, r.Phase, r.Detail)
}

// Retryable reports whether the same call can succeed later. Only phase
// violations are; everything else will keep failing with the same inputs.
func (r *Reject) Retryable() bool {
	return r.Code == RejectPhaseViolation
}
