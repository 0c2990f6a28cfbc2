package elgamal

import (
	"fmt"

	"github.com/duskpool/darkpool-go/pkg/math/curve"
)

// Decrypt recovers the plaintext amount from a ciphertext, given a bound on
// the plaintext domain.
//
// Stripping the key share leaves C2 − x⋅C1 = value⋅H, so recovery is a
// discrete log in base H. That is only tractable over a bounded domain, and
// this function makes the bound explicit: it runs baby-step giant-step over
// [0, maxValue] in O(√maxValue) time and space. Callers for whom even that
// is too slow should compare against known commitments on chain instead of
// decrypting.
func (k *SecretKey) Decrypt(c *Ciphertext, maxValue uint64) (uint64, error) {
	if !c.Valid() {
		return 0, errNilCiphertext
	}

	// M = C2 − x⋅C1 = value⋅H
	m := new(curve.Point).Subtract(c.C2, k.sk.Act(c.C1))
	if m.IsIdentity() {
		return 0, nil
	}

	h := curve.PedersenGenerator()

	// Baby steps: j ↦ j⋅H for j in [0, stride).
	stride := integerSqrt(maxValue) + 1
	babySteps := make(map[string]uint64, stride)
	step := curve.NewIdentityPoint()
	for j := uint64(0); j < stride; j++ {
		data, err := step.MarshalBinary()
		if err != nil {
			return 0, fmt.Errorf("elgamal: decrypt: %w", err)
		}
		babySteps[string(data)] = j
		step.Add(step, h)
	}

	// Giant steps: walk M − i⋅(stride⋅H) until it lands on a baby step.
	giantStride := new(curve.Point).Negate(curve.NewScalarUInt64(stride).Act(h))
	current := new(curve.Point).Set(m)
	for i := uint64(0); i*stride <= maxValue; i++ {
		data, err := current.MarshalBinary()
		if err != nil {
			return 0, fmt.Errorf("elgamal: decrypt: %w", err)
		}
		if j, ok := babySteps[string(data)]; ok {
			value := i*stride + j
			if value > maxValue {
				break
			}
			return value, nil
		}
		current.Add(current, giantStride)
	}
	return 0, fmt.Errorf("elgamal: plaintext not in [0, %d]", maxValue)
}

// integerSqrt returns ⌊√n⌋.
func integerSqrt(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	x := n
	y := (x + 1) / 2
	for y < x {
		x = y
		y = (x + n/x) / 2
	}
	return x
}
