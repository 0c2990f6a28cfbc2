package hash

import (
	"bytes"
	"fmt"
	"io"

	"github.com/duskpool/darkpool-go/internal/params"
)

type (
	// Commitment is the hash binding some values until they are revealed.
	Commitment []byte
	// Decommitment is the salt that makes the commitment hiding, disclosed
	// at reveal time together with the committed values.
	Decommitment []byte
)

// WriteTo implements the io.WriterTo interface for Commitment.
func (c Commitment) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(c)
	return int64(n), err
}

// Domain implements WriterToWithDomain, and separates this type within hash.Hash.
func (Commitment) Domain() string {
	return "Commitment"
}

func (c Commitment) Validate() error {
	if l := len(c); l != DigestLengthBytes {
		return fmt.Errorf("commitment: incorrect length (got %d, expected %d)", l, DigestLengthBytes)
	}
	return nil
}

// WriteTo implements the io.WriterTo interface for Decommitment.
func (d Decommitment) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(d)
	return int64(n), err
}

// Domain implements WriterToWithDomain, and separates this type within hash.Hash.
func (Decommitment) Domain() string {
	return "Decommitment"
}

func (d Decommitment) Validate() error {
	if l := len(d); l != params.BytesSalt {
		return fmt.Errorf("decommitment: incorrect length (got %d, expected %d)", l, params.BytesSalt)
	}
	return nil
}

// Commit binds data under a fresh decommitment salt drawn from rand, such
// that commitment = h(data, decommitment).
func (hash *Hash) Commit(rand io.Reader, data ...interface{}) (Commitment, Decommitment, error) {
	var err error
	decommitment := Decommitment(make([]byte, params.BytesSalt))

	if _, err = io.ReadFull(rand, decommitment); err != nil {
		return nil, nil, fmt.Errorf("hash.Commit: failed to generate decommitment: %w", err)
	}

	commitment, err := hash.CommitWith(decommitment, data...)
	if err != nil {
		return nil, nil, err
	}
	return commitment, decommitment, nil
}

// CommitWith computes the commitment hash for a known salt. It is what makes
// the commit hash a pure function of (data, salt) for callers that need to
// recompute it.
func (hash *Hash) CommitWith(decommitment Decommitment, data ...interface{}) (Commitment, error) {
	h := hash.Clone()
	for _, item := range data {
		if err := h.WriteAny(item); err != nil {
			return nil, fmt.Errorf("hash.Commit: failed to write data: %w", err)
		}
	}
	_ = h.WriteAny(decommitment)
	return h.Sum(), nil
}

// Decommit verifies that the commitment corresponds to the data and
// decommitment such that commitment = h(data, decommitment).
func (hash *Hash) Decommit(c Commitment, d Decommitment, data ...interface{}) bool {
	if err := c.Validate(); err != nil {
		return false
	}
	if err := d.Validate(); err != nil {
		return false
	}
	computed, err := hash.CommitWith(d, data...)
	if err != nil {
		return false
	}
	return bytes.Equal(computed, c)
}
