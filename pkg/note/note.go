// Package note exports the secret material needed to audit or recover a
// confidential deposit.
//
// A note is a credential, not a log line: it contains the private key,
// blinding factor and encryption randomness, and anyone holding it can open
// the deposit. Treat exported notes like keys.
package note

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/duskpool/darkpool-go/pkg/math/curve"
	"github.com/duskpool/darkpool-go/pkg/pedersen"
)

// Note is the audit/recovery record for one confidential deposit.
type Note struct {
	// Commitment is the on-chain amount commitment.
	Commitment *pedersen.Commitment `json:"commitment" cbor:"commitment"`
	// Value and Blinding open the commitment.
	Value    *curve.Scalar `json:"value" cbor:"value"`
	Blinding *curve.Scalar `json:"blinding" cbor:"blinding"`
	// NullifierSecret is spent to withdraw the note.
	NullifierSecret []byte `json:"nullifierSecret" cbor:"nullifier_secret"`
	// EncryptionRandomness is the ElGamal nonce of the deposit ciphertext.
	EncryptionRandomness *curve.Scalar `json:"encryptionRandomness" cbor:"encryption_randomness"`
	// PrivateKey is the deposit's decryption key.
	PrivateKey *curve.Scalar `json:"privateKey" cbor:"private_key"`
	// TxHash locates the deposit transaction.
	TxHash    string    `json:"txHash" cbor:"tx_hash"`
	Timestamp time.Time `json:"timestamp" cbor:"timestamp"`
}

// Validate checks that the note is complete and actually opens its own
// commitment. An inconsistent note is unrecoverable and should be caught at
// export time, not at withdrawal time.
func (n *Note) Validate() error {
	if n == nil {
		return errors.New("note: nil note")
	}
	if n.Commitment == nil || n.Value == nil || n.Blinding == nil {
		return errors.New("note: missing commitment or opening")
	}
	if len(n.NullifierSecret) == 0 {
		return errors.New("note: missing nullifier secret")
	}
	if n.PrivateKey == nil || n.PrivateKey.IsZero() {
		return errors.New("note: missing private key")
	}
	opening := &pedersen.Opening{Value: n.Value, Blinding: n.Blinding}
	if !n.Commitment.Verify(opening) {
		return errors.New("note: opening does not match commitment")
	}
	return nil
}

// Export serializes the note as JSON for offline storage.
func (n *Note) Export() ([]byte, error) {
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(n)
}

// Import parses and validates an exported note.
func Import(data []byte) (*Note, error) {
	var n Note
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("note: import: %w", err)
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return &n, nil
}

// ExportBinary serializes the note as CBOR, the framing used for encrypted
// backups.
func (n *Note) ExportBinary() ([]byte, error) {
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return cbor.Marshal(n)
}

// ImportBinary parses and validates a CBOR note.
func ImportBinary(data []byte) (*Note, error) {
	var n Note
	if err := cbor.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("note: import: %w", err)
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return &n, nil
}

// String implements fmt.Stringer without leaking secret material.
func (n *Note) String() string {
	return fmt.Sprintf("note.Note{tx: %s, time: %s}", n.TxHash, n.Timestamp.Format(time.RFC3339))
}
