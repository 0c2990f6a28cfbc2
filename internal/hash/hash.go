// Package hash provides the domain-separated transcript hash used for
// Fiat-Shamir challenges, order commit hashes, and hash commitments.
package hash

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/big"

	"github.com/zeebo/blake3"

	"github.com/duskpool/darkpool-go/internal/params"
)

const DigestLengthBytes = params.SecBytes * 2 // 64

// Hash is a wrapper around blake3 which consumes the protocol's data types.
// Every write is framed with a domain string, so transcripts of different
// shapes can never collide.
type Hash struct {
	h *blake3.Hasher
}

// New creates a Hash seeded with the protocol tag.
func New() *Hash {
	hash := &Hash{h: blake3.New()}
	_, _ = hash.h.Write([]byte("DUSKPOOL"))
	return hash
}

// Digest returns a reader for the current output of the function.
//
// This finalizes the current state of the hash and yields what is
// essentially a stream of random bytes, which challenges are sampled from.
func (hash *Hash) Digest() io.Reader {
	return hash.h.Digest()
}

// Sum returns a digest of length DigestLengthBytes for the current state.
func (hash *Hash) Sum() []byte {
	out := make([]byte, DigestLengthBytes)
	if _, err := io.ReadFull(hash.Digest(), out); err != nil {
		panic(fmt.Sprintf("hash.Sum: internal hash failure: %v", err))
	}
	return out
}

// WriteAny writes protocol values to the hash state.
//
// Supported types:
//
//   - []byte
//   - string
//   - uint64
//   - *big.Int (non-negative, reduced values)
//   - WriterToWithDomain
//
// The first four get this function's own domain annotation; the last already
// carries one. An unsupported type is a programming error and panics.
func (hash *Hash) WriteAny(data ...interface{}) error {
	for _, d := range data {
		var err error
		switch t := d.(type) {
		case []byte:
			err = writeWithDomain(hash.h, BytesWithDomain{TheDomain: "[]byte", Bytes: t})
		case string:
			err = writeWithDomain(hash.h, BytesWithDomain{TheDomain: "string", Bytes: []byte(t)})
		case uint64:
			var buf [8]byte
			binary.BigEndian.PutUint64(buf[:], t)
			err = writeWithDomain(hash.h, BytesWithDomain{TheDomain: "uint64", Bytes: buf[:]})
		case *big.Int:
			if t == nil {
				return fmt.Errorf("hash.Hash: write *big.Int: nil")
			}
			if t.Sign() < 0 {
				return fmt.Errorf("hash.Hash: write *big.Int: negative")
			}
			err = writeWithDomain(hash.h, BytesWithDomain{TheDomain: "big.Int", Bytes: t.Bytes()})
		case WriterToWithDomain:
			err = writeWithDomain(hash.h, t)
		default:
			panic("hash.Hash: unsupported type")
		}
		if err != nil {
			return fmt.Errorf("hash.Hash: %w", err)
		}
	}
	return nil
}

// Clone returns a copy of the Hash in its current state.
func (hash *Hash) Clone() *Hash {
	return &Hash{h: hash.h.Clone()}
}
