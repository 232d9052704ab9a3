// Package types defines the value types shared across the verifiable
// execution core: addresses, hashes, words, accounts, transactions and
// the block environment. It deliberately does not depend on any of the
// access/vsal/hostdb/txtree packages so that all of them can depend on it.
package types

import (
	"encoding/hex"
	"fmt"

	"github.com/holiman/uint256"
)

const (
	HashLength    = 32
	AddressLength = 20
)

// Hash is a 32-byte digest, used for code hashes, storage roots, state
// commitments and block hashes.
type Hash [HashLength]byte

// Address is a 20-byte account identifier.
type Address [AddressLength]byte

// Word is a 256-bit EVM word. It wraps uint256.Int by value so that it
// remains comparable with == and usable as a generic map key or as the
// payload type of Access[T].
type Word uint256.Int

// ZeroWord is the additive identity; the sparse storage convention treats
// a slot holding ZeroWord identically to an absent slot.
var ZeroWord = Word{}

// WordFromUint64 builds a Word from a small integer.
func WordFromUint64(v uint64) Word {
	var w uint256.Int
	w.SetUint64(v)
	return Word(w)
}

// WordFromBytes left-pads b to 32 bytes and interprets it big-endian.
func WordFromBytes(b []byte) Word {
	var w uint256.Int
	w.SetBytes(b)
	return Word(w)
}

// IsZero reports whether w is the zero word.
func (w Word) IsZero() bool {
	u := uint256.Int(w)
	return u.IsZero()
}

// Bytes32 returns the big-endian 32-byte representation.
func (w Word) Bytes32() [32]byte {
	u := uint256.Int(w)
	return u.Bytes32()
}

// String implements fmt.Stringer.
func (w Word) String() string {
	u := uint256.Int(w)
	return u.Hex()
}

// BytesToHash left-pads b to HashLength bytes.
func BytesToHash(b []byte) Hash {
	var h Hash
	h.SetBytes(b)
	return h
}

// HexToHash decodes a (possibly 0x-prefixed) hex string into a Hash.
func HexToHash(s string) Hash { return BytesToHash(fromHex(s)) }

func (h Hash) Bytes() []byte { return h[:] }
func (h Hash) Hex() string   { return fmt.Sprintf("0x%x", h[:]) }
func (h Hash) String() string { return h.Hex() }
func (h Hash) IsZero() bool   { return h == Hash{} }

func (h *Hash) SetBytes(b []byte) {
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
}

// BytesToAddress left-pads b to AddressLength bytes.
func BytesToAddress(b []byte) Address {
	var a Address
	a.SetBytes(b)
	return a
}

// HexToAddress decodes a (possibly 0x-prefixed) hex string into an Address.
func HexToAddress(s string) Address { return BytesToAddress(fromHex(s)) }

func (a Address) Bytes() []byte  { return a[:] }
func (a Address) Hex() string    { return fmt.Sprintf("0x%x", a[:]) }
func (a Address) String() string { return a.Hex() }
func (a Address) IsZero() bool   { return a == Address{} }

func (a *Address) SetBytes(b []byte) {
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
}

// Less gives the lexicographic ordering over addresses used everywhere the
// core needs a deterministic key order (VSAL canonicalization, BAL-style
// commit ordering).
func (a Address) Less(b Address) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// Less gives the lexicographic ordering over hashes, used for ordering
// storage slots within an address.
func (h Hash) Less(o Hash) bool {
	for i := range h {
		if h[i] != o[i] {
			return h[i] < o[i]
		}
	}
	return false
}

func fromHex(s string) []byte {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, _ := hex.DecodeString(s)
	return b
}
