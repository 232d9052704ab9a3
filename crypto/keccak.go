// Package crypto wraps the cryptographic hash function the core uses to
// self-verify host-supplied bytecode. It is kept
// separate from hostdb so the hash function can be swapped (a zk-guest
// build may prefer a circuit-friendly hash) without touching the adapter
// logic.
package crypto

import (
	"golang.org/x/crypto/sha3"

	"github.com/Sovereign-Labs/amethyst/types"
)

// Keccak256 calculates the Keccak-256 hash of the concatenation of data.
func Keccak256(data ...[]byte) []byte {
	d := sha3.NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	return d.Sum(nil)
}

// Keccak256Hash calculates Keccak-256 and returns it as a types.Hash.
func Keccak256Hash(data ...[]byte) types.Hash {
	return types.BytesToHash(Keccak256(data...))
}
