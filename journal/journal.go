// Package journal defines the proof journal the core contributes to the
// outer proving pipeline: the public values a verifier checks
// the SNARK/STARK proof against, without ever touching the state
// database itself.
package journal

import "github.com/Sovereign-Labs/amethyst/types"

// Journal is the public output of proving a single TxTree whose
// transition has reached Applied. It names only what the verifier needs:
// the two state commitments and the ordered transactions that connect
// them. Everything else (the VSAL, intermediate Mid commitments) stays
// private to the prover.
type Journal struct {
	// Prior is the state commitment the proof starts from.
	Prior types.Hash
	// Posterior is the state commitment the proof claims to reach.
	Posterior types.Hash
	// Includes is the ordered sequence of transaction identifiers this
	// journal covers, in the TxTree's Includes order.
	Includes []types.Hash
}

// FromApplied builds a Journal from a TxTree whose transition is Applied,
// given pre/post as types.Hash (the concrete commitment type this core
// uses) and the ordered transaction identifiers already resolved by the
// caller. TxTree itself stays generic over S so it is not tied to
// types.Hash; the journal is where that choice becomes concrete.
func FromApplied(pre, post types.Hash, includes []types.Hash) Journal {
	out := make([]types.Hash, len(includes))
	copy(out, includes)
	return Journal{Prior: pre, Posterior: post, Includes: out}
}
