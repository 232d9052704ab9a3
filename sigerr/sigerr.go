// Package sigerr gives SignatureValidationError a concrete sub-taxonomy.
// Signature validation is otherwise left stubbed behind a single
// catch-all error kind; this package names the four concrete
// failure modes a production signature/nonce/balance check actually has
// to distinguish, without implementing the signature math itself (that
// remains an external collaborator, see Verifier below).
package sigerr

import (
	"fmt"

	"github.com/Sovereign-Labs/amethyst/abort"
	"github.com/Sovereign-Labs/amethyst/types"
)

// Kind is a concrete sub-category of abort.SignatureValidationError.
type Kind uint8

const (
	// BadRecoveryID: the signature's recovery id does not correspond to
	// any of the curve's valid values.
	BadRecoveryID Kind = iota
	// WrongChainID: the transaction's EIP-155 chain id does not match the
	// chain this proving task is executing against.
	WrongChainID
	// NonceMismatch: the signer's on-record nonce does not equal the
	// transaction's declared nonce.
	NonceMismatch
	// InsufficientBalance: the signer cannot cover value + gas*price.
	InsufficientBalance
)

func (k Kind) String() string {
	switch k {
	case BadRecoveryID:
		return "BadRecoveryID"
	case WrongChainID:
		return "WrongChainID"
	case NonceMismatch:
		return "NonceMismatch"
	case InsufficientBalance:
		return "InsufficientBalance"
	default:
		return "Unknown"
	}
}

// New wraps kind as a fatal abort.Error of kind SignatureValidationError,
// carrying the sub-kind in its message so callers using abort.Is still
// see the coarse kind. The sub-kind is present only as message text; this
// package has no function that recovers it from an error.
func New(kind Kind, msg string) *abort.Error {
	return abort.New(abort.SignatureValidationError, fmt.Sprintf("%s: %s", kind, msg))
}

// Verifier is the external collaborator that performs the actual
// signature-recovery and balance/nonce checks; this core does not choose
// a signature algorithm itself. It reports failures using the Kind
// values above so the core can classify them uniformly. HostDB, TxTree
// and the cmd/amethyst harness do not call it.
type Verifier interface {
	// Verify checks tx's signature, nonce, and the signer's balance
	// against the account record on file, returning a *abort.Error built
	// with sigerr.New on any failure.
	Verify(tx types.Transaction, chainID uint64, signer types.AccountInfo) error
}
