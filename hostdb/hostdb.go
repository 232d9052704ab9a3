// Package hostdb implements the bridge between the EVM interpreter's
// Database capability and the VSAL: every state query the
// interpreter makes is turned into a witnessed read against an untrusted
// host channel, and every committed post-state change is turned into a
// write. HostDB is the only component in this core that talks to the
// host channel directly.
package hostdb

import (
	"github.com/Sovereign-Labs/amethyst/abort"
	"github.com/Sovereign-Labs/amethyst/access"
	"github.com/Sovereign-Labs/amethyst/types"
	"github.com/Sovereign-Labs/amethyst/vsal"
)

// HostChannel is the untrusted input tape: a monotonic,
// single-reader stream of opaque blobs, advanced once per HostDB
// operation. The interpreter's access pattern fixes the order in which
// these methods are called, and therefore the order the host is expected
// to answer in; a host that answers out of order produces values that
// fail the VSAL's causality checks rather than being detected directly
// here.
type HostChannel interface {
	ReadAccount(addr types.Address) (*RawAccount, bool)
	ReadCode(hash types.Hash) []byte
	ReadStorage(addr types.Address, slot types.Hash) (types.Word, bool)
	ReadBlockHash(number uint64) (types.Hash, bool)
}

// RawAccount is the account record as proposed by the untrusted host,
// before HostDB.Basic has asserted it carries no inline code.
type RawAccount struct {
	Nonce       uint64
	Balance     types.Word
	CodeHash    types.Hash
	StorageRoot types.Hash
	Code        []byte // must be empty; non-empty is UnverifiedBytecode
}

// Hasher computes the cryptographic digest CodeByHash checks fetched code
// against. Production wiring uses crypto.Keccak256Hash; tests can substitute
// a stub.
type Hasher func([]byte) types.Hash

// HostDB adapts a HostChannel to the interpreter's Database contract,
// logging every query against log. It is owned exclusively by the
// executing transaction for the duration of that transaction;
// there is no internal locking.
type HostDB struct {
	channel HostChannel
	log     vsal.RwLog
	hash    Hasher
}

// New constructs a HostDB reading from channel and logging into log,
// using hash to verify code fetched by CodeByHash.
func New(channel HostChannel, log vsal.RwLog, hash Hasher) *HostDB {
	return &HostDB{channel: channel, log: log, hash: hash}
}

// Basic reads the host's proposed account record for addr, asserts it
// does not carry code inline, logs the read, and returns the account
//. Forcing code through CodeByHash prevents a malicious host
// from binding arbitrary code to an address without that code being
// hash-checked.
func (h *HostDB) Basic(addr types.Address) (access.Option[types.AccountInfo], error) {
	raw, present := h.channel.ReadAccount(addr)
	if present && len(raw.Code) != 0 {
		return access.Option[types.AccountInfo]{}, abort.New(abort.UnverifiedBytecode,
			"hostdb: basic() proposed account carries inline code")
	}

	value := access.None[types.AccountInfo]()
	if present {
		value = access.Some(types.AccountInfo{
			Nonce:       raw.Nonce,
			Balance:     raw.Balance,
			CodeHash:    raw.CodeHash,
			StorageRoot: raw.StorageRoot,
		})
	}
	if err := h.log.AddAccountRead(addr, value); err != nil {
		return access.Option[types.AccountInfo]{}, err
	}
	return value, nil
}

// CodeByHash reads the raw code bytes the host proposes for hash, checks
// that they actually hash to it, and returns them. Unlike account and
// storage reads, fetched code is not itself logged in the VSAL: its
// integrity is established directly by the hash check rather than by a
// causality assertion, and CodeHash (logged as part of the owning
// account's Access) is what ties it to state.
func (h *HostDB) CodeByHash(hash types.Hash) (types.Bytecode, error) {
	raw := h.channel.ReadCode(hash)
	computed := h.hash(raw)
	if computed != hash {
		return nil, abort.New(abort.HashMismatch,
			"hostdb: code_by_hash() fetched code does not hash to the requested value")
	}
	return types.Bytecode(raw), nil
}

// Storage reads the untrusted word at (addr, slot), logs the read, and
// returns it, collapsing an absent entry to the zero word:
// sparse storage treats "absent" and "zero" as the same observable value,
// so the access recorded here uses None for both.
func (h *HostDB) Storage(addr types.Address, slot types.Hash) (types.Word, error) {
	word, present := h.channel.ReadStorage(addr, slot)
	value := access.None[types.Word]()
	if present && !word.IsZero() {
		value = access.Some(word)
	}
	if err := h.log.AddStorageRead(addr, slot, value); err != nil {
		return types.Word{}, err
	}
	if !value.Valid {
		return types.ZeroWord, nil
	}
	return value.Value, nil
}

// BlockHash reads the untrusted hash of block number, logs the read
// regardless of outcome, and fails with InvalidBlockHashRequest if the
// host reports it absent — blocks outside the queryable
// window simply do not have a hash, and the interpreter must not be
// allowed to observe that as a zero hash.
func (h *HostDB) BlockHash(number uint64) (types.Hash, error) {
	hash, present := h.channel.ReadBlockHash(number)
	value := access.None[types.Hash]()
	if present {
		value = access.Some(hash)
	}
	if err := h.log.AddBlockHashRead(number, value); err != nil {
		return types.Hash{}, err
	}
	if !present {
		return types.Hash{}, abort.New(abort.InvalidBlockHashRequest,
			"hostdb: block_hash() request for absent block")
	}
	return hash, nil
}

// AccountChange is one account's post-state as computed by the
// interpreter, passed to Commit.
type AccountChange struct {
	Address   types.Address
	Destroyed bool
	Info      types.AccountInfo // ignored when Destroyed
	Storage   []StorageDelta
}

// StorageDelta is one storage slot's post-state within an AccountChange.
type StorageDelta struct {
	Slot  types.Hash
	Value types.Word
}

// Commit logs the interpreter's post-state as a batch of writes. Accounts
// are committed in the order given by changes; within an
// account, storage deltas are committed in the order given by its
// Storage slice. Callers are expected to have already sorted changes by
// address and each account's Storage by slot (HostDB.Commit does not
// re-sort), since that fixed ordering is what determinism across
// implementations requires.
func (h *HostDB) Commit(changes []AccountChange) {
	for _, change := range changes {
		if change.Destroyed || change.Info.IsEmpty() {
			h.log.AddAccountWrite(change.Address, access.None[types.AccountInfo]())
			for _, slot := range h.log.TouchedStorageSlots(change.Address) {
				h.log.AddStorageWrite(change.Address, slot, access.None[types.Word]())
			}
			continue
		}
		h.log.AddAccountWrite(change.Address, access.Some(change.Info))
		for _, delta := range change.Storage {
			if delta.Value.IsZero() {
				h.log.AddStorageWrite(change.Address, delta.Slot, access.None[types.Word]())
			} else {
				h.log.AddStorageWrite(change.Address, delta.Slot, access.Some(delta.Value))
			}
		}
	}
}
