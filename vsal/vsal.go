// Package vsal implements the Verifiable State-Access Log:
// a per-execution record of reads and writes against the sparse
// authenticated Account/Storage/BlockHash key spaces. A VSAL is built up
// during execution via AddXRead/AddXWrite (O(1) hashed updates), then
// Sealed into a canonically-ordered, immutable SealedLog that can be
// merged with other sealed logs.
package vsal

import (
	"sort"

	"github.com/Sovereign-Labs/amethyst/abort"
	"github.com/Sovereign-Labs/amethyst/access"
	"github.com/Sovereign-Labs/amethyst/types"
)

// StorageKey uniquely identifies a (address, slot) storage cell.
type StorageKey struct {
	Addr types.Address
	Slot types.Hash
}

func storageKeyLess(a, b StorageKey) bool {
	if a.Addr != b.Addr {
		return a.Addr.Less(b.Addr)
	}
	return a.Slot.Less(b.Slot)
}

// ReadLog is the read-only capability set over a log: point lookups of the
// access currently on file for a key, without the ability to mutate it.
// Separate capability sets (ReadLog and RwLog here; merging is
// SealedLog.Merge, which satisfies txtree.Merger) are used rather than a
// single tagged-variant log type, since the capability distinction is
// static and known at compile time.
type ReadLog interface {
	AccountCurrent(addr types.Address) (access.Option[types.AccountInfo], bool)
	StorageCurrent(addr types.Address, slot types.Hash) (access.Option[types.Word], bool)
}

// RwLog extends ReadLog with the mutating operations HostDB drives the
// interpreter's queries and commits through.
type RwLog interface {
	ReadLog
	AddAccountRead(addr types.Address, value access.Option[types.AccountInfo]) error
	AddAccountWrite(addr types.Address, value access.Option[types.AccountInfo])
	AddStorageRead(addr types.Address, slot types.Hash, value access.Option[types.Word]) error
	AddStorageWrite(addr types.Address, slot types.Hash, value access.Option[types.Word])
	AddBlockHashRead(number uint64, value access.Option[types.Hash]) error
	TouchedStorageSlots(addr types.Address) []types.Hash
	Seal() *SealedLog
}

// VSAL is the mutable, per-transaction builder for a state-access log. It
// is owned exclusively by the executing transaction's HostDB;
// there is no internal locking.
type VSAL struct {
	accounts    map[types.Address]access.Access[types.AccountInfo]
	storage     map[StorageKey]access.Access[types.Word]
	blockhashes map[uint64]access.Access[types.Hash]
}

// New creates an empty VSAL, as at the start of a transaction's execution.
func New() *VSAL {
	return &VSAL{
		accounts:    make(map[types.Address]access.Access[types.AccountInfo]),
		storage:     make(map[StorageKey]access.Access[types.Word]),
		blockhashes: make(map[uint64]access.Access[types.Hash]),
	}
}

// AccountCurrent returns the access currently on file for addr, if any.
func (v *VSAL) AccountCurrent(addr types.Address) (access.Option[types.AccountInfo], bool) {
	a, ok := v.accounts[addr]
	if !ok {
		return access.Option[types.AccountInfo]{}, false
	}
	return a.Current(), true
}

// StorageCurrent returns the access currently on file for (addr, slot), if any.
func (v *VSAL) StorageCurrent(addr types.Address, slot types.Hash) (access.Option[types.Word], bool) {
	a, ok := v.storage[StorageKey{Addr: addr, Slot: slot}]
	if !ok {
		return access.Option[types.Word]{}, false
	}
	return a.Current(), true
}

// AddAccountRead records a read of addr observed to hold value. If an
// access is already on file, value must agree with
// its current view or this is a CausalityViolation; the stored access is
// never mutated by a read.
func (v *VSAL) AddAccountRead(addr types.Address, value access.Option[types.AccountInfo]) error {
	return addRead(v.accounts, addr, value)
}

// AddAccountWrite records a write of addr to value.
func (v *VSAL) AddAccountWrite(addr types.Address, value access.Option[types.AccountInfo]) {
	addWrite(v.accounts, addr, value)
}

// AddStorageRead records a read of (addr, slot) observed to hold value.
func (v *VSAL) AddStorageRead(addr types.Address, slot types.Hash, value access.Option[types.Word]) error {
	return addRead(v.storage, StorageKey{Addr: addr, Slot: slot}, value)
}

// AddStorageWrite records a write of (addr, slot) to value. The
// caller is responsible for collapsing a zero-word write to None before
// calling this — HostDB.Commit does that collapse.
func (v *VSAL) AddStorageWrite(addr types.Address, slot types.Hash, value access.Option[types.Word]) {
	addWrite(v.storage, StorageKey{Addr: addr, Slot: slot}, value)
}

// AddBlockHashRead records a read of block number n observed to hold
// value. Block hashes are read-only in this core: there is no
// AddBlockHashWrite. A disagreeing re-read of the same number is a
// CausalityViolation.
func (v *VSAL) AddBlockHashRead(number uint64, value access.Option[types.Hash]) error {
	return addRead(v.blockhashes, number, value)
}

// TouchedStorageSlots returns, in no particular order, every slot of addr
// that already has an access on file in this log. HostDB.Commit uses this
// to enumerate the "known live storage keys" of a destroyed account so it
// can cascade-clear them.
func (v *VSAL) TouchedStorageSlots(addr types.Address) []types.Hash {
	var slots []types.Hash
	for key := range v.storage {
		if key.Addr == addr {
			slots = append(slots, key.Slot)
		}
	}
	return slots
}

// addRead is shared by all three key spaces: install a Read access if the
// key is untouched, otherwise assert the new read agrees with the access's
// current value and leave it unchanged.
func addRead[K comparable, T comparable](m map[K]access.Access[T], key K, value access.Option[T]) error {
	existing, ok := m[key]
	if !ok {
		m[key] = access.Read(value)
		return nil
	}
	if existing.Current() != value {
		return abort.New(abort.CausalityViolation, "vsal: read disagrees with access on file")
	}
	return nil
}

// addWrite is shared by the accounts and storage key spaces.
func addWrite[K comparable, T comparable](m map[K]access.Access[T], key K, value access.Option[T]) {
	existing, ok := m[key]
	if !ok {
		m[key] = access.Write(value)
		return
	}
	switch existing.Kind {
	case access.KindRead:
		m[key] = access.ReadThenWrite(existing.Value, value)
	case access.KindReadThenWrite:
		m[key] = access.ReadThenWrite(existing.Original, value)
	case access.KindWrite:
		m[key] = access.Write(value)
	}
}

// Seal drains the VSAL's hashed, insertion-order-agnostic maps into a
// canonically key-sorted, immutable SealedLog. After Seal the
// VSAL should not be mutated further; sealing is one-way.
func (v *VSAL) Seal() *SealedLog {
	accounts := make([]AccountEntry, 0, len(v.accounts))
	for k, a := range v.accounts {
		accounts = append(accounts, AccountEntry{Key: k, Access: a})
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Key.Less(accounts[j].Key) })

	storage := make([]StorageEntry, 0, len(v.storage))
	for k, a := range v.storage {
		storage = append(storage, StorageEntry{Key: k, Access: a})
	}
	sort.Slice(storage, func(i, j int) bool { return storageKeyLess(storage[i].Key, storage[j].Key) })

	blockhashes := make([]BlockHashEntry, 0, len(v.blockhashes))
	for k, a := range v.blockhashes {
		blockhashes = append(blockhashes, BlockHashEntry{Key: k, Access: a})
	}
	sort.Slice(blockhashes, func(i, j int) bool { return blockhashes[i].Key < blockhashes[j].Key })

	return &SealedLog{Accounts: accounts, Storage: storage, BlockHashes: blockhashes}
}
