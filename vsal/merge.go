package vsal

import (
	"github.com/Sovereign-Labs/amethyst/access"
	"github.com/Sovereign-Labs/amethyst/types"
)

// entry pairs a key-space key with the Access recorded for it. Account,
// storage and block-hash entries are all instances of this one generic
// shape; see vsal.go for the key types and their ordering.
type entry[K comparable, T comparable] struct {
	Key    K
	Access access.Access[T]
}

type AccountEntry = entry[types.Address, types.AccountInfo]
type StorageEntry = entry[StorageKey, types.Word]
type BlockHashEntry = entry[uint64, types.Hash]

// SealedLog is an immutable, canonically key-sorted VSAL. It
// is produced by VSAL.Seal and by SealedLog.Merge, and is the type that
// flows into a TxTree's Logged/Hybrid transition as the log parameter L.
type SealedLog struct {
	Accounts    []AccountEntry
	Storage     []StorageEntry
	BlockHashes []BlockHashEntry
}

// Empty is the identity element for Merge.
func Empty() *SealedLog {
	return &SealedLog{}
}

// Merge combines the receiver with other into a new canonically-ordered
// SealedLog. The receiver is understood to precede other in
// execution order: where both logs touch the same key, the receiver's
// Access is the left-hand operand of access.Merge. Two-pointer merge over
// the two (already sorted) inputs gives O(n) combination once both sides
// are sorted.
//
// Determinism: logs differing only in intra-key read/read
// ordering collapse to byte-identical results, because Seal always
// produces one canonical Access per key regardless of call order, and
// this merge never reorders distinct keys.
func (s *SealedLog) Merge(other *SealedLog) (*SealedLog, error) {
	accounts, err := mergeEntries(s.Accounts, other.Accounts, func(a, b types.Address) bool { return a.Less(b) })
	if err != nil {
		return nil, err
	}
	storage, err := mergeEntries(s.Storage, other.Storage, storageKeyLess)
	if err != nil {
		return nil, err
	}
	blockhashes, err := mergeEntries(s.BlockHashes, other.BlockHashes, func(a, b uint64) bool { return a < b })
	if err != nil {
		return nil, err
	}
	return &SealedLog{Accounts: accounts, Storage: storage, BlockHashes: blockhashes}, nil
}

// mergeEntries performs a two-pointer k-way merge over two key-sorted
// entry slices, combining same-key accesses with access.Merge. The result
// is strictly key-ordered: a and b
// are each assumed to already be duplicate-key-free and sorted, which Seal
// and a prior Merge both guarantee.
func mergeEntries[K comparable, T comparable](a, b []entry[K, T], less func(K, K) bool) ([]entry[K, T], error) {
	out := make([]entry[K, T], 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case less(a[i].Key, b[j].Key):
			out = append(out, a[i])
			i++
		case less(b[j].Key, a[i].Key):
			out = append(out, b[j])
			j++
		default:
			merged, err := access.Merge(a[i].Access, b[j].Access)
			if err != nil {
				return nil, err
			}
			out = append(out, entry[K, T]{Key: a[i].Key, Access: merged})
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out, nil
}
