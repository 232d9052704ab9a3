package types

// AccountInfo is the account record held at an Account[addr] key in the
// verifiable state-access log. It is deliberately a plain comparable
// struct (no pointers, no slices) so that Access[AccountInfo] can compare
// observed values with == when checking causality.
type AccountInfo struct {
	Nonce       uint64
	Balance     Word
	CodeHash    Hash
	StorageRoot Hash
}

// EmptyCodeHash is the Keccak-256 hash of the empty byte string, the
// CodeHash carried by an externally-owned account.
var EmptyCodeHash = HexToHash("c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470")

// EmptyRootHash is the root of an empty storage trie.
var EmptyRootHash = HexToHash("56e81f171bcc55a6ff8345e692c0f86e5b48e01b996cadc001622fb5e363b421")

// NewAccountInfo builds an externally-owned account with the given nonce
// and balance, empty code and empty storage.
func NewAccountInfo(nonce uint64, balance Word) AccountInfo {
	return AccountInfo{
		Nonce:       nonce,
		Balance:     balance,
		CodeHash:    EmptyCodeHash,
		StorageRoot: EmptyRootHash,
	}
}

// IsEmpty reports whether the account matches the EIP-161 definition of an
// empty account: zero nonce, zero balance, no code. HostDB.Commit collapses
// such accounts to an absent key, matching the MPT's sparse convention.
func (a AccountInfo) IsEmpty() bool {
	return a.Nonce == 0 && a.Balance.IsZero() && a.CodeHash == EmptyCodeHash
}

// Bytecode is a contract's raw EVM code, addressed by its Keccak-256 hash
// in the Account.CodeHash field. Bytecode itself is never carried inline
// in an AccountInfo; see hostdb.HostDB.Basic.
type Bytecode []byte
