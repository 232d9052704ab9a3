package types

// Transaction type discriminants, matching the wire values used by the
// outer bundle pipeline (EIP-2718 typed transactions).
const (
	LegacyTxType     = 0x00
	AccessListTxType = 0x01 // EIP-2930
	DynamicFeeTxType = 0x02 // EIP-1559
)

// AccessTuple is a single address and the storage slots a transaction
// declares it will touch (EIP-2930). HostDB does not read access lists;
// declaring a slot does not by itself cause a VSAL read or write.
type AccessTuple struct {
	Address     Address
	StorageKeys []Hash
}

// AccessList is the EIP-2930 access list carried by a transaction.
type AccessList []AccessTuple

// Transaction is the bundle-level transaction envelope the core consumes.
// Signature and RLP/SSZ wire encoding belong to the outer bundle pipeline;
// this type carries only the fields the state-transition algebra needs to
// reason about ordering and identity.
type Transaction struct {
	Type       byte
	ChainID    uint64
	Nonce      uint64
	GasTipCap  Word // EIP-1559 max priority fee; equals GasPrice for legacy/2930
	GasFeeCap  Word // EIP-1559 max fee; equals GasPrice for legacy/2930
	Gas        uint64
	To         *Address // nil for contract creation
	Value      Word
	Data       []byte
	AccessList AccessList

	id Hash // opaque transaction identifier, assigned by the outer pipeline
}

// WithID returns a copy of tx carrying the given identifier. The bundle
// pipeline computes tx identifiers (typically a signed-transaction hash);
// the core only needs them to be stable and comparable so it can name
// members of a TxTree's Includes sequence in the proof journal.
func (tx Transaction) WithID(id Hash) Transaction {
	tx.id = id
	return tx
}

// ID returns the transaction's opaque identifier.
func (tx Transaction) ID() Hash { return tx.id }

// IsCreate reports whether the transaction creates a contract.
func (tx Transaction) IsCreate() bool { return tx.To == nil }

// BlockEnv is the shared execution environment for a TxTree. Two
// TxTrees may only be merged when their BlockEnv values are equal, so this
// type is kept a plain comparable struct (no pointers or slices).
type BlockEnv struct {
	ChainID    uint64
	Number     uint64
	Timestamp  uint64
	Coinbase   Address
	BaseFee    Word
	GasLimit   uint64
	PrevRandao Hash
}
