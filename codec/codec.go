// Package codec implements the canonical, deterministic wire format
// required for every persisted core object (Access, VSAL, Transition,
// TxTree): version-tagged, little-endian integers, length-prefixed byte
// strings. Aggregating proofs across independent provers requires
// bit-identical inputs, so encoding here is explicit per-type rather than
// reflection-driven — generics like access.Access[T] and vsal.SealedLog
// don't have a single canonical reflect.Value shape the way the
// surrounding node's RLP encoder's input types do.
package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Sovereign-Labs/amethyst/access"
	"github.com/Sovereign-Labs/amethyst/txtree"
	"github.com/Sovereign-Labs/amethyst/types"
	"github.com/Sovereign-Labs/amethyst/vsal"
)

// Version is the wire-format version tag written at the head of every
// top-level encoding. Bumping it is a breaking change for aggregation
// across provers running different builds.
const Version = 1

// Writer accumulates a canonical little-endian, length-prefixed encoding.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer { return &Writer{} }

// Bytes returns the accumulated encoding.
func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

func (w *Writer) byte(b byte) { w.buf.WriteByte(b) }

func (w *Writer) uint64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

func (w *Writer) bytesField(b []byte) {
	w.uint64(uint64(len(b)))
	w.buf.Write(b)
}

func (w *Writer) bool(v bool) {
	if v {
		w.byte(1)
	} else {
		w.byte(0)
	}
}

// Reader consumes a canonical encoding produced by Writer.
type Reader struct {
	buf *bytes.Reader
}

// NewReader wraps data for decoding.
func NewReader(data []byte) *Reader { return &Reader{buf: bytes.NewReader(data)} }

func (r *Reader) byte() (byte, error) { return r.buf.ReadByte() }

func (r *Reader) uint64() (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r.buf, b[:]); err != nil {
		return 0, fmt.Errorf("codec: reading uint64: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

func (r *Reader) bytesField() ([]byte, error) {
	n, err := r.uint64()
	if err != nil {
		return nil, err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r.buf, b); err != nil {
		return nil, fmt.Errorf("codec: reading length-prefixed field: %w", err)
	}
	return b, nil
}

func (r *Reader) bool() (bool, error) {
	b, err := r.byte()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

// --- primitive value types ---

func writeHash(w *Writer, h types.Hash) { w.buf.Write(h[:]) }

func readHash(r *Reader) (types.Hash, error) {
	var h types.Hash
	if _, err := io.ReadFull(r.buf, h[:]); err != nil {
		return h, fmt.Errorf("codec: reading hash: %w", err)
	}
	return h, nil
}

func writeAddress(w *Writer, a types.Address) { w.buf.Write(a[:]) }

func readAddress(r *Reader) (types.Address, error) {
	var a types.Address
	if _, err := io.ReadFull(r.buf, a[:]); err != nil {
		return a, fmt.Errorf("codec: reading address: %w", err)
	}
	return a, nil
}

func writeWord(w *Writer, word types.Word) {
	b := word.Bytes32()
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	w.buf.Write(b[:])
}

func readWord(r *Reader) (types.Word, error) {
	var b [32]byte
	if _, err := io.ReadFull(r.buf, b[:]); err != nil {
		return types.Word{}, fmt.Errorf("codec: reading word: %w", err)
	}
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return types.WordFromBytes(b[:]), nil
}

func writeAccountInfo(w *Writer, a types.AccountInfo) {
	w.uint64(a.Nonce)
	writeWord(w, a.Balance)
	writeHash(w, a.CodeHash)
	writeHash(w, a.StorageRoot)
}

func readAccountInfo(r *Reader) (types.AccountInfo, error) {
	var a types.AccountInfo
	var err error
	if a.Nonce, err = r.uint64(); err != nil {
		return a, err
	}
	if a.Balance, err = readWord(r); err != nil {
		return a, err
	}
	if a.CodeHash, err = readHash(r); err != nil {
		return a, err
	}
	if a.StorageRoot, err = readHash(r); err != nil {
		return a, err
	}
	return a, nil
}

// --- Option / Access, parameterized by an explicit value codec ---

// ValueCodec pairs a write and read function for one concrete value type
// T, so the generic Option/Access/Transition/TxTree encoders below can be
// reused across every value type the core needs to persist. Exported so
// callers outside this package (the host harness, tests) can supply
// codecs for their own bindings of TxTree's S/Tx/L/Env type parameters.
type ValueCodec[T comparable] struct {
	Write func(*Writer, T)
	Read  func(*Reader) (T, error)
}

func writeOption[T comparable](w *Writer, o access.Option[T], vc ValueCodec[T]) {
	w.bool(o.Valid)
	if o.Valid {
		vc.Write(w, o.Value)
	}
}

func readOption[T comparable](r *Reader, vc ValueCodec[T]) (access.Option[T], error) {
	valid, err := r.bool()
	if err != nil {
		return access.Option[T]{}, err
	}
	if !valid {
		return access.None[T](), nil
	}
	v, err := vc.Read(r)
	if err != nil {
		return access.Option[T]{}, err
	}
	return access.Some(v), nil
}

func writeAccess[T comparable](w *Writer, a access.Access[T], vc ValueCodec[T]) {
	w.byte(byte(a.Kind))
	switch a.Kind {
	case access.KindRead:
		writeOption(w, a.Value, vc)
	case access.KindWrite:
		writeOption(w, a.Value, vc)
	case access.KindReadThenWrite:
		writeOption(w, a.Original, vc)
		writeOption(w, a.Modified, vc)
	}
}

func readAccess[T comparable](r *Reader, vc ValueCodec[T]) (access.Access[T], error) {
	kindByte, err := r.byte()
	if err != nil {
		return access.Access[T]{}, err
	}
	kind := access.Kind(kindByte)
	switch kind {
	case access.KindRead:
		v, err := readOption(r, vc)
		if err != nil {
			return access.Access[T]{}, err
		}
		return access.Read(v), nil
	case access.KindWrite:
		v, err := readOption(r, vc)
		if err != nil {
			return access.Access[T]{}, err
		}
		return access.Write(v), nil
	case access.KindReadThenWrite:
		orig, err := readOption(r, vc)
		if err != nil {
			return access.Access[T]{}, err
		}
		mod, err := readOption(r, vc)
		if err != nil {
			return access.Access[T]{}, err
		}
		return access.ReadThenWrite(orig, mod), nil
	default:
		return access.Access[T]{}, fmt.Errorf("codec: unknown access kind byte %d", kindByte)
	}
}

// AccountInfoCodec, WordCodec and HashCodec are the ValueCodec instances
// for the three Access[T] payload types the VSAL's key spaces use.
var AccountInfoCodec = ValueCodec[types.AccountInfo]{Write: writeAccountInfo, Read: readAccountInfo}
var WordCodec = ValueCodec[types.Word]{Write: writeWord, Read: readWord}
var HashCodec = ValueCodec[types.Hash]{Write: writeHash, Read: readHash}

// SealedLogCodec is the ValueCodec for *vsal.SealedLog, the concrete log
// type this core's TxTree bindings use as L: it nests a full
// EncodeSealedLog/DecodeSealedLog as a length-prefixed field so SealedLog
// can itself be used as the L operand of EncodeTransition/EncodeTxTree.
var SealedLogCodec = ValueCodec[*vsal.SealedLog]{
	Write: func(w *Writer, s *vsal.SealedLog) { w.bytesField(EncodeSealedLog(s)) },
	Read: func(r *Reader) (*vsal.SealedLog, error) {
		b, err := r.bytesField()
		if err != nil {
			return nil, err
		}
		return DecodeSealedLog(b)
	},
}

// TransactionCodec and BlockEnvCodec are the ValueCodec instances for this
// core's concrete Tx and Env bindings, types.Transaction and
// types.BlockEnv.
var TransactionCodec = ValueCodec[types.Transaction]{Write: writeTransaction, Read: readTransaction}
var BlockEnvCodec = ValueCodec[types.BlockEnv]{Write: writeBlockEnv, Read: readBlockEnv}

func writeTransaction(w *Writer, tx types.Transaction) {
	w.byte(tx.Type)
	w.uint64(tx.ChainID)
	w.uint64(tx.Nonce)
	writeWord(w, tx.GasTipCap)
	writeWord(w, tx.GasFeeCap)
	w.uint64(tx.Gas)
	w.bool(tx.To != nil)
	if tx.To != nil {
		writeAddress(w, *tx.To)
	}
	writeWord(w, tx.Value)
	w.bytesField(tx.Data)
	w.uint64(uint64(len(tx.AccessList)))
	for _, tuple := range tx.AccessList {
		writeAddress(w, tuple.Address)
		w.uint64(uint64(len(tuple.StorageKeys)))
		for _, slot := range tuple.StorageKeys {
			writeHash(w, slot)
		}
	}
	writeHash(w, tx.ID())
}

func readTransaction(r *Reader) (types.Transaction, error) {
	var tx types.Transaction
	var err error
	if tx.Type, err = r.byte(); err != nil {
		return tx, err
	}
	if tx.ChainID, err = r.uint64(); err != nil {
		return tx, err
	}
	if tx.Nonce, err = r.uint64(); err != nil {
		return tx, err
	}
	if tx.GasTipCap, err = readWord(r); err != nil {
		return tx, err
	}
	if tx.GasFeeCap, err = readWord(r); err != nil {
		return tx, err
	}
	if tx.Gas, err = r.uint64(); err != nil {
		return tx, err
	}
	hasTo, err := r.bool()
	if err != nil {
		return tx, err
	}
	if hasTo {
		addr, err := readAddress(r)
		if err != nil {
			return tx, err
		}
		tx.To = &addr
	}
	if tx.Value, err = readWord(r); err != nil {
		return tx, err
	}
	if tx.Data, err = r.bytesField(); err != nil {
		return tx, err
	}
	if len(tx.Data) == 0 {
		tx.Data = nil
	}
	nTuples, err := r.uint64()
	if err != nil {
		return tx, err
	}
	if nTuples > 0 {
		tx.AccessList = make(types.AccessList, nTuples)
	}
	for i := range tx.AccessList {
		addr, err := readAddress(r)
		if err != nil {
			return tx, err
		}
		nKeys, err := r.uint64()
		if err != nil {
			return tx, err
		}
		keys := make([]types.Hash, nKeys)
		for j := range keys {
			if keys[j], err = readHash(r); err != nil {
				return tx, err
			}
		}
		tx.AccessList[i] = types.AccessTuple{Address: addr, StorageKeys: keys}
	}
	id, err := readHash(r)
	if err != nil {
		return tx, err
	}
	return tx.WithID(id), nil
}

func writeBlockEnv(w *Writer, e types.BlockEnv) {
	w.uint64(e.ChainID)
	w.uint64(e.Number)
	w.uint64(e.Timestamp)
	writeAddress(w, e.Coinbase)
	writeWord(w, e.BaseFee)
	w.uint64(e.GasLimit)
	writeHash(w, e.PrevRandao)
}

func readBlockEnv(r *Reader) (types.BlockEnv, error) {
	var e types.BlockEnv
	var err error
	if e.ChainID, err = r.uint64(); err != nil {
		return e, err
	}
	if e.Number, err = r.uint64(); err != nil {
		return e, err
	}
	if e.Timestamp, err = r.uint64(); err != nil {
		return e, err
	}
	if e.Coinbase, err = readAddress(r); err != nil {
		return e, err
	}
	if e.BaseFee, err = readWord(r); err != nil {
		return e, err
	}
	if e.GasLimit, err = r.uint64(); err != nil {
		return e, err
	}
	if e.PrevRandao, err = readHash(r); err != nil {
		return e, err
	}
	return e, nil
}

// --- SealedLog ---

// EncodeSealedLog serializes a vsal.SealedLog: a version tag followed by
// the three key-sorted entry sequences, each length-prefixed.
func EncodeSealedLog(s *vsal.SealedLog) []byte {
	w := NewWriter()
	w.byte(Version)

	w.uint64(uint64(len(s.Accounts)))
	for _, e := range s.Accounts {
		writeAddress(w, e.Key)
		writeAccess(w, e.Access, AccountInfoCodec)
	}

	w.uint64(uint64(len(s.Storage)))
	for _, e := range s.Storage {
		writeAddress(w, e.Key.Addr)
		writeHash(w, e.Key.Slot)
		writeAccess(w, e.Access, WordCodec)
	}

	w.uint64(uint64(len(s.BlockHashes)))
	for _, e := range s.BlockHashes {
		w.uint64(e.Key)
		writeAccess(w, e.Access, HashCodec)
	}

	return w.Bytes()
}

// DecodeSealedLog is the inverse of EncodeSealedLog.
func DecodeSealedLog(data []byte) (*vsal.SealedLog, error) {
	r := NewReader(data)
	ver, err := r.byte()
	if err != nil {
		return nil, err
	}
	if ver != Version {
		return nil, fmt.Errorf("codec: unsupported sealed-log version %d", ver)
	}

	nAccounts, err := r.uint64()
	if err != nil {
		return nil, err
	}
	accounts := make([]vsal.AccountEntry, nAccounts)
	for i := range accounts {
		addr, err := readAddress(r)
		if err != nil {
			return nil, err
		}
		acc, err := readAccess(r, AccountInfoCodec)
		if err != nil {
			return nil, err
		}
		accounts[i] = vsal.AccountEntry{Key: addr, Access: acc}
	}

	nStorage, err := r.uint64()
	if err != nil {
		return nil, err
	}
	storage := make([]vsal.StorageEntry, nStorage)
	for i := range storage {
		addr, err := readAddress(r)
		if err != nil {
			return nil, err
		}
		slot, err := readHash(r)
		if err != nil {
			return nil, err
		}
		acc, err := readAccess(r, WordCodec)
		if err != nil {
			return nil, err
		}
		storage[i] = vsal.StorageEntry{Key: vsal.StorageKey{Addr: addr, Slot: slot}, Access: acc}
	}

	nBlocks, err := r.uint64()
	if err != nil {
		return nil, err
	}
	blocks := make([]vsal.BlockHashEntry, nBlocks)
	for i := range blocks {
		num, err := r.uint64()
		if err != nil {
			return nil, err
		}
		acc, err := readAccess(r, HashCodec)
		if err != nil {
			return nil, err
		}
		blocks[i] = vsal.BlockHashEntry{Key: num, Access: acc}
	}

	return &vsal.SealedLog{Accounts: accounts, Storage: storage, BlockHashes: blocks}, nil
}

// --- Transition ---

func writeTransitionBody[S comparable, L any](w *Writer, t txtree.Transition[S, L], sc ValueCodec[S], lc ValueCodec[L]) {
	w.byte(byte(t.Kind))
	switch t.Kind {
	case txtree.KindApplied:
		sc.Write(w, t.Pre)
		sc.Write(w, t.Post)
	case txtree.KindLogged:
		lc.Write(w, t.Log)
	case txtree.KindHybrid:
		sc.Write(w, t.Pre)
		sc.Write(w, t.Mid)
		lc.Write(w, t.Log)
	}
}

func readTransitionBody[S comparable, L any](r *Reader, sc ValueCodec[S], lc ValueCodec[L]) (txtree.Transition[S, L], error) {
	kindByte, err := r.byte()
	if err != nil {
		return txtree.Transition[S, L]{}, err
	}
	switch txtree.Kind(kindByte) {
	case txtree.KindApplied:
		pre, err := sc.Read(r)
		if err != nil {
			return txtree.Transition[S, L]{}, err
		}
		post, err := sc.Read(r)
		if err != nil {
			return txtree.Transition[S, L]{}, err
		}
		return txtree.Applied[S, L](pre, post), nil
	case txtree.KindLogged:
		log, err := lc.Read(r)
		if err != nil {
			return txtree.Transition[S, L]{}, err
		}
		return txtree.Logged[S, L](log), nil
	case txtree.KindHybrid:
		pre, err := sc.Read(r)
		if err != nil {
			return txtree.Transition[S, L]{}, err
		}
		mid, err := sc.Read(r)
		if err != nil {
			return txtree.Transition[S, L]{}, err
		}
		log, err := lc.Read(r)
		if err != nil {
			return txtree.Transition[S, L]{}, err
		}
		return txtree.Hybrid[S, L](pre, mid, log), nil
	default:
		return txtree.Transition[S, L]{}, fmt.Errorf("codec: unknown transition kind byte %d", kindByte)
	}
}

// EncodeTransition serializes a Transition: a version tag followed by the
// kind byte and whichever fields that kind populates (Pre/Post for
// Applied, Log for Logged, Pre/Mid/Log for Hybrid). sc and lc supply the
// wire format for the transition's S and L type parameters.
func EncodeTransition[S comparable, L any](t txtree.Transition[S, L], sc ValueCodec[S], lc ValueCodec[L]) []byte {
	w := NewWriter()
	w.byte(Version)
	writeTransitionBody(w, t, sc, lc)
	return w.Bytes()
}

// DecodeTransition is the inverse of EncodeTransition.
func DecodeTransition[S comparable, L any](data []byte, sc ValueCodec[S], lc ValueCodec[L]) (txtree.Transition[S, L], error) {
	r := NewReader(data)
	ver, err := r.byte()
	if err != nil {
		return txtree.Transition[S, L]{}, err
	}
	if ver != Version {
		return txtree.Transition[S, L]{}, fmt.Errorf("codec: unsupported transition version %d", ver)
	}
	return readTransitionBody[S, L](r, sc, lc)
}

// --- TxTree ---

// EncodeTxTree serializes a TxTree: a version tag, the length-prefixed
// Includes sequence, the Env, and the Transition body. txc, sc, lc and
// envc supply the wire format for the tree's Tx, S, L and Env type
// parameters respectively.
func EncodeTxTree[S comparable, Tx any, L txtree.Merger[L], Env comparable](
	t *txtree.TxTree[S, Tx, L, Env],
	txc ValueCodec[Tx], sc ValueCodec[S], lc ValueCodec[L], envc ValueCodec[Env],
) []byte {
	w := NewWriter()
	w.byte(Version)
	w.uint64(uint64(len(t.Includes)))
	for _, tx := range t.Includes {
		txc.Write(w, tx)
	}
	envc.Write(w, t.Env)
	writeTransitionBody(w, t.Change, sc, lc)
	return w.Bytes()
}

// DecodeTxTree is the inverse of EncodeTxTree.
func DecodeTxTree[S comparable, Tx any, L txtree.Merger[L], Env comparable](
	data []byte,
	txc ValueCodec[Tx], sc ValueCodec[S], lc ValueCodec[L], envc ValueCodec[Env],
) (*txtree.TxTree[S, Tx, L, Env], error) {
	r := NewReader(data)
	ver, err := r.byte()
	if err != nil {
		return nil, err
	}
	if ver != Version {
		return nil, fmt.Errorf("codec: unsupported tx tree version %d", ver)
	}
	n, err := r.uint64()
	if err != nil {
		return nil, err
	}
	includes := make([]Tx, n)
	for i := range includes {
		if includes[i], err = txc.Read(r); err != nil {
			return nil, err
		}
	}
	env, err := envc.Read(r)
	if err != nil {
		return nil, err
	}
	change, err := readTransitionBody[S, L](r, sc, lc)
	if err != nil {
		return nil, err
	}
	return &txtree.TxTree[S, Tx, L, Env]{Includes: includes, Env: env, Change: change}, nil
}
