package vsal

import (
	"testing"

	"github.com/Sovereign-Labs/amethyst/abort"
	"github.com/Sovereign-Labs/amethyst/access"
	"github.com/Sovereign-Labs/amethyst/types"
)

func addr(b byte) types.Address {
	var a types.Address
	a[len(a)-1] = b
	return a
}

func slot(b byte) types.Hash {
	var h types.Hash
	h[len(h)-1] = b
	return h
}

func acct(nonce uint64) access.Option[types.AccountInfo] {
	return access.Some(types.NewAccountInfo(nonce, types.ZeroWord))
}

func word(n uint64) access.Option[types.Word] {
	return access.Some(types.WordFromUint64(n))
}

// Scenario 1: single read, single write, same key, same txn.
func TestStorageReadThenWrite(t *testing.T) {
	v := New()
	a, s := addr(1), slot(0)
	if err := v.AddStorageRead(a, s, word(5)); err != nil {
		t.Fatalf("read: %v", err)
	}
	v.AddStorageWrite(a, s, word(7))

	cur, ok := v.StorageCurrent(a, s)
	if !ok || cur != word(7) {
		t.Fatalf("got %+v", cur)
	}

	sealed := v.Seal()
	if len(sealed.Storage) != 1 {
		t.Fatalf("expected 1 storage entry, got %d", len(sealed.Storage))
	}
	got := sealed.Storage[0].Access
	want := access.ReadThenWrite(word(5), word(7))
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestAccountWriteThenMismatchingRead(t *testing.T) {
	v := New()
	a := addr(0xaa)
	v.AddAccountWrite(a, acct(0))
	err := v.AddAccountRead(a, acct(1))
	if !abort.Is(err, abort.CausalityViolation) {
		t.Fatalf("expected CausalityViolation, got %v", err)
	}
}

func TestBlockHashDisagreeingReread(t *testing.T) {
	v := New()
	h1 := access.Some(types.HexToHash("0x01"))
	h2 := access.Some(types.HexToHash("0x02"))
	if err := v.AddBlockHashRead(100, h1); err != nil {
		t.Fatalf("first read: %v", err)
	}
	if err := v.AddBlockHashRead(100, h1); err != nil {
		t.Fatalf("repeated agreeing read: %v", err)
	}
	if err := v.AddBlockHashRead(100, h2); !abort.Is(err, abort.CausalityViolation) {
		t.Fatalf("expected CausalityViolation, got %v", err)
	}
}

func TestTouchedStorageSlots(t *testing.T) {
	v := New()
	a := addr(7)
	v.AddStorageWrite(a, slot(1), word(1))
	v.AddStorageWrite(a, slot(2), word(2))
	v.AddStorageWrite(addr(8), slot(1), word(9)) // different address, not counted

	got := v.TouchedStorageSlots(a)
	if len(got) != 2 {
		t.Fatalf("expected 2 slots, got %d: %v", len(got), got)
	}
}

// Seal must produce a canonically address-sorted sequence regardless of
// insertion order.
func TestSealSortsByKey(t *testing.T) {
	v := New()
	v.AddAccountWrite(addr(9), acct(0))
	v.AddAccountWrite(addr(1), acct(0))
	v.AddAccountWrite(addr(5), acct(0))

	sealed := v.Seal()
	for i := 1; i < len(sealed.Accounts); i++ {
		if !sealed.Accounts[i-1].Key.Less(sealed.Accounts[i].Key) {
			t.Fatalf("accounts not strictly sorted at %d: %+v", i, sealed.Accounts)
		}
	}
}
