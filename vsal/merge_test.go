package vsal

import (
	"reflect"
	"testing"
)

// P2: merge(log, empty) = merge(empty, log) = log.
func TestMergeIdentity(t *testing.T) {
	v := New()
	v.AddAccountWrite(addr(1), acct(0))
	v.AddStorageWrite(addr(1), slot(0), word(5))
	sealed := v.Seal()

	right, err := sealed.Merge(Empty())
	if err != nil {
		t.Fatalf("merge(log, empty): %v", err)
	}
	if !reflect.DeepEqual(right, sealed) {
		t.Fatalf("merge(log, empty) != log")
	}

	left, err := Empty().Merge(sealed)
	if err != nil {
		t.Fatalf("merge(empty, log): %v", err)
	}
	if !reflect.DeepEqual(left, sealed) {
		t.Fatalf("merge(empty, log) != log")
	}
}

// P3: merged log keys are strictly ordered (no duplicates, ascending).
func TestMergeKeysStrictlyOrdered(t *testing.T) {
	v1 := New()
	v1.AddAccountWrite(addr(1), acct(0))
	v1.AddAccountWrite(addr(3), acct(0))

	v2 := New()
	v2.AddAccountRead(addr(3), acct(0))
	v2.AddAccountWrite(addr(2), acct(0))

	merged, err := v1.Seal().Merge(v2.Seal())
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	for i := 1; i < len(merged.Accounts); i++ {
		if !merged.Accounts[i-1].Key.Less(merged.Accounts[i].Key) {
			t.Fatalf("not strictly ordered: %+v", merged.Accounts)
		}
	}
	if len(merged.Accounts) != 3 {
		t.Fatalf("expected 3 merged accounts, got %d", len(merged.Accounts))
	}
}

// Determinism: two logs differing only in intra-key read/read order merge
// to byte-identical results.
func TestMergeDeterministicAcrossIntraKeyOrder(t *testing.T) {
	build := func(readFirst bool) *SealedLog {
		v := New()
		a, s, s2 := addr(4), slot(4), slot(5)
		if readFirst {
			_ = v.AddStorageRead(a, s, word(1))
			_ = v.AddStorageRead(a, s2, word(3))
			_ = v.AddStorageRead(a, s, word(1))
		} else {
			// Same reads, issued in a different order: the repeated read
			// of s agrees with the first, so causality holds either way.
			_ = v.AddStorageRead(a, s2, word(3))
			_ = v.AddStorageRead(a, s, word(1))
			_ = v.AddStorageRead(a, s, word(1))
		}
		v.AddStorageWrite(a, s, word(2))
		return v.Seal()
	}

	other := New()
	other.AddAccountWrite(addr(1), acct(0))
	otherSealed := other.Seal()

	m1, err := build(true).Merge(otherSealed)
	if err != nil {
		t.Fatalf("merge 1: %v", err)
	}
	m2, err := build(false).Merge(otherSealed)
	if err != nil {
		t.Fatalf("merge 2: %v", err)
	}
	if !reflect.DeepEqual(m1, m2) {
		t.Fatalf("merge results differ by intra-key order: %+v vs %+v", m1, m2)
	}
}

// Causality violation propagates out of SealedLog.Merge.
func TestMergeCausalityViolation(t *testing.T) {
	v1 := New()
	v1.AddAccountWrite(addr(1), acct(0))

	v2 := New()
	v2.AddAccountRead(addr(1), acct(99))

	if _, err := v1.Seal().Merge(v2.Seal()); err == nil {
		t.Fatalf("expected causality violation")
	}
}
