package access

import (
	"testing"

	"github.com/Sovereign-Labs/amethyst/abort"
)

func v(n int) Option[int] {
	if n < 0 {
		return None[int]()
	}
	return Some(n)
}

// read Some(5), then write Some(7).
func TestReadThenWriteScenario(t *testing.T) {
	a := Read(v(5))
	b := Write(v(7))
	got, err := Merge(a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := ReadThenWrite(v(5), v(7))
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

// Scenario 2: write balance=100, then re-read balance=100 -> Write(100) unchanged.
func TestWriteThenMatchingRead(t *testing.T) {
	a := Write(v(100))
	b := Read(v(100))
	got, err := Merge(a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != (Access[int]{Kind: KindWrite, Value: v(100)}) {
		t.Fatalf("got %+v", got)
	}
}

// Scenario 3: write then mismatching read -> CausalityViolation.
func TestWriteThenMismatchingRead(t *testing.T) {
	a := Write(v(100))
	b := Read(v(99))
	_, err := Merge(a, b)
	if !abort.Is(err, abort.CausalityViolation) {
		t.Fatalf("expected CausalityViolation, got %v", err)
	}
}

// Scenario 4: a write of the zero value must round-trip as None at the
// VSAL layer; here we just check Access treats None as an ordinary value.
func TestSparseZeroWrite(t *testing.T) {
	a := Write(None[int]())
	b := Read(None[int]())
	got, err := Merge(a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != KindWrite || got.Value.Valid {
		t.Fatalf("got %+v", got)
	}
}

// P1: merge is associative whenever all intermediate assertions hold.
func TestMergeAssociative(t *testing.T) {
	// Build chains that are guaranteed causally consistent: a linear
	// read/write history on one key, fixing the "current" value after
	// each step so every adjacent pair agrees.
	chains := [][]Access[int]{
		{Read(v(1)), Read(v(1)), Read(v(1))},
		{Read(v(1)), Write(v(2)), Read(v(2))},
		{Write(v(1)), ReadThenWrite(v(1), v(2)), Read(v(2))},
		{Read(v(0)), ReadThenWrite(v(0), v(3)), Write(v(9))},
	}

	for ci, chain := range chains {
		a, b, c := chain[0], chain[1], chain[2]

		ab, err := Merge(a, b)
		if err != nil {
			t.Fatalf("chain %d: merge(a,b) error: %v", ci, err)
		}
		left, err := Merge(ab, c)
		if err != nil {
			t.Fatalf("chain %d: merge(merge(a,b),c) error: %v", ci, err)
		}

		bc, err := Merge(b, c)
		if err != nil {
			t.Fatalf("chain %d: merge(b,c) error: %v", ci, err)
		}
		right, err := Merge(a, bc)
		if err != nil {
			t.Fatalf("chain %d: merge(a,merge(b,c)) error: %v", ci, err)
		}

		if left != right {
			t.Fatalf("chain %d: associativity violated: left=%+v right=%+v", ci, left, right)
		}
	}
}

// P2: merge(log, empty) = merge(empty, log) = log is a VSAL-level property
// (an empty Access has no representation here); exercised in vsal/merge_test.go.

// The 9-cell table must be total: every (Kind, Kind) pair returns either a
// result or a CausalityViolation, never a panic.
func TestMergeTableTotal(t *testing.T) {
	kinds := []Kind{KindRead, KindWrite, KindReadThenWrite}
	build := func(k Kind) Access[int] {
		switch k {
		case KindRead:
			return Read(v(1))
		case KindWrite:
			return Write(v(1))
		default:
			return ReadThenWrite(v(1), v(1))
		}
	}
	for _, lk := range kinds {
		for _, rk := range kinds {
			l, r := build(lk), build(rk)
			if _, err := Merge(l, r); err != nil && !abort.Is(err, abort.CausalityViolation) {
				t.Fatalf("unexpected error kind for (%s,%s): %v", lk, rk, err)
			}
		}
	}
}
