package txtree

import (
	"reflect"
	"testing"

	"github.com/Sovereign-Labs/amethyst/abort"
)

// stringLog is a minimal Merger[L] stub: concatenation models "merging
// two logs", with nothing to assert.
type stringLog string

func (l stringLog) Merge(other stringLog) (stringLog, error) {
	return l + other, nil
}

type tx = string

func leafApplied(pre, post int, t tx, env string) *TxTree[int, tx, stringLog, string] {
	return New[int, tx, stringLog, string](t, env, Applied[int, stringLog](pre, post))
}

func leafLogged(log stringLog, t tx, env string) *TxTree[int, tx, stringLog, string] {
	return New[int, tx, stringLog, string](t, env, Logged[int, stringLog](log))
}

// Scenario 5: Applied(pre=H0, post=H1) merged with Logged(L) yields
// Hybrid(H0, H1, L), includes concatenated in order.
func TestMergeAppliedThenLogged(t *testing.T) {
	left := leafApplied(0, 1, "tx1", "env")
	right := leafLogged(stringLog("L"), "tx2", "env")

	merged, err := left.Merge(right)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if merged.Change.Kind != KindHybrid {
		t.Fatalf("expected Hybrid, got %v", merged.Change.Kind)
	}
	if merged.Change.Pre != 0 || merged.Change.Mid != 1 || merged.Change.Log != "L" {
		t.Fatalf("got %+v", merged.Change)
	}
	if !reflect.DeepEqual(merged.Includes, []tx{"tx1", "tx2"}) {
		t.Fatalf("includes not concatenated in order: %v", merged.Includes)
	}
}

// Scenario 6: Logged(L) merged with Applied(H0, H1) is an OrderingViolation.
func TestMergeLoggedThenAppliedErrors(t *testing.T) {
	left := leafLogged(stringLog("L"), "tx1", "env")
	right := leafApplied(0, 1, "tx2", "env")

	_, err := left.Merge(right)
	if !abort.Is(err, abort.OrderingViolation) {
		t.Fatalf("expected OrderingViolation, got %v", err)
	}
}

func TestMergeAppliedChaining(t *testing.T) {
	left := leafApplied(0, 1, "tx1", "env")
	right := leafApplied(1, 2, "tx2", "env")

	merged, err := left.Merge(right)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if merged.Change.Kind != KindApplied || merged.Change.Pre != 0 || merged.Change.Post != 2 {
		t.Fatalf("got %+v", merged.Change)
	}
}

func TestMergeAppliedChainingMismatch(t *testing.T) {
	left := leafApplied(0, 1, "tx1", "env")
	right := leafApplied(5, 6, "tx2", "env")

	_, err := left.Merge(right)
	if !abort.Is(err, abort.CausalityViolation) {
		t.Fatalf("expected CausalityViolation, got %v", err)
	}
}

func TestMergeLoggedThenLogged(t *testing.T) {
	left := leafLogged(stringLog("A"), "tx1", "env")
	right := leafLogged(stringLog("B"), "tx2", "env")

	merged, err := left.Merge(right)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if merged.Change.Kind != KindLogged || merged.Change.Log != "AB" {
		t.Fatalf("got %+v", merged.Change)
	}
}

func TestMergeHybridThenLogged(t *testing.T) {
	left := New[int, tx, stringLog, string]("tx1", "env", Hybrid[int, stringLog](0, 1, stringLog("A")))
	right := leafLogged(stringLog("B"), "tx2", "env")

	merged, err := left.Merge(right)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if merged.Change.Kind != KindHybrid || merged.Change.Pre != 0 || merged.Change.Mid != 1 || merged.Change.Log != "AB" {
		t.Fatalf("got %+v", merged.Change)
	}
}

func TestMergeHybridThenAppliedErrors(t *testing.T) {
	left := New[int, tx, stringLog, string]("tx1", "env", Hybrid[int, stringLog](0, 1, stringLog("A")))
	right := leafApplied(1, 2, "tx2", "env")

	_, err := left.Merge(right)
	if !abort.Is(err, abort.OrderingViolation) {
		t.Fatalf("expected OrderingViolation, got %v", err)
	}
}

// Env mismatch is fatal and distinct from OrderingViolation.
func TestMergeEnvMismatch(t *testing.T) {
	left := leafApplied(0, 1, "tx1", "env-a")
	right := leafApplied(1, 2, "tx2", "env-b")

	_, err := left.Merge(right)
	if !abort.Is(err, abort.EnvMismatch) {
		t.Fatalf("expected EnvMismatch, got %v", err)
	}
}

// P7: merge is non-commutative; swapping operands errors here since
// Applied+Applied with endpoints reversed does not chain.
func TestMergeNonCommutative(t *testing.T) {
	left := leafApplied(0, 1, "tx1", "env")
	right := leafApplied(1, 2, "tx2", "env")

	forward, err := left.Merge(right)
	if err != nil {
		t.Fatalf("forward merge: %v", err)
	}
	if !reflect.DeepEqual(forward.Includes, []tx{"tx1", "tx2"}) {
		t.Fatalf("forward includes: %v", forward.Includes)
	}

	_, err = right.Merge(left)
	if !abort.Is(err, abort.CausalityViolation) {
		t.Fatalf("expected swapped merge to error, got %v", err)
	}
}

type stubApplier struct{}

func (stubApplier) Apply(pre int, log stringLog) (int, error) {
	return pre + len(log), nil
}

func TestApplyLogged(t *testing.T) {
	tree := leafLogged(stringLog("abc"), "tx1", "env")
	applied, err := Apply[int, tx, stringLog, string](tree, 10, stubApplier{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if applied.Change.Kind != KindApplied || applied.Change.Pre != 10 || applied.Change.Post != 13 {
		t.Fatalf("got %+v", applied.Change)
	}
}

func TestApplyHybrid(t *testing.T) {
	tree := New[int, tx, stringLog, string]("tx1", "env", Hybrid[int, stringLog](0, 5, stringLog("ab")))
	applied, err := Apply[int, tx, stringLog, string](tree, 0, stubApplier{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if applied.Change.Kind != KindApplied || applied.Change.Pre != 0 || applied.Change.Post != 7 {
		t.Fatalf("got %+v", applied.Change)
	}
}

func TestApplyAppliedIsNoop(t *testing.T) {
	tree := leafApplied(0, 1, "tx1", "env")
	applied, err := Apply[int, tx, stringLog, string](tree, 99, stubApplier{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if applied != tree {
		t.Fatalf("expected same tree returned for Applied")
	}
}
