// Package txtree implements the Transaction Tree composition algebra: a
// recursive-aggregation unit pairing an ordered
// sequence of transactions with a transition that may be fully applied,
// purely logged, or a hybrid of the two, plus a merge operation that
// combines two sibling trees left-to-right.
package txtree

import (
	"github.com/Sovereign-Labs/amethyst/abort"
)

// Merger is the self-referential constraint a log type L must satisfy to
// participate in a Logged or Hybrid transition: two logs of the same
// type can be combined into one (vsal.SealedLog.Merge is the concrete
// instance the rest of this core uses).
type Merger[L any] interface {
	Merge(L) (L, error)
}

// Kind discriminates the three forms a Transition can take.
type Kind uint8

const (
	KindApplied Kind = iota
	KindLogged
	KindHybrid
)

func (k Kind) String() string {
	switch k {
	case KindApplied:
		return "Applied"
	case KindLogged:
		return "Logged"
	case KindHybrid:
		return "Hybrid"
	default:
		return "Unknown"
	}
}

// Transition is the state_change field of a TxTree. Exactly one
// of its three shapes is populated, selected by Kind:
//
//   - Applied: Pre and Post are the only meaningful fields — the
//     transition has been evaluated at the commitment level.
//   - Logged: Log is the only meaningful field — endpoints are not yet
//     determined.
//   - Hybrid: Pre, Mid and Log are all meaningful — state has advanced
//     from Pre to Mid, and Log carries the remainder.
//
// Go has no tagged union, so all fields are present and the unused ones
// sit at their zero value; see access.Access for the same pattern at the
// single-key layer.
type Transition[S comparable, L any] struct {
	Kind Kind
	Pre  S
	Mid  S
	Post S
	Log  L
}

// Applied builds a fully-evaluated transition from pre to post.
func Applied[S comparable, L any](pre, post S) Transition[S, L] {
	return Transition[S, L]{Kind: KindApplied, Pre: pre, Post: post}
}

// Logged builds a transition witnessed only by a raw log, with endpoints
// not yet determined.
func Logged[S comparable, L any](log L) Transition[S, L] {
	return Transition[S, L]{Kind: KindLogged, Log: log}
}

// Hybrid builds a partially-evaluated transition: state has advanced from
// pre to mid, with log carrying the rest.
func Hybrid[S comparable, L any](pre, mid S, log L) Transition[S, L] {
	return Transition[S, L]{Kind: KindHybrid, Pre: pre, Mid: mid, Log: log}
}

// mergeTransition implements the merge table. lhs is understood to
// temporally precede rhs: the four cells where rhs is
// anything other than Logged while lhs has not reached a concrete
// post-state are OrderingViolation errors, since only a fully-applied
// left side gives later merges a post-state to chain from. Mismatched
// endpoints (b != c) in the Applied rows are CausalityViolation errors.
func mergeTransition[S comparable, L Merger[L]](lhs, rhs Transition[S, L]) (Transition[S, L], error) {
	switch lhs.Kind {
	case KindApplied:
		switch rhs.Kind {
		case KindApplied:
			if lhs.Post != rhs.Pre {
				return Transition[S, L]{}, abort.New(abort.CausalityViolation, "txtree: Applied(a,b) merge Applied(c,d) requires b == c")
			}
			return Applied[S, L](lhs.Pre, rhs.Post), nil
		case KindLogged:
			return Hybrid(lhs.Pre, lhs.Post, rhs.Log), nil
		case KindHybrid:
			if lhs.Post != rhs.Pre {
				return Transition[S, L]{}, abort.New(abort.CausalityViolation, "txtree: Applied(a,b) merge Hybrid(c,d,r) requires b == c")
			}
			return Hybrid(lhs.Pre, rhs.Mid, rhs.Log), nil
		}
	case KindLogged:
		if rhs.Kind != KindLogged {
			return Transition[S, L]{}, ordering("txtree: Logged(l) cannot merge with a transition other than Logged")
		}
		merged, err := lhs.Log.Merge(rhs.Log)
		if err != nil {
			return Transition[S, L]{}, err
		}
		return Logged[S, L](merged), nil
	case KindHybrid:
		if rhs.Kind != KindLogged {
			return Transition[S, L]{}, ordering("txtree: Hybrid(a,b,l) cannot merge with a transition other than Logged")
		}
		merged, err := lhs.Log.Merge(rhs.Log)
		if err != nil {
			return Transition[S, L]{}, err
		}
		return Hybrid(lhs.Pre, lhs.Mid, merged), nil
	}
	return Transition[S, L]{}, ordering("txtree: unreachable transition kind")
}

func ordering(msg string) error {
	return abort.New(abort.OrderingViolation, msg)
}

// TxTree is the proof-layer composition unit: an ordered
// sequence of transactions sharing one execution environment, together
// with the transition that takes the prior state commitment to the
// posterior one.
type TxTree[S comparable, Tx any, L Merger[L], Env comparable] struct {
	Includes []Tx
	Env      Env
	Change   Transition[S, L]
}

// New builds a leaf TxTree for a single transaction's execution.
func New[S comparable, Tx any, L Merger[L], Env comparable](tx Tx, env Env, change Transition[S, L]) *TxTree[S, Tx, L, Env] {
	return &TxTree[S, Tx, L, Env]{Includes: []Tx{tx}, Env: env, Change: change}
}

// Merge combines t (left, earlier) with other (right, later) into a new
// tree. Merge is not commutative: t must
// temporally precede other.
func (t *TxTree[S, Tx, L, Env]) Merge(other *TxTree[S, Tx, L, Env]) (*TxTree[S, Tx, L, Env], error) {
	if t.Env != other.Env {
		return nil, abort.New(abort.EnvMismatch, "txtree: merge requires lhs.env == rhs.env")
	}
	change, err := mergeTransition(t.Change, other.Change)
	if err != nil {
		return nil, err
	}
	includes := make([]Tx, 0, len(t.Includes)+len(other.Includes))
	includes = append(includes, t.Includes...)
	includes = append(includes, other.Includes...)
	return &TxTree[S, Tx, L, Env]{Includes: includes, Env: t.Env, Change: change}, nil
}

// Applier converts a Logged or Hybrid transition into Applied by
// evaluating its log against the prior commitment.
// This is supplied by the surrounding proof pipeline — the point at
// which the zk-circuit actually commits to the state transition — and is
// consumed here only through this interface.
type Applier[S comparable, L any] interface {
	// Apply evaluates log against pre and returns the resulting post
	// commitment.
	Apply(pre S, log L) (post S, err error)
}

// Apply converts t's transition to Applied in place of Logged/Hybrid,
// using a to evaluate the carried log. A Logged transition does not
// itself carry the prior commitment (it is determined externally, by
// whatever preceded this tree in the overall chain), so the caller
// supplies it as pre; a Hybrid transition already carries its own Pre
// and pre is ignored. Applied trees are returned unchanged.
func Apply[S comparable, Tx any, L Merger[L], Env comparable](t *TxTree[S, Tx, L, Env], pre S, a Applier[S, L]) (*TxTree[S, Tx, L, Env], error) {
	switch t.Change.Kind {
	case KindApplied:
		return t, nil
	case KindLogged:
		post, err := a.Apply(pre, t.Change.Log)
		if err != nil {
			return nil, err
		}
		return &TxTree[S, Tx, L, Env]{Includes: t.Includes, Env: t.Env, Change: Applied[S, L](pre, post)}, nil
	case KindHybrid:
		post, err := a.Apply(t.Change.Mid, t.Change.Log)
		if err != nil {
			return nil, err
		}
		return &TxTree[S, Tx, L, Env]{Includes: t.Includes, Env: t.Env, Change: Applied[S, L](t.Change.Pre, post)}, nil
	}
	return nil, abort.New(abort.OrderingViolation, "txtree: apply called with unknown transition kind")
}
