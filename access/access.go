// Package access implements the state-transition algebra over a single
// key: Access[T] and its merge table. It has no knowledge
// of key spaces, addresses or the VSAL; vsal builds on top of it.
package access

import "github.com/Sovereign-Labs/amethyst/abort"

// Option is a sparse optional value: Valid == false represents "absent",
// matching the commitment layer's inability to distinguish a missing key
// from a key bound to T's zero value. Because Option[T] embeds a
// comparable T, Option[T] is itself comparable with == whenever T is,
// which is what lets Access[T] require only T: comparable.
type Option[T comparable] struct {
	Valid bool
	Value T
}

// Some wraps a present value.
func Some[T comparable](v T) Option[T] { return Option[T]{Valid: true, Value: v} }

// None represents an absent key.
func None[T comparable]() Option[T] { return Option[T]{} }

// Kind discriminates the three Access variants.
type Kind uint8

const (
	// KindRead: key was read and observed to hold Value.
	KindRead Kind = iota
	// KindWrite: key was written to Value with no observed prior read.
	KindWrite
	// KindReadThenWrite: key was read as Original and later overwritten to Modified.
	KindReadThenWrite
)

func (k Kind) String() string {
	switch k {
	case KindRead:
		return "Read"
	case KindWrite:
		return "Write"
	case KindReadThenWrite:
		return "ReadThenWrite"
	default:
		return "Access(?)"
	}
}

// Access is the unit of bookkeeping for one key. It is a tagged
// sum of three variants; Go has no native sum types, so the variant not in
// use is left at its zero value and Kind alone selects which fields are
// meaningful.
type Access[T comparable] struct {
	Kind     Kind
	Value    Option[T] // meaningful for KindRead, KindWrite
	Original Option[T] // meaningful for KindReadThenWrite
	Modified Option[T] // meaningful for KindReadThenWrite
}

// Read constructs a Read(v) access.
func Read[T comparable](v Option[T]) Access[T] { return Access[T]{Kind: KindRead, Value: v} }

// Write constructs a Write(v) access.
func Write[T comparable](v Option[T]) Access[T] { return Access[T]{Kind: KindWrite, Value: v} }

// ReadThenWrite constructs a ReadThenWrite{original, modified} access.
func ReadThenWrite[T comparable](original, modified Option[T]) Access[T] {
	return Access[T]{Kind: KindReadThenWrite, Original: original, Modified: modified}
}

// Current returns the value an observer reading this key right now would
// see: the read value for Read, the modified value for ReadThenWrite, the
// written value for Write. VSAL.add_read uses this to check a new read
// against the access already on file.
func (a Access[T]) Current() Option[T] {
	switch a.Kind {
	case KindRead, KindWrite:
		return a.Value
	case KindReadThenWrite:
		return a.Modified
	default:
		return Option[T]{}
	}
}

// Merge combines two Accesses on the same key recorded in temporal order
// (lhs before rhs), per the 9-cell merge table. A mismatch between
// rhs's observed pre-state and lhs's current post-state is a causality
// violation: two honest executions of the same key can never disagree
// about what was there to read.
func Merge[T comparable](lhs, rhs Access[T]) (Access[T], error) {
	switch lhs.Kind {
	case KindRead:
		switch rhs.Kind {
		case KindRead:
			if lhs.Value != rhs.Value {
				return Access[T]{}, causality("Read/Read value mismatch")
			}
			return lhs, nil
		case KindReadThenWrite:
			if lhs.Value != rhs.Original {
				return Access[T]{}, causality("Read/ReadThenWrite original mismatch")
			}
			return ReadThenWrite(rhs.Original, rhs.Modified), nil
		case KindWrite:
			return ReadThenWrite(lhs.Value, rhs.Value), nil
		}

	case KindReadThenWrite:
		switch rhs.Kind {
		case KindRead:
			if lhs.Modified != rhs.Value {
				return Access[T]{}, causality("ReadThenWrite/Read value mismatch")
			}
			return lhs, nil
		case KindReadThenWrite:
			if lhs.Modified != rhs.Original {
				return Access[T]{}, causality("ReadThenWrite/ReadThenWrite original mismatch")
			}
			return ReadThenWrite(lhs.Original, rhs.Modified), nil
		case KindWrite:
			return ReadThenWrite(lhs.Original, rhs.Value), nil
		}

	case KindWrite:
		switch rhs.Kind {
		case KindRead:
			if lhs.Value != rhs.Value {
				return Access[T]{}, causality("Write/Read value mismatch")
			}
			return lhs, nil
		case KindReadThenWrite:
			if lhs.Value != rhs.Original {
				return Access[T]{}, causality("Write/ReadThenWrite original mismatch")
			}
			return Write(rhs.Modified), nil
		case KindWrite:
			return rhs, nil
		}
	}
	return Access[T]{}, causality("unreachable access kind combination")
}

func causality(msg string) error {
	return abort.New(abort.CausalityViolation, "access: "+msg)
}
