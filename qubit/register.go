// Package qubit defines the qubit register: a finite ordered list of
// distinct identifiers naming logical qubits (spec §3). Qubit identity is by
// name, not position; the width of a register is the length of its name
// list.
package qubit

import "github.com/nqpv-lang/nqpv/nqerr"

// Register is an ordered, duplicate-free list of qubit names. The order
// fixes the basis used by any Tensor placed on it (high-order qubit first,
// per spec §3).
type Register []string

// Width returns the number of qubits in the register.
func (r Register) Width() int { return len(r) }

// IndexOf returns the position of name within r, or -1 if absent.
func (r Register) IndexOf(name string) int {
	for i, q := range r {
		if q == name {
			return i
		}
	}
	return -1
}

// Contains reports whether name appears in r.
func (r Register) Contains(name string) bool { return r.IndexOf(name) >= 0 }

// Subset reports whether every qubit in sub also appears in r.
func (r Register) Subset(sub Register) bool {
	for _, q := range sub {
		if !r.Contains(q) {
			return false
		}
	}
	return true
}

// Validate checks the register invariant: non-empty names, no duplicates.
func Validate(r Register) error {
	seen := make(map[string]struct{}, len(r))
	for _, q := range r {
		if q == "" {
			return nqerr.Semanticf("qubit register contains an empty identifier")
		}
		if _, dup := seen[q]; dup {
			return nqerr.Semanticf("qubit register contains duplicate identifier %q", q)
		}
		seen[q] = struct{}{}
	}
	return nil
}

// ValidatePlacement checks that placement is duplicate-free and a subset of
// the enclosing register (spec §3 Invariants).
func ValidatePlacement(placement Register, enclosing Register) error {
	if err := Validate(placement); err != nil {
		return err
	}
	if !enclosing.Subset(placement) {
		return nqerr.Semanticf("placement %v is not a subset of register %v", placement, enclosing)
	}
	return nil
}

// Union returns the qubits of a followed by the qubits of b not already in
// a, preserving a's order then b's.
func Union(a, b Register) Register {
	out := make(Register, 0, len(a)+len(b))
	out = append(out, a...)
	for _, q := range b {
		if !a.Contains(q) {
			out = append(out, q)
		}
	}
	return out
}

// Equal reports whether a and b name the same qubits, ignoring order (spec
// §4.1 "Placement comparisons are by multiset of names and not by order").
func Equal(a, b Register) bool {
	if len(a) != len(b) {
		return false
	}
	return a.Subset(b) && b.Subset(a)
}
