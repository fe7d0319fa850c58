// Package ast defines the resolved program representation the backward
// transformer consumes (spec §3 "Statement", §6 grammar sketch). By the
// time a Stmt reaches this package every operator reference has already
// been resolved to an *operator.Operator and every qubit name has already
// been checked against the enclosing register — the surface grammar's
// parsing and name resolution are out of core scope (spec §6).
package ast

import (
	"github.com/nqpv-lang/nqpv/operator"
	"github.com/nqpv-lang/nqpv/predicate"
	"github.com/nqpv-lang/nqpv/qubit"
)

// Stmt is the tagged statement variant of spec §3. Concrete kinds are
// listed below; transform switches on Kind rather than Go type, matching
// the Kind-tag convention used throughout this module (see operator.Kind).
type Stmt struct {
	Kind StmtKind

	// Qubits is the placement for Init, Unitary, If's and While's guard
	// measurement.
	Qubits qubit.Register

	// Op holds the unitary for KindUnitary.
	Op *operator.Operator

	// Measure holds the guard measurement for KindIf and KindWhile.
	Measure *operator.Operator

	// Invariant holds the loop invariant for KindWhile.
	Invariant *predicate.Set

	// Then, Else hold the two branches of KindIf.
	Then, Else *Stmt

	// Body holds the loop body of KindWhile.
	Body *Stmt

	// Branches holds the k≥2 alternatives of KindChoice.
	Branches []*Stmt

	// Stmts holds the m≥1 members of KindSeq.
	Stmts []*Stmt
}

// StmtKind tags which of the eight statement forms a Stmt is.
type StmtKind int

const (
	KindSkip StmtKind = iota
	KindAbort
	KindInit
	KindUnitary
	KindIf
	KindWhile
	KindChoice
	KindSeq
)

func (k StmtKind) String() string {
	switch k {
	case KindSkip:
		return "skip"
	case KindAbort:
		return "abort"
	case KindInit:
		return "init"
	case KindUnitary:
		return "unitary"
	case KindIf:
		return "if"
	case KindWhile:
		return "while"
	case KindChoice:
		return "choice"
	case KindSeq:
		return "seq"
	default:
		return "unknown"
	}
}

// Skip returns the skip statement.
func Skip() *Stmt { return &Stmt{Kind: KindSkip} }

// Abort returns the abort statement.
func Abort() *Stmt { return &Stmt{Kind: KindAbort} }

// Init returns init(qubits).
func Init(qubits qubit.Register) *Stmt { return &Stmt{Kind: KindInit, Qubits: qubits} }

// Unitary returns unitary(qubits, op).
func Unitary(qubits qubit.Register, op *operator.Operator) *Stmt {
	return &Stmt{Kind: KindUnitary, Qubits: qubits, Op: op}
}

// If returns if(measure[qubits], then, else).
func If(measure *operator.Operator, qubits qubit.Register, then, els *Stmt) *Stmt {
	return &Stmt{Kind: KindIf, Measure: measure, Qubits: qubits, Then: then, Else: els}
}

// While returns while(inv, measure[qubits], body).
func While(inv *predicate.Set, measure *operator.Operator, qubits qubit.Register, body *Stmt) *Stmt {
	return &Stmt{Kind: KindWhile, Invariant: inv, Measure: measure, Qubits: qubits, Body: body}
}

// Choice returns choice(branches...), requiring at least two branches.
func Choice(branches ...*Stmt) *Stmt {
	return &Stmt{Kind: KindChoice, Branches: branches}
}

// Seq returns seq(stmts...), requiring at least one statement.
func Seq(stmts ...*Stmt) *Stmt {
	return &Stmt{Kind: KindSeq, Stmts: stmts}
}

// ContainsWhile reports whether s or any of its substatements is a while
// loop. The verifier driver uses this to distinguish "does-not-hold" (exact,
// loop-free) from "undetermined" (a while's invariant may be too weak) per
// spec §4.5.
func ContainsWhile(s *Stmt) bool {
	if s == nil {
		return false
	}
	switch s.Kind {
	case KindWhile:
		return true
	case KindIf:
		return ContainsWhile(s.Then) || ContainsWhile(s.Else)
	case KindChoice:
		for _, b := range s.Branches {
			if ContainsWhile(b) {
				return true
			}
		}
		return false
	case KindSeq:
		for _, sub := range s.Stmts {
			if ContainsWhile(sub) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// ProofTerm is a register plus a precondition set, a statement, and a
// postcondition set (spec §3 "Proof term").
type ProofTerm struct {
	Register qubit.Register
	Pre      *predicate.Set
	Stmt     *Stmt
	Post     *predicate.Set
}
