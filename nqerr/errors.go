// Package nqerr collects the error kinds of the NQPV core (see spec §7).
// These are kinds, not a class hierarchy: each is its own Go type so callers
// can distinguish them with errors.As, following the teacher's
// UnsatisfiedConstraintError pattern (gnark's cs package).
package nqerr

import "fmt"

// SyntaxErr wraps a parser-reported error verbatim. The core never
// constructs these itself; it only forwards them when a collaborator
// attaches one to a command it could not resolve.
type SyntaxErr struct {
	Msg string
}

func (e *SyntaxErr) Error() string { return "syntax error: " + e.Msg }

// SemanticErr covers undefined names, duplicate qubits in a placement,
// qubit-count mismatches, re-binding, and operator validation failures.
type SemanticErr struct {
	Msg string
}

func (e *SemanticErr) Error() string { return "semantic error: " + e.Msg }

func Semanticf(format string, args ...interface{}) *SemanticErr {
	return &SemanticErr{Msg: fmt.Sprintf(format, args...)}
}

// InvariantErr reports that a while loop's invariant failed either the
// preservation check or the exit check. Kind distinguishes the two
// entailments; Msg names the failing invariant or postcondition member.
type InvariantErr struct {
	Kind string // "preservation" or "exit"
	Msg  string
}

func (e *InvariantErr) Error() string {
	return fmt.Sprintf("invariant failed (%s): %s", e.Kind, e.Msg)
}

// NotHoldsErr marks a loop-free proof whose top-level entailment failed;
// the transformer is exact in that fragment, so this is a definite verdict.
type NotHoldsErr struct {
	Msg string
}

func (e *NotHoldsErr) Error() string { return "does not hold: " + e.Msg }

// UndeterminedErr marks a while-containing proof whose invariant check
// succeeded but whose final entailment still failed: the invariant may be
// too weak, but the transformer cannot say more.
type UndeterminedErr struct {
	Msg string
}

func (e *UndeterminedErr) Error() string { return "undetermined: " + e.Msg }

// SolverErr wraps a failure of the SDP feasibility backend. Per §4.2/§7 this
// is non-fatal to the caller's single query (it is reported as "false") but
// is still surfaced so the driver can log it distinctly from a genuine
// "false" entailment.
type SolverErr struct {
	Msg string
	Err error
}

func (e *SolverErr) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sdp solver error: %s: %v", e.Msg, e.Err)
	}
	return "sdp solver error: " + e.Msg
}

func (e *SolverErr) Unwrap() error { return e.Err }
