// Package verify implements the driver of spec §4.5: it orchestrates the
// backward transformer of package transform over a proof term and produces
// a verdict, a summary proof outline, and diagnostics.
package verify

import (
	"fmt"
	"strings"

	"github.com/nqpv-lang/nqpv/ast"
	"github.com/nqpv-lang/nqpv/nqerr"
	"github.com/nqpv-lang/nqpv/predicate"
	"github.com/nqpv-lang/nqpv/scope"
	"github.com/nqpv-lang/nqpv/transform"
)

// Verdict is the three-valued outcome of spec §4.5.
type Verdict int

const (
	Holds Verdict = iota
	DoesNotHold
	Undetermined
)

func (v Verdict) String() string {
	switch v {
	case Holds:
		return "holds"
	case DoesNotHold:
		return "does-not-hold"
	case Undetermined:
		return "undetermined"
	default:
		return "unknown"
	}
}

// Result is the outcome of verifying one proof term: its verdict, a
// human-readable proof outline, and the diagnostic error when the verdict
// is not Holds.
type Result struct {
	Verdict    Verdict
	Outline    string
	Diagnostic error
}

// VerifyProofTerm runs the driver over pt in sc, per spec §4.5:
//   - holds: wp(stmt, post) is entailed by pre.
//   - does-not-hold: the statement contains no while and the entailment
//     fails — the transformer is exact in the loop-free fragment.
//   - undetermined: the statement contains a while whose invariant check
//     failed, or whose invariant check succeeded but the final entailment
//     still failed — the invariant may be too weak either way.
func VerifyProofTerm(sc *scope.Scope, pt *ast.ProofTerm) (*Result, error) {
	settings := sc.Settings()
	containsWhile := ast.ContainsWhile(pt.Stmt)

	computed, err := transform.WP(sc, pt.Register, pt.Stmt, pt.Post)
	if err != nil {
		var invErr *nqerr.InvariantErr
		if asInvariantErr(err, &invErr) && containsWhile {
			return &Result{
				Verdict:    Undetermined,
				Outline:    outline(pt, nil, containsWhile),
				Diagnostic: err,
			}, nil
		}
		return nil, err
	}

	entailed, err := predicate.EntailsSet(pt.Pre, computed, pt.Register, settings.SDPPrecision)
	if err != nil {
		return nil, err
	}

	result := &Result{Outline: outline(pt, computed, containsWhile)}
	switch {
	case entailed:
		result.Verdict = Holds
	case containsWhile:
		result.Verdict = Undetermined
		result.Diagnostic = &nqerr.UndeterminedErr{Msg: "invariant held but final entailment failed"}
	default:
		result.Verdict = DoesNotHold
		result.Diagnostic = &nqerr.NotHoldsErr{Msg: "precondition does not entail wp(stmt, post)"}
	}
	return result, nil
}

func asInvariantErr(err error, target **nqerr.InvariantErr) bool {
	if e, ok := err.(*nqerr.InvariantErr); ok {
		*target = e
		return true
	}
	return false
}

// outline renders a textual summary outline: the register, the
// precondition, the top-level statement kind, the computed wp of the whole
// statement (when there is one), and the postcondition. Sub-statements and
// their intermediate preconditions are not listed.
func outline(pt *ast.ProofTerm, computed *predicate.Set, containsWhile bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "register: %v\n", pt.Register)
	fmt.Fprintf(&b, "pre: %s\n", describeSet(pt.Pre))
	fmt.Fprintf(&b, "stmt: %s (contains while: %v)\n", pt.Stmt.Kind, containsWhile)
	if computed != nil {
		fmt.Fprintf(&b, "wp(stmt, post): %s\n", describeSet(computed))
	}
	fmt.Fprintf(&b, "post: %s\n", describeSet(pt.Post))
	return b.String()
}

func describeSet(s *predicate.Set) string {
	if s == nil {
		return "<none>"
	}
	names := make([]string, len(s.Members))
	for i, m := range s.Members {
		names[i] = m.Name
	}
	return "{" + strings.Join(names, ", ") + "}"
}
