// Package transform implements the backward transformer of spec §4.4: the
// weakest-liberal-precondition function wp(S, Q) over the statement grammar
// of package ast. The transformer is stateless (spec §4.4 "State machines");
// the only implicit state it touches is the naming counter on the supplied
// scope.
package transform

import (
	"time"

	"github.com/nqpv-lang/nqpv/ast"
	"github.com/nqpv-lang/nqpv/logger"
	"github.com/nqpv-lang/nqpv/nqerr"
	"github.com/nqpv-lang/nqpv/operator"
	"github.com/nqpv-lang/nqpv/predicate"
	"github.com/nqpv-lang/nqpv/qubit"
	"github.com/nqpv-lang/nqpv/scope"
	"github.com/nqpv-lang/nqpv/tensor"
)

// WP computes wp(stmt, post) over register, naming every freshly produced
// Hermitian in sc (spec §4.4 "Naming"). A returned error is always one of
// the nqerr kinds: *nqerr.SemanticErr for a malformed statement/operator,
// *nqerr.InvariantErr when a while loop's invariant fails its preservation
// or exit check, and *nqerr.SolverErr when an SDP order check fails.
func WP(sc *scope.Scope, register qubit.Register, stmt *ast.Stmt, post *predicate.Set) (*predicate.Set, error) {
	start := time.Now()
	settings := sc.Settings()
	log := logger.Logger().With().Str("stmt", stmt.Kind.String()).Int("width", register.Width()).Logger()
	if !settings.Silent {
		log.Debug().Msg("applying wp rule")
	}

	result, err := wp(sc, register, stmt, post)

	if err != nil {
		log.Err(err).Dur("elapsed", time.Since(start)).Msg("wp rule failed")
		return nil, err
	}
	if !settings.Silent {
		log.Debug().Dur("elapsed", time.Since(start)).Msg("wp rule applied")
	}
	return result, nil
}

func wp(sc *scope.Scope, register qubit.Register, stmt *ast.Stmt, post *predicate.Set) (*predicate.Set, error) {
	switch stmt.Kind {
	case ast.KindSkip:
		return post, nil

	case ast.KindAbort:
		return abortPrecondition(sc, register)

	case ast.KindInit:
		return wpInit(sc, register, stmt, post)

	case ast.KindUnitary:
		return wpUnitary(sc, register, stmt, post)

	case ast.KindIf:
		return wpIf(sc, register, stmt, post)

	case ast.KindChoice:
		return wpChoice(sc, register, stmt, post)

	case ast.KindSeq:
		return wpSeq(sc, register, stmt, post)

	case ast.KindWhile:
		return wpWhile(sc, register, stmt, post)

	default:
		return nil, nqerr.Semanticf("unknown statement kind %v", stmt.Kind)
	}
}

// abortPrecondition returns {I}, the weakest precondition, trivially
// satisfied by any state (spec §4.4 table).
func abortPrecondition(sc *scope.Scope, register qubit.Register) (*predicate.Set, error) {
	id := tensor.Identity(register)
	op, err := nameHermitian(sc, register, id, "abort-wp")
	if err != nil {
		return nil, err
	}
	return predicate.New(op)
}

// wpUnitary applies apply(H ↦ U†·H·U, Q) with U placed on stmt.Qubits and
// cylindrically extended to register.
func wpUnitary(sc *scope.Scope, register qubit.Register, stmt *ast.Stmt, post *predicate.Set) (*predicate.Set, error) {
	if stmt.Qubits.Width() != len(stmt.Op.U.Placement) {
		return nil, nqerr.Semanticf("unitary %q acts on %d qubit(s), placed on %d", stmt.Op.Name, len(stmt.Op.U.Placement), stmt.Qubits.Width())
	}
	u, err := tensor.Extend(&tensor.Tensor{Placement: stmt.Qubits, Data: stmt.Op.U.Data}, register)
	if err != nil {
		return nil, err
	}
	applied, err := predicate.Apply(u, post, register)
	if err != nil {
		return nil, err
	}
	return nameSet(sc, register, applied, "unitary-wp")
}

// wpInit applies the reset map H ↦ Σ_k |k⟩⟨0|·H·|0⟩⟨k| on stmt.Qubits, for k
// ranging over the reset qubits' basis states. Implemented via Sandwich
// (which computes K†·H·K) with the reset's Kraus operators K_k = |0⟩⟨k| (a
// rectangular-in-effect but square-matrix Kraus branch; non-square would
// only arise if reset targeted a strict subregister of a larger composite
// operator, which does not occur here since each K_k already has
// stmt.Qubits' own dimension) and summed.
func wpInit(sc *scope.Scope, register qubit.Register, stmt *ast.Stmt, post *predicate.Set) (*predicate.Set, error) {
	width := stmt.Qubits.Width()
	dim := 1 << width
	branches := make([]*tensor.Tensor, dim)
	for k := 0; k < dim; k++ {
		kraus := tensor.New(stmt.Qubits)
		kraus.Set(0, k, 1)
		branches[k] = kraus
	}

	out := make([]*operator.Operator, 0, len(post.Members))
	for _, m := range post.Members {
		var sum *tensor.Tensor
		for _, kraus := range branches {
			extKraus, err := tensor.Extend(kraus, register)
			if err != nil {
				return nil, err
			}
			term, err := tensor.Sandwich(extKraus, m.U, register)
			if err != nil {
				return nil, err
			}
			if sum == nil {
				sum = term
				continue
			}
			sum, err = tensor.Sum(sum, term)
			if err != nil {
				return nil, err
			}
		}
		op, err := nameHermitian(sc, register, sum, "init-wp")
		if err != nil {
			return nil, err
		}
		out = append(out, op)
	}
	return &predicate.Set{Members: out}, nil
}

// wpIf computes the Cartesian combination {M0†·h1·M0 + M1†·h2·M1 : h1 ∈
// wp(S1,Q), h2 ∈ wp(S2,Q)} (spec §4.4 "If rule"). When both branches yield
// singletons the Cartesian product degenerates to one pair, matching the
// optimization the spec explicitly allows.
func wpIf(sc *scope.Scope, register qubit.Register, stmt *ast.Stmt, post *predicate.Set) (*predicate.Set, error) {
	wp1, err := wp(sc, register, stmt.Then, post)
	if err != nil {
		return nil, err
	}
	wp2, err := wp(sc, register, stmt.Else, post)
	if err != nil {
		return nil, err
	}

	if stmt.Qubits.Width() != len(stmt.Measure.M0.Placement) {
		return nil, nqerr.Semanticf("measurement %q acts on %d qubit(s), placed on %d", stmt.Measure.Name, len(stmt.Measure.M0.Placement), stmt.Qubits.Width())
	}
	m0, err := tensor.Extend(&tensor.Tensor{Placement: stmt.Qubits, Data: stmt.Measure.M0.Data}, register)
	if err != nil {
		return nil, err
	}
	m1, err := tensor.Extend(&tensor.Tensor{Placement: stmt.Qubits, Data: stmt.Measure.M1.Data}, register)
	if err != nil {
		return nil, err
	}

	out := make([]*operator.Operator, 0, len(wp1.Members)*len(wp2.Members))
	for _, h1 := range wp1.Members {
		branch0, err := tensor.Sandwich(m0, h1.U, register)
		if err != nil {
			return nil, err
		}
		for _, h2 := range wp2.Members {
			branch1, err := tensor.Sandwich(m1, h2.U, register)
			if err != nil {
				return nil, err
			}
			combined, err := tensor.Sum(branch0, branch1)
			if err != nil {
				return nil, err
			}
			op, err := nameHermitian(sc, register, combined, "if-wp")
			if err != nil {
				return nil, err
			}
			out = append(out, op)
		}
	}
	// The Cartesian product over both branches' wp sets grows as
	// |wp1|*|wp2|; spec §5 requires this bounded by structural dedup after
	// the combination, since IDENTICAL_VAR_CHECK only collapses repeated
	// *names*, not repeated appends of the same value.
	return predicate.Dedup(&predicate.Set{Members: out}, sc.Settings().EPS)
}

// wpChoice computes meet(wp(S1,Q), ..., wp(Sk,Q)) as the union of the
// branches' predicate sets (spec §4.4, §4.3 "meet").
func wpChoice(sc *scope.Scope, register qubit.Register, stmt *ast.Stmt, post *predicate.Set) (*predicate.Set, error) {
	if len(stmt.Branches) < 2 {
		return nil, nqerr.Semanticf("choice requires at least two branches, got %d", len(stmt.Branches))
	}
	acc, err := wp(sc, register, stmt.Branches[0], post)
	if err != nil {
		return nil, err
	}
	for _, branch := range stmt.Branches[1:] {
		next, err := wp(sc, register, branch, post)
		if err != nil {
			return nil, err
		}
		acc = predicate.Clip(acc, next)
	}
	return acc, nil
}

// wpSeq computes the right-fold wp(S1, wp(S2, ... wp(Sm, Q))).
func wpSeq(sc *scope.Scope, register qubit.Register, stmt *ast.Stmt, post *predicate.Set) (*predicate.Set, error) {
	if len(stmt.Stmts) == 0 {
		return nil, nqerr.Semanticf("seq requires at least one statement")
	}
	acc := post
	for i := len(stmt.Stmts) - 1; i >= 0; i-- {
		next, err := wp(sc, register, stmt.Stmts[i], acc)
		if err != nil {
			return nil, err
		}
		acc = next
	}
	return acc, nil
}

// wpWhile runs the three-state pipeline of spec §4.4 "While rule": compute
// wp(body, J), check preservation, check exit. Any failure is terminal.
func wpWhile(sc *scope.Scope, register qubit.Register, stmt *ast.Stmt, post *predicate.Set) (*predicate.Set, error) {
	inv := stmt.Invariant
	bodyWP, err := wp(sc, register, stmt.Body, inv)
	if err != nil {
		return nil, err
	}

	if stmt.Qubits.Width() != len(stmt.Measure.M0.Placement) {
		return nil, nqerr.Semanticf("measurement %q acts on %d qubit(s), placed on %d", stmt.Measure.Name, len(stmt.Measure.M0.Placement), stmt.Qubits.Width())
	}
	m0, err := tensor.Extend(&tensor.Tensor{Placement: stmt.Qubits, Data: stmt.Measure.M0.Data}, register)
	if err != nil {
		return nil, err
	}
	m1, err := tensor.Extend(&tensor.Tensor{Placement: stmt.Qubits, Data: stmt.Measure.M1.Data}, register)
	if err != nil {
		return nil, err
	}

	// 1. Preservation: J ⊑ {M0†·Q'·M0 + M1†·J'·M1 : Q' ∈ post, J' ∈ bodyWP}.
	preserved := make([]*operator.Operator, 0, len(post.Members)*len(bodyWP.Members))
	for _, qPrime := range post.Members {
		branch0, err := tensor.Sandwich(m0, qPrime.U, register)
		if err != nil {
			return nil, err
		}
		for _, jPrime := range bodyWP.Members {
			branch1, err := tensor.Sandwich(m1, jPrime.U, register)
			if err != nil {
				return nil, err
			}
			combined, err := tensor.Sum(branch0, branch1)
			if err != nil {
				return nil, err
			}
			op, err := nameHermitian(sc, register, combined, "while-preservation")
			if err != nil {
				return nil, err
			}
			preserved = append(preserved, op)
		}
	}
	preservedSet := &predicate.Set{Members: preserved}

	for _, j := range inv.Members {
		ok, err := predicate.Entails(j.U, preservedSet, register, sc.Settings().SDPPrecision)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &nqerr.InvariantErr{
				Kind: "preservation",
				Msg:  "invariant member " + j.Name + " is not preserved by the loop body",
			}
		}
	}

	// 2. Exit: {M0†·q·M0 : q ∈ post} ⊑ J.
	for _, q := range post.Members {
		exitBranch, err := tensor.Sandwich(m0, q.U, register)
		if err != nil {
			return nil, err
		}
		op, err := nameHermitian(sc, register, exitBranch, "while-exit")
		if err != nil {
			return nil, err
		}
		ok, err := predicate.Entails(op.U, inv, register, sc.Settings().SDPPrecision)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &nqerr.InvariantErr{
				Kind: "exit",
				Msg:  "invariant does not imply postcondition member " + q.Name + " on exit",
			}
		}
	}

	return inv, nil
}

// nameHermitian wraps t as a Hermitian predicate operator, named per the
// scope's IDENTICAL_VAR_CHECK policy (spec §4.4 "Naming"). When no
// structural match is found the operator gets the next VARi name from
// sc.FreshName; prefix does not appear in that name.
func nameHermitian(sc *scope.Scope, register qubit.Register, t *tensor.Tensor, prefix string) (*operator.Operator, error) {
	settings := sc.Settings()
	if settings.IdenticalVarCheck {
		if existing, ok := findStructuralMatch(sc, t, settings.EPS); ok {
			return existing, nil
		}
	}
	name := sc.FreshName()
	op, err := operator.NewHermitianPredicate(name, t, settings.EPS, settings.SDPPrecision)
	if err != nil {
		return nil, err
	}
	if settings.OptPreserving {
		if err := sc.Bind(name, op); err != nil {
			return nil, err
		}
	}
	return op, nil
}

func nameSet(sc *scope.Scope, register qubit.Register, s *predicate.Set, prefix string) (*predicate.Set, error) {
	out := make([]*operator.Operator, len(s.Members))
	for i, m := range s.Members {
		op, err := nameHermitian(sc, register, m.U, prefix)
		if err != nil {
			return nil, err
		}
		out[i] = op
	}
	return &predicate.Set{Members: out}, nil
}

// findStructuralMatch scans the Hermitian operators bound directly in sc
// (generated VARi names and user-bound names alike, but not ancestors'
// bindings) for one structurally equal to t within eps (spec §4.4 "if IDENTICAL_VAR_CHECK is
// on and a structurally equal Hermitian already exists, its name is
// reused"). This is a linear scan over the scope's own bindings, which the
// spec already calls out as quadratic and disabled for large registers.
func findStructuralMatch(sc *scope.Scope, t *tensor.Tensor, eps float64) (*operator.Operator, bool) {
	for _, name := range sc.BoundNames() {
		v, ok := sc.Lookup(name)
		if !ok {
			continue
		}
		op, ok := v.(*operator.Operator)
		if !ok || op.Kind != operator.KindHermitian {
			continue
		}
		if close, err := tensor.AllClose(op.U, t, eps); err == nil && close {
			return op, true
		}
	}
	return nil, false
}
