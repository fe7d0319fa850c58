package verify_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nqpv-lang/nqpv/ast"
	"github.com/nqpv-lang/nqpv/operator"
	"github.com/nqpv-lang/nqpv/predicate"
	"github.com/nqpv-lang/nqpv/qubit"
	"github.com/nqpv-lang/nqpv/scope"
	"github.com/nqpv-lang/nqpv/tensor"
	"github.com/nqpv-lang/nqpv/verify"
)

const eps = 1e-9
const sdpPrecision = 1e-7

var reg = qubit.Register{"q"}

func newRootScope(t *testing.T) *scope.Scope {
	t.Helper()
	settings := scope.DefaultSettings()
	settings.EPS = eps
	settings.SDPPrecision = sdpPrecision
	return scope.NewRoot(settings)
}

func herm(t *testing.T, name string, rows [][]complex128) *operator.Operator {
	t.Helper()
	tt, err := tensor.FromRows(reg, rows)
	require.NoError(t, err)
	op, err := operator.NewHermitianPredicate(name, tt, eps, sdpPrecision)
	require.NoError(t, err)
	return op
}

func set(t *testing.T, members ...*operator.Operator) *predicate.Set {
	t.Helper()
	s, err := predicate.New(members...)
	require.NoError(t, err)
	return s
}

func unitaryX(t *testing.T) *operator.Operator {
	t.Helper()
	x, err := tensor.FromRows(reg, [][]complex128{{0, 1}, {1, 0}})
	require.NoError(t, err)
	op, err := operator.NewUnitary("X", x, eps)
	require.NoError(t, err)
	return op
}

func hadamard(t *testing.T) *operator.Operator {
	t.Helper()
	c := complex(1/1.4142135623730951, 0)
	h, err := tensor.FromRows(reg, [][]complex128{{c, c}, {c, -c}})
	require.NoError(t, err)
	op, err := operator.NewUnitary("H", h, eps)
	require.NoError(t, err)
	return op
}

// Scenario 1: X flips 0 to 1. q *= X; pre {P0}, post {P1}. Expected: holds.
func TestScenarioXFlips0To1(t *testing.T) {
	sc := newRootScope(t)
	p0 := herm(t, "P0", [][]complex128{{1, 0}, {0, 0}})
	p1 := herm(t, "P1", [][]complex128{{0, 0}, {0, 1}})
	pt := &ast.ProofTerm{
		Register: reg,
		Pre:      set(t, p0),
		Stmt:     ast.Unitary(reg, unitaryX(t)),
		Post:     set(t, p1),
	}
	result, err := verify.VerifyProofTerm(sc, pt)
	require.NoError(t, err)
	assert.Equal(t, verify.Holds, result.Verdict)
}

// Scenario 2: X does not preserve P0. q *= X; pre {P0}, post {P0}. Expected:
// does-not-hold.
func TestScenarioXDoesNotPreserveP0(t *testing.T) {
	sc := newRootScope(t)
	p0 := herm(t, "P0", [][]complex128{{1, 0}, {0, 0}})
	pt := &ast.ProofTerm{
		Register: reg,
		Pre:      set(t, p0),
		Stmt:     ast.Unitary(reg, unitaryX(t)),
		Post:     set(t, p0),
	}
	result, err := verify.VerifyProofTerm(sc, pt)
	require.NoError(t, err)
	assert.Equal(t, verify.DoesNotHold, result.Verdict)
}

// Scenario 3: trivially-invariant loop. {inv: I}; while M10 do q *= H end,
// pre {I}, post {P0}. Expected: holds.
func TestScenarioTriviallyInvariantLoop(t *testing.T) {
	sc := newRootScope(t)
	id := herm(t, "I", [][]complex128{{1, 0}, {0, 1}})
	p0 := herm(t, "P0", [][]complex128{{1, 0}, {0, 0}})

	m0, _ := tensor.FromRows(reg, [][]complex128{{1, 0}, {0, 0}})
	m1, _ := tensor.FromRows(reg, [][]complex128{{0, 0}, {0, 1}})
	measure, err := operator.NewMeasurementPair("M10", m0, m1, eps)
	require.NoError(t, err)

	loop := ast.While(set(t, id), measure, reg, ast.Unitary(reg, hadamard(t)))
	pt := &ast.ProofTerm{
		Register: reg,
		Pre:      set(t, id),
		Stmt:     loop,
		Post:     set(t, p0),
	}
	result, err := verify.VerifyProofTerm(sc, pt)
	require.NoError(t, err)
	assert.Equal(t, verify.Holds, result.Verdict)
}

// Scenario 4: weak invariant. Same loop with inv: Zero. Zero is too weak to
// imply the postcondition on exit, so the while rule rejects it. Expected:
// undetermined.
func TestScenarioWeakInvariantUndetermined(t *testing.T) {
	sc := newRootScope(t)
	zero := herm(t, "Zero", [][]complex128{{0, 0}, {0, 0}})
	p0 := herm(t, "P0", [][]complex128{{1, 0}, {0, 0}})

	m0, _ := tensor.FromRows(reg, [][]complex128{{1, 0}, {0, 0}})
	m1, _ := tensor.FromRows(reg, [][]complex128{{0, 0}, {0, 1}})
	measure, err := operator.NewMeasurementPair("M10", m0, m1, eps)
	require.NoError(t, err)

	loop := ast.While(set(t, zero), measure, reg, ast.Unitary(reg, hadamard(t)))
	pt := &ast.ProofTerm{
		Register: reg,
		Pre:      set(t, zero),
		Stmt:     loop,
		Post:     set(t, p0),
	}
	result, err := verify.VerifyProofTerm(sc, pt)
	require.NoError(t, err)
	assert.Equal(t, verify.Undetermined, result.Verdict)
}

func TestVerifyFileRunsIndependentDefsConcurrently(t *testing.T) {
	sc := newRootScope(t)
	p0 := herm(t, "P0", [][]complex128{{1, 0}, {0, 0}})
	p1 := herm(t, "P1", [][]complex128{{0, 0}, {0, 1}})

	defA := verify.Def{
		Name: "flips",
		ProofTerm: &ast.ProofTerm{
			Register: reg,
			Pre:      set(t, p0),
			Stmt:     ast.Unitary(reg, unitaryX(t)),
			Post:     set(t, p1),
		},
	}
	defB := verify.Def{
		Name: "notPreserved",
		ProofTerm: &ast.ProofTerm{
			Register: reg,
			Pre:      set(t, p0),
			Stmt:     ast.Unitary(reg, unitaryX(t)),
			Post:     set(t, p0),
		},
	}

	fr, err := verify.VerifyFile(context.Background(), sc, []verify.Def{defA, defB})
	require.NoError(t, err)
	require.Contains(t, fr.Results, "flips")
	require.Contains(t, fr.Results, "notPreserved")
	assert.Equal(t, verify.Holds, fr.Results["flips"].Verdict)
	assert.Equal(t, verify.DoesNotHold, fr.Results["notPreserved"].Verdict)
}
