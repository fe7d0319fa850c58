// Package library builds the preloaded global scope of spec §6/§9 "Global
// state": a *scope.Scope holding the gate, predicate, and measurement
// catalogue every proof term may reference by name. The package keeps no
// shared instance; every call to New builds a fresh scope, and nothing
// stops a caller from binding further names into it.
package library

import (
	"math"

	"github.com/nqpv-lang/nqpv/operator"
	"github.com/nqpv-lang/nqpv/qubit"
	"github.com/nqpv-lang/nqpv/scope"
	"github.com/nqpv-lang/nqpv/tensor"
)

const (
	eps          = 1e-9
	sdpPrecision = 1e-7
)

var one = qubit.Register{"q"}
var two = qubit.Register{"q", "q1"}
var three = qubit.Register{"q", "q1", "q2"}

func unitary(name string, reg qubit.Register, rows [][]complex128) *operator.Operator {
	t, err := tensor.FromRows(reg, rows)
	if err != nil {
		panic(err)
	}
	op, err := operator.NewUnitary(name, t, eps)
	if err != nil {
		panic(err)
	}
	return op
}

func hermitian(name string, reg qubit.Register, rows [][]complex128) *operator.Operator {
	t, err := tensor.FromRows(reg, rows)
	if err != nil {
		panic(err)
	}
	op, err := operator.NewHermitianPredicate(name, t, eps, sdpPrecision)
	if err != nil {
		panic(err)
	}
	return op
}

func measurement(name string, reg qubit.Register, m0Rows, m1Rows [][]complex128) *operator.Operator {
	m0, err := tensor.FromRows(reg, m0Rows)
	if err != nil {
		panic(err)
	}
	m1, err := tensor.FromRows(reg, m1Rows)
	if err != nil {
		panic(err)
	}
	op, err := operator.NewMeasurementPair(name, m0, m1, eps)
	if err != nil {
		panic(err)
	}
	return op
}

// New builds a new copy of the preloaded global scope (spec §9 "Global
// state") on every call; it does not cache or share the result.
//
// New panics if any catalogue entry fails its own operator validation: this
// indicates a programmer error in the catalogue's hand-written matrices,
// not a runtime condition a caller should need to handle (the teacher's own
// package-init catalogues, e.g. field constant tables, follow the same
// convention).
func New() *scope.Scope {
	root := scope.NewRoot(scope.DefaultSettings())
	bind := func(name string, value interface{}) {
		if err := root.Bind(name, value); err != nil {
			panic(err)
		}
	}

	sqrt2inv := complex(1/math.Sqrt2, 0)

	// Gates (single- and two-qubit unitaries, plus the three-qubit Toffoli).
	bind("I", unitary("I", one, [][]complex128{{1, 0}, {0, 1}}))
	bind("X", unitary("X", one, [][]complex128{{0, 1}, {1, 0}}))
	bind("Y", unitary("Y", one, [][]complex128{{0, -1i}, {1i, 0}}))
	bind("Z", unitary("Z", one, [][]complex128{{1, 0}, {0, -1}}))
	bind("H", unitary("H", one, [][]complex128{{sqrt2inv, sqrt2inv}, {sqrt2inv, -sqrt2inv}}))
	bind("CX", unitary("CX", two, [][]complex128{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 0, 1},
		{0, 0, 1, 0},
	}))
	bind("CH", unitary("CH", two, [][]complex128{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, sqrt2inv, sqrt2inv},
		{0, 0, sqrt2inv, -sqrt2inv},
	}))
	bind("SWAP", unitary("SWAP", two, [][]complex128{
		{1, 0, 0, 0},
		{0, 0, 1, 0},
		{0, 1, 0, 0},
		{0, 0, 0, 1},
	}))
	ccx := make([][]complex128, 8)
	for i := range ccx {
		ccx[i] = make([]complex128, 8)
	}
	for i := 0; i < 6; i++ {
		ccx[i][i] = 1
	}
	ccx[6][7] = 1
	ccx[7][6] = 1
	bind("CCX", unitary("CCX", three, ccx))

	// Single-qubit predicates.
	bind("Zero", hermitian("Zero", one, [][]complex128{{0, 0}, {0, 0}}))
	bind("P0", hermitian("P0", one, [][]complex128{{1, 0}, {0, 0}}))
	bind("P1", hermitian("P1", one, [][]complex128{{0, 0}, {0, 1}}))
	bind("Pp", hermitian("Pp", one, [][]complex128{{0.5, 0.5}, {0.5, 0.5}}))
	bind("Pm", hermitian("Pm", one, [][]complex128{{0.5, -0.5}, {-0.5, 0.5}}))

	// Two- and three-qubit equality/inequality predicates.
	bind("Eq01_2", hermitian("Eq01_2", two, [][]complex128{
		{1, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 1},
	}))
	bind("Neq01_2", hermitian("Neq01_2", two, [][]complex128{
		{0, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 0},
	}))
	eq013 := make([][]complex128, 8)
	for i := range eq013 {
		eq013[i] = make([]complex128, 8)
	}
	eq013[0][0] = 1
	eq013[7][7] = 1
	bind("Eq01_3", hermitian("Eq01_3", three, eq013))

	// Half-scaled variants, for proof terms that need a predicate strictly
	// below its un-scaled counterpart.
	half := complex(0.5, 0)
	bind("HalfP0", hermitian("HalfP0", one, [][]complex128{{half, 0}, {0, 0}}))
	bind("HalfP1", hermitian("HalfP1", one, [][]complex128{{0, 0}, {0, half}}))
	bind("HalfEq01_2", hermitian("HalfEq01_2", two, [][]complex128{
		{half, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, half},
	}))

	// Measurements. Naming convention "Mxy": the while rule's exit branch is
	// always the operator's M0 field (spec §4.4 "the M0 branch, outcome 0
	// meaning exit"); Mxy names x as the continuing bit and y as the exiting
	// bit, so a guard "while Mxy[q] do ... end" reads as "continue while the
	// qubit is x, exit when it is y" — M0 is bound to the y-projector, M1 to
	// the x-projector.
	bind("M01", measurement("M01", one,
		[][]complex128{{0, 0}, {0, 1}},
		[][]complex128{{1, 0}, {0, 0}},
	))
	bind("M10", measurement("M10", one,
		[][]complex128{{1, 0}, {0, 0}},
		[][]complex128{{0, 0}, {0, 1}},
	))
	bind("Mpm", measurement("Mpm", one,
		[][]complex128{{0.5, -0.5}, {-0.5, 0.5}},
		[][]complex128{{0.5, 0.5}, {0.5, 0.5}},
	))
	bind("Mmp", measurement("Mmp", one,
		[][]complex128{{0.5, 0.5}, {0.5, 0.5}},
		[][]complex128{{0.5, -0.5}, {-0.5, 0.5}},
	))
	// MEq01_2 continues while the pair is equal, exits when unequal;
	// MEq10_2 continues while unequal, exits when equal — same "continue
	// bit, exit bit" convention as M01/M10 above, lifted to the equality
	// predicate.
	bind("MEq01_2", measurement("MEq01_2", two,
		[][]complex128{
			{0, 0, 0, 0},
			{0, 1, 0, 0},
			{0, 0, 1, 0},
			{0, 0, 0, 0},
		},
		[][]complex128{
			{1, 0, 0, 0},
			{0, 0, 0, 0},
			{0, 0, 0, 0},
			{0, 0, 0, 1},
		},
	))
	bind("MEq10_2", measurement("MEq10_2", two,
		[][]complex128{
			{1, 0, 0, 0},
			{0, 0, 0, 0},
			{0, 0, 0, 0},
			{0, 0, 0, 1},
		},
		[][]complex128{
			{0, 0, 0, 0},
			{0, 1, 0, 0},
			{0, 0, 1, 0},
			{0, 0, 0, 0},
		},
	))

	return root
}
