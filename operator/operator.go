// Package operator validates and tags the three operator roles the spec
// names in §3: unitary, Hermitian predicate, and measurement pair. A single
// tagged Operator variant carries all three; downstream code switches on
// Kind rather than on a Go type, per spec §9 "Polymorphic operator values".
package operator

import (
	"github.com/nqpv-lang/nqpv/nqerr"
	"github.com/nqpv-lang/nqpv/sdp"
	"github.com/nqpv-lang/nqpv/tensor"
)

// Kind tags which of the three roles an Operator plays.
type Kind int

const (
	// KindUnitary operators satisfy U†U = I.
	KindUnitary Kind = iota
	// KindHermitian operators satisfy H = H† and 0 ⊑ H ⊑ I: these are the
	// predicates assertion sets are built from.
	KindHermitian
	// KindMeasurement operators are a pair (M0, M1) with M0†M0 + M1†M1 = I.
	KindMeasurement
)

func (k Kind) String() string {
	switch k {
	case KindUnitary:
		return "unitary"
	case KindHermitian:
		return "hermitian"
	case KindMeasurement:
		return "measurement"
	default:
		return "unknown"
	}
}

// Operator is a named, validated tensor (or tensor pair) playing one role.
type Operator struct {
	Kind Kind
	Name string

	// U holds the single tensor for KindUnitary and KindHermitian.
	U *tensor.Tensor

	// M0, M1 hold the outcome branches for KindMeasurement.
	M0, M1 *tensor.Tensor
}

// Placement returns the qubit placement common to the operator's tensor(s).
func (o *Operator) Placement() []string {
	switch o.Kind {
	case KindMeasurement:
		return o.M0.Placement
	default:
		return o.U.Placement
	}
}

// NewUnitary validates t as a unitary (t†t = I within eps) and wraps it.
func NewUnitary(name string, t *tensor.Tensor, eps float64) (*Operator, error) {
	prod, err := tensor.Compose(tensor.Adjoint(t), t, t.Placement)
	if err != nil {
		return nil, err
	}
	ok, err := tensor.AllClose(prod, tensor.Identity(t.Placement), eps)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nqerr.Semanticf("operator %q is not unitary within eps=%g", name, eps)
	}
	return &Operator{Kind: KindUnitary, Name: name, U: t}, nil
}

// NewHermitianPredicate validates t as Hermitian and bounded 0 ⊑ t ⊑ I via
// the SDP feasibility order (spec §4.2), within the given tolerances.
func NewHermitianPredicate(name string, t *tensor.Tensor, eps, sdpPrecision float64) (*Operator, error) {
	if !tensor.IsHermitian(t, eps) {
		return nil, nqerr.Semanticf("operator %q is not Hermitian within eps=%g", name, eps)
	}
	zero := tensor.New(t.Placement)
	identity := tensor.Identity(t.Placement)
	belowI, err := sdp.Decide(t, identity, sdpPrecision)
	if err != nil {
		return nil, err
	}
	aboveZero, err := sdp.Decide(zero, t, sdpPrecision)
	if err != nil {
		return nil, err
	}
	if !belowI || !aboveZero {
		return nil, nqerr.Semanticf("operator %q is not in [0,I] within sdp precision=%g", name, sdpPrecision)
	}
	return &Operator{Kind: KindHermitian, Name: name, U: t}, nil
}

// NewMeasurementPair validates (m0, m1) as a measurement: M0†M0+M1†M1 = I
// within eps, on a common placement.
func NewMeasurementPair(name string, m0, m1 *tensor.Tensor, eps float64) (*Operator, error) {
	if len(m0.Placement) != len(m1.Placement) {
		return nil, nqerr.Semanticf("measurement %q branches have different widths", name)
	}
	reg := m0.Placement
	q0, err := tensor.Compose(tensor.Adjoint(m0), m0, reg)
	if err != nil {
		return nil, err
	}
	q1, err := tensor.Compose(tensor.Adjoint(m1), m1, reg)
	if err != nil {
		return nil, err
	}
	sum, err := tensor.Sum(q0, q1)
	if err != nil {
		return nil, err
	}
	ok, err := tensor.AllClose(sum, tensor.Identity(reg), eps)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nqerr.Semanticf("measurement %q branches do not satisfy M0†M0+M1†M1=I within eps=%g", name, eps)
	}
	return &Operator{Kind: KindMeasurement, Name: name, M0: m0, M1: m1}, nil
}

// StructurallyEqual reports whether a and b are the same Kind and their
// tensors are equal up to eps — used by the scope's IDENTICAL_VAR_CHECK
// variable-reuse optimization (spec §4.4 "Naming").
func StructurallyEqual(a, b *Operator, eps float64) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindMeasurement:
		ok0, err := tensor.AllClose(a.M0, b.M0, eps)
		if err != nil || !ok0 {
			return false
		}
		ok1, err := tensor.AllClose(a.M1, b.M1, eps)
		return err == nil && ok1
	default:
		ok, err := tensor.AllClose(a.U, b.U, eps)
		return err == nil && ok
	}
}
