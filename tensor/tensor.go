// Package tensor implements the tensor kernel (spec §4.1): operators placed
// on named qubit registers, composed by cylindrical extension and index
// permutation. The kernel is purely functional — it never mutates its
// operands — and works entirely over double-precision complex numbers.
//
// A placed operator of width n (rank 2n in the spec's tensor-index view) is
// stored here as its equivalent dim×dim matrix, dim = 2^n, row-major, with
// Data[ket*dim+bra] the entry whose ket index is the high-order-qubit-first
// binary expansion of ket and whose bra index is likewise for bra. This is
// the standard flattening of a rank-2n tensor into ket/bra matrix form and
// makes composition an ordinary matrix product.
package tensor

import (
	"math"
	"math/cmplx"

	"github.com/nqpv-lang/nqpv/nqerr"
	"github.com/nqpv-lang/nqpv/qubit"
)

// Tensor is an operator placed on a qubit register.
type Tensor struct {
	Placement qubit.Register
	Data      []complex128 // dim*dim entries, dim = 1<<len(Placement)
}

// Dim returns the matrix dimension 2^width of t's placement.
func (t *Tensor) Dim() int { return 1 << len(t.Placement) }

// New allocates a zero tensor on placement.
func New(placement qubit.Register) *Tensor {
	dim := 1 << len(placement)
	return &Tensor{Placement: placement, Data: make([]complex128, dim*dim)}
}

// Identity returns the identity operator on placement.
func Identity(placement qubit.Register) *Tensor {
	t := New(placement)
	dim := t.Dim()
	for i := 0; i < dim; i++ {
		t.Data[i*dim+i] = 1
	}
	return t
}

// FromRows builds a tensor from a dense dim×dim row-major matrix. rows[i][j]
// is the (ket=i, bra=j) entry.
func FromRows(placement qubit.Register, rows [][]complex128) (*Tensor, error) {
	if err := qubit.Validate(placement); err != nil {
		return nil, err
	}
	dim := 1 << len(placement)
	if len(rows) != dim {
		return nil, nqerr.Semanticf("tensor on %d qubit(s) needs %d rows, got %d", len(placement), dim, len(rows))
	}
	t := New(placement)
	for i, row := range rows {
		if len(row) != dim {
			return nil, nqerr.Semanticf("tensor row %d has %d columns, want %d", i, len(row), dim)
		}
		copy(t.Data[i*dim:(i+1)*dim], row)
	}
	return t, nil
}

// At returns the (ket, bra) entry.
func (t *Tensor) At(ket, bra int) complex128 { return t.Data[ket*t.Dim()+bra] }

// Set assigns the (ket, bra) entry.
func (t *Tensor) Set(ket, bra int, v complex128) { t.Data[ket*t.Dim()+bra] = v }

// Clone returns a deep, independent copy of t.
func (t *Tensor) Clone() *Tensor {
	out := &Tensor{Placement: append(qubit.Register(nil), t.Placement...), Data: make([]complex128, len(t.Data))}
	copy(out.Data, t.Data)
	return out
}

// FrobeniusNorm returns sqrt(sum |entry|^2), the distance metric used by
// every tolerance comparison in the core (spec §9 "Numeric choices").
func (t *Tensor) FrobeniusNorm() float64 {
	var sum float64
	for _, v := range t.Data {
		sum += real(v)*real(v) + imag(v)*imag(v)
	}
	return math.Sqrt(sum)
}

// AllClose reports whether a and b have the same placement (as a set) and
// are within eps of each other in Frobenius norm, after re-indexing b onto
// a's qubit ordering.
func AllClose(a, b *Tensor, eps float64) (bool, error) {
	if !qubit.Equal(a.Placement, b.Placement) {
		return false, nqerr.Semanticf("cannot compare tensors on different placements %v vs %v", a.Placement, b.Placement)
	}
	bReordered, err := Extend(b, a.Placement)
	if err != nil {
		return false, err
	}
	diff := New(a.Placement)
	for i := range diff.Data {
		diff.Data[i] = a.Data[i] - bReordered.Data[i]
	}
	return diff.FrobeniusNorm() <= eps, nil
}

// IsHermitian reports whether t = t† within eps.
func IsHermitian(t *Tensor, eps float64) bool {
	ok, _ := AllClose(t, Adjoint(t), eps)
	return ok
}

// conjugate is a tiny helper kept for readability at call sites.
func conjugate(v complex128) complex128 { return cmplx.Conj(v) }
