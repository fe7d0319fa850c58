package tensor

import (
	"github.com/nqpv-lang/nqpv/nqerr"
	"github.com/nqpv-lang/nqpv/qubit"
)

// bit returns the value of the pos-th qubit of index (0 = most significant,
// matching the spec's "high-order qubit first" axis ordering) within a
// register of the given width.
func bit(index, pos, width int) int {
	shift := width - 1 - pos
	return (index >> shift) & 1
}

// withBit returns index with its pos-th qubit (of width qubits) set to v.
func withBit(index, pos, width, v int) int {
	shift := width - 1 - pos
	mask := 1 << shift
	if v == 0 {
		return index &^ mask
	}
	return index | mask
}

// Extend places t on the larger register full, tensoring with the identity
// on qubits absent from t.Placement and permuting axes to match full's
// ordering (spec §4.1). Extending on an already-matching placement still
// performs the permutation, so Extend also serves as "reorder to this
// register". Extending t on the empty qubit list returns the identity on
// full.
func Extend(t *Tensor, full qubit.Register) (*Tensor, error) {
	if err := qubit.ValidatePlacement(t.Placement, full); err != nil {
		return nil, err
	}

	n := len(full)
	out := New(full)
	dim := out.Dim()

	// srcBit maps each position of full to the corresponding position in
	// t.Placement, or -1 if full's qubit at that position is not one of t's
	// own (ValidatePlacement above already guarantees every qubit of
	// t.Placement appears in full exactly once, so no further coverage
	// check is needed here).
	srcBit := make([]int, n)
	for i, q := range full {
		srcBit[i] = t.Placement.IndexOf(q)
	}

	for ket := 0; ket < dim; ket++ {
		for bra := 0; bra < dim; bra++ {
			ketSub, braSub := 0, 0
			match := true
			for i := 0; i < n; i++ {
				kb := bit(ket, i, n)
				bb := bit(bra, i, n)
				if srcBit[i] == -1 {
					if kb != bb {
						match = false
						break
					}
					continue
				}
				ketSub = withBit(ketSub, srcBit[i], len(t.Placement), kb)
				braSub = withBit(braSub, srcBit[i], len(t.Placement), bb)
			}
			if !match {
				continue
			}
			out.Set(ket, bra, t.At(ketSub, braSub))
		}
	}
	return out, nil
}

// Compose returns A·B, the matrix product, after extending both operands to
// register.
func Compose(a, b *Tensor, register qubit.Register) (*Tensor, error) {
	ea, err := Extend(a, register)
	if err != nil {
		return nil, err
	}
	eb, err := Extend(b, register)
	if err != nil {
		return nil, err
	}
	dim := ea.Dim()
	out := New(register)
	for i := 0; i < dim; i++ {
		for k := 0; k < dim; k++ {
			aik := ea.At(i, k)
			if aik == 0 {
				continue
			}
			for j := 0; j < dim; j++ {
				out.Data[i*dim+j] += aik * eb.At(k, j)
			}
		}
	}
	return out, nil
}

// Adjoint returns t†, the conjugate transpose over the ket/bra split, on
// the same placement.
func Adjoint(t *Tensor) *Tensor {
	out := New(t.Placement)
	dim := t.Dim()
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			out.Set(j, i, conjugate(t.At(i, j)))
		}
	}
	return out
}

// Sum adds tensors that already share one placement (as a set). Use Extend
// first to bring mismatched placements onto a common register.
func Sum(ts ...*Tensor) (*Tensor, error) {
	if len(ts) == 0 {
		return nil, nqerr.Semanticf("sum of zero tensors is undefined")
	}
	out := New(ts[0].Placement)
	for _, t := range ts {
		et, err := Extend(t, ts[0].Placement)
		if err != nil {
			return nil, err
		}
		for i := range out.Data {
			out.Data[i] += et.Data[i]
		}
	}
	return out, nil
}

// Scale returns alpha*t.
func Scale(t *Tensor, alpha complex128) *Tensor {
	out := t.Clone()
	for i := range out.Data {
		out.Data[i] *= alpha
	}
	return out
}

// Sandwich computes K†·H·K on register, extending both operands first. K
// need not be unitary or Hermitian — it is used both for the unitary rule
// (K a unitary) and for the init/measurement rules (K a projector or a
// reset Kraus operator), where it is neither.
func Sandwich(k, h *Tensor, register qubit.Register) (*Tensor, error) {
	kAdj := Adjoint(k)
	mid, err := Compose(kAdj, h, register)
	if err != nil {
		return nil, err
	}
	return Compose(mid, k, register)
}

// PartialTrace projects t down onto remain by averaging out traceOut in the
// computational basis: (1/dim(traceOut)) Σ_k ⟨k|_traceOut · t · |k⟩_traceOut.
// This is the rectangular-K special case of Sandwich alluded to in spec
// §4.1 ("K is not necessarily square") and is the operation spec §8's
// round-trip property names as "tracing out the added qubits in the
// sandwich sense". The 1/dim(traceOut) normalization is what makes
// PartialTrace the exact inverse of Extend: Extend tensors with the
// identity (not a mixture), so undoing it must divide out the identity's
// trace rather than leave it in, unlike the density-matrix partial trace.
func PartialTrace(t *Tensor, remain, traceOut qubit.Register) (*Tensor, error) {
	register := append(append(qubit.Register{}, remain...), traceOut...)
	et, err := Extend(t, register)
	if err != nil {
		return nil, err
	}
	dimRemain := 1 << len(remain)
	dimTrace := 1 << len(traceOut)
	out := New(remain)
	norm := complex(1/float64(dimTrace), 0)
	for i := 0; i < dimRemain; i++ {
		for j := 0; j < dimRemain; j++ {
			var sum complex128
			for k := 0; k < dimTrace; k++ {
				sum += et.At(i*dimTrace+k, j*dimTrace+k)
			}
			out.Set(i, j, sum*norm)
		}
	}
	return out, nil
}
