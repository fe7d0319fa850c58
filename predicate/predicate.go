// Package predicate implements the assertion-set algebra of spec §4.3. A
// predicate is a finite, non-empty set of Hermitian operators in [0,I]; the
// assertion it denotes is their Löwner meet (infimum). The set, not the
// meet, is carried around so that Apply and Clip can manipulate individual
// members before a meet is ever computed.
package predicate

import (
	"github.com/nqpv-lang/nqpv/nqerr"
	"github.com/nqpv-lang/nqpv/operator"
	"github.com/nqpv-lang/nqpv/qubit"
	"github.com/nqpv-lang/nqpv/sdp"
	"github.com/nqpv-lang/nqpv/tensor"
)

// Set is a non-empty collection of Hermitian predicate operators whose
// denotation is their meet.
type Set struct {
	Members []*operator.Operator
}

// New wraps members into a Set, rejecting the empty set and any non-
// Hermitian member (spec §4.3 Invariants).
func New(members ...*operator.Operator) (*Set, error) {
	if len(members) == 0 {
		return nil, nqerr.Semanticf("a predicate set must have at least one member")
	}
	for _, m := range members {
		if m.Kind != operator.KindHermitian {
			return nil, nqerr.Semanticf("predicate set member %q is not a Hermitian predicate", m.Name)
		}
	}
	return &Set{Members: append([]*operator.Operator(nil), members...)}, nil
}

// Placement returns the qubit register common to every member.
func (s *Set) Placement() qubit.Register {
	if len(s.Members) == 0 {
		return nil
	}
	return s.Members[0].Placement()
}

// Meet returns the single Hermitian tensor denoting s: the operator whose
// matrix is the entrywise... no — the Löwner meet is not entrywise. Here it
// is computed the way the verifier needs it: as the tensor whose use in any
// subsequent SDP order-check is equivalent to testing against every member
// individually (spec §4.3 "the meet need not be materialized"). Meet
// therefore does not attempt to build a literal infimum matrix; callers
// that need "does X entail every member" should use Entails, which checks
// members one at a time and is exact. Meet only returns each member
// extended to register (the canonical per-member extension); Equal does not
// use it.
func (s *Set) Meet(register qubit.Register) ([]*tensor.Tensor, error) {
	out := make([]*tensor.Tensor, len(s.Members))
	for i, m := range s.Members {
		et, err := tensor.Extend(m.U, register)
		if err != nil {
			return nil, err
		}
		out[i] = et
	}
	return out, nil
}

// Entails reports whether h ⊑ every member of s (h entails the assertion s
// denotes), at the given register and SDP precision.
func Entails(h *tensor.Tensor, s *Set, register qubit.Register, precision float64) (bool, error) {
	he, err := tensor.Extend(h, register)
	if err != nil {
		return false, err
	}
	for _, m := range s.Members {
		me, err := tensor.Extend(m.U, register)
		if err != nil {
			return false, err
		}
		ok, err := sdp.Decide(he, me, precision)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// EntailsSet decides S ⊑ T per spec §4.3: for every H ∈ T there must exist
// some H' ∈ S with H' ⊑ H. This is the "sound but incomplete" pointwise test
// the spec names explicitly as the one the system implements and promises
// to its callers.
func EntailsSet(s, t *Set, register qubit.Register, precision float64) (bool, error) {
	for _, h := range t.Members {
		he, err := tensor.Extend(h.U, register)
		if err != nil {
			return false, err
		}
		found := false
		for _, hPrime := range s.Members {
			hpe, err := tensor.Extend(hPrime.U, register)
			if err != nil {
				return false, err
			}
			ok, err := sdp.Decide(hpe, he, precision)
			if err != nil {
				return false, err
			}
			if ok {
				found = true
				break
			}
		}
		if !found {
			return false, nil
		}
	}
	return true, nil
}

// Equal reports whether a and b contain the same members up to eps,
// possibly in different order: the sizes match and every member of a pairs
// off with a distinct member of b under operator.StructurallyEqual. It is a
// structural test, not a semantic one; two sets that denote the same meet
// with different members compare unequal.
func Equal(a, b *Set, eps float64) bool {
	if len(a.Members) != len(b.Members) {
		return false
	}
	used := make([]bool, len(b.Members))
	for _, ma := range a.Members {
		found := false
		for j, mb := range b.Members {
			if used[j] {
				continue
			}
			if operator.StructurallyEqual(ma, mb, eps) {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Apply returns the predicate set obtained by sandwiching every member of s
// with k on register: {K†·h·K : h ∈ s} (spec §4.3 "Apply", the set-level
// lift of the tensor kernel's Sandwich used by every wp rule that transforms
// the postcondition through an operator).
func Apply(k *tensor.Tensor, s *Set, register qubit.Register) (*Set, error) {
	out := make([]*operator.Operator, len(s.Members))
	for i, m := range s.Members {
		sandwiched, err := tensor.Sandwich(k, m.U, register)
		if err != nil {
			return nil, err
		}
		op, err := wrapHermitianLoose(m.Name, sandwiched)
		if err != nil {
			return nil, err
		}
		out[i] = op
	}
	return &Set{Members: out}, nil
}

// Clip unions two predicate sets (spec §4.3 "Clip", used by the choice rule
// wp(S1 choice S2, Q) = clip(wp(S1,Q), wp(S2,Q)): the resulting set's meet
// is the Löwner meet of both inputs' meets, i.e. the conjunction of every
// member from both sides).
func Clip(a, b *Set) *Set {
	out := make([]*operator.Operator, 0, len(a.Members)+len(b.Members))
	out = append(out, a.Members...)
	out = append(out, b.Members...)
	return &Set{Members: out}
}

// Dedup removes members structurally equal (within eps, via
// tensor.AllClose) to an earlier member, keeping the first occurrence of
// each distinct value and its name. Spec §5 requires the if-rule's
// Cartesian combination to be "bounded by deduplication after each step
// (clip + structural dedup)": IDENTICAL_VAR_CHECK only reuses the *name* of
// a previously-seen Hermitian, it does not stop the same value from being
// appended to the set again, so wpIf calls this directly on its produced
// members to keep the set's size bounded by the number of distinct values
// rather than |wp1|*|wp2|.
func Dedup(s *Set, eps float64) (*Set, error) {
	out := make([]*operator.Operator, 0, len(s.Members))
	for _, m := range s.Members {
		dup := false
		for _, kept := range out {
			ok, err := tensor.AllClose(m.U, kept.U, eps)
			if err != nil {
				return nil, err
			}
			if ok {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, m)
		}
	}
	return &Set{Members: out}, nil
}

// wrapHermitianLoose re-tags a tensor produced by a kernel operation
// (Sandwich) as a named Hermitian predicate operator without re-validating
// the [0,I] bound: Apply's image of a [0,I] operator under a sandwich by an
// operator satisfying the relevant wp side-condition (unitary, or a
// measurement/init Kraus branch) is guaranteed in-bounds by spec §4.2's
// Löwner-order monotonicity lemma, so re-running the SDP check here would
// only re-derive what the rule already established, at the cost of two
// extra feasibility solves per Apply call.
func wrapHermitianLoose(name string, t *tensor.Tensor) (*operator.Operator, error) {
	return &operator.Operator{Kind: operator.KindHermitian, Name: name, U: t}, nil
}
