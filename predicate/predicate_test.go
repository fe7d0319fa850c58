package predicate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nqpv-lang/nqpv/operator"
	"github.com/nqpv-lang/nqpv/predicate"
	"github.com/nqpv-lang/nqpv/qubit"
	"github.com/nqpv-lang/nqpv/tensor"
)

const eps = 1e-9
const sdpPrecision = 1e-7

func mustHermitian(t *testing.T, name string, rows [][]complex128) *operator.Operator {
	t.Helper()
	tt, err := tensor.FromRows(qubit.Register{"q0"}, rows)
	require.NoError(t, err)
	op, err := operator.NewHermitianPredicate(name, tt, eps, sdpPrecision)
	require.NoError(t, err)
	return op
}

func TestNewRejectsEmptySet(t *testing.T) {
	_, err := predicate.New()
	require.Error(t, err)
}

func TestNewRejectsNonHermitianMember(t *testing.T) {
	x, _ := tensor.FromRows(qubit.Register{"q0"}, [][]complex128{{0, 1}, {1, 0}})
	unitaryOp, err := operator.NewUnitary("X", x, eps)
	require.NoError(t, err)
	_, err = predicate.New(unitaryOp)
	require.Error(t, err)
}

func TestEntailsSelf(t *testing.T) {
	p0 := mustHermitian(t, "P0", [][]complex128{{1, 0}, {0, 0}})
	s, err := predicate.New(p0)
	require.NoError(t, err)
	ok, err := predicate.Entails(p0.U, s, qubit.Register{"q0"}, sdpPrecision)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEntailsIdentityHoldsForAnyMember(t *testing.T) {
	p0 := mustHermitian(t, "P0", [][]complex128{{1, 0}, {0, 0}})
	idOp := mustHermitian(t, "I", [][]complex128{{1, 0}, {0, 1}})
	s, err := predicate.New(idOp)
	require.NoError(t, err)
	ok, err := predicate.Entails(p0.U, s, qubit.Register{"q0"}, sdpPrecision)
	require.NoError(t, err)
	assert.True(t, ok, "every member entails {I} since every member ⊑ I")
}

func TestClipUnionsMembers(t *testing.T) {
	p0 := mustHermitian(t, "P0", [][]complex128{{1, 0}, {0, 0}})
	p1 := mustHermitian(t, "P1", [][]complex128{{0, 0}, {0, 1}})
	sa, err := predicate.New(p0)
	require.NoError(t, err)
	sb, err := predicate.New(p1)
	require.NoError(t, err)
	clipped := predicate.Clip(sa, sb)
	assert.Len(t, clipped.Members, 2)
}

func TestApplyIdentityIsNoop(t *testing.T) {
	p0 := mustHermitian(t, "P0", [][]complex128{{1, 0}, {0, 0}})
	s, err := predicate.New(p0)
	require.NoError(t, err)
	id := tensor.Identity(qubit.Register{"q0"})
	applied, err := predicate.Apply(id, s, qubit.Register{"q0"})
	require.NoError(t, err)
	ok, err := tensor.AllClose(p0.U, applied.Members[0].U, eps)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestApplyXSwapsP0AndP1(t *testing.T) {
	p0 := mustHermitian(t, "P0", [][]complex128{{1, 0}, {0, 0}})
	p1 := mustHermitian(t, "P1", [][]complex128{{0, 0}, {0, 1}})
	s, err := predicate.New(p0)
	require.NoError(t, err)
	x, _ := tensor.FromRows(qubit.Register{"q0"}, [][]complex128{{0, 1}, {1, 0}})
	applied, err := predicate.Apply(x, s, qubit.Register{"q0"})
	require.NoError(t, err)
	ok, err := tensor.AllClose(p1.U, applied.Members[0].U, eps)
	require.NoError(t, err)
	assert.True(t, ok, "X†·P0·X = P1")
}

func TestDedupCollapsesStructurallyEqualMembers(t *testing.T) {
	p0 := mustHermitian(t, "P0", [][]complex128{{1, 0}, {0, 0}})
	p0Dup := mustHermitian(t, "P0Dup", [][]complex128{{1, 0}, {0, 0}})
	p1 := mustHermitian(t, "P1", [][]complex128{{0, 0}, {0, 1}})
	s, err := predicate.New(p0, p0Dup, p1)
	require.NoError(t, err)

	deduped, err := predicate.Dedup(s, eps)
	require.NoError(t, err)
	require.Len(t, deduped.Members, 2, "p0 and p0Dup are the same value and should collapse to one")
	assert.Equal(t, "P0", deduped.Members[0].Name, "first occurrence is kept")
	assert.Equal(t, "P1", deduped.Members[1].Name)
}

func TestDedupIsNoopWhenAllMembersDistinct(t *testing.T) {
	p0 := mustHermitian(t, "P0", [][]complex128{{1, 0}, {0, 0}})
	p1 := mustHermitian(t, "P1", [][]complex128{{0, 0}, {0, 1}})
	s, err := predicate.New(p0, p1)
	require.NoError(t, err)

	deduped, err := predicate.Dedup(s, eps)
	require.NoError(t, err)
	assert.Len(t, deduped.Members, 2)
}

func TestEqualIgnoresOrder(t *testing.T) {
	p0 := mustHermitian(t, "P0", [][]complex128{{1, 0}, {0, 0}})
	p1 := mustHermitian(t, "P1", [][]complex128{{0, 0}, {0, 1}})
	sa, err := predicate.New(p0, p1)
	require.NoError(t, err)
	sb, err := predicate.New(p1, p0)
	require.NoError(t, err)
	assert.True(t, predicate.Equal(sa, sb, eps))
}
