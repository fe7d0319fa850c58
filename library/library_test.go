package library_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nqpv-lang/nqpv/library"
	"github.com/nqpv-lang/nqpv/operator"
)

func TestNewDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() { library.New() })
}

func TestCatalogueContainsExpectedGates(t *testing.T) {
	sc := library.New()
	for _, name := range []string{"I", "X", "Y", "Z", "H", "CX", "CH", "SWAP", "CCX"} {
		v, ok := sc.Lookup(name)
		require.True(t, ok, "missing gate %q", name)
		op, ok := v.(*operator.Operator)
		require.True(t, ok)
		assert.Equal(t, operator.KindUnitary, op.Kind)
	}
}

func TestCatalogueContainsExpectedPredicates(t *testing.T) {
	sc := library.New()
	for _, name := range []string{"Zero", "P0", "P1", "Pp", "Pm", "Eq01_2", "Neq01_2", "Eq01_3", "HalfP0", "HalfP1", "HalfEq01_2"} {
		v, ok := sc.Lookup(name)
		require.True(t, ok, "missing predicate %q", name)
		op, ok := v.(*operator.Operator)
		require.True(t, ok)
		assert.Equal(t, operator.KindHermitian, op.Kind)
	}
}

func TestCatalogueContainsExpectedMeasurements(t *testing.T) {
	sc := library.New()
	for _, name := range []string{"M01", "M10", "Mpm", "Mmp", "MEq01_2", "MEq10_2"} {
		v, ok := sc.Lookup(name)
		require.True(t, ok, "missing measurement %q", name)
		op, ok := v.(*operator.Operator)
		require.True(t, ok)
		assert.Equal(t, operator.KindMeasurement, op.Kind)
	}
}
