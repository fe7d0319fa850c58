package qubit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nqpv-lang/nqpv/qubit"
)

func TestRegisterWidthAndIndex(t *testing.T) {
	r := qubit.Register{"q0", "q1", "q2"}
	assert.Equal(t, 3, r.Width())
	assert.Equal(t, 1, r.IndexOf("q1"))
	assert.Equal(t, -1, r.IndexOf("missing"))
	assert.True(t, r.Contains("q2"))
	assert.False(t, r.Contains("q9"))
}

func TestValidateRejectsDuplicatesAndEmpty(t *testing.T) {
	require.Error(t, qubit.Validate(qubit.Register{"q0", "q0"}))
	require.Error(t, qubit.Validate(qubit.Register{""}))
	require.NoError(t, qubit.Validate(qubit.Register{"q0", "q1"}))
}

func TestValidatePlacementSubset(t *testing.T) {
	reg := qubit.Register{"a", "b", "c"}
	require.NoError(t, qubit.ValidatePlacement(qubit.Register{"a", "c"}, reg))
	require.Error(t, qubit.ValidatePlacement(qubit.Register{"a", "z"}, reg))
	require.Error(t, qubit.ValidatePlacement(qubit.Register{"a", "a"}, reg))
}

func TestEqualIgnoresOrder(t *testing.T) {
	assert.True(t, qubit.Equal(qubit.Register{"a", "b"}, qubit.Register{"b", "a"}))
	assert.False(t, qubit.Equal(qubit.Register{"a", "b"}, qubit.Register{"a", "c"}))
}

func TestUnionPreservesOrderAndDedups(t *testing.T) {
	got := qubit.Union(qubit.Register{"a", "b"}, qubit.Register{"b", "c"})
	assert.Equal(t, qubit.Register{"a", "b", "c"}, got)
}
