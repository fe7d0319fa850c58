package predicate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nqpv-lang/nqpv/predicate"
	"github.com/nqpv-lang/nqpv/qubit"
)

func TestEntailsSetReflexive(t *testing.T) {
	p0 := mustHermitian(t, "P0", [][]complex128{{1, 0}, {0, 0}})
	s, err := predicate.New(p0)
	require.NoError(t, err)
	ok, err := predicate.EntailsSet(s, s, qubit.Register{"q0"}, sdpPrecision)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEntailsSetFailsWhenNoMemberBelow(t *testing.T) {
	p0 := mustHermitian(t, "P0", [][]complex128{{1, 0}, {0, 0}})
	p1 := mustHermitian(t, "P1", [][]complex128{{0, 0}, {0, 1}})
	s, err := predicate.New(p0)
	require.NoError(t, err)
	tSet, err := predicate.New(p1)
	require.NoError(t, err)
	ok, err := predicate.EntailsSet(s, tSet, qubit.Register{"q0"}, sdpPrecision)
	require.NoError(t, err)
	assert.False(t, ok, "P0 does not lie below P1")
}
