package scope_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nqpv-lang/nqpv/scope"
)

func TestBindAndLookup(t *testing.T) {
	s := scope.NewRoot(scope.DefaultSettings())
	require.NoError(t, s.Bind("x", 42))
	v, ok := s.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestRebindIsError(t *testing.T) {
	s := scope.NewRoot(scope.DefaultSettings())
	require.NoError(t, s.Bind("x", 1))
	err := s.Bind("x", 2)
	require.Error(t, err)
}

func TestInvalidIdentifierRejected(t *testing.T) {
	s := scope.NewRoot(scope.DefaultSettings())
	err := s.Bind("0bad", 1)
	require.Error(t, err)
}

func TestChildInheritsSettingsAtCreation(t *testing.T) {
	root := scope.NewRoot(scope.DefaultSettings())
	root.SetSetting(func(s *scope.Settings) { s.EPS = 0.5 })
	child, err := root.NewChild("sub")
	require.NoError(t, err)
	assert.Equal(t, 0.5, child.Settings().EPS)

	// Subsequent updates to root are local and do not retroactively affect
	// the already-created child.
	root.SetSetting(func(s *scope.Settings) { s.EPS = 0.9 })
	assert.Equal(t, 0.5, child.Settings().EPS)
	assert.Equal(t, 0.9, root.Settings().EPS)
}

func TestLookupWalksToRoot(t *testing.T) {
	root := scope.NewRoot(scope.DefaultSettings())
	require.NoError(t, root.Bind("g", "global"))
	child, err := root.NewChild("sub")
	require.NoError(t, err)
	v, ok := child.Lookup("g")
	require.True(t, ok)
	assert.Equal(t, "global", v)
}

func TestResolveDottedPath(t *testing.T) {
	root := scope.NewRoot(scope.DefaultSettings())
	child, err := root.NewChild("sub")
	require.NoError(t, err)
	require.NoError(t, child.Bind("x", 7))

	v, err := root.Resolve([]string{"sub", "x"})
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestResolveRejectsNonScopeIntermediate(t *testing.T) {
	root := scope.NewRoot(scope.DefaultSettings())
	require.NoError(t, root.Bind("x", 7))
	_, err := root.Resolve([]string{"x", "y"})
	require.Error(t, err)
}

func TestFreshNameMonotonicAndDisjointFromUserNames(t *testing.T) {
	s := scope.NewRoot(scope.DefaultSettings())
	require.NoError(t, s.Bind("VAR1", "user-chosen"))
	first := s.FreshName()
	second := s.FreshName()
	assert.NotEqual(t, first, second)
	assert.NotEqual(t, "VAR1", first)
	assert.NotEqual(t, "VAR1", second)
}
