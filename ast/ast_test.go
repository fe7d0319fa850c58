package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nqpv-lang/nqpv/ast"
	"github.com/nqpv-lang/nqpv/qubit"
)

func TestContainsWhileFalseForLoopFree(t *testing.T) {
	s := ast.Seq(ast.Skip(), ast.Abort(), ast.Init(qubit.Register{"q0"}))
	assert.False(t, ast.ContainsWhile(s))
}

func TestContainsWhileTrueNested(t *testing.T) {
	loop := ast.While(nil, nil, qubit.Register{"q0"}, ast.Skip())
	s := ast.Seq(ast.Skip(), ast.Choice(ast.Abort(), loop))
	assert.True(t, ast.ContainsWhile(s))
}

func TestContainsWhileTrueInsideIf(t *testing.T) {
	loop := ast.While(nil, nil, qubit.Register{"q0"}, ast.Skip())
	s := ast.If(nil, qubit.Register{"q0"}, ast.Skip(), loop)
	assert.True(t, ast.ContainsWhile(s))
}

func TestStmtKindString(t *testing.T) {
	assert.Equal(t, "seq", ast.Seq(ast.Skip()).Kind.String())
	assert.Equal(t, "while", ast.While(nil, nil, nil, ast.Skip()).Kind.String())
}
