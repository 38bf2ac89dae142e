package repl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountDelims_Balanced(t *testing.T) {
	var braces, brackets, parens int
	countDelims("fn f(x) { [x] }", &braces, &brackets, &parens)
	assert.Zero(t, braces)
	assert.Zero(t, brackets)
	assert.Zero(t, parens)
}

func TestCountDelims_AccumulatesAcrossLines(t *testing.T) {
	var braces, brackets, parens int
	countDelims("fn f(x) {", &braces, &brackets, &parens)
	assert.Equal(t, 1, braces)
	assert.Equal(t, 0, parens)

	countDelims("  [1, 2,", &braces, &brackets, &parens)
	assert.Equal(t, 1, brackets)

	countDelims("   3]", &braces, &brackets, &parens)
	countDelims("}", &braces, &brackets, &parens)
	assert.Zero(t, braces)
	assert.Zero(t, brackets)
}

func TestCountDelims_ClampsAtZero(t *testing.T) {
	var braces, brackets, parens int
	countDelims(")))", &braces, &brackets, &parens)
	assert.Zero(t, parens)
}
