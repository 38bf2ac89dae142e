package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/setsuna/ast"
)

func TestEnv_DefineAndGet(t *testing.T) {
	env := NewEnv(nil)
	require.NoError(t, env.Define("x", &Int{Value: 1}, false))

	v, ok := env.Get("x")
	require.True(t, ok)
	assert.Equal(t, int64(1), v.(*Int).Value)

	_, ok = env.Get("missing")
	assert.False(t, ok)
}

func TestEnv_GetWalksParentChain(t *testing.T) {
	root := NewEnv(nil)
	require.NoError(t, root.Define("x", &Int{Value: 1}, false))

	child := root.Extend().Extend()
	v, ok := child.Get("x")
	require.True(t, ok)
	assert.Equal(t, int64(1), v.(*Int).Value)
}

func TestEnv_ShadowingInChildScope(t *testing.T) {
	root := NewEnv(nil)
	require.NoError(t, root.Define("x", &Int{Value: 1}, false))

	child := root.Extend()
	require.NoError(t, child.Define("x", &Int{Value: 2}, false))

	v, _ := child.Get("x")
	assert.Equal(t, int64(2), v.(*Int).Value)
	v, _ = root.Get("x")
	assert.Equal(t, int64(1), v.(*Int).Value)
}

func TestEnv_SetReassignsNearestScope(t *testing.T) {
	root := NewEnv(nil)
	require.NoError(t, root.Define("x", &Int{Value: 1}, false))

	child := root.Extend()
	require.NoError(t, child.Set("x", &Int{Value: 5}))

	v, _ := root.Get("x")
	assert.Equal(t, int64(5), v.(*Int).Value)
}

func TestEnv_SetUndefined(t *testing.T) {
	env := NewEnv(nil)
	err := env.Set("ghost", UnitValue)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Undefined variable")
}

func TestEnv_ConstCannotBeReassigned(t *testing.T) {
	root := NewEnv(nil)
	require.NoError(t, root.Define("c", &Int{Value: 1}, true))

	err := root.Set("c", &Int{Value: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "const")

	// at any scope depth
	deep := root.Extend().Extend()
	err = deep.Set("c", &Int{Value: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "const")
}

func TestEnv_ConstCollisionInEnclosingScope(t *testing.T) {
	root := NewEnv(nil)
	require.NoError(t, root.Define("c", &Int{Value: 1}, true))

	child := root.Extend()
	err := child.Define("c", &Int{Value: 2}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot redeclare const")
}

func TestEnv_TypeTable(t *testing.T) {
	root := NewEnv(nil)
	def := &ast.TypeDef{Name: "Option"}
	root.DefineType("Option", def)

	child := root.Extend()
	got, ok := child.LookupType("Option")
	require.True(t, ok)
	assert.Same(t, def, got)

	_, ok = child.LookupType("Missing")
	assert.False(t, ok)
}

func TestEnv_ModuleTable(t *testing.T) {
	root := NewEnv(nil)
	mod := NewEnv(nil)
	root.DefineModule("M", mod)

	child := root.Extend()
	got, ok := child.LookupModule("M")
	require.True(t, ok)
	assert.Same(t, mod, got)
}
