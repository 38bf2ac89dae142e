package listmod

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/setsuna/interp"
)

func num(n int64) interp.Value { return &interp.Int{Value: n} }

func nums(ns ...int64) *interp.List {
	elems := make([]interp.Value, len(ns))
	for i, n := range ns {
		elems[i] = num(n)
	}
	return &interp.List{Elems: elems}
}

func TestHeadTailCons(t *testing.T) {
	v, err := list_head([]interp.Value{nums(1, 2, 3)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.(*interp.Int).Value)

	v, err = list_tail([]interp.Value{nums(1, 2, 3)})
	require.NoError(t, err)
	assert.Equal(t, "[2, 3]", v.String())

	v, err = list_cons([]interp.Value{num(0), nums(1, 2)})
	require.NoError(t, err)
	assert.Equal(t, "[0, 1, 2]", v.String())

	_, err = list_head([]interp.Value{nums()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty list")
}

func TestConsDoesNotMutateOriginal(t *testing.T) {
	orig := nums(1, 2)
	_, err := list_cons([]interp.Value{num(0), orig})
	require.NoError(t, err)
	assert.Equal(t, "[1, 2]", orig.String())
}

func TestLenAndEmpty(t *testing.T) {
	v, err := list_len([]interp.Value{nums(1, 2, 3)})
	require.NoError(t, err)
	assert.Equal(t, int64(3), v.(*interp.Int).Value)

	v, err = list_len([]interp.Value{&interp.String{Value: "abcd"}})
	require.NoError(t, err)
	assert.Equal(t, int64(4), v.(*interp.Int).Value)

	v, err = list_empty([]interp.Value{nums()})
	require.NoError(t, err)
	assert.True(t, v.(*interp.Bool).Value)

	_, err = list_len([]interp.Value{num(1)})
	assert.Error(t, err)
}

func TestAppendConcatReverse(t *testing.T) {
	v, err := list_append([]interp.Value{nums(1), num(2)})
	require.NoError(t, err)
	assert.Equal(t, "[1, 2]", v.String())

	v, err = list_concat([]interp.Value{nums(1), nums(2, 3)})
	require.NoError(t, err)
	assert.Equal(t, "[1, 2, 3]", v.String())

	v, err = list_reverse([]interp.Value{nums(1, 2, 3)})
	require.NoError(t, err)
	assert.Equal(t, "[3, 2, 1]", v.String())
}

func TestNth(t *testing.T) {
	v, err := list_nth([]interp.Value{nums(10, 20), num(1)})
	require.NoError(t, err)
	assert.Equal(t, int64(20), v.(*interp.Int).Value)

	_, err = list_nth([]interp.Value{nums(10), num(5)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of bounds")
}

func TestSort(t *testing.T) {
	v, err := list_sort([]interp.Value{nums(3, 1, 2)})
	require.NoError(t, err)
	assert.Equal(t, "[1, 2, 3]", v.String())

	strs := &interp.List{Elems: []interp.Value{
		&interp.String{Value: "b"}, &interp.String{Value: "a"},
	}}
	v, err = list_sort([]interp.Value{strs})
	require.NoError(t, err)
	assert.Equal(t, `["a", "b"]`, v.String())

	mixed := &interp.List{Elems: []interp.Value{interp.True, interp.False}}
	_, err = list_sort([]interp.Value{mixed})
	assert.Error(t, err)
}
