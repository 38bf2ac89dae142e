package strmod

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/setsuna/interp"
)

func str(s string) interp.Value { return &interp.String{Value: s} }
func num(n int64) interp.Value  { return &interp.Int{Value: n} }

func TestSplitAndJoin(t *testing.T) {
	v, err := str_split([]interp.Value{str("a,b,c"), str(",")})
	require.NoError(t, err)
	assert.Equal(t, `["a", "b", "c"]`, v.String())

	joined, err := str_join([]interp.Value{v, str("-")})
	require.NoError(t, err)
	assert.Equal(t, "a-b-c", joined.(*interp.String).Value)
}

func TestJoinRendersNonStrings(t *testing.T) {
	list := &interp.List{Elems: []interp.Value{num(1), num(2)}}
	v, err := str_join([]interp.Value{list, str(", ")})
	require.NoError(t, err)
	assert.Equal(t, "1, 2", v.(*interp.String).Value)
}

func TestSubstr(t *testing.T) {
	v, err := str_substr([]interp.Value{str("hello"), num(1), num(3)})
	require.NoError(t, err)
	assert.Equal(t, "ell", v.(*interp.String).Value)

	_, err = str_substr([]interp.Value{str("hello"), num(9), num(1)})
	assert.Error(t, err)
}

func TestCaseAndTrim(t *testing.T) {
	up, err := mapString("uppercase", strings.ToUpper)([]interp.Value{str("abc")})
	require.NoError(t, err)
	assert.Equal(t, "ABC", up.(*interp.String).Value)

	v, err := trimWith("trim", strings.Trim)([]interp.Value{str("  x \t\n")})
	require.NoError(t, err)
	assert.Equal(t, "x", v.(*interp.String).Value)
}

func TestPredicates(t *testing.T) {
	v, err := strPred("starts_with", strings.HasPrefix)([]interp.Value{str("hello"), str("he")})
	require.NoError(t, err)
	assert.True(t, v.(*interp.Bool).Value)

	v, err = strPred("ends_with", strings.HasSuffix)([]interp.Value{str("hello"), str("xx")})
	require.NoError(t, err)
	assert.False(t, v.(*interp.Bool).Value)
}

func TestReplace(t *testing.T) {
	v, err := str_replace([]interp.Value{str("aaa"), str("a"), str("b")})
	require.NoError(t, err)
	assert.Equal(t, "baa", v.(*interp.String).Value)

	v, err = str_replace_all([]interp.Value{str("aaa"), str("a"), str("b")})
	require.NoError(t, err)
	assert.Equal(t, "bbb", v.(*interp.String).Value)

	// Empty needle leaves the string alone instead of exploding it.
	v, err = str_replace_all([]interp.Value{str("abc"), str(""), str("x")})
	require.NoError(t, err)
	assert.Equal(t, "abc", v.(*interp.String).Value)
}

func TestCharsAndIndexing(t *testing.T) {
	v, err := str_chars([]interp.Value{str("ab")})
	require.NoError(t, err)
	assert.Equal(t, `["a", "b"]`, v.String())

	c, err := str_char_at([]interp.Value{str("abc"), num(1)})
	require.NoError(t, err)
	assert.Equal(t, "b", c.(*interp.String).Value)

	_, err = str_char_at([]interp.Value{str("abc"), num(5)})
	assert.Error(t, err)

	idx, err := str_index_of([]interp.Value{str("abcabc"), str("c")})
	require.NoError(t, err)
	assert.Equal(t, int64(2), idx.(*interp.Int).Value)

	idx, err = str_index_of([]interp.Value{str("abc"), str("z")})
	require.NoError(t, err)
	assert.Equal(t, int64(-1), idx.(*interp.Int).Value)
}

func TestTypeErrors(t *testing.T) {
	_, err := str_split([]interp.Value{num(1), str(",")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "split: expected strings")
}
