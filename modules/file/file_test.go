package filemod

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/setsuna/interp"
)

func str(s string) interp.Value { return &interp.String{Value: s} }

func TestWriteReadAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	_, err := file_write([]interp.Value{str(path), str("hello")})
	require.NoError(t, err)

	v, err := file_read([]interp.Value{str(path)})
	require.NoError(t, err)
	assert.Equal(t, "hello", v.(*interp.String).Value)

	_, err = file_append([]interp.Value{str(path), str(" world")})
	require.NoError(t, err)

	v, err = file_read([]interp.Value{str(path)})
	require.NoError(t, err)
	assert.Equal(t, "hello world", v.(*interp.String).Value)
}

func TestReadMissingFile(t *testing.T) {
	_, err := file_read([]interp.Value{str(filepath.Join(t.TempDir(), "nope"))})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not open file")
}

func TestExistsAndDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	v, err := file_exists([]interp.Value{str(path)})
	require.NoError(t, err)
	assert.True(t, v.(*interp.Bool).Value)

	v, err = file_delete([]interp.Value{str(path)})
	require.NoError(t, err)
	assert.True(t, v.(*interp.Bool).Value)

	v, err = file_exists([]interp.Value{str(path)})
	require.NoError(t, err)
	assert.False(t, v.(*interp.Bool).Value)

	// Deleting a missing file reports false rather than erroring.
	v, err = file_delete([]interp.Value{str(path)})
	require.NoError(t, err)
	assert.False(t, v.(*interp.Bool).Value)
}

func TestLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lines.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\nc\n"), 0o644))

	v, err := file_lines([]interp.Value{str(path)})
	require.NoError(t, err)
	assert.Equal(t, `["a", "b", "c"]`, v.String())

	empty := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	v, err = file_lines([]interp.Value{str(empty)})
	require.NoError(t, err)
	assert.Equal(t, "[]", v.String())
}

func TestDirHelpers(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("1"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	v, err := dir_list([]interp.Value{str(dir)})
	require.NoError(t, err)
	assert.Equal(t, `["a.txt", "sub"]`, v.String())

	v, err = dir_exists([]interp.Value{str(dir)})
	require.NoError(t, err)
	assert.True(t, v.(*interp.Bool).Value)

	v, err = dir_exists([]interp.Value{str(filepath.Join(dir, "a.txt"))})
	require.NoError(t, err)
	assert.False(t, v.(*interp.Bool).Value)
}
