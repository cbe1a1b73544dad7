package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadDocument_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.md")
	require.NoError(t, os.WriteFile(path, []byte("- [ ] a\n"), 0o600))

	doc, err := readDocument(path, os.Stdin)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Path)
	assert.Equal(t, "- [ ] a\n", doc.Text)
	assert.Equal(t, os.FileMode(0o600), doc.Mode)
	assert.False(t, doc.ModTime.IsZero())

	require.NoError(t, writeDocument(doc, "- [x] a\n"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "- [x] a\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestReadDocument_Pipe(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	_, err = w.WriteString("- [x] piped\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	doc, err := readDocument("-", r)
	require.NoError(t, err)
	assert.Empty(t, doc.Path)
	assert.Equal(t, "- [x] piped\n", doc.Text)
}

func TestReadDocument_Errors(t *testing.T) {
	_, err := readDocument(filepath.Join(t.TempDir(), "missing.md"), os.Stdin)
	assert.Error(t, err)

	_, err = readDocument(t.TempDir(), os.Stdin)
	assert.ErrorContains(t, err, "is a directory")
}
