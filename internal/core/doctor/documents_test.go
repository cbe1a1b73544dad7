package doctor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDocumentsCheck_NoneConfigured(t *testing.T) {
	result := NewDocumentsCheck(nil).Run(context.Background())

	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusPass, result.Items[0].Status)
	assert.Contains(t, result.Items[0].Detail, "none configured")
}

func TestDocumentsCheck_Glob(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.md", "# Today\n- [ ] one\n- [x] two\n")
	writeDoc(t, dir, "b.md", "- [ ] three\n")

	result := NewDocumentsCheck([]string{filepath.Join(dir, "*.md")}).Run(context.Background())

	require.Len(t, result.Items, 2)
	assert.Equal(t, StatusPass, result.Items[0].Status)
	assert.Equal(t, "2 checkbox lines", result.Items[0].Detail)
	assert.Equal(t, "1 checkbox lines", result.Items[1].Detail)
}

func TestDocumentsCheck_NoMatches(t *testing.T) {
	result := NewDocumentsCheck([]string{filepath.Join(t.TempDir(), "*.md")}).Run(context.Background())

	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusWarn, result.Items[0].Status)
	assert.Contains(t, result.Items[0].Detail, "matches no files")
}

func TestDocumentsCheck_InvalidLine(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "long.md", "- [ ] ok\n- [ ] "+strings.Repeat("a", 2000)+"\n")

	result := NewDocumentsCheck([]string{path}).Run(context.Background())

	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusWarn, result.Items[0].Status)
	assert.Contains(t, result.Items[0].Detail, "1 of 2")
}
