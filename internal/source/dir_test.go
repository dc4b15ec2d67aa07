package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, text string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
}

func TestEnsure_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models")
	d := NewDir(path, "")

	require.NoError(t, d.Ensure())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestEnsure_DirectoryUnavailable(t *testing.T) {
	// A file where the directory should be makes MkdirAll fail.
	root := t.TempDir()
	blocker := filepath.Join(root, "models")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	d := NewDir(filepath.Join(blocker, "nested"), "")
	err := d.Ensure()
	require.Error(t, err)

	var dirErr *DirectoryError
	require.ErrorAs(t, err, &dirErr)
}

func TestReadFragments_SortedByPath(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "zebra.go", "package models // z\n")
	writeFile(t, root, "alpha.go", "package models // a\n")
	writeFile(t, root, filepath.Join("nested", "middle.go"), "package models // m\n")

	d := NewDir(root, ".go")
	fragments, err := d.ReadFragments()
	require.NoError(t, err)

	require.Len(t, fragments, 3)
	assert.Equal(t, "alpha.go", fragments[0].Path)
	assert.Equal(t, "nested/middle.go", fragments[1].Path)
	assert.Equal(t, "zebra.go", fragments[2].Path)
	assert.Equal(t, "package models // a\n", fragments[0].Text)
}

func TestReadFragments_SkipsGeneratedAndForeignFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "user.go", "package models\n")
	writeFile(t, root, "models.generated.go", "// generated output\n")
	writeFile(t, root, "notes.txt", "not source\n")

	d := NewDir(root, ".go")
	fragments, err := d.ReadFragments()
	require.NoError(t, err)

	require.Len(t, fragments, 1)
	assert.Equal(t, "user.go", fragments[0].Path)
}

func TestReadFragments_EmptyDirectory(t *testing.T) {
	d := NewDir(filepath.Join(t.TempDir(), "fresh"), "")
	fragments, err := d.ReadFragments()
	require.NoError(t, err)
	assert.Empty(t, fragments)
}

func TestReadFragments_ReadsFresh(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "user.go", "v1\n")
	d := NewDir(root, ".go")

	first, err := d.ReadFragments()
	require.NoError(t, err)
	require.Equal(t, "v1\n", first[0].Text)

	writeFile(t, root, "user.go", "v2\n")
	second, err := d.ReadFragments()
	require.NoError(t, err)
	assert.Equal(t, "v2\n", second[0].Text, "fragments must be re-read on every scan")
}

func TestWriteGeneratedSource_NotRescanned(t *testing.T) {
	root := t.TempDir()
	d := NewDir(root, ".go")

	require.NoError(t, d.WriteGeneratedSource("// output\n"))

	fragments, err := d.ReadFragments()
	require.NoError(t, err)
	assert.Empty(t, fragments, "the engine must never read its own output back as input")
}

func TestFingerprintRoundTrip(t *testing.T) {
	d := NewDir(t.TempDir(), "")

	_, ok := d.ReadFingerprint()
	assert.False(t, ok)

	require.NoError(t, d.WriteFingerprint("abc123"))
	fp, ok := d.ReadFingerprint()
	require.True(t, ok)
	assert.Equal(t, "abc123", fp)
}

func TestNewDir_NormalizesExtension(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "user.cs", "partial class\n")

	d := NewDir(root, "cs")
	fragments, err := d.ReadFragments()
	require.NoError(t, err)
	require.Len(t, fragments, 1)
}
