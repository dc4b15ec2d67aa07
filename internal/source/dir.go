package source

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// GeneratedMarker tags files written by the engine itself. Any file
// whose name contains the marker is excluded from fragment scans.
const GeneratedMarker = ".generated."

// DefaultExt is the fragment file extension scanned when none is
// configured.
const DefaultExt = ".go"

// Names of the diagnostic files written back into the directory after
// a successful rebuild. Both writes are best-effort.
const (
	GeneratedSourceName = "models.generated.go.txt"
	FingerprintName     = "models.hash"
)

// DirectoryError reports that the working directory cannot be
// resolved, created, or read. It is fatal for the rebuild attempt
// that hit it.
type DirectoryError struct {
	Path string
	Err  error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("DIRECTORY_UNAVAILABLE: %s: %v", e.Path, e.Err)
}

func (e *DirectoryError) Unwrap() error { return e.Err }

// Dir is the writable working directory supplied by the hosting
// layer. It is both the input location for user fragments and the
// output location for diagnostic artifacts.
type Dir struct {
	path string
	ext  string
}

// NewDir creates a Dir rooted at path, scanning fragment files with
// the given extension. An empty ext selects DefaultExt.
func NewDir(path, ext string) *Dir {
	if ext == "" {
		ext = DefaultExt
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return &Dir{path: path, ext: ext}
}

// Path returns the directory's root path.
func (d *Dir) Path() string { return d.path }

// Ensure creates the directory if it does not exist. Returns a
// DirectoryError when the directory cannot be used.
func (d *Dir) Ensure() error {
	if err := os.MkdirAll(d.path, 0o755); err != nil {
		return &DirectoryError{Path: d.path, Err: err}
	}
	return nil
}

// ReadFragments scans the directory tree for fragment files and
// returns them sorted by path. Files whose name contains
// GeneratedMarker are skipped so the engine never re-reads its own
// output. The directory is read fresh on every call.
func (d *Dir) ReadFragments() ([]Fragment, error) {
	if err := d.Ensure(); err != nil {
		return nil, err
	}

	var fragments []Fragment
	walkErr := filepath.WalkDir(d.path, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		name := entry.Name()
		if !strings.HasSuffix(name, d.ext) {
			return nil
		}
		if strings.Contains(name, GeneratedMarker) {
			return nil
		}

		text, readErr := os.ReadFile(path)
		if readErr != nil {
			return readErr
		}
		rel, relErr := filepath.Rel(d.path, path)
		if relErr != nil {
			rel = name
		}
		fragments = append(fragments, Fragment{
			Path: filepath.ToSlash(rel),
			Text: string(text),
		})
		return nil
	})
	if walkErr != nil {
		return nil, &DirectoryError{Path: d.path, Err: walkErr}
	}

	sort.Slice(fragments, func(i, j int) bool {
		return fragments[i].Path < fragments[j].Path
	})
	return fragments, nil
}

// WriteGeneratedSource writes the generated source text into the
// directory for human inspection. The file name carries the
// GeneratedMarker so the next scan skips it.
func (d *Dir) WriteGeneratedSource(text string) error {
	return os.WriteFile(filepath.Join(d.path, GeneratedSourceName), []byte(text), 0o644)
}

// WriteFingerprint mirrors the current generation fingerprint into
// the directory as plain text.
func (d *Dir) WriteFingerprint(fp string) error {
	return os.WriteFile(filepath.Join(d.path, FingerprintName), []byte(fp+"\n"), 0o644)
}

// ReadFingerprint reads back the mirrored fingerprint text, if any.
// Used by diagnostics only; the persisted store is authoritative.
func (d *Dir) ReadFingerprint() (string, bool) {
	raw, err := os.ReadFile(filepath.Join(d.path, FingerprintName))
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(raw)), true
}
