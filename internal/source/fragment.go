// Package source deals with user-authored model source fragments and
// the writable working directory they live in.
//
// Fragments are read fresh on every rebuild: the directory is the
// source of truth, and nothing in this package caches file contents.
// Generated output written back into the directory carries a
// ".generated." marker in its file name so that the scanner never
// picks up the engine's own output as input.
package source

// Fragment is one user-authored partial-model file.
type Fragment struct {
	// Path is the fragment's path relative to the working directory,
	// with forward slashes. Used as the canonical sort key when
	// fingerprinting.
	Path string

	// Text is the full file content.
	Text string
}
