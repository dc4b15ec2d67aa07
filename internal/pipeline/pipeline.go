// Package pipeline defines the build pipeline contract the rebuild
// engine drives, and the artifact shape it consumes.
//
// The engine itself never generates or compiles anything: it hands
// fragments and descriptors to a BuildPipeline and installs whatever
// constructors come back. The one invariant a pipeline must honor is
// that lookup cost is paid at build time: after registration,
// dispatch per CreateModel call is a single map lookup, never
// per-call reflection.
package pipeline

import (
	"github.com/dawoe/modelforge/internal/schema"
	"github.com/dawoe/modelforge/internal/source"
)

// Constructor decorates one raw content node with its typed wrapper.
type Constructor func(schema.Node) schema.Node

// BuildPipeline turns schema descriptors and user source fragments
// into a compiled artifact. Implementations are external to the
// rebuild engine; DynamicPipeline in this package is the reference
// implementation.
//
// Encode/Decode exist so the artifact store can persist a compiled
// artifact as bytes and rehydrate it after a restart without calling
// GenerateSource or Compile again.
type BuildPipeline interface {
	// GenerateSource renders the full generated source text for the
	// given inputs. The text is persisted for diagnostics and fed to
	// Compile unchanged.
	GenerateSource(fragments []source.Fragment, types []schema.TypeDescriptor) (string, error)

	// Compile turns generated source into an artifact. Rejected
	// source yields a *CompileError.
	Compile(sourceText string) (*Artifact, error)

	// EncodeArtifact returns the persistable byte form of an
	// artifact produced by this pipeline.
	EncodeArtifact(a *Artifact) ([]byte, error)

	// DecodeArtifact rehydrates an artifact from its persisted byte
	// form. Callers treat any error as a cache miss.
	DecodeArtifact(raw []byte) (*Artifact, error)
}

// CompileError reports that the build pipeline rejected the generated
// source. Fatal for the rebuild attempt that produced it.
type CompileError struct {
	Message string
}

func (e *CompileError) Error() string {
	return "COMPILE_FAILED: " + e.Message
}
