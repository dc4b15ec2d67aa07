package testutil

import (
	"sync/atomic"

	"github.com/dawoe/modelforge/internal/pipeline"
	"github.com/dawoe/modelforge/internal/schema"
	"github.com/dawoe/modelforge/internal/source"
)

// CountingPipeline wraps a BuildPipeline and counts GenerateSource
// and Compile calls. Tests use the counters to prove a rebuild did
// (or did not) happen.
type CountingPipeline struct {
	inner pipeline.BuildPipeline

	generateCalls atomic.Int64
	compileCalls  atomic.Int64
}

// NewCountingPipeline wraps the given pipeline.
func NewCountingPipeline(inner pipeline.BuildPipeline) *CountingPipeline {
	return &CountingPipeline{inner: inner}
}

func (p *CountingPipeline) GenerateSource(fragments []source.Fragment, types []schema.TypeDescriptor) (string, error) {
	p.generateCalls.Add(1)
	return p.inner.GenerateSource(fragments, types)
}

func (p *CountingPipeline) Compile(sourceText string) (*pipeline.Artifact, error) {
	p.compileCalls.Add(1)
	return p.inner.Compile(sourceText)
}

func (p *CountingPipeline) EncodeArtifact(a *pipeline.Artifact) ([]byte, error) {
	return p.inner.EncodeArtifact(a)
}

func (p *CountingPipeline) DecodeArtifact(raw []byte) (*pipeline.Artifact, error) {
	return p.inner.DecodeArtifact(raw)
}

// GenerateCalls returns how often GenerateSource ran.
func (p *CountingPipeline) GenerateCalls() int { return int(p.generateCalls.Load()) }

// CompileCalls returns how often Compile ran.
func (p *CountingPipeline) CompileCalls() int { return int(p.compileCalls.Load()) }
