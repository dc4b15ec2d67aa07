package pipeline

import (
	"fmt"
	"strings"

	"github.com/dawoe/modelforge/internal/schema"
)

// Artifact is the compiled output of a build pipeline: a set of
// candidate model types, each constructible from a raw content node.
type Artifact struct {
	// Candidates in deterministic (alias) order.
	Candidates []Candidate

	// Payload is the pipeline-specific serialized form of the
	// artifact. This is what the artifact store persists and what
	// BuildPipeline.DecodeArtifact accepts back.
	Payload []byte
}

// Candidate is one constructible model type inside an artifact.
type Candidate struct {
	// Name is the concrete model type name.
	Name string

	// Alias is the target type alias the candidate binds to. Empty
	// means the candidate binds under its own Name.
	Alias string

	// New is the candidate's constructor. Registration requires the
	// shape func(schema.Node) schema.Node; anything else fails with
	// MISSING_CONSTRUCTOR.
	New any
}

// bindingAlias returns the alias the candidate claims.
func (c Candidate) bindingAlias() string {
	if c.Alias != "" {
		return c.Alias
	}
	return c.Name
}

// BindingErrorCode categorizes constructor registration failures.
type BindingErrorCode string

const (
	// ErrCodeDuplicateBinding means two candidates claim the same
	// alias (case-insensitively).
	ErrCodeDuplicateBinding BindingErrorCode = "DUPLICATE_BINDING"

	// ErrCodeMissingConstructor means a candidate lacks the required
	// single-node-argument constructor shape.
	ErrCodeMissingConstructor BindingErrorCode = "MISSING_CONSTRUCTOR"
)

// BindingError reports a constructor registration failure. The
// rebuild that hit it fails and the generation stays stale, so a
// later rebuild (after the source conflict is fixed) can retry.
type BindingError struct {
	Code     BindingErrorCode
	Alias    string
	TypeName string
	Message  string
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("%s: type %q, alias %q: %s", e.Code, e.TypeName, e.Alias, e.Message)
}

// RegisterConstructors builds a generation's lookup table from an
// artifact. Keys are lowercased aliases; lookup throughout the module
// is case-insensitive.
//
// Fails with DUPLICATE_BINDING when two candidates claim the same
// alias and with MISSING_CONSTRUCTOR when a candidate's New is not a
// func(schema.Node) schema.Node.
func RegisterConstructors(a *Artifact) (map[string]Constructor, error) {
	ctors := make(map[string]Constructor, len(a.Candidates))
	owners := make(map[string]string, len(a.Candidates))

	for _, cand := range a.Candidates {
		alias := cand.bindingAlias()
		key := strings.ToLower(alias)
		if prev, taken := owners[key]; taken {
			return nil, &BindingError{
				Code:     ErrCodeDuplicateBinding,
				Alias:    alias,
				TypeName: cand.Name,
				Message:  fmt.Sprintf("alias already bound by type %q", prev),
			}
		}

		ctor, ok := constructorOf(cand.New)
		if !ok {
			return nil, &BindingError{
				Code:     ErrCodeMissingConstructor,
				Alias:    alias,
				TypeName: cand.Name,
				Message:  "candidate does not expose a func(schema.Node) schema.Node constructor",
			}
		}

		owners[key] = cand.Name
		ctors[key] = ctor
	}
	return ctors, nil
}

func constructorOf(v any) (Constructor, bool) {
	switch fn := v.(type) {
	case Constructor:
		return fn, fn != nil
	case func(schema.Node) schema.Node:
		return fn, fn != nil
	default:
		return nil, false
	}
}
