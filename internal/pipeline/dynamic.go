package pipeline

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/dawoe/modelforge/internal/schema"
	"github.com/dawoe/modelforge/internal/source"
)

// bindingsPrefix marks the machine-readable binding table line inside
// generated source. Compile refuses source without it.
const bindingsPrefix = "// modelforge:bindings "

// bindingTable is the serialized form of a dynamic artifact. It is
// embedded in the generated source (so Compile needs no side channel)
// and doubles as the persisted artifact payload.
type bindingTable struct {
	Types []bindingType `json:"types"`
}

type bindingType struct {
	Name       string            `json:"name"`
	Alias      string            `json:"alias,omitempty"`
	Properties []bindingProperty `json:"properties,omitempty"`
}

type bindingProperty struct {
	Alias        string `json:"alias"`
	ClrName      string `json:"clrName"`
	TypeFullName string `json:"typeFullName"`
}

// DynamicPipeline is the reference BuildPipeline. Instead of emitting
// and compiling real source, it interprets the descriptors directly:
// the generated text is a human-readable listing carrying an embedded
// binding table, and Compile turns that table into Model constructors
// with per-type accessor metadata resolved once, at build time.
type DynamicPipeline struct{}

// NewDynamicPipeline returns the reference pipeline.
func NewDynamicPipeline() *DynamicPipeline {
	return &DynamicPipeline{}
}

// GenerateSource renders the deterministic generated-source listing.
// Types are sorted by alias so the same inputs always produce
// byte-identical output.
func (p *DynamicPipeline) GenerateSource(fragments []source.Fragment, types []schema.TypeDescriptor) (string, error) {
	table := tableOf(types)

	tableJSON, err := json.Marshal(table)
	if err != nil {
		return "", fmt.Errorf("marshal binding table: %w", err)
	}

	var b strings.Builder
	b.WriteString("// Code generated by modelforge. DO NOT EDIT.\n")

	if len(fragments) > 0 {
		b.WriteString("\n")
		for _, f := range fragments {
			fmt.Fprintf(&b, "// fragment %s (%d bytes)\n", f.Path, len(f.Text))
		}
	}

	for _, t := range table.Types {
		fmt.Fprintf(&b, "\n// type %s binds alias %q\n", t.Name, t.Alias)
		for _, prop := range t.Properties {
			fmt.Fprintf(&b, "//   %s <- %q (%s)\n", prop.ClrName, prop.Alias, prop.TypeFullName)
		}
	}

	b.WriteString("\n")
	b.WriteString(bindingsPrefix)
	b.Write(tableJSON)
	b.WriteString("\n")
	return b.String(), nil
}

// Compile extracts the binding table from generated source and builds
// the artifact. Source without a binding table, or with one that does
// not parse, is rejected with a *CompileError.
func (p *DynamicPipeline) Compile(sourceText string) (*Artifact, error) {
	var tableJSON []byte
	for _, line := range strings.Split(sourceText, "\n") {
		if strings.HasPrefix(line, bindingsPrefix) {
			tableJSON = []byte(strings.TrimPrefix(line, bindingsPrefix))
			break
		}
	}
	if tableJSON == nil {
		return nil, &CompileError{Message: "generated source has no binding table"}
	}

	artifact, err := p.DecodeArtifact(tableJSON)
	if err != nil {
		return nil, &CompileError{Message: err.Error()}
	}
	return artifact, nil
}

// EncodeArtifact returns the persisted byte form of a dynamic
// artifact (its binding table JSON).
func (p *DynamicPipeline) EncodeArtifact(a *Artifact) ([]byte, error) {
	if len(a.Payload) == 0 {
		return nil, fmt.Errorf("artifact has no payload")
	}
	return a.Payload, nil
}

// DecodeArtifact rehydrates an artifact from binding table JSON.
// Alias collisions are not checked here; RegisterConstructors owns
// that validation.
func (p *DynamicPipeline) DecodeArtifact(raw []byte) (*Artifact, error) {
	var table bindingTable
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("decode binding table: %w", err)
	}

	candidates := make([]Candidate, len(table.Types))
	for i, t := range table.Types {
		meta := newModelMeta(t)
		candidates[i] = Candidate{
			Name:  t.Name,
			Alias: t.Alias,
			New: Constructor(func(n schema.Node) schema.Node {
				return &Model{node: n, meta: meta}
			}),
		}
	}
	return &Artifact{Candidates: candidates, Payload: raw}, nil
}

// tableOf maps descriptors to a binding table, sorted by alias. A
// descriptor without a ClrName gets a name derived from its alias.
func tableOf(types []schema.TypeDescriptor) bindingTable {
	sorted := make([]schema.TypeDescriptor, len(types))
	copy(sorted, types)
	sort.Slice(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Alias) < strings.ToLower(sorted[j].Alias)
	})

	table := bindingTable{Types: make([]bindingType, len(sorted))}
	for i, t := range sorted {
		name := t.ClrName
		if name == "" {
			name = exportName(t.Alias)
		}
		bt := bindingType{Name: name, Alias: t.Alias}
		for _, p := range t.Properties {
			clr := p.ClrName
			if clr == "" {
				clr = exportName(p.Alias)
			}
			bt.Properties = append(bt.Properties, bindingProperty{
				Alias:        p.Alias,
				ClrName:      clr,
				TypeFullName: p.TypeFullName,
			})
		}
		table.Types[i] = bt
	}
	return table
}

// exportName derives an exported identifier from an alias:
// "blogPost" and "blog-post" both become "BlogPost".
func exportName(alias string) string {
	var b strings.Builder
	upperNext := true
	for _, r := range alias {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upperNext = true
			continue
		}
		if upperNext {
			b.WriteRune(unicode.ToUpper(r))
			upperNext = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
