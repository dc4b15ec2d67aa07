// Package cueschema implements schema.Provider over a directory of
// CUE files.
//
// Descriptors live under the top-level "types" struct, keyed by
// alias:
//
//	types: article: {
//		id:   1001
//		name: "Article"
//		kind: "content"
//		properties: title: {
//			name: "Title"
//			type: "string"
//		}
//	}
//
// Schema files share a package clause so the CUE loader treats the
// directory as a single instance.
//
// The directory is loaded fresh on every GetAll call: the rebuild
// engine re-reads the schema per rebuild, and caching here would
// defeat its staleness detection.
package cueschema

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/dawoe/modelforge/internal/schema"
)

// Provider loads TypeDescriptors from CUE files in a directory.
type Provider struct {
	dir string
}

// NewProvider creates a provider over the given directory.
func NewProvider(dir string) *Provider {
	return &Provider{dir: dir}
}

// GetAll loads and compiles every descriptor under "types". A
// directory without CUE files, or CUE without a "types" struct,
// yields an empty descriptor set rather than an error.
func (p *Provider) GetAll() ([]schema.TypeDescriptor, error) {
	info, err := os.Stat(p.dir)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("schema directory not found: %s", p.dir)
	}
	if err != nil {
		return nil, fmt.Errorf("accessing schema directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", p.dir)
	}

	// An empty schema is a legal input: a directory without CUE
	// files yields an empty descriptor set instead of a load error.
	cueFiles, err := findCUEFiles(p.dir)
	if err != nil {
		return nil, fmt.Errorf("scanning schema directory: %w", err)
	}
	if len(cueFiles) == 0 {
		return nil, nil
	}

	ctx := cuecontext.New()
	cfg := &load.Config{Dir: p.dir}
	instances := load.Instances([]string{"."}, cfg)
	if len(instances) == 0 {
		return nil, fmt.Errorf("no CUE instances loaded from %s", p.dir)
	}

	inst := instances[0]
	if inst.Err != nil {
		return nil, fmt.Errorf("loading CUE files: %w", inst.Err)
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("building CUE schema: %w", err)
	}

	typesVal := value.LookupPath(cue.ParsePath("types"))
	if !typesVal.Exists() {
		return nil, nil
	}

	iter, err := typesVal.Fields()
	if err != nil {
		return nil, fmt.Errorf("iterating types: %w", err)
	}

	var descriptors []schema.TypeDescriptor
	for iter.Next() {
		desc, err := compileType(iter.Selector().Unquoted(), iter.Value())
		if err != nil {
			return nil, err
		}
		descriptors = append(descriptors, desc)
	}
	return descriptors, nil
}

// findCUEFiles lists the .cue files directly inside dir.
func findCUEFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if filepath.Ext(entry.Name()) == ".cue" {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}
