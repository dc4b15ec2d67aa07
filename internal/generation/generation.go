package generation

import (
	"sort"
	"strings"

	"github.com/dawoe/modelforge/internal/fingerprint"
	"github.com/dawoe/modelforge/internal/pipeline"
)

// Generation is one immutable installed mapping from type alias to
// constructor: a compiled snapshot of all known model types. It is
// never mutated after construction; a rebuild installs a fresh one.
type Generation struct {
	constructors map[string]pipeline.Constructor // keyed by lowercased alias
	fp           fingerprint.Fingerprint
}

func newGeneration(fp fingerprint.Fingerprint, constructors map[string]pipeline.Constructor) *Generation {
	return &Generation{constructors: constructors, fp: fp}
}

// Lookup returns the constructor bound to the given type alias,
// resolved case-insensitively.
func (g *Generation) Lookup(alias string) (pipeline.Constructor, bool) {
	ctor, ok := g.constructors[strings.ToLower(alias)]
	return ctor, ok
}

// Len returns the number of bound model types.
func (g *Generation) Len() int { return len(g.constructors) }

// Fingerprint returns the content hash the generation was built from.
func (g *Generation) Fingerprint() fingerprint.Fingerprint { return g.fp }

// Aliases returns the bound aliases in sorted order.
func (g *Generation) Aliases() []string {
	aliases := make([]string, 0, len(g.constructors))
	for alias := range g.constructors {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}
