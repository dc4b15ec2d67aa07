package cueschema

import (
	"fmt"

	"cuelang.org/go/cue/token"
)

// CompileError reports an invalid or incomplete descriptor definition
// in a CUE schema file, positioned at the offending value when the
// CUE evaluator can supply a position.
type CompileError struct {
	Path    string // CUE path, e.g. "types.article.id"
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Path, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}
