package translator

import (
	"fmt"

	"armc/token"
)

// SemanticError is returned for any violation of the translator's static
// semantics: undefined names, redefinitions, top-level/function-body
// context violations, and the like. Token carries the offending source
// position when one is available, for diagnostics.Format's gutter/underline
// rendering. It is nil where no statement token reaches the error: an
// undefined name referenced inside an expression, and the
// defensively-unreachable cases (an AST node outside the closed set its own
// Accept dispatch produces).
type SemanticError struct {
	Message string
	Token   *token.Token
}

func (e SemanticError) Error() string {
	return fmt.Sprintf("💥 SemanticError: %s", e.Message)
}

// semanticErrorf builds a SemanticError with no positional token attached.
func semanticErrorf(format string, args ...any) SemanticError {
	return SemanticError{Message: fmt.Sprintf(format, args...)}
}

// semanticErrorAt builds a SemanticError anchored to tok, so diagnostics.Format
// can render the usual --> file:line:col / gutter / underline block for it.
func semanticErrorAt(tok token.Token, format string, args ...any) SemanticError {
	return SemanticError{Message: fmt.Sprintf(format, args...), Token: &tok}
}

// DeveloperError marks an invariant violation in the translator itself —
// not a malformed input program, but a bug in this package. It is only
// ever produced by panic/recover, mirroring the teacher's
// compiler/ast_compiler.go convention of reserving panics for
// non-user-facing failure classes.
type DeveloperError struct {
	Message string
}

func (e DeveloperError) Error() string {
	return fmt.Sprintf("🤖 DeveloperError: %s", e.Message)
}
