package parser

import (
	"fmt"

	"armc/token"
)

// SyntaxError is raised by the syntactic analyzer: Expected names what the
// parser was looking for, Found is the offending token, or nil if the
// token stream ended instead.
type SyntaxError struct {
	Expected string
	Found    *token.Token
}

func (e SyntaxError) Error() string {
	if e.Found == nil {
		return fmt.Sprintf("💥 Syntax error: expected %s, found end of input", e.Expected)
	}
	return fmt.Sprintf("💥 Syntax error: expected %s, found %q (line %d, column %d)",
		e.Expected, e.Found.Lexeme, e.Found.Line, e.Found.Column)
}
