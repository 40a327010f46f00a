// Package diagnostics formats a compiler error for the terminal: a
// colorized `<Kind>: <message>` header, followed by a source snippet with
// the offending token underlined when position information is available.
// Color degrades to plain text automatically when stdout is not a TTY,
// following fatih/color's own isatty detection.
package diagnostics

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"armc/assembler"
	"armc/config"
	"armc/parser"
	"armc/token"
	"armc/translator"
)

var (
	kindColor  = color.New(color.FgRed, color.Bold)
	caretColor = color.New(color.FgRed)
)

// Format writes err's four-line diagnostic report to w. filename and
// source are the compiled unit's path and full text, used to recover and
// print the offending source line. cfg.Diagnostics.Color gates whether the
// header and underline are colorized (a nil cfg counts as enabled); color
// is off regardless whenever fatih/color's color.NoColor is set.
func Format(w io.Writer, filename, source string, err error, cfg *config.Config) {
	colorize := (cfg == nil || cfg.Diagnostics.Color) && !color.NoColor
	kindColor.EnableColor()
	caretColor.EnableColor()
	if !colorize {
		kindColor.DisableColor()
		caretColor.DisableColor()
	}

	kind, message, tok := classify(err)
	fmt.Fprintf(w, "%s %s\n", kindColor.Sprintf("%s:", kind), message)

	if tok == nil {
		return
	}

	fmt.Fprintf(w, "   --> %s:%d:%d\n", filename, tok.Line, tok.Column)
	fmt.Fprintf(w, "   |\n")

	lines := strings.Split(source, "\n")
	if tok.Line < 1 || tok.Line > len(lines) {
		return
	}
	srcLine := lines[tok.Line-1]
	fmt.Fprintf(w, "%2d | %s\n", tok.Line, srcLine)

	width := len([]rune(tok.Lexeme))
	if width == 0 {
		width = 1
	}
	col := tok.Column - 1
	if col < 0 {
		col = 0
	}
	underline := strings.Repeat(" ", col) + strings.Repeat("^", width)
	fmt.Fprintf(w, "   | %s\n", caretColor.Sprint(underline))
}

var warnColor = color.New(color.FgYellow, color.Bold)

// FormatNarrowingWarnings writes one line per cast to w, each naming the
// source position and the value-narrowing conversion that occurred, unless
// cfg.Diagnostics.WarnOnNarrowingCast is false.
func FormatNarrowingWarnings(w io.Writer, filename string, casts []translator.NarrowingCast, cfg *config.Config) {
	if cfg != nil && !cfg.Diagnostics.WarnOnNarrowingCast {
		return
	}
	colorize := (cfg == nil || cfg.Diagnostics.Color) && !color.NoColor
	warnColor.EnableColor()
	if !colorize {
		warnColor.DisableColor()
	}
	for _, cast := range casts {
		fmt.Fprintf(w, "%s %s:%d:%d: '%s' narrows %s to %s\n",
			warnColor.Sprint("Warning:"), filename, cast.Token.Line, cast.Token.Column,
			cast.Token.Lexeme, cast.From, cast.To)
	}
}

func classify(err error) (kind, message string, tok *token.Token) {
	switch e := err.(type) {
	case parser.SyntaxError:
		if e.Found != nil {
			message = fmt.Sprintf("expected %s, found %q", e.Expected, e.Found.Lexeme)
		} else {
			message = fmt.Sprintf("expected %s, found end of input", e.Expected)
		}
		return "SyntaxError", message, e.Found
	case translator.SemanticError:
		return "SemanticError", e.Message, e.Token
	case translator.DeveloperError:
		return "DeveloperError", e.Message, nil
	case assembler.AssemblyError:
		return "AssemblyError", e.Message, nil
	default:
		return "Error", err.Error(), nil
	}
}
