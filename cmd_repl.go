package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"

	"armc/config"
	"armc/diagnostics"
	"armc/lexer"
	"armc/parser"
	"armc/token"
	"armc/toolchain"
)

// replCmd accumulates source text line by line and, once the buffer holds
// a syntactically complete program, compiles and runs it. There is no
// print statement in the source language, so "running" a program is the
// whole point of each round: the REPL is a live recompile-as-you-type
// loop rather than an expression evaluator.
type replCmd struct{}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "Interactively build and run a program" }
func (*replCmd) Usage() string {
	return `repl:
  Read source lines, compiling and running the accumulated program once it
  is syntactically complete. Type "reset" to discard the buffer, "exit" to
  quit.
`
}

func (cmd *replCmd) SetFlags(f *flag.FlagSet) {}

func (cmd *replCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg := configFromContext(ctx)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:       ">>> ",
		HistoryFile:  historyFilePath(cfg),
		HistoryLimit: cfg.Repl.HistorySize,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to start REPL: %v\n", err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	fmt.Println("armc REPL — type a complete program, or \"exit\" to quit.")

	var buffer strings.Builder
	for {
		if buffer.Len() == 0 {
			rl.SetPrompt(">>> ")
		} else {
			rl.SetPrompt("... ")
		}

		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			buffer.Reset()
			continue
		}
		if err == io.EOF {
			return subcommands.ExitSuccess
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "💥 %v\n", err)
			return subcommands.ExitFailure
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "reset" {
			buffer.Reset()
			continue
		}
		if buffer.Len() == 0 {
			switch trimmed {
			case "exit":
				return subcommands.ExitSuccess
			case "":
				continue
			}
		}

		if buffer.Len() > 0 {
			buffer.WriteString("\n")
		}
		buffer.WriteString(line)
		source := buffer.String()

		lex := lexer.New(source)
		tokens, err := lex.Scan()
		if err != nil {
			diagnostics.Format(os.Stderr, "<repl>", source, err, cfg)
			buffer.Reset()
			continue
		}

		if !isInputReady(tokens) {
			continue
		}

		p := parser.New(tokens)
		statements, err := p.Parse()
		if err != nil {
			if atEOF(err, tokens) {
				continue
			}
			diagnostics.Format(os.Stderr, "<repl>", source, err, cfg)
			buffer.Reset()
			continue
		}
		_ = statements

		exitCode, err := compileAndRun(source, cfg)
		if err != nil {
			diagnostics.Format(os.Stderr, "<repl>", source, err, cfg)
		} else {
			fmt.Printf("(exit %d)\n", exitCode)
		}
		buffer.Reset()
	}
}

func historyFilePath(cfg *config.Config) string {
	if cfg.Repl.HistoryFile == "" {
		return ""
	}
	return cfg.Repl.HistoryFile
}

func compileAndRun(source string, cfg *config.Config) (int, error) {
	asm, warnings, err := assemble(source)
	if err != nil {
		return 0, err
	}
	diagnostics.FormatNarrowingWarnings(os.Stderr, "<repl>", warnings, cfg)
	return toolchain.Run(asm, ".armc-repl-out", cfg.Toolchain.Assembler, cfg.Toolchain.Linker)
}

// isInputReady reports whether tokens form a syntactically complete
// program: braces must balance, and the last non-EOF token must not be
// one that obviously expects more input to follow.
func isInputReady(tokens []token.Token) bool {
	braceBalance := 0
	for _, tok := range tokens {
		if tok.Type != token.SYMBOL {
			continue
		}
		switch tok.Lexeme {
		case "{":
			braceBalance++
		case "}":
			braceBalance--
		}
	}
	if braceBalance > 0 {
		return false
	}

	last := lastNonEOF(tokens)
	if last == nil {
		return true
	}

	if last.Type == token.SYMBOL {
		switch last.Lexeme {
		case "=", "+", "-", "*", "/", "%", "<", ">", "!", "&", "|", "^",
			"==", "!=", "<=", ">=", "&&", "||", "<<", ">>",
			",", "(", "{":
			return false
		}
	}
	if last.Type == token.KEYWORD {
		switch last.Lexeme {
		case "typedef", "int", "float", "short", "long", "char", "for", "return":
			return false
		}
	}

	return true
}

func lastNonEOF(tokens []token.Token) *token.Token {
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i].Type != token.EOF {
			return &tokens[i]
		}
	}
	return nil
}

// atEOF reports whether err is a syntax error positioned at the final
// (EOF) token, meaning the user simply hasn't finished typing yet.
func atEOF(err error, tokens []token.Token) bool {
	syntaxErr, ok := err.(parser.SyntaxError)
	if !ok || syntaxErr.Found == nil || len(tokens) == 0 {
		return false
	}
	eof := tokens[len(tokens)-1]
	return syntaxErr.Found.Line == eof.Line && syntaxErr.Found.Column == eof.Column
}
