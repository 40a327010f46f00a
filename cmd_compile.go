package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/subcommands"

	"armc/assembler"
	"armc/diagnostics"
	"armc/lexer"
	"armc/parser"
	"armc/toolchain"
	"armc/translator"
)

// compileCmd is armc's primary subcommand: lex, parse, translate, and
// assemble a source file, then link and run the result, forwarding its
// exit code.
type compileCmd struct {
	keep bool
}

func (*compileCmd) Name() string     { return "compile" }
func (*compileCmd) Synopsis() string { return "Compile and run a source file" }
func (*compileCmd) Usage() string {
	return `compile <path>:
  Compile a source file to ARM64 assembly, link it, and run it, forwarding
  its exit code.
`
}

func (cmd *compileCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.keep, "keep", false, "keep the intermediate .s file alongside the source")
}

func (cmd *compileCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "💥 File not provided\n")
		return subcommands.ExitUsageError
	}
	path := args[0]
	cfg := configFromContext(ctx)

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to read file: %v\n", err)
		return subcommands.ExitFailure
	}
	source := string(data)

	asm, warnings, err := assemble(source)
	if err != nil {
		diagnostics.Format(os.Stderr, path, source, err, cfg)
		return subcommands.ExitFailure
	}
	diagnostics.FormatNarrowingWarnings(os.Stderr, path, warnings, cfg)

	if cmd.keep || cfg.Toolchain.KeepIntermediate {
		asmPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".s"
		if writeErr := os.WriteFile(asmPath, []byte(asm), 0o644); writeErr != nil {
			fmt.Fprintf(os.Stderr, "💥 Failed to write %s: %v\n", asmPath, writeErr)
		}
	}

	outputName := strings.TrimSuffix(path, filepath.Ext(path))
	exitCode, err := toolchain.Run(asm, outputName, cfg.Toolchain.Assembler, cfg.Toolchain.Linker)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitStatus(exitCode)
}

// assemble runs the lex/parse/translate/assemble pipeline over source and
// returns the emitted assembly text, plus any narrowing casts the
// translator recorded along the way.
func assemble(source string) (string, []translator.NarrowingCast, error) {
	lex := lexer.New(source)
	tokens, err := lex.Scan()
	if err != nil {
		return "", nil, err
	}

	p := parser.New(tokens)
	statements, err := p.Parse()
	if err != nil {
		return "", nil, err
	}

	prog := translator.New()
	if err := prog.Translate(statements); err != nil {
		return "", nil, err
	}

	asm, err := assembler.Assemble(prog)
	if err != nil {
		return "", nil, err
	}
	return asm, prog.NarrowingCasts, nil
}
