package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/subcommands"

	"armc/diagnostics"
	"armc/lexer"
	"armc/parser"
)

// astCmd dumps a source file's parsed statement stream as JSON, for
// inspecting what the parser produced without running the translator.
type astCmd struct {
	out string
}

func (*astCmd) Name() string     { return "ast" }
func (*astCmd) Synopsis() string { return "Print a source file's AST as JSON" }
func (*astCmd) Usage() string {
	return `ast <path>:
  Parse a source file and print its AST as JSON to stdout, or to -out.
`
}

func (cmd *astCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&cmd.out, "out", "", "write the JSON to this file instead of stdout")
}

func (cmd *astCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	lex := lexer.New(source)
	tokens, err := lex.Scan()
	if err != nil {
		diagnostics.Format(os.Stderr, path, source, err, cfg)
		return subcommands.ExitFailure
	}

	p := parser.New(tokens)
	statements, err := p.Parse()
	if err != nil {
		diagnostics.Format(os.Stderr, path, source, err, cfg)
		return subcommands.ExitFailure
	}

	outPath := cmd.out
	if outPath == "" {
		text, err := parser.PrintASTJSON(statements)
		if err != nil {
			fmt.Fprintf(os.Stderr, "💥 Failed to render AST: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Println(text)
		return subcommands.ExitSuccess
	}

	if !strings.HasSuffix(outPath, ".json") {
		outPath = strings.TrimSuffix(outPath, filepath.Ext(outPath)) + ".json"
	}
	if err := parser.WriteASTJSONToFile(statements, outPath); err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to write %s: %v\n", outPath, err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
