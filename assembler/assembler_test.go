package assembler

import (
	"strings"
	"testing"

	"armc/lexer"
	"armc/parser"
	"armc/translator"
)

func compileToAssembly(t *testing.T, source string) string {
	t.Helper()
	toks, err := lexer.New(source).Scan()
	if err != nil {
		t.Fatalf("Scan() raised an error: %v", err)
	}
	statements, err := parser.New(toks).Parse()
	if err != nil {
		t.Fatalf("Parse() raised an error: %v", err)
	}
	prog := translator.New()
	if err := prog.Translate(statements); err != nil {
		t.Fatalf("Translate() raised an error: %v", err)
	}
	asm, err := Assemble(prog)
	if err != nil {
		t.Fatalf("Assemble() raised an error: %v", err)
	}
	return asm
}

// Property 2: Assemble is deterministic for identical input.
func TestAssembleIsDeterministic(t *testing.T) {
	source := `typedef int myint[3]; myint xs = {10, 20, 30}; int main() { return xs[1]; }`
	first := compileToAssembly(t, source)
	second := compileToAssembly(t, source)
	if first != second {
		t.Errorf("Assemble() is not deterministic:\n--- first ---\n%s\n--- second ---\n%s", first, second)
	}
}

// Scenario c: the data section carries one .word per element, in
// declaration order, under the global's bare name.
func TestDataSectionEmitsArrayElements(t *testing.T) {
	asm := compileToAssembly(t, `typedef int myint[3]; myint xs = {10, 20, 30}; int main() { return xs[1]; }`)

	if !strings.Contains(asm, "xs:") {
		t.Fatalf("expected a %q label in:\n%s", "xs:", asm)
	}
	for _, want := range []string{".word 10", ".word 20", ".word 30"} {
		if !strings.Contains(asm, want) {
			t.Errorf("expected %q in:\n%s", want, asm)
		}
	}
}

func TestAssembleEmitsMainEntryPoint(t *testing.T) {
	asm := compileToAssembly(t, "int main() { return 0; }")
	if !strings.Contains(asm, ".global main") {
		t.Errorf("expected %q in:\n%s", ".global main", asm)
	}
	if !strings.Contains(asm, "main:") {
		t.Errorf("expected a %q label in:\n%s", "main:", asm)
	}
	if !strings.Contains(asm, "ret") {
		t.Errorf("expected a ret instruction in:\n%s", asm)
	}
}

func TestStackFrameSubAndAddBalance(t *testing.T) {
	asm := compileToAssembly(t, "int main() { int i = 1; return i; }")
	if !strings.Contains(asm, "sub sp, sp,") {
		t.Errorf("expected a stack frame setup in:\n%s", asm)
	}
	if !strings.Contains(asm, "add sp, sp,") {
		t.Errorf("expected a matching stack frame teardown in:\n%s", asm)
	}
}
