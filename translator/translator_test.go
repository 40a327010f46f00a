package translator

import (
	"strconv"
	"strings"
	"testing"

	"armc/ast"
	"armc/ir"
	"armc/lexer"
	"armc/parser"
)

func translate(t *testing.T, source string) (*Program, error) {
	t.Helper()
	toks, err := lexer.New(source).Scan()
	if err != nil {
		t.Fatalf("Scan() raised an error: %v", err)
	}
	statements, err := parser.New(toks).Parse()
	if err != nil {
		t.Fatalf("Parse() raised an error: %v", err)
	}
	prog := New()
	return prog, prog.Translate(statements)
}

// Scenario a) int main() { return 0; } -- IR contains Mov @,0 ; Ret @0, None.
func TestReturnZero(t *testing.T) {
	prog, err := translate(t, "int main() { return 0; }")
	if err != nil {
		t.Fatalf("Translate() raised an error: %v", err)
	}

	if len(prog.Instructions) != 2 {
		t.Fatalf("got %d instructions, want 2: %+v", len(prog.Instructions), prog.Instructions)
	}
	mov := prog.Instructions[0]
	if mov.Op != ir.Mov {
		t.Errorf("instruction 0 = %v, want Mov", mov.Op)
	}
	data, ok := mov.Operand2.(ir.DataOperand)
	if !ok || data.Data.ToInt64() != 0 {
		t.Errorf("Mov operand2 = %+v, want DataOperand(0)", mov.Operand2)
	}

	ret := prog.Instructions[1]
	if ret.Op != ir.Ret {
		t.Errorf("instruction 1 = %v, want Ret", ret.Op)
	}
	addr, ok := ret.Operand1.(ir.Address)
	if !ok || addr.Index != 0 {
		t.Errorf("Ret operand1 = %+v, want Address{0}", ret.Operand1)
	}
	if ret.Operand2 != (ir.None{}) {
		t.Errorf("Ret operand2 = %+v, want None", ret.Operand2)
	}
}

// Scenario b) return 2 + 3 * 4; the multiplication instruction precedes
// the addition.
func TestPrecedenceEmitsMultiplyBeforeAdd(t *testing.T) {
	prog, err := translate(t, "int main() { return 2 + 3 * 4; }")
	if err != nil {
		t.Fatalf("Translate() raised an error: %v", err)
	}

	mulIdx, addIdx := -1, -1
	for i, instr := range prog.Instructions {
		switch instr.Op {
		case ir.Mul:
			mulIdx = i
		case ir.Add:
			addIdx = i
		}
	}
	if mulIdx == -1 || addIdx == -1 {
		t.Fatalf("expected both Mul and Add in %+v", prog.Instructions)
	}
	if mulIdx >= addIdx {
		t.Errorf("Mul at %d did not precede Add at %d", mulIdx, addIdx)
	}
}

// Scenario c) array typedef + global initializer.
func TestArrayGlobalInitializer(t *testing.T) {
	prog, err := translate(t, `typedef int myint[3]; myint xs = {10, 20, 30}; int main() { return xs[1]; }`)
	if err != nil {
		t.Fatalf("Translate() raised an error: %v", err)
	}

	g, ok := prog.Globals["xs_0"]
	if !ok {
		t.Fatalf("Globals missing xs_0: %+v", prog.Globals)
	}
	if g.Compound.Primitive != ast.Int || g.Compound.Length != 3 {
		t.Errorf("xs_0 Compound = %+v, want Compound(Int,3)", g.Compound)
	}
	want := []int64{10, 20, 30}
	if len(g.Values) != len(want) {
		t.Fatalf("xs_0 Values = %+v, want 3 elements", g.Values)
	}
	for i, v := range want {
		if g.Values[i].ToInt64() != v {
			t.Errorf("xs_0 Values[%d] = %d, want %d", i, g.Values[i].ToInt64(), v)
		}
	}
}

// Scenario d) a for loop: two labels, one BEq branching to the end label.
func TestLoopEmitsLabelsAndConditionalBranch(t *testing.T) {
	source := `int main() { int i = 0; for (int j = 0; j < 5; j = j + 1) { i = i + j; } return i; }`
	prog, err := translate(t, source)
	if err != nil {
		t.Fatalf("Translate() raised an error: %v", err)
	}

	var labels []string
	var beqTargets []string
	for _, instr := range prog.Instructions {
		switch instr.Op {
		case ir.Lbl:
			labels = append(labels, instr.Operand1.(ir.Label).Name)
		case ir.BEq:
			beqTargets = append(beqTargets, instr.Operand1.(ir.Label).Name)
		}
	}
	if len(labels) != 2 {
		t.Fatalf("got %d labels, want 2: %v", len(labels), labels)
	}
	if len(beqTargets) != 1 {
		t.Fatalf("got %d BEq instructions, want 1: %v", len(beqTargets), beqTargets)
	}
	if beqTargets[0] != labels[1] {
		t.Errorf("BEq targets %q, want the end label %q", beqTargets[0], labels[1])
	}
}

// Scenario e) mixed float/int binary operation: SCvtF widens the int
// operand, and the return casts the float result back via FCvtZS.
func TestFloatIntBinaryUpcastsAndReturnCastsBack(t *testing.T) {
	source := `int main() { float f = 3.0; int i = 2; return f * i; }`
	prog, err := translate(t, source)
	if err != nil {
		t.Fatalf("Translate() raised an error: %v", err)
	}

	hasSCvtF, hasFCvtZS := false, false
	for _, instr := range prog.Instructions {
		switch instr.Op {
		case ir.SCvtF:
			hasSCvtF = true
		case ir.FCvtZS:
			hasFCvtZS = true
		}
	}
	if !hasSCvtF {
		t.Errorf("expected an SCvtF instruction widening i to float: %+v", prog.Instructions)
	}
	if !hasFCvtZS {
		t.Errorf("expected a trailing FCvtZS casting the float result back to int: %+v", prog.Instructions)
	}
}

// Scenario f) an uninitialized top-level variable is a SemanticError.
func TestUninitializedGlobalIsSemanticError(t *testing.T) {
	_, err := translate(t, `int x; int main() { return x; }`)
	if err == nil {
		t.Fatalf("expected a SemanticError, got nil")
	}
	semErr, ok := err.(SemanticError)
	if !ok {
		t.Fatalf("got %T, want SemanticError", err)
	}
	want := "Top-level variable 'x' must be initialized with a constant value!"
	if semErr.Message != want {
		t.Errorf("message = %q, want %q", semErr.Message, want)
	}
}

// Property 5: every key in locals/globals matches <ident>_<int>, and no
// two entries for the same ident share the same int.
func TestScopedKeysAreUnique(t *testing.T) {
	source := `int main() { int i = 0; for (int i = 1; i < 3; i = i + 1) { int j = i; } return i; }`
	prog, err := translate(t, source)
	if err != nil {
		t.Fatalf("Translate() raised an error: %v", err)
	}

	seen := make(map[string]bool)
	for key := range prog.Locals {
		underscore := strings.LastIndex(key, "_")
		if underscore < 0 {
			t.Errorf("key %q has no <ident>_<int> separator", key)
			continue
		}
		if _, err := strconv.Atoi(key[underscore+1:]); err != nil {
			t.Errorf("key %q does not end in an integer scope suffix", key)
		}
		if seen[key] {
			t.Errorf("duplicate key %q", key)
		}
		seen[key] = true
	}
}

// Property 6: stack size is a multiple of 16 and at least the sum of
// local Compound sizes.
func TestStackSizeIsAlignedAndSufficient(t *testing.T) {
	source := `int main() { int i = 0; long l = 0; char c = 0; return i; }`
	prog, err := translate(t, source)
	if err != nil {
		t.Fatalf("Translate() raised an error: %v", err)
	}

	var sum int
	for _, c := range prog.Locals {
		sum += c.Size()
	}
	size := prog.StackSize()
	if size%16 != 0 {
		t.Errorf("StackSize() = %d, not a multiple of 16", size)
	}
	if size < sum {
		t.Errorf("StackSize() = %d, less than the sum of local sizes %d", size, sum)
	}
}
