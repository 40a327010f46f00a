package translator

import (
	"fmt"

	"armc/ast"
	"armc/ir"
)

// typedOperand returns the operand's inferred primitive, if any. Temp,
// Asm, Label, and None operands carry no inherent type.
func (p *Program) typedOperand(operand ir.Operand) (ast.Primitive, bool) {
	switch op := operand.(type) {
	case ir.DataOperand:
		return op.Data.Primitive(), true
	case ir.Identifier:
		compound, ok := p.compoundOfKey(op.Name)
		if !ok {
			return ast.Byte, false
		}
		return compound.Primitive, true
	case ir.Address:
		return p.instructionType(op.Index), true
	default:
		return ast.Byte, false
	}
}

// typeOf is the hard-failing counterpart of typedOperand: used where an
// untyped operand indicates a translator bug rather than user error.
func (p *Program) typeOf(operand ir.Operand) ast.Primitive {
	primitive, ok := p.typedOperand(operand)
	if !ok {
		panic(DeveloperError{Message: fmt.Sprintf("cannot infer type of operand %#v", operand)})
	}
	return primitive
}

func minPrimitive(a, b ast.Primitive) ast.Primitive {
	if a < b {
		return a
	}
	return b
}

// instructionType implements Instruction.datatype(): if both operands are
// typed and equal, that type; if exactly one is typed, that type;
// otherwise the narrower of the two (a downcast); SCvtF/FCvtZS/CSet are
// fixed exceptions.
func (p *Program) instructionType(i int) ast.Primitive {
	instr := p.Instructions[i]
	switch instr.Op {
	case ir.SCvtF:
		return ast.Float
	case ir.FCvtZS:
		return ast.Int
	case ir.CSet:
		return ast.Int
	}

	t1, ok1 := p.typedOperand(instr.Operand1)
	t2, ok2 := p.typedOperand(instr.Operand2)
	switch {
	case ok1 && ok2:
		if t1 == t2 {
			return t1
		}
		return minPrimitive(t1, t2)
	case ok1:
		return t1
	case ok2:
		return t2
	default:
		return ast.Int
	}
}

// DatatypeAt exposes instructionType for the assembler: the primitive an
// already-emitted instruction's result is to be treated as when naming its
// register.
func (p *Program) DatatypeAt(i int) ast.Primitive {
	return p.instructionType(i)
}

// cast returns operand unchanged if it already has the target primitive;
// otherwise it emits a conversion and returns the conversion's Address.
// Only the Byte/Short/Int/Long <-> Float boundary needs a real
// instruction: the opcode set has no dedicated integer-width-change
// instruction, and Byte/Short/Int share the same register width, so a
// pure integer-to-integer cast is a no-op (see DESIGN.md).
func (p *Program) cast(operand ir.Operand, target ast.Primitive) ir.Operand {
	source := p.typeOf(operand)
	if source == target {
		return operand
	}
	if target == ast.Float {
		p.instruct(ir.SCvtF, operand, ir.None{})
		return p.last()
	}
	if source == ast.Float {
		p.instruct(ir.FCvtZS, operand, ir.None{})
		return p.last()
	}
	return operand
}
