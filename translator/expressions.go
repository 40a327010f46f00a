package translator

import "armc/ast"
import "armc/ir"

// VisitValue lowers a literal or identifier reference: a literal is moved
// into a fresh temp; an identifier is loaded via Ldg (global) or Ldr
// (local).
func (p *Program) VisitValue(expr ast.ValueExpr) error {
	switch v := expr.Value.(type) {
	case ast.DataValue:
		p.instruct(ir.Mov, ir.Temp{}, ir.DataOperand{Data: v.Data})
		return nil
	case ast.PointerValue:
		key, err := p.inferName(v.Name)
		if err != nil {
			return err
		}
		op := ir.Ldr
		if isGlobalKey(key) {
			op = ir.Ldg
		}
		p.instruct(op, ir.Temp{}, ir.Identifier{Name: key, Index: v.Index})
		return nil
	default:
		return semanticErrorf("Unknown value expression!")
	}
}

// VisitUnary lowers arithmetic negation and logical/bitwise inversion.
func (p *Program) VisitUnary(expr ast.UnaryExpr) error {
	if err := expr.Operand.Accept(p); err != nil {
		return err
	}
	switch expr.Operator {
	case ast.Negation:
		p.instruct(ir.Neg, p.last(), ir.None{})
	case ast.Inversion:
		p.instruct(ir.Cmp, p.last(), zero())
		p.instruct(ir.CSet, ir.Asm{Text: "eq"}, ir.None{})
		p.instruct(ir.And, p.last(), mask())
	}
	return nil
}

func zero() ir.Operand { return ir.DataOperand{Data: ast.IntegerData(0)} }
func mask() ir.Operand { return ir.DataOperand{Data: ast.IntegerData(0xFF)} }

func conditionCode(op ast.BinaryOperator) string {
	switch op {
	case ast.Eq:
		return "eq"
	case ast.Ne:
		return "ne"
	case ast.Gt:
		return "gt"
	case ast.Lt:
		return "lt"
	case ast.Ge:
		return "ge"
	case ast.Le:
		return "le"
	default:
		return "eq"
	}
}

// VisitBinary lowers a binary expression: translate both sides, upcast
// them to their common type, then emit the IR form for the operator.
func (p *Program) VisitBinary(expr ast.BinaryExpr) error {
	if err := expr.Lhs.Accept(p); err != nil {
		return err
	}
	op1 := p.last()
	if err := expr.Rhs.Accept(p); err != nil {
		return err
	}
	op2 := p.last()

	upcast := ast.Max(p.typeOf(op1), p.typeOf(op2))
	op1 = p.cast(op1, upcast)
	op2 = p.cast(op2, upcast)

	switch expr.Operator {
	case ast.Add:
		p.instruct(ir.Add, op1, op2)
	case ast.Sub:
		p.instruct(ir.Sub, op1, op2)
	case ast.Mul:
		p.instruct(ir.Mul, op1, op2)
	case ast.Div:
		p.instruct(ir.Div, op1, op2)
	case ast.Mod:
		p.instruct(ir.Div, op1, op2)
		quotient := p.last()
		p.instruct(ir.Mul, op2, quotient)
		product := p.last()
		p.instruct(ir.Sub, op1, product)
	case ast.Shl:
		p.instruct(ir.Lsl, op1, op2)
	case ast.Shr:
		p.instruct(ir.Asr, op1, op2)
	case ast.BitAnd:
		p.instruct(ir.And, op1, op2)
	case ast.BitOr:
		p.instruct(ir.Orr, op1, op2)
	case ast.BitXor:
		p.instruct(ir.Eor, op1, op2)
	case ast.Lt, ast.Le, ast.Gt, ast.Ge, ast.Eq, ast.Ne:
		p.instruct(ir.Cmp, op1, op2)
		p.instruct(ir.CSet, ir.Asm{Text: conditionCode(expr.Operator)}, ir.None{})
		p.instruct(ir.And, p.last(), mask())
	case ast.LogicalAnd:
		p.instruct(ir.And, op1, op2)
		p.instruct(ir.Cmp, p.last(), zero())
		p.instruct(ir.CSet, ir.Asm{Text: "ne"}, ir.None{})
		p.instruct(ir.And, p.last(), mask())
	case ast.LogicalOr:
		p.instruct(ir.Orr, op1, op2)
		p.instruct(ir.Cmp, p.last(), zero())
		p.instruct(ir.CSet, ir.Asm{Text: "ne"}, ir.None{})
		p.instruct(ir.And, p.last(), mask())
	default:
		return semanticErrorf("Unknown binary operator!")
	}
	return nil
}
