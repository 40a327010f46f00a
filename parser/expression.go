package parser

import (
	"armc/ast"
	"armc/token"
)

// opStackItem is one entry of the shunting-yard operator stack: a binary
// operator, a unary operator, or a parenthesis group marker.
type opStackItem struct {
	group bool
	unary bool
	binOp ast.BinaryOperator
	unOp  ast.UnaryOperator
}

// precedence returns the item's binding strength for pop comparisons.
// Unary operators always bind tighter than any binary operator; a group
// marker is never compared (it is only ever popped by a matching `)`).
func (item opStackItem) precedence() int {
	if item.unary {
		return -1
	}
	return item.binOp.Precedence()
}

var binaryOperators = map[string]ast.BinaryOperator{
	"+": ast.Add, "-": ast.Sub, "*": ast.Mul, "/": ast.Div, "%": ast.Mod,
	"<": ast.Lt, "<=": ast.Le, ">": ast.Gt, ">=": ast.Ge,
	"==": ast.Eq, "!=": ast.Ne,
	"&": ast.BitAnd, "|": ast.BitOr, "^": ast.BitXor,
	"&&": ast.LogicalAnd, "||": ast.LogicalOr,
	"<<": ast.Shl, ">>": ast.Shr,
}

var unaryOperators = map[string]ast.UnaryOperator{
	"-": ast.Negation,
	"!": ast.Inversion,
}

func dataFromLiteral(lit token.Literal) ast.Data {
	switch lit.Kind {
	case token.FloatingLiteral:
		return ast.FloatData(lit.Floating)
	case token.CharacterLiteral:
		return ast.ByteData(int8(lit.Character))
	default:
		return ast.IntegerData(int32(lit.Integer))
	}
}

// expression runs the shunting-yard engine until a token in terminators is
// reached with the parser in a state where no further operand is expected,
// or until end of input. It returns the parsed expression and the
// terminator token that closed it.
func (p *Parser) expression(terminators map[string]bool) (ast.Expression, token.Token, error) {
	var output []ast.Expression
	var ops []opStackItem
	complete := false

	applyTop := func() error {
		top := ops[len(ops)-1]
		ops = ops[:len(ops)-1]
		if top.unary {
			if len(output) < 1 {
				tok := p.peek()
				return SyntaxError{Expected: "operand for unary operator", Found: &tok}
			}
			operand := output[len(output)-1]
			output = output[:len(output)-1]
			output = append(output, ast.UnaryExpr{Operator: top.unOp, Operand: operand})
			return nil
		}
		if len(output) < 2 {
			tok := p.peek()
			return SyntaxError{Expected: "operands for binary operator", Found: &tok}
		}
		rhs := output[len(output)-1]
		lhs := output[len(output)-2]
		output = output[:len(output)-2]
		output = append(output, ast.BinaryExpr{Operator: top.binOp, Lhs: lhs, Rhs: rhs})
		return nil
	}

	for {
		tok := p.peek()

		if complete && isTerminator(tok, terminators) {
			if tok.Lexeme == ")" && hasOpenGroup(ops) {
				// this ')' closes a local group, not the caller's terminator
			} else {
				break
			}
		}

		switch {
		case tok.Type == token.DATA:
			p.advance()
			output = append(output, ast.ValueExpr{Value: ast.DataValue{Data: dataFromLiteral(tok.Literal)}})
			complete = true

		case tok.Type == token.IDENTIFIER:
			p.advance()
			name := tok.Lexeme
			index := 0
			if p.matchSymbol("[") {
				idx, err := p.constantIndex()
				if err != nil {
					return nil, token.Token{}, err
				}
				if err := p.expectSymbol("]"); err != nil {
					return nil, token.Token{}, err
				}
				index = idx
			}
			output = append(output, ast.ValueExpr{Value: ast.PointerValue{Name: name, Index: index}})
			complete = true

		case tok.Type == token.SYMBOL && tok.Lexeme == "(":
			p.advance()
			ops = append(ops, opStackItem{group: true})
			complete = false

		case tok.Type == token.SYMBOL && tok.Lexeme == ")":
			found := false
			for len(ops) > 0 {
				top := ops[len(ops)-1]
				if top.group {
					ops = ops[:len(ops)-1]
					found = true
					break
				}
				if err := applyTop(); err != nil {
					return nil, token.Token{}, err
				}
			}
			if !found {
				return nil, token.Token{}, SyntaxError{Expected: "matching \"(\"", Found: &tok}
			}
			p.advance()
			complete = true

		case tok.Type == token.SYMBOL:
			if unOp, ok := unaryOperators[tok.Lexeme]; ok && !complete {
				p.advance()
				ops = append(ops, opStackItem{unary: true, unOp: unOp})
				complete = false
				continue
			}
			binOp, ok := binaryOperators[tok.Lexeme]
			if !ok {
				return nil, token.Token{}, SyntaxError{Expected: "operator", Found: &tok}
			}
			p.advance()
			prec := binOp.Precedence()
			for len(ops) > 0 && !ops[len(ops)-1].group && ops[len(ops)-1].precedence() <= prec {
				if err := applyTop(); err != nil {
					return nil, token.Token{}, err
				}
			}
			ops = append(ops, opStackItem{binOp: binOp})
			complete = false

		default:
			return nil, token.Token{}, SyntaxError{Expected: "expression", Found: &tok}
		}
	}

	for len(ops) > 0 {
		if ops[len(ops)-1].group {
			tok := p.peek()
			return nil, token.Token{}, SyntaxError{Expected: "\")\"", Found: &tok}
		}
		if err := applyTop(); err != nil {
			return nil, token.Token{}, err
		}
	}

	if len(output) != 1 {
		tok := p.peek()
		return nil, token.Token{}, SyntaxError{Expected: "expression", Found: &tok}
	}

	return output[0], p.peek(), nil
}

func isTerminator(tok token.Token, terminators map[string]bool) bool {
	if tok.Type == token.EOF {
		return true
	}
	if tok.Type != token.SYMBOL {
		return false
	}
	return terminators[tok.Lexeme]
}

func hasOpenGroup(ops []opStackItem) bool {
	for _, item := range ops {
		if item.group {
			return true
		}
	}
	return false
}
