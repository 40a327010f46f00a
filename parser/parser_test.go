package parser

import (
	"fmt"
	"testing"

	"armc/ast"
	"armc/lexer"
)

// shapePrinter renders an Expression as a fully-parenthesized string, so
// tests can assert on shape without depending on a dedicated pretty-printer.
type shapePrinter struct {
	result string
}

func (p *shapePrinter) VisitValue(expr ast.ValueExpr) error {
	dv, ok := expr.Value.(ast.DataValue)
	if !ok {
		p.result = "?"
		return nil
	}
	p.result = fmt.Sprintf("%d", dv.Data.ToInt64())
	return nil
}

func (p *shapePrinter) VisitBinary(expr ast.BinaryExpr) error {
	if err := expr.Lhs.Accept(p); err != nil {
		return err
	}
	left := p.result
	if err := expr.Rhs.Accept(p); err != nil {
		return err
	}
	p.result = fmt.Sprintf("(%s%s%s)", left, expr.Operator.String(), p.result)
	return nil
}

func (p *shapePrinter) VisitUnary(expr ast.UnaryExpr) error {
	if err := expr.Operand.Accept(p); err != nil {
		return err
	}
	p.result = fmt.Sprintf("(%s%s)", expr.Operator.String(), p.result)
	return nil
}

func parseExpressionShape(t *testing.T, source string) string {
	t.Helper()
	toks, err := lexer.New(source).Scan()
	if err != nil {
		t.Fatalf("Scan() raised an error: %v", err)
	}
	p := New(toks)
	expr, _, err := p.expression(map[string]bool{";": true})
	if err != nil {
		t.Fatalf("expression() raised an error: %v", err)
	}
	shape := &shapePrinter{}
	if err := expr.Accept(shape); err != nil {
		t.Fatalf("Accept() raised an error: %v", err)
	}
	return shape.result
}

// Property 3: precedence table. Higher-precedence operators bind tighter
// regardless of left-to-right position.
func TestExpressionPrecedence(t *testing.T) {
	cases := []struct {
		source string
		want   string
	}{
		{"2 + 3 * 4;", "(2+(3*4))"},
		{"2 * 3 + 4;", "((2*3)+4)"},
		{"2 - 3 - 4;", "((2-3)-4)"}, // left-associative at equal precedence
		{"2 < 3 + 4;", "(2<(3+4))"},
		{"2 + 3 < 4;", "((2+3)<4)"},
		{"2 == 3 && 4;", "((2==3)&&4)"},
	}
	for _, c := range cases {
		if got := parseExpressionShape(t, c.source); got != c.want {
			t.Errorf("parse(%q) = %q, want %q", c.source, got, c.want)
		}
	}
}
