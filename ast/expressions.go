package ast

// Expression is the base interface for all expression nodes. Accept
// dispatches to the matching method of an ExpressionVisitor, mirroring the
// teacher's Accept/Visitor convention; unlike the teacher's Accept (which
// returns `any`), ours returns only an error, since a translator visitor
// emits IR instructions as a side effect and the resulting value is
// recovered by the caller via the program's `last()` after Accept returns.
type Expression interface {
	Accept(v ExpressionVisitor) error
}

// ExpressionVisitor is implemented by anything that traverses expressions:
// the translator (to lower to IR) or an AST pretty-printer.
type ExpressionVisitor interface {
	VisitValue(expr ValueExpr) error
	VisitBinary(expr BinaryExpr) error
	VisitUnary(expr UnaryExpr) error
}

// ValueExpr wraps a literal or a pointer reference.
type ValueExpr struct {
	Value Value
}

func (e ValueExpr) Accept(v ExpressionVisitor) error { return v.VisitValue(e) }

// BinaryExpr applies a binary operator to two sub-expressions.
type BinaryExpr struct {
	Operator BinaryOperator
	Lhs      Expression
	Rhs      Expression
}

func (e BinaryExpr) Accept(v ExpressionVisitor) error { return v.VisitBinary(e) }

// UnaryExpr applies a prefix operator to one sub-expression.
type UnaryExpr struct {
	Operator UnaryOperator
	Operand  Expression
}

func (e UnaryExpr) Accept(v ExpressionVisitor) error { return v.VisitUnary(e) }

// Initializer is either a single expression or a brace-enclosed list of
// expressions; lists are only valid for array-typed targets.
type Initializer interface {
	isInitializer()
}

// ExprInitializer is a scalar initializer.
type ExprInitializer struct {
	Expression Expression
}

func (ExprInitializer) isInitializer() {}

// ListInitializer is a brace-enclosed list initializer, one expression per
// array element.
type ListInitializer struct {
	Values []Expression
}

func (ListInitializer) isInitializer() {}
