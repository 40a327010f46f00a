package ast

import "armc/token"

// Identifier names an assignment target: a plain variable when Index is 0,
// or a constant-indexed array element otherwise.
type Identifier struct {
	Name  string
	Index int
}

// Statement is the base interface for all statement/declaration nodes.
type Statement interface {
	Accept(v StmtVisitor) error
}

// StmtVisitor is implemented by anything that traverses statements.
type StmtVisitor interface {
	VisitVariable(stmt VariableStmt) error
	VisitAssignment(stmt AssignmentStmt) error
	VisitFunction(stmt FunctionStmt) error
	VisitType(stmt TypeStmt) error
	VisitLoop(stmt LoopStmt) error
	VisitReturn(stmt ReturnStmt) error
	VisitNoop(stmt NoopStmt) error
}

// VariableStmt declares a name of the given Datatype, with an optional
// initializer. Token is the declared name's token, carried through for
// positional diagnostics on semantic errors.
type VariableStmt struct {
	Datatype    Datatype
	Name        string
	Initializer Initializer // nil if absent
	Token       token.Token
}

func (s VariableStmt) Accept(v StmtVisitor) error { return v.VisitVariable(s) }

// AssignmentStmt assigns to an already-declared variable or array element.
// Token is the assignment target's name token.
type AssignmentStmt struct {
	Target Identifier
	Value  Initializer
	Token  token.Token
}

func (s AssignmentStmt) Accept(v StmtVisitor) error { return v.VisitAssignment(s) }

// FunctionStmt declares a function; only a function named "main" is
// semantically valid, but the parser accepts the general shape. Token is
// the function name's token.
type FunctionStmt struct {
	Datatype Datatype
	Name     string
	Body     []Statement
	Token    token.Token
}

func (s FunctionStmt) Accept(v StmtVisitor) error { return v.VisitFunction(s) }

// TypeStmt is a typedef: Name becomes an alias for Datatype. Token is the
// typedef's alias-name token.
type TypeStmt struct {
	Datatype Datatype
	Name     string
	Token    token.Token
}

func (s TypeStmt) Accept(v StmtVisitor) error { return v.VisitType(s) }

// LoopStmt is the constrained `for` form: an init declaration, a
// condition, an increment assignment, and a body. Token is the leading
// `for` keyword's token.
type LoopStmt struct {
	Init      VariableStmt
	Condition Expression
	Increment AssignmentStmt
	Body      []Statement
	Token     token.Token
}

func (s LoopStmt) Accept(v StmtVisitor) error { return v.VisitLoop(s) }

// ReturnStmt evaluates an expression and returns it from main. Token is
// the leading `return` keyword's token.
type ReturnStmt struct {
	Value Expression
	Token token.Token
}

func (s ReturnStmt) Accept(v StmtVisitor) error { return v.VisitReturn(s) }

// NoopStmt is a bare `;` with no effect.
type NoopStmt struct{}

func (s NoopStmt) Accept(v StmtVisitor) error { return v.VisitNoop(s) }
