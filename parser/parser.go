// Package parser implements the recursive-descent syntactic analyzer: a
// table-driven statement dispatcher whose expression sub-grammar is parsed
// by a shunting-yard engine (see expression.go).
package parser

import (
	"fmt"

	"armc/ast"
	"armc/token"
)

// Parser consumes a token slice produced by the lexer and yields a
// sequence of top-level statements.
type Parser struct {
	tokens []token.Token
	pos    int
}

// New constructs a Parser over the given tokens.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

func (p *Parser) peek() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Type: token.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.pos-1]
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) atEnd() bool {
	return p.peek().Type == token.EOF
}

func (p *Parser) checkSymbol(sym string) bool {
	tok := p.peek()
	return tok.Type == token.SYMBOL && tok.Lexeme == sym
}

func (p *Parser) checkKeyword(kw string) bool {
	tok := p.peek()
	return tok.Type == token.KEYWORD && tok.Lexeme == kw
}

func (p *Parser) matchSymbol(sym string) bool {
	if p.checkSymbol(sym) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expectSymbol(sym string) error {
	if !p.matchSymbol(sym) {
		tok := p.peek()
		return SyntaxError{Expected: fmt.Sprintf("%q", sym), Found: &tok}
	}
	return nil
}

func (p *Parser) expectIdentifier() (string, error) {
	tok := p.peek()
	if tok.Type != token.IDENTIFIER {
		return "", SyntaxError{Expected: "identifier", Found: &tok}
	}
	p.advance()
	return tok.Lexeme, nil
}

var primitiveKeywords = map[string]ast.Primitive{
	"short": ast.Short,
	"int":   ast.Int,
	"long":  ast.Long,
	"float": ast.Float,
	"char":  ast.Byte,
}

// Parse runs the analyzer to completion, returning every top-level
// statement found or the first error encountered. Clean exhaustion of the
// token stream (reaching EOF with no partial statement pending) is not an
// error.
func (p *Parser) Parse() ([]ast.Statement, error) {
	var statements []ast.Statement
	for !p.atEnd() {
		stmt, err := p.statement()
		if err != nil {
			return statements, err
		}
		statements = append(statements, stmt)
	}
	return statements, nil
}

// statement dispatches on the peeked token per spec.md's statement table.
func (p *Parser) statement() (ast.Statement, error) {
	tok := p.peek()

	switch {
	case tok.Type == token.KEYWORD && tok.Lexeme == "typedef":
		return p.typedefStatement()
	case tok.Type == token.KEYWORD && tok.Lexeme == "return":
		return p.returnStatement()
	case tok.Type == token.KEYWORD && tok.Lexeme == "for":
		return p.loopStatement()
	case tok.Type == token.KEYWORD:
		if prim, ok := primitiveKeywords[tok.Lexeme]; ok {
			p.advance()
			return p.declarationRest(ast.ConcreteType{Compound: ast.Compound{Primitive: prim, Length: 1}})
		}
		return nil, SyntaxError{Expected: "statement", Found: &tok}
	case tok.Type == token.SYMBOL && tok.Lexeme == ";":
		p.advance()
		return ast.NoopStmt{}, nil
	case tok.Type == token.IDENTIFIER:
		return p.identifierLedStatement()
	default:
		return nil, SyntaxError{Expected: "statement", Found: &tok}
	}
}

// identifierLedStatement disambiguates an assignment to an existing
// variable from a declaration whose datatype is an alias: per spec.md
// §4.1, if the token after the leading identifier is `=` or `[`, the
// identifier names the assignment target rather than a type.
func (p *Parser) identifierLedStatement() (ast.Statement, error) {
	nameTok := p.peek()
	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}

	if p.checkSymbol("=") || p.checkSymbol("[") {
		return p.assignmentStatementRest(name, nameTok)
	}
	return p.declarationRest(ast.AliasType{Name: name})
}

func (p *Parser) assignmentStatementRest(name string, nameTok token.Token) (ast.Statement, error) {
	index := 0
	if p.matchSymbol("[") {
		idx, err := p.constantIndex()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol("]"); err != nil {
			return nil, err
		}
		index = idx
	}
	if err := p.expectSymbol("="); err != nil {
		return nil, err
	}
	value, err := p.initializer(map[string]bool{";": true})
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol(";"); err != nil {
		return nil, err
	}
	return ast.AssignmentStmt{Target: ast.Identifier{Name: name, Index: index}, Value: value, Token: nameTok}, nil
}

// constantIndex parses a non-negative integer literal used as a constant
// array index.
func (p *Parser) constantIndex() (int, error) {
	tok := p.peek()
	if tok.Type != token.DATA || tok.Literal.Kind != token.IntegerLiteral {
		return 0, SyntaxError{Expected: "constant array index", Found: &tok}
	}
	p.advance()
	return int(tok.Literal.Integer), nil
}

func (p *Parser) typedefStatement() (ast.Statement, error) {
	p.advance() // "typedef"
	datatype, err := p.datatype()
	if err != nil {
		return nil, err
	}
	nameTok := p.peek()
	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	if p.checkSymbol("[") {
		concrete, ok := datatype.(ast.ConcreteType)
		if !ok {
			tok := p.peek()
			return nil, SyntaxError{Expected: "no array size on an alias typedef", Found: &tok}
		}
		p.advance()
		length, err := p.constantIndex()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol("]"); err != nil {
			return nil, err
		}
		concrete.Compound.Length = length
		datatype = concrete
	}
	if err := p.expectSymbol(";"); err != nil {
		return nil, err
	}
	return ast.TypeStmt{Datatype: datatype, Name: name, Token: nameTok}, nil
}

// datatype parses a primitive keyword or an identifier referring to a
// (possibly yet-unresolved) alias.
func (p *Parser) datatype() (ast.Datatype, error) {
	tok := p.peek()
	if tok.Type == token.KEYWORD {
		if prim, ok := primitiveKeywords[tok.Lexeme]; ok {
			p.advance()
			return ast.ConcreteType{Compound: ast.Compound{Primitive: prim, Length: 1}}, nil
		}
	}
	if tok.Type == token.IDENTIFIER {
		p.advance()
		return ast.AliasType{Name: tok.Lexeme}, nil
	}
	return nil, SyntaxError{Expected: "datatype", Found: &tok}
}

func (p *Parser) returnStatement() (ast.Statement, error) {
	tok := p.advance() // "return"
	expr, _, err := p.expression(map[string]bool{";": true})
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol(";"); err != nil {
		return nil, err
	}
	return ast.ReturnStmt{Value: expr, Token: tok}, nil
}

// declarationRest parses the identifier (with optional array size),
// followed by either a function body or a variable initializer.
func (p *Parser) declarationRest(datatype ast.Datatype) (ast.Statement, error) {
	nameTok := p.peek()
	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}

	if p.checkSymbol("[") {
		concrete, ok := datatype.(ast.ConcreteType)
		if !ok {
			tok := p.peek()
			return nil, SyntaxError{Expected: "no array size on an alias declaration", Found: &tok}
		}
		p.advance()
		length, err := p.constantIndex()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol("]"); err != nil {
			return nil, err
		}
		concrete.Compound.Length = length
		datatype = concrete
	}

	if p.matchSymbol("(") {
		return p.functionRest(datatype, name, nameTok)
	}
	return p.variableRest(datatype, name, nameTok)
}

func (p *Parser) functionRest(datatype ast.Datatype, name string, nameTok token.Token) (ast.Statement, error) {
	if err := p.expectSymbol(")"); err != nil {
		return nil, err
	}
	if err := p.expectSymbol("{"); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return ast.FunctionStmt{Datatype: datatype, Name: name, Body: body, Token: nameTok}, nil
}

func (p *Parser) variableRest(datatype ast.Datatype, name string, nameTok token.Token) (ast.Statement, error) {
	var init ast.Initializer
	if p.matchSymbol("=") {
		var err error
		init, err = p.initializer(map[string]bool{";": true})
		if err != nil {
			return nil, err
		}
	}
	if err := p.expectSymbol(";"); err != nil {
		return nil, err
	}
	return ast.VariableStmt{Datatype: datatype, Name: name, Initializer: init, Token: nameTok}, nil
}

// initializer parses either a brace-enclosed list of expressions or a
// single expression, terminated by one of the caller-supplied terminators.
func (p *Parser) initializer(terminators map[string]bool) (ast.Initializer, error) {
	if p.matchSymbol("{") {
		var values []ast.Expression
		for {
			expr, closed, err := p.expression(map[string]bool{",": true, "}": true})
			if err != nil {
				return nil, err
			}
			values = append(values, expr)
			if closed.Lexeme == "}" {
				p.advance()
				break
			}
			if err := p.expectSymbol(","); err != nil {
				return nil, err
			}
		}
		return ast.ListInitializer{Values: values}, nil
	}
	expr, _, err := p.expression(terminators)
	if err != nil {
		return nil, err
	}
	return ast.ExprInitializer{Expression: expr}, nil
}

// block parses statements until a matching `}`.
func (p *Parser) block() ([]ast.Statement, error) {
	var statements []ast.Statement
	for !p.checkSymbol("}") {
		if p.atEnd() {
			tok := p.peek()
			return nil, SyntaxError{Expected: "}", Found: &tok}
		}
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	p.advance() // "}"
	return statements, nil
}

// loopStatement parses the single constrained `for` form spec.md allows:
// `for ( Variable ; Expression ; Identifier = Initializer ) { block }`.
func (p *Parser) loopStatement() (ast.Statement, error) {
	forTok := p.advance() // "for"
	if err := p.expectSymbol("("); err != nil {
		return nil, err
	}

	initDatatype, err := p.datatype()
	if err != nil {
		return nil, err
	}
	initNameTok := p.peek()
	initName, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	var initValue ast.Initializer
	if p.matchSymbol("=") {
		initValue, err = p.initializer(map[string]bool{";": true})
		if err != nil {
			return nil, err
		}
	}
	if err := p.expectSymbol(";"); err != nil {
		return nil, err
	}
	init := ast.VariableStmt{Datatype: initDatatype, Name: initName, Initializer: initValue, Token: initNameTok}

	condition, _, err := p.expression(map[string]bool{";": true})
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol(";"); err != nil {
		return nil, err
	}

	incNameTok := p.peek()
	incName, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol("="); err != nil {
		return nil, err
	}
	incValue, err := p.initializer(map[string]bool{")": true})
	if err != nil {
		return nil, err
	}
	increment := ast.AssignmentStmt{Target: ast.Identifier{Name: incName}, Value: incValue, Token: incNameTok}

	if err := p.expectSymbol(")"); err != nil {
		return nil, err
	}
	if err := p.expectSymbol("{"); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}

	return ast.LoopStmt{Init: init, Condition: condition, Increment: increment, Body: body, Token: forTok}, nil
}
