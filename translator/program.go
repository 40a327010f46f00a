// Package translator lowers an AST statement stream into a fully-populated
// ir.Program: a linear instruction vector plus the scoped symbol table
// (globals, per-scope locals, typedef aliases) the assembler consumes.
package translator

import (
	"fmt"

	"armc/ast"
	"armc/ir"
	"armc/token"
)

// Global holds a global variable's resolved type and constant initial
// values (one per array element, or a single entry for a scalar).
type Global struct {
	Compound ast.Compound
	Values   []ast.Data
}

// NarrowingCast records a store whose source value's primitive is wider
// than the storage it is written into (e.g. a Long expression assigned to
// an Int variable). It is not a SemanticError — the store still compiles —
// but is surfaced to the CLI as a warning when config.Diagnostics.
// WarnOnNarrowingCast is set.
type NarrowingCast struct {
	Token token.Token
	From  ast.Primitive
	To    ast.Primitive
}

// Program is the translator's symbol table and growing instruction vector.
// It implements ast.StmtVisitor and ast.ExpressionVisitor: translating a
// statement or expression mutates Program in place by appending
// instructions and/or symbol table entries.
type Program struct {
	Globals      map[string]Global
	GlobalOrder  []string // declaration order, since map iteration order is not deterministic
	Locals       map[string]ast.Compound
	Types        map[string]ast.Compound
	Instructions []ir.Instruction

	NarrowingCasts []NarrowingCast

	scopeDepth   int
	labelCounter int
}

// New constructs an empty Program at top-level scope.
func New() *Program {
	return &Program{
		Globals: make(map[string]Global),
		Locals:  make(map[string]ast.Compound),
		Types:   make(map[string]ast.Compound),
	}
}

// Toplevel reports whether the program is currently translating outside
// any function or loop body.
func (p *Program) Toplevel() bool {
	return p.scopeDepth == 0
}

func (p *Program) pushScope() {
	p.scopeDepth++
}

func (p *Program) popScope() {
	p.scopeDepth--
}

func localKey(name string, scope int) string {
	return fmt.Sprintf("%s_%d", name, scope)
}

// Resolve turns a Datatype into a concrete Compound, following the typedef
// table for aliases.
func (p *Program) Resolve(datatype ast.Datatype) (ast.Compound, error) {
	return p.resolveAt(datatype, nil)
}

// resolveAt is Resolve, anchoring any SemanticError to tok (when non-nil)
// for diagnostics.Format's gutter/underline rendering.
func (p *Program) resolveAt(datatype ast.Datatype, tok *token.Token) (ast.Compound, error) {
	switch t := datatype.(type) {
	case ast.ConcreteType:
		return t.Compound, nil
	case ast.AliasType:
		compound, ok := p.Types[t.Name]
		if !ok {
			return ast.Compound{}, SemanticError{Message: fmt.Sprintf("Unknown type '%s'!", t.Name), Token: tok}
		}
		return compound, nil
	default:
		return ast.Compound{}, SemanticError{Message: "Unknown datatype!", Token: tok}
	}
}

// defineType resolves datatype and records name as an alias for the
// resulting Compound. Types only ever holds already-resolved Compounds, so
// a typedef of a typedef resolves with a single lookup.
func (p *Program) defineType(name string, datatype ast.Datatype, tok token.Token) error {
	compound, err := p.resolveAt(datatype, &tok)
	if err != nil {
		return err
	}
	p.Types[name] = compound
	return nil
}

func (p *Program) defineGlobal(name string, tok token.Token, compound ast.Compound, values []ast.Data) error {
	key := localKey(name, 0)
	if _, exists := p.Globals[key]; exists {
		return semanticErrorAt(tok, "Redefinition of global variable '%s'!", name)
	}
	p.Globals[key] = Global{Compound: compound, Values: values}
	p.GlobalOrder = append(p.GlobalOrder, key)
	return nil
}

func (p *Program) defineLocal(name string, tok token.Token, compound ast.Compound) error {
	key := localKey(name, p.scopeDepth)
	if _, exists := p.Locals[key]; exists {
		return semanticErrorAt(tok, "Redefinition of local variable '%s'!", name)
	}
	p.Locals[key] = compound
	return nil
}

// inferName resolves a source-level name to its storage key, searching
// scope depths from the current one down to 1 before falling back to
// global scope 0.
func (p *Program) inferName(name string) (string, error) {
	return p.inferNameAt(name, nil)
}

// inferNameAt is inferName, anchoring any SemanticError to tok (when
// non-nil).
func (p *Program) inferNameAt(name string, tok *token.Token) (string, error) {
	for depth := p.scopeDepth; depth >= 1; depth-- {
		key := localKey(name, depth)
		if _, ok := p.Locals[key]; ok {
			return key, nil
		}
	}
	key := localKey(name, 0)
	if _, ok := p.Globals[key]; ok {
		return key, nil
	}
	return "", SemanticError{Message: fmt.Sprintf("Undefined variable '%s'!", name), Token: tok}
}

func isGlobalKey(key string) bool {
	return len(key) >= 2 && key[len(key)-2:] == "_0"
}

// IsGlobalKey reports whether key (as returned by inferName, or as found in
// GlobalOrder) denotes a global, scope-0 symbol. The assembler does not call
// it: it tells global from local storage by opcode (Ldg/Stg versus Ldr/Str).
func IsGlobalKey(key string) bool {
	return isGlobalKey(key)
}

// compoundOfKey returns the declared Compound for an already-resolved
// storage key.
func (p *Program) compoundOfKey(key string) (ast.Compound, bool) {
	if isGlobalKey(key) {
		if g, ok := p.Globals[key]; ok {
			return g.Compound, true
		}
		return ast.Compound{}, false
	}
	c, ok := p.Locals[key]
	return c, ok
}

// instruct appends a new instruction and returns its Address.
func (p *Program) instruct(op ir.Operation, o1, o2 ir.Operand) ir.Address {
	p.Instructions = append(p.Instructions, ir.Instruction{Op: op, Operand1: o1, Operand2: o2})
	return ir.Address{Index: len(p.Instructions) - 1}
}

// last returns the Address of the most recently appended instruction: the
// reachable result of the expression just translated.
func (p *Program) last() ir.Operand {
	return ir.Address{Index: len(p.Instructions) - 1}
}

// generateLoopLabels returns a fresh, globally-unique pair of loop labels.
func (p *Program) generateLoopLabels() (start, end string) {
	p.labelCounter++
	return fmt.Sprintf("loop_start_%d", p.labelCounter), fmt.Sprintf("loop_end_%d", p.labelCounter)
}

// StackSize is the 16-byte-aligned sum of every local Compound's size.
func (p *Program) StackSize() int {
	total := 0
	for _, compound := range p.Locals {
		total += compound.Size()
	}
	return (total + 15) &^ 15
}

// Translate lowers a complete statement stream into this Program. It
// recovers DeveloperError-class panics (translator bugs) into a returned
// error, the way the teacher's ast_compiler.go CompileAST does; a
// SemanticError is always a normal return, never a panic.
func (p *Program) Translate(statements []ast.Statement) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if devErr, ok := r.(DeveloperError); ok {
				err = devErr
				return
			}
			panic(r)
		}
	}()

	for _, stmt := range statements {
		if err := stmt.Accept(p); err != nil {
			return err
		}
	}
	return nil
}
