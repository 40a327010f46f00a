package translator

import (
	"armc/ast"
	"armc/ir"
	"armc/token"
)

func negateData(d ast.Data) ast.Data {
	switch v := d.(type) {
	case ast.LongData:
		return -v
	case ast.IntegerData:
		return -v
	case ast.ShortData:
		return -v
	case ast.ByteData:
		return -v
	case ast.FloatData:
		return -v
	default:
		return d
	}
}

// constantData evaluates a top-level initializer expression without
// emitting any instructions: only literals and their negation qualify as
// compile-time constants. tok anchors any SemanticError to the declaration
// that owns this initializer.
func (p *Program) constantData(expr ast.Expression, tok token.Token) (ast.Data, error) {
	switch e := expr.(type) {
	case ast.ValueExpr:
		dv, ok := e.Value.(ast.DataValue)
		if !ok {
			return nil, semanticErrorAt(tok, "Top-level initializer must be a constant!")
		}
		return dv.Data, nil
	case ast.UnaryExpr:
		if e.Operator != ast.Negation {
			return nil, semanticErrorAt(tok, "Top-level initializer must be a constant!")
		}
		inner, err := p.constantData(e.Operand, tok)
		if err != nil {
			return nil, err
		}
		return negateData(inner), nil
	default:
		return nil, semanticErrorAt(tok, "Top-level initializer must be a constant!")
	}
}

// constantValues resolves a top-level variable's initializer into the
// vector of per-element constant values its globals entry stores. A
// top-level variable with no initializer is rejected: globals have no
// runtime initialization step, so their values must be known at translation
// time.
func (p *Program) constantValues(name string, tok token.Token, init ast.Initializer, compound ast.Compound) ([]ast.Data, error) {
	if init == nil {
		return nil, semanticErrorAt(tok, "Top-level variable '%s' must be initialized with a constant value!", name)
	}

	switch v := init.(type) {
	case ast.ExprInitializer:
		if !compound.Scalar() {
			return nil, semanticErrorAt(tok, "Array '%s' requires a list initializer!", name)
		}
		data, err := p.constantData(v.Expression, tok)
		if err != nil {
			return nil, err
		}
		return []ast.Data{data}, nil
	case ast.ListInitializer:
		if compound.Scalar() {
			return nil, semanticErrorAt(tok, "Scalar '%s' cannot take a list initializer!", name)
		}
		if len(v.Values) != compound.Length {
			return nil, semanticErrorAt(tok, "Initializer for '%s' has %d values, expected %d!", name, len(v.Values), compound.Length)
		}
		values := make([]ast.Data, len(v.Values))
		for i, expr := range v.Values {
			data, err := p.constantData(expr, tok)
			if err != nil {
				return nil, err
			}
			values[i] = data
		}
		return values, nil
	default:
		return nil, semanticErrorAt(tok, "Unknown initializer for '%s'!", name)
	}
}

// emitInitializer lowers a local variable's initializer into Str
// instructions writing each element of name's storage.
func (p *Program) emitInitializer(name string, tok token.Token, key string, compound ast.Compound, init ast.Initializer) error {
	switch v := init.(type) {
	case ast.ExprInitializer:
		if !compound.Scalar() {
			return semanticErrorAt(tok, "Array '%s' requires a list initializer!", name)
		}
		return p.storeElement(key, 0, compound.Primitive, v.Expression, tok)
	case ast.ListInitializer:
		if compound.Scalar() {
			return semanticErrorAt(tok, "Scalar '%s' cannot take a list initializer!", name)
		}
		if len(v.Values) != compound.Length {
			return semanticErrorAt(tok, "Initializer for '%s' has %d values, expected %d!", name, len(v.Values), compound.Length)
		}
		for i, expr := range v.Values {
			if err := p.storeElement(key, i, compound.Primitive, expr, tok); err != nil {
				return err
			}
		}
		return nil
	default:
		return semanticErrorAt(tok, "Unknown initializer for '%s'!", name)
	}
}

func (p *Program) storeElement(key string, index int, target ast.Primitive, expr ast.Expression, tok token.Token) error {
	if err := expr.Accept(p); err != nil {
		return err
	}
	source := p.typeOf(p.last())
	if source.Wider(target) {
		p.NarrowingCasts = append(p.NarrowingCasts, NarrowingCast{Token: tok, From: source, To: target})
	}
	value := p.cast(p.last(), target)
	op := ir.Str
	if isGlobalKey(key) {
		op = ir.Stg
	}
	p.instruct(op, value, ir.Identifier{Name: key, Index: index})
	return nil
}

// VisitVariable declares a name of the statement's resolved datatype: at
// top level it becomes a globals entry with no emitted instructions; inside
// a function or loop body it becomes a stack slot, with its initializer (if
// any) lowered to Str/Stg instructions.
func (p *Program) VisitVariable(stmt ast.VariableStmt) error {
	compound, err := p.resolveAt(stmt.Datatype, &stmt.Token)
	if err != nil {
		return err
	}

	if p.Toplevel() {
		values, err := p.constantValues(stmt.Name, stmt.Token, stmt.Initializer, compound)
		if err != nil {
			return err
		}
		return p.defineGlobal(stmt.Name, stmt.Token, compound, values)
	}

	if err := p.defineLocal(stmt.Name, stmt.Token, compound); err != nil {
		return err
	}
	if stmt.Initializer == nil {
		return nil
	}
	return p.emitInitializer(stmt.Name, stmt.Token, localKey(stmt.Name, p.scopeDepth), compound, stmt.Initializer)
}

// VisitAssignment lowers an assignment to an already-declared variable or
// array element. Assignments are not allowed at top level: globals have no
// runtime initialization step to assign into.
func (p *Program) VisitAssignment(stmt ast.AssignmentStmt) error {
	if p.Toplevel() {
		return semanticErrorAt(stmt.Token, "Assignments are not allowed on the top-level!")
	}

	key, err := p.inferNameAt(stmt.Target.Name, &stmt.Token)
	if err != nil {
		return err
	}
	compound, ok := p.compoundOfKey(key)
	if !ok {
		return semanticErrorAt(stmt.Token, "Undefined variable '%s'!", stmt.Target.Name)
	}

	switch v := stmt.Value.(type) {
	case ast.ExprInitializer:
		return p.storeElement(key, stmt.Target.Index, compound.Primitive, v.Expression, stmt.Token)
	case ast.ListInitializer:
		if compound.Scalar() {
			return semanticErrorAt(stmt.Token, "Scalar '%s' cannot take a list assignment!", stmt.Target.Name)
		}
		if len(v.Values) != compound.Length {
			return semanticErrorAt(stmt.Token, "Assignment to '%s' has %d values, expected %d!", stmt.Target.Name, len(v.Values), compound.Length)
		}
		for i, expr := range v.Values {
			if err := p.storeElement(key, i, compound.Primitive, expr, stmt.Token); err != nil {
				return err
			}
		}
		return nil
	default:
		return semanticErrorAt(stmt.Token, "Unknown assignment value for '%s'!", stmt.Target.Name)
	}
}

// VisitFunction translates a function's body in a fresh scope. Only a
// function named "main" is semantically valid; the grammar otherwise
// accepts the general shape, matching the teacher's permissive-parse,
// strict-translate split.
func (p *Program) VisitFunction(stmt ast.FunctionStmt) error {
	if stmt.Name != "main" {
		return semanticErrorAt(stmt.Token, "Only a function named 'main' may be declared, found '%s'!", stmt.Name)
	}
	p.pushScope()
	for _, s := range stmt.Body {
		if err := s.Accept(p); err != nil {
			p.popScope()
			return err
		}
	}
	p.popScope()
	return nil
}

// VisitType records a typedef: stmt.Name becomes an alias resolving to
// stmt.Datatype's underlying Compound.
func (p *Program) VisitType(stmt ast.TypeStmt) error {
	return p.defineType(stmt.Name, stmt.Datatype, stmt.Token)
}

// VisitLoop lowers the constrained `for` form: push a scope, translate the
// init declaration, emit the start label, translate the condition and its
// guarding branch, translate the body and increment, then emit the
// back-branch and end label before popping the scope. Loops are not allowed
// at top level: a loop only makes sense as part of a function body.
func (p *Program) VisitLoop(stmt ast.LoopStmt) error {
	if p.Toplevel() {
		return semanticErrorAt(stmt.Token, "Loops are not allowed on the top-level!")
	}

	p.pushScope()

	start, end := p.generateLoopLabels()

	if err := stmt.Init.Accept(p); err != nil {
		p.popScope()
		return err
	}

	p.instruct(ir.Lbl, ir.Label{Name: start}, ir.None{})

	if err := stmt.Condition.Accept(p); err != nil {
		p.popScope()
		return err
	}
	p.instruct(ir.Cmp, p.last(), zero())
	p.instruct(ir.BEq, ir.Label{Name: end}, ir.None{})

	for _, s := range stmt.Body {
		if err := s.Accept(p); err != nil {
			p.popScope()
			return err
		}
	}

	if err := stmt.Increment.Accept(p); err != nil {
		p.popScope()
		return err
	}

	p.instruct(ir.B, ir.Label{Name: start}, ir.None{})
	p.instruct(ir.Lbl, ir.Label{Name: end}, ir.None{})

	p.popScope()
	return nil
}

// VisitReturn evaluates the expression, casts the result to Int, and emits
// the function's exit instruction. A return is not allowed at top level:
// there is no enclosing function to return from.
func (p *Program) VisitReturn(stmt ast.ReturnStmt) error {
	if p.Toplevel() {
		return semanticErrorAt(stmt.Token, "Return is not allowed on the top-level!")
	}

	if err := stmt.Value.Accept(p); err != nil {
		return err
	}
	result := p.cast(p.last(), ast.Int)
	p.instruct(ir.Ret, result, ir.None{})
	return nil
}

// VisitNoop does nothing: a bare `;` has no translation.
func (p *Program) VisitNoop(stmt ast.NoopStmt) error {
	return nil
}
