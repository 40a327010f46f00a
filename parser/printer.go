package parser

import (
	"encoding/json"
	"os"

	"armc/ast"
)

// jsonPrinter implements ast.ExpressionVisitor and ast.StmtVisitor, the way
// the translator does: Accept returns only an error, and the node's
// reconstructed value is recovered from the receiver afterward, here via
// `result` rather than the translator's `last()`.
type jsonPrinter struct {
	result any
}

func datatypeJSON(dt ast.Datatype) any {
	switch t := dt.(type) {
	case ast.ConcreteType:
		return map[string]any{"primitive": t.Compound.Primitive.String(), "length": t.Compound.Length}
	case ast.AliasType:
		return map[string]any{"alias": t.Name}
	default:
		return nil
	}
}

func dataJSON(d ast.Data) any {
	if _, ok := d.(ast.FloatData); ok {
		return d.ToFloat32()
	}
	return d.ToInt64()
}

func valueJSON(v ast.Value) any {
	switch val := v.(type) {
	case ast.DataValue:
		return dataJSON(val.Data)
	case ast.PointerValue:
		return map[string]any{"type": "Pointer", "name": val.Name, "index": val.Index}
	default:
		return nil
	}
}

func (p *jsonPrinter) VisitValue(expr ast.ValueExpr) error {
	p.result = valueJSON(expr.Value)
	return nil
}

func (p *jsonPrinter) VisitBinary(expr ast.BinaryExpr) error {
	if err := expr.Lhs.Accept(p); err != nil {
		return err
	}
	left := p.result
	if err := expr.Rhs.Accept(p); err != nil {
		return err
	}
	p.result = map[string]any{
		"type":     "Binary",
		"operator": expr.Operator.String(),
		"left":     left,
		"right":    p.result,
	}
	return nil
}

func (p *jsonPrinter) VisitUnary(expr ast.UnaryExpr) error {
	if err := expr.Operand.Accept(p); err != nil {
		return err
	}
	p.result = map[string]any{
		"type":     "Unary",
		"operator": expr.Operator.String(),
		"operand":  p.result,
	}
	return nil
}

// initializerJSON renders an Initializer (nil, a single expression, or a
// brace-enclosed list) using the same printer.
func (p *jsonPrinter) initializerJSON(init ast.Initializer) (any, error) {
	switch v := init.(type) {
	case nil:
		return nil, nil
	case ast.ExprInitializer:
		if err := v.Expression.Accept(p); err != nil {
			return nil, err
		}
		return p.result, nil
	case ast.ListInitializer:
		values := make([]any, len(v.Values))
		for i, expr := range v.Values {
			if err := expr.Accept(p); err != nil {
				return nil, err
			}
			values[i] = p.result
		}
		return values, nil
	default:
		return nil, nil
	}
}

func (p *jsonPrinter) VisitVariable(stmt ast.VariableStmt) error {
	initVal, err := p.initializerJSON(stmt.Initializer)
	if err != nil {
		return err
	}
	p.result = map[string]any{
		"type":        "VariableStmt",
		"datatype":    datatypeJSON(stmt.Datatype),
		"name":        stmt.Name,
		"initializer": initVal,
	}
	return nil
}

func (p *jsonPrinter) VisitAssignment(stmt ast.AssignmentStmt) error {
	valueVal, err := p.initializerJSON(stmt.Value)
	if err != nil {
		return err
	}
	p.result = map[string]any{
		"type":   "AssignmentStmt",
		"target": map[string]any{"name": stmt.Target.Name, "index": stmt.Target.Index},
		"value":  valueVal,
	}
	return nil
}

func (p *jsonPrinter) statementsJSON(statements []ast.Statement) ([]any, error) {
	out := make([]any, len(statements))
	for i, s := range statements {
		if err := s.Accept(p); err != nil {
			return nil, err
		}
		out[i] = p.result
	}
	return out, nil
}

func (p *jsonPrinter) VisitFunction(stmt ast.FunctionStmt) error {
	body, err := p.statementsJSON(stmt.Body)
	if err != nil {
		return err
	}
	p.result = map[string]any{
		"type":     "FunctionStmt",
		"datatype": datatypeJSON(stmt.Datatype),
		"name":     stmt.Name,
		"body":     body,
	}
	return nil
}

func (p *jsonPrinter) VisitType(stmt ast.TypeStmt) error {
	p.result = map[string]any{
		"type":     "TypeStmt",
		"name":     stmt.Name,
		"datatype": datatypeJSON(stmt.Datatype),
	}
	return nil
}

func (p *jsonPrinter) VisitLoop(stmt ast.LoopStmt) error {
	if err := stmt.Init.Accept(p); err != nil {
		return err
	}
	initVal := p.result

	if err := stmt.Condition.Accept(p); err != nil {
		return err
	}
	condVal := p.result

	if err := stmt.Increment.Accept(p); err != nil {
		return err
	}
	incVal := p.result

	body, err := p.statementsJSON(stmt.Body)
	if err != nil {
		return err
	}

	p.result = map[string]any{
		"type":      "LoopStmt",
		"init":      initVal,
		"condition": condVal,
		"increment": incVal,
		"body":      body,
	}
	return nil
}

func (p *jsonPrinter) VisitReturn(stmt ast.ReturnStmt) error {
	if err := stmt.Value.Accept(p); err != nil {
		return err
	}
	p.result = map[string]any{"type": "ReturnStmt", "value": p.result}
	return nil
}

func (p *jsonPrinter) VisitNoop(stmt ast.NoopStmt) error {
	p.result = map[string]any{"type": "NoopStmt"}
	return nil
}

// PrintASTJSON renders a parsed statement stream as prettified JSON.
func PrintASTJSON(statements []ast.Statement) (string, error) {
	p := &jsonPrinter{}
	out, err := p.statementsJSON(statements)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteASTJSONToFile renders statements as JSON and writes it to path.
func WriteASTJSONToFile(statements []ast.Statement, path string) error {
	s, err := PrintASTJSON(statements)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(s), 0o644)
}
