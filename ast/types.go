// Package ast defines the data model for parsed programs: primitive and
// compound datatypes, type aliases, literal data, values, expressions,
// initializers, and statements. Every node type follows the visitor design
// pattern via Accept, the way the teacher's AST package does, so that
// traversal (translation, pretty-printing) stays decoupled from the node
// types themselves.
package ast

import "fmt"

// Primitive is one of the five scalar datatypes, totally ordered by a
// widening hierarchy Byte < Short < Int < Long < Float. The ordering drives
// implicit promotion ("upcasting") between the operands of a binary
// expression.
type Primitive int

const (
	Byte Primitive = iota
	Short
	Int
	Long
	Float
)

// Size returns the primitive's size in bytes.
func (p Primitive) Size() int {
	switch p {
	case Byte:
		return 1
	case Short:
		return 2
	case Int:
		return 4
	case Long:
		return 8
	case Float:
		return 4
	default:
		panic(fmt.Sprintf("unknown primitive %d", p))
	}
}

func (p Primitive) String() string {
	switch p {
	case Byte:
		return "byte"
	case Short:
		return "short"
	case Int:
		return "int"
	case Long:
		return "long"
	case Float:
		return "float"
	default:
		return "unknown"
	}
}

// Wider reports whether p is strictly wider than other in the widening
// hierarchy.
func (p Primitive) Wider(other Primitive) bool {
	return p > other
}

// Max returns the wider of the two primitives, per the widening hierarchy.
func Max(a, b Primitive) Primitive {
	if a.Wider(b) {
		return a
	}
	return b
}

// Compound pairs a Primitive with an array length. A length of 1 denotes a
// scalar; a length greater than 1 denotes a fixed-size array.
type Compound struct {
	Primitive Primitive
	Length    int
}

// Size returns the total byte size: the primitive's size times the length.
func (c Compound) Size() int {
	return c.Primitive.Size() * c.Length
}

// Scalar reports whether c denotes a non-array value.
func (c Compound) Scalar() bool {
	return c.Length == 1
}

// Datatype is either a concrete Compound or an Alias referring to one by
// name, resolved through the typedef table at definition time.
type Datatype interface {
	isDatatype()
}

// ConcreteType is a Datatype that already names a Compound directly.
type ConcreteType struct {
	Compound Compound
}

func (ConcreteType) isDatatype() {}

// AliasType is a Datatype referring to a typedef'd name, resolved to a
// Compound by the translator's symbol table.
type AliasType struct {
	Name string
}

func (AliasType) isDatatype() {}

// Data is a literal value of one of the five primitive kinds. Conversions
// to int64 and float32 are total and lossy by truncation where applicable.
type Data interface {
	isData()
	Primitive() Primitive
	ToInt64() int64
	ToFloat32() float32
}

type LongData int64

func (LongData) isData()             {}
func (d LongData) Primitive() Primitive { return Long }
func (d LongData) ToInt64() int64       { return int64(d) }
func (d LongData) ToFloat32() float32   { return float32(d) }

type IntegerData int32

func (IntegerData) isData()             {}
func (d IntegerData) Primitive() Primitive { return Int }
func (d IntegerData) ToInt64() int64       { return int64(d) }
func (d IntegerData) ToFloat32() float32   { return float32(d) }

type ShortData int16

func (ShortData) isData()             {}
func (d ShortData) Primitive() Primitive { return Short }
func (d ShortData) ToInt64() int64       { return int64(d) }
func (d ShortData) ToFloat32() float32   { return float32(d) }

type ByteData int8

func (ByteData) isData()             {}
func (d ByteData) Primitive() Primitive { return Byte }
func (d ByteData) ToInt64() int64       { return int64(d) }
func (d ByteData) ToFloat32() float32   { return float32(d) }

type FloatData float32

func (FloatData) isData()             {}
func (d FloatData) Primitive() Primitive { return Float }
func (d FloatData) ToInt64() int64       { return int64(d) }
func (d FloatData) ToFloat32() float32   { return float32(d) }

// Value is either a literal Data or a Pointer: a reference to an
// identifier, optionally with a constant array index.
type Value interface {
	isValue()
}

// DataValue wraps a literal constant.
type DataValue struct {
	Data Data
}

func (DataValue) isValue() {}

// PointerValue references an identifier, with Index 0 for a plain
// reference and Index > 0 for constant-indexed array access.
type PointerValue struct {
	Name  string
	Index int
}

func (PointerValue) isValue() {}
