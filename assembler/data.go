package assembler

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"armc/ast"
	"armc/translator"
)

func widthDirective(size int) (string, error) {
	switch size {
	case 1:
		return ".byte", nil
	case 2:
		return ".hword", nil
	case 4:
		return ".word", nil
	case 8:
		return ".xword", nil
	default:
		return "", assemblyErrorf("Unknown datatype size %d!", size)
	}
}

// dataLiteral renders one constant Data value as the text that follows its
// directive: floats are always emitted as their IEEE-754 bit pattern cast
// to xword width, regardless of their own 4-byte logical size.
func dataLiteral(d ast.Data) (string, error) {
	if f, ok := d.(ast.FloatData); ok {
		bits := math.Float32bits(float32(f))
		return strconv.FormatUint(uint64(bits), 10), nil
	}
	return strconv.FormatInt(d.ToInt64(), 10), nil
}

// dataSection emits the `.section __DATA,__data` block: one label per
// global, in declaration order, followed by one directive line per
// element. It is omitted entirely when the program has no globals.
func dataSection(prog *translator.Program) (string, error) {
	if len(prog.GlobalOrder) == 0 {
		return "", nil
	}

	var b strings.Builder
	b.WriteString(".section __DATA,__data\n")
	for _, key := range prog.GlobalOrder {
		global := prog.Globals[key]
		name := strings.TrimSuffix(key, "_0")
		fmt.Fprintf(&b, "%s:\n", name)

		directive := ".xword"
		if global.Compound.Primitive != ast.Float {
			var err error
			directive, err = widthDirective(global.Compound.Primitive.Size())
			if err != nil {
				return "", err
			}
		}

		for _, value := range global.Values {
			literal, err := dataLiteral(value)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&b, "  %s %s\n", directive, literal)
		}
	}
	return b.String(), nil
}
