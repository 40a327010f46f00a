package assembler

import (
	"math"
	"strconv"

	"armc/ast"
)

const immediateThreshold = 1 << 16

// representableFloat reports whether v matches the ARM64 VFP immediate
// encoding: sign * (16+mantissa)/16 * 2^r for r in [-3,4] and mantissa in
// [0,15], zero included.
func representableFloat(v float32) bool {
	if v == 0 {
		return true
	}
	for _, sign := range [2]float32{1, -1} {
		for r := -3; r <= 4; r++ {
			for mantissa := 0; mantissa <= 15; mantissa++ {
				candidate := sign * (16 + float32(mantissa)) / 16 * float32(math.Pow(2, float64(r)))
				if candidate == v {
					return true
				}
			}
		}
	}
	return false
}

// immediateText renders a literal Data value in one of the forms §4.3
// describes: a plain `#n` immediate, a `=n` literal-pool reference for
// integers too wide to encode directly, or a float's representable
// immediate form / literal-pool bit pattern.
func immediateText(data ast.Data) string {
	if f, ok := data.(ast.FloatData); ok {
		v := float32(f)
		if representableFloat(v) {
			return "#" + strconv.FormatFloat(float64(v), 'g', -1, 32) + "e0"
		}
		return "=" + strconv.FormatUint(uint64(math.Float32bits(v)), 10)
	}

	n := data.ToInt64()
	abs := n
	if abs < 0 {
		abs = -abs
	}
	if abs <= immediateThreshold {
		return "#" + strconv.FormatInt(n, 10)
	}
	return "=" + strconv.FormatInt(n, 10)
}
