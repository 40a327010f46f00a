package assembler

import (
	"testing"

	"armc/ast"
)

func TestRepresentableFloat(t *testing.T) {
	cases := []struct {
		v    float32
		want bool
	}{
		{0, true},
		{1, true},
		{2, true},
		{-2, true},
		{1.0625, true}, // (16+1)/16 * 2^0
		{3.14159, false},
		{1.0000001, false},
	}
	for _, c := range cases {
		if got := representableFloat(c.v); got != c.want {
			t.Errorf("representableFloat(%v) = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestImmediateTextInteger(t *testing.T) {
	cases := []struct {
		n    int64
		want string
	}{
		{0, "#0"},
		{42, "#42"},
		{-42, "#-42"},
		{1 << 20, "=" + "1048576"},
	}
	for _, c := range cases {
		if got := immediateText(ast.IntegerData(c.n)); got != c.want {
			t.Errorf("immediateText(%d) = %q, want %q", c.n, got, c.want)
		}
	}
}

func TestImmediateTextRepresentableFloat(t *testing.T) {
	got := immediateText(ast.FloatData(2))
	want := "#2e0"
	if got != want {
		t.Errorf("immediateText(2.0) = %q, want %q", got, want)
	}
}
