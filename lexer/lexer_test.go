package lexer

import (
	"testing"

	"armc/token"
)

func scanTypes(t *testing.T, input string) []token.TokenType {
	t.Helper()
	toks, err := New(input).Scan()
	if err != nil {
		t.Fatalf("Scan() raised an error: %v", err)
	}
	types := make([]token.TokenType, len(toks))
	for i, tok := range toks {
		types[i] = tok.Type
	}
	return types
}

func TestScanSymbols(t *testing.T) {
	toks, err := New("== != <= >= << >> && || [ ] { } ( ) ; = , + - * / % < > ! & | ^").Scan()
	if err != nil {
		t.Fatalf("Scan() raised an error: %v", err)
	}

	want := []string{
		"==", "!=", "<=", ">=", "<<", ">>", "&&", "||",
		"[", "]", "{", "}", "(", ")", ";", "=", ",",
		"+", "-", "*", "/", "%", "<", ">", "!", "&", "|", "^",
	}
	if len(toks) != len(want)+1 {
		t.Fatalf("got %d tokens, want %d (+EOF)", len(toks), len(want)+1)
	}
	for i, lexeme := range want {
		if toks[i].Type != token.SYMBOL || toks[i].Lexeme != lexeme {
			t.Errorf("token %d = %v, want SYMBOL %q", i, toks[i], lexeme)
		}
	}
	if toks[len(want)].Type != token.EOF {
		t.Errorf("expected trailing EOF token")
	}
}

func TestScanKeywordsAndIdentifiers(t *testing.T) {
	types := scanTypes(t, "typedef int myVar x2 for return")
	want := []token.TokenType{
		token.KEYWORD, token.KEYWORD, token.IDENTIFIER,
		token.IDENTIFIER, token.KEYWORD, token.KEYWORD, token.EOF,
	}
	if len(types) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(types), len(want))
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("token %d = %v, want %v", i, types[i], want[i])
		}
	}
}

func TestScanIntegerLiteral(t *testing.T) {
	toks, err := New("42").Scan()
	if err != nil {
		t.Fatalf("Scan() raised an error: %v", err)
	}
	if toks[0].Type != token.DATA || toks[0].Literal.Kind != token.IntegerLiteral || toks[0].Literal.Integer != 42 {
		t.Errorf("got %v, want integer literal 42", toks[0])
	}
}

func TestScanFloatLiteral(t *testing.T) {
	toks, err := New("3.5").Scan()
	if err != nil {
		t.Fatalf("Scan() raised an error: %v", err)
	}
	if toks[0].Type != token.DATA || toks[0].Literal.Kind != token.FloatingLiteral || toks[0].Literal.Floating != 3.5 {
		t.Errorf("got %v, want float literal 3.5", toks[0])
	}
}

func TestScanCharLiteral(t *testing.T) {
	toks, err := New("'a'").Scan()
	if err != nil {
		t.Fatalf("Scan() raised an error: %v", err)
	}
	if toks[0].Type != token.DATA || toks[0].Literal.Kind != token.CharacterLiteral || toks[0].Literal.Character != 'a' {
		t.Errorf("got %v, want character literal 'a'", toks[0])
	}
}

func TestScanSkipsComments(t *testing.T) {
	types := scanTypes(t, "int x; # this is a comment\nreturn x;")
	want := []token.TokenType{
		token.KEYWORD, token.IDENTIFIER, token.SYMBOL,
		token.KEYWORD, token.IDENTIFIER, token.SYMBOL, token.EOF,
	}
	if len(types) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(types), len(want))
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("token %d = %v, want %v", i, types[i], want[i])
		}
	}
}

func TestScanUnterminatedCharLiteralErrors(t *testing.T) {
	_, err := New("'a").Scan()
	if err == nil {
		t.Errorf("expected an error for unterminated character literal")
	}
}
