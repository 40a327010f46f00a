package token

import "testing"

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		tokenType TokenType
		lexeme    string
		want      Token
	}{
		{
			name:      "symbol token",
			tokenType: SYMBOL,
			lexeme:    "+",
			want:      Token{Type: SYMBOL, Lexeme: "+"},
		},
		{
			name:      "keyword token",
			tokenType: KEYWORD,
			lexeme:    "return",
			want:      Token{Type: KEYWORD, Lexeme: "return"},
		},
		{
			name:      "identifier token",
			tokenType: IDENTIFIER,
			lexeme:    "myVar",
			want:      Token{Type: IDENTIFIER, Lexeme: "myVar"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.tokenType, tt.lexeme, 1, 0)
			if got.Type != tt.want.Type || got.Lexeme != tt.want.Lexeme {
				t.Errorf("New() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	a := New(SYMBOL, "+", 0, 0)
	b := New(SYMBOL, "+", 3, 7)
	c := New(SYMBOL, "-", 0, 0)
	d := New(IDENTIFIER, "+", 0, 0)

	if !a.Equal(b) {
		t.Errorf("expected tokens with same type/lexeme to be equal regardless of position")
	}
	if a.Equal(c) {
		t.Errorf("expected tokens with different lexemes to be unequal")
	}
	if a.Equal(d) {
		t.Errorf("expected tokens with different types to be unequal")
	}
}

func TestKeywordsRecognizesAllReservedWords(t *testing.T) {
	for _, word := range []string{"typedef", "int", "float", "short", "long", "char", "for", "return"} {
		if !Keywords[word] {
			t.Errorf("expected %q to be a recognized keyword", word)
		}
	}
	if Keywords["myVar"] {
		t.Errorf("expected ordinary identifier to not be classified as a keyword")
	}
}
