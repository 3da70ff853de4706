package lexer

import (
	"testing"

	"github.com/knight-lang/knight-go/token"
)

func TestNext(t *testing.T) {
	tests := []struct {
		source string
		want   []token.Kind
	}{
		{"", []token.Kind{token.EOF}},
		{"123", []token.Kind{token.Integer, token.EOF}},
		{`"hello"`, []token.Kind{token.String, token.EOF}},
		{"'hi'", []token.Kind{token.String, token.EOF}},
		{"a_1", []token.Kind{token.Identifier, token.EOF}},
		{"TRUE", []token.Kind{token.WordFunction, token.EOF}},
		{"+ 1 2", []token.Kind{token.SymbolFunction, token.Integer, token.Integer, token.EOF}},
		{"# comment\n1", []token.Kind{token.Integer, token.EOF}},
		{"(1)", []token.Kind{token.LParen, token.Integer, token.RParen, token.EOF}},
		{`"unterminated`, []token.Kind{token.Invalid}},
	}

	for _, tc := range tests {
		l := New(tc.source)
		var got []token.Kind
		for {
			tok := l.Next()
			got = append(got, tok.Kind)
			if tok.Kind == token.EOF || tok.Kind == token.Invalid {
				break
			}
		}
		if len(got) != len(tc.want) {
			t.Fatalf("%q: got %v, want %v", tc.source, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("%q: token %d: got %v, want %v", tc.source, i, got[i], tc.want[i])
			}
		}
	}
}

func TestStringStripsQuotes(t *testing.T) {
	l := New(`"hi"`)
	tok := l.Next()
	if tok.Kind != token.String {
		t.Fatalf("got kind %v", tok.Kind)
	}
	if got := tok.Text(`"hi"`); got != "hi" {
		t.Errorf("got %q, want %q", got, "hi")
	}
}
