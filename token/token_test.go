package token

import "testing"

func TestTextSlicesSource(t *testing.T) {
	source := "+ 1 2"
	tok := Token{Kind: Integer, Start: 2, End: 3}
	if got := tok.Text(source); got != "1" {
		t.Errorf("Text = %q, want %q", got, "1")
	}
}

func TestStringEOF(t *testing.T) {
	tok := Token{Kind: EOF, Start: 5, End: 5}
	if got := tok.String("hello"); got != "<eof>" {
		t.Errorf("String = %q, want %q", got, "<eof>")
	}
}

func TestStringInvalidIncludesText(t *testing.T) {
	source := `"unterminated`
	tok := Token{Kind: Invalid, Start: 0, End: len(source)}
	got := tok.String(source)
	if got != `<invalid:"unterminated>` {
		t.Errorf("String = %q", got)
	}
}
