// Package lexer implements the tokenizer for Knight source. It is an
// external collaborator of the core pipeline: the emitter and VM never see
// raw source, only the token.Kind values this package yields, so its
// internal scanning mechanics are not part of the specification.
package lexer

import "github.com/knight-lang/knight-go/token"

// Lexer scans a Knight source string one byte at a time, the same
// read/peek-character shape evalfilter's lexer uses, sized down to
// Knight's much smaller grammar (no operators longer than one byte, no
// escape sequences inside strings).
type Lexer struct {
	source string
	pos    int
}

// New creates a Lexer over the given source.
func New(source string) *Lexer {
	return &Lexer{source: source}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.source) {
		return 0
	}
	return l.source[l.pos]
}

func (l *Lexer) at(offset int) byte {
	i := l.pos + offset
	if i >= len(l.source) {
		return 0
	}
	return l.source[i]
}

// Next scans and returns the next token, advancing past it.
func (l *Lexer) Next() token.Token {
	l.skipIgnorable()

	start := l.pos
	if l.pos >= len(l.source) {
		return token.Token{Kind: token.EOF, Start: start, End: start}
	}

	c := l.source[l.pos]

	switch {
	case isDigit(c):
		for isDigit(l.peek()) {
			l.pos++
		}
		return token.Token{Kind: token.Integer, Start: start, End: l.pos}

	case c == '"' || c == '\'':
		return l.scanString(c)

	case isLowerIdentStart(c):
		l.pos++
		for isLowerIdentCont(l.peek()) {
			l.pos++
		}
		return token.Token{Kind: token.Identifier, Start: start, End: l.pos}

	case isUpper(c):
		l.pos++
		for isUpper(l.peek()) || l.peek() == '_' {
			l.pos++
		}
		return token.Token{Kind: token.WordFunction, Start: start, End: l.pos}

	case c == '(':
		l.pos++
		return token.Token{Kind: token.LParen, Start: start, End: l.pos}

	case c == ')':
		l.pos++
		return token.Token{Kind: token.RParen, Start: start, End: l.pos}

	case isSymbolFunction(c):
		l.pos++
		return token.Token{Kind: token.SymbolFunction, Start: start, End: l.pos}

	default:
		l.pos++
		return token.Token{Kind: token.Invalid, Start: start, End: l.pos}
	}
}

// skipIgnorable consumes whitespace (space, tab, newline, carriage
// return) and `#`-to-end-of-line comments. No punctuation is skipped:
// `(`/`)` are tokens and `:` is the identity function's symbol.
func (l *Lexer) skipIgnorable() {
	for l.pos < len(l.source) {
		c := l.source[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			l.pos++
		case c == '#':
			for l.pos < len(l.source) && l.source[l.pos] != '\n' {
				l.pos++
			}
		default:
			return
		}
	}
}

// scanString consumes a quoted literal. Knight strings have no escape
// sequences: every byte up to the matching quote is literal, including
// newlines. An unterminated string yields an Invalid token spanning to
// EOF, so callers can report a useful diagnostic.
func (l *Lexer) scanString(quote byte) token.Token {
	start := l.pos
	l.pos++ // opening quote
	for l.pos < len(l.source) && l.source[l.pos] != quote {
		l.pos++
	}
	if l.pos >= len(l.source) {
		return token.Token{Kind: token.Invalid, Start: start, End: l.pos}
	}
	l.pos++ // closing quote
	// Start/End exclude the surrounding quotes: the parser wants the
	// string's contents, not its delimiters.
	return token.Token{Kind: token.String, Start: start + 1, End: l.pos - 1}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }

func isLowerIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || c == '_'
}

func isLowerIdentCont(c byte) bool {
	return isLowerIdentStart(c) || isDigit(c)
}

// isSymbolFunction reports whether c is one of Knight's single-byte
// function tags.
func isSymbolFunction(c byte) bool {
	switch c {
	case '@', ':', '!', '~', ',', '[', ']', ';', '=', '&', '|', '?',
		'<', '>', '+', '-', '*', '/', '%', '^':
		return true
	default:
		return false
	}
}
