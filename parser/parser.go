// Package parser implements the recursive-descent parser that turns a
// token stream into an ast.Tree. Like the lexer, the parser is an external
// collaborator per spec.md: only the shape of the AST it produces (flat
// parallel arrays) matters to the emitter, not how it gets there.
//
// Knight's grammar needs no operator precedence: every function is a
// prefix form with a fixed arity, so "parsing an expression" is just
// "read one token, then recursively parse however many argument
// expressions that token's function takes" -- the same recursive-descent
// shape evalfilter's parser uses, minus the precedence-climbing machinery
// evalfilter needs for its infix operators.
package parser

import (
	"fmt"

	"github.com/knight-lang/knight-go/ast"
	"github.com/knight-lang/knight-go/lexer"
	"github.com/knight-lang/knight-go/token"
)

// Parser consumes tokens from a lexer.Lexer and builds an ast.Tree.
type Parser struct {
	lex    *lexer.Lexer
	source string
	tree   *ast.Tree
	cur    token.Token
	index  int // token index, for diagnostics
}

// New creates a Parser over the given source.
func New(source string) *Parser {
	p := &Parser{
		lex:    lexer.New(source),
		source: source,
		tree:   ast.NewTree(source),
	}
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.cur = p.lex.Next()
	p.index++
}

// ParseProgram parses the whole source as a single expression and returns
// the resulting Tree, with node 0 set to that expression.
//
// Recursive descent naturally appends a function node only after all of
// its argument nodes, so the outermost expression ends up LAST in
// append order, not first. reroot walks the freshly parsed tree and
// rebuilds it in pre-order (parent before children) so the root lands at
// index 0, as spec.md requires.
func (p *Parser) ParseProgram() (*ast.Tree, error) {
	root, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != token.EOF {
		return nil, fmt.Errorf("parse error at token %d: trailing input after program, found %s", p.index, p.cur.String(p.source))
	}
	return reroot(p.tree, root), nil
}

// reroot rebuilds raw (whose nodes were appended bottom-up) into a new
// Tree visited pre-order from rawRoot, so the new tree's node 0 is
// rawRoot and every node still precedes its children's indices.
func reroot(raw *ast.Tree, rawRoot int) *ast.Tree {
	mapping := make([]int, len(raw.Kinds))
	for i := range mapping {
		mapping[i] = -1
	}
	order := make([]int, 0, len(raw.Kinds))

	var assign func(node int)
	assign = func(node int) {
		mapping[node] = len(order)
		order = append(order, node)
		if !isLeaf(raw.Kinds[node]) {
			n := raw.NumChildren(node)
			for i := 0; i < n; i++ {
				assign(raw.Child(node, i))
			}
		}
	}
	assign(rawRoot)

	final := ast.NewTree(raw.Source)
	final.Kinds = make([]ast.Kind, len(order))
	final.Data = make([]ast.NodeData, len(order))
	for finalIdx, rawIdx := range order {
		kind := raw.Kinds[rawIdx]
		final.Kinds[finalIdx] = kind
		if isLeaf(kind) {
			final.Data[finalIdx] = raw.Data[rawIdx]
			continue
		}
		n := raw.NumChildren(rawIdx)
		start := len(final.Children)
		for i := 0; i < n; i++ {
			final.Children = append(final.Children, mapping[raw.Child(rawIdx, i)])
		}
		final.Data[finalIdx] = ast.NodeData{Start: start, End: len(final.Children)}
	}
	return final
}

func isLeaf(kind ast.Kind) bool {
	return kind == ast.IntegerLiteral || kind == ast.StringLiteral || kind == ast.Identifier
}

// parseExpression parses one function application (or a leaf: integer,
// string, identifier) and returns its node index.
func (p *Parser) parseExpression() (int, error) {
	tok := p.cur

	switch tok.Kind {
	case token.Integer:
		p.advance()
		return p.tree.AddLeaf(ast.IntegerLiteral, tok.Start, tok.End), nil

	case token.String:
		p.advance()
		return p.tree.AddLeaf(ast.StringLiteral, tok.Start, tok.End), nil

	case token.Identifier:
		p.advance()
		return p.tree.AddLeaf(ast.Identifier, tok.Start, tok.End), nil

	case token.LParen:
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return 0, err
		}
		if p.cur.Kind != token.RParen {
			return 0, fmt.Errorf("parse error at token %d: expected ')', found %s", p.index, p.cur.String(p.source))
		}
		p.advance()
		return inner, nil

	case token.SymbolFunction:
		kind, ok := symbolKind[tok.Text(p.source)[0]]
		if !ok {
			return 0, fmt.Errorf("parse error at token %d: unknown symbol function %q", p.index, tok.Text(p.source))
		}
		p.advance()
		return p.parseFunction(kind)

	case token.WordFunction:
		kind, ok := wordKind[tok.Text(p.source)[0]]
		if !ok {
			return 0, fmt.Errorf("parse error at token %d: unknown word function %q", p.index, tok.Text(p.source))
		}
		p.advance()
		return p.parseFunction(kind)

	case token.EOF:
		return 0, fmt.Errorf("parse error at token %d: unexpected end of input", p.index)

	default:
		return 0, fmt.Errorf("parse error at token %d: unexpected token %s", p.index, tok.String(p.source))
	}
}

// parseFunction parses exactly kind.Arity() argument expressions and
// builds the function node.
func (p *Parser) parseFunction(kind ast.Kind) (int, error) {
	arity := kind.Arity()
	children := make([]int, 0, arity)
	for i := 0; i < arity; i++ {
		child, err := p.parseExpression()
		if err != nil {
			return 0, err
		}
		children = append(children, child)
	}
	return p.tree.AddFunction(kind, children...), nil
}

// symbolKind maps a single-byte symbol function to its ast.Kind.
var symbolKind = map[byte]ast.Kind{
	'@': ast.EmptyList,
	':': ast.Identity,
	'!': ast.Not,
	'~': ast.Negate,
	',': ast.Box,
	'[': ast.Head,
	']': ast.Tail,
	';': ast.Sequence,
	'=': ast.Assign,
	'&': ast.And,
	'|': ast.Or,
	'?': ast.Equal,
	'<': ast.Less,
	'>': ast.Greater,
	'+': ast.Add,
	'-': ast.Sub,
	'*': ast.Mult,
	'/': ast.Div,
	'%': ast.Mod,
	'^': ast.Exp,
}

// wordKind maps a word function's first byte to its ast.Kind.
var wordKind = map[byte]ast.Kind{
	'T': ast.True,
	'F': ast.False,
	'N': ast.Null,
	'P': ast.Prompt,
	'R': ast.Random,
	'A': ast.Ascii,
	'B': ast.BlockOf,
	'C': ast.Call,
	'D': ast.Dump,
	'L': ast.Length,
	'O': ast.Output,
	'Q': ast.Quit,
	'W': ast.While,
	'I': ast.If,
	'G': ast.Get,
	'S': ast.Set,
}
