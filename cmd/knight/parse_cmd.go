package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/knight-lang/knight-go/ast"
	"github.com/knight-lang/knight-go/parser"
)

// parseCmd shows the flat AST for a source, following
// cmd/evalfilter/parse_cmd.go's registration shape.
type parseCmd struct {
	expr string
}

func (*parseCmd) Name() string     { return "parse" }
func (*parseCmd) Synopsis() string { return "show the parsed AST for a program" }
func (*parseCmd) Usage() string {
	return `parse [-e expr] [file]:
  Show the flat AST node array produced by the parser.
`
}

func (c *parseCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.expr, "e", "", "evaluate expr instead of a file argument")
}

func (c *parseCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var file string
	if f.NArg() > 0 {
		file = f.Arg(0)
	}
	source, err := readSource(c.expr, file)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	tree, err := parser.New(source).ParseProgram()
	if err != nil {
		fmt.Fprintln(os.Stderr, "parse error:", err)
		return subcommands.ExitFailure
	}

	for i := range tree.Kinds {
		if isLeafKind(tree.Kinds[i]) {
			fmt.Printf("%4d: %-14v %q\n", i, tree.Kinds[i], tree.Text(i))
			continue
		}
		children := make([]int, tree.NumChildren(i))
		for j := range children {
			children[j] = tree.Child(i, j)
		}
		fmt.Printf("%4d: %-14v children=%v\n", i, tree.Kinds[i], children)
	}
	return subcommands.ExitSuccess
}

func isLeafKind(k ast.Kind) bool {
	return k == ast.IntegerLiteral || k == ast.StringLiteral || k == ast.Identifier
}
