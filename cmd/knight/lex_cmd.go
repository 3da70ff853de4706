package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/knight-lang/knight-go/lexer"
	"github.com/knight-lang/knight-go/token"
)

// lexCmd shows the token stream for a source, following
// cmd/evalfilter/lex_cmd.go's registration shape.
type lexCmd struct {
	expr string
}

func (*lexCmd) Name() string     { return "lex" }
func (*lexCmd) Synopsis() string { return "show the token stream for a program" }
func (*lexCmd) Usage() string {
	return `lex [-e expr] [file]:
  Show the tokens produced by the lexer for a source string or file.
`
}

func (c *lexCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.expr, "e", "", "evaluate expr instead of a file argument")
}

func (c *lexCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var file string
	if f.NArg() > 0 {
		file = f.Arg(0)
	}
	source, err := readSource(c.expr, file)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	lx := lexer.New(source)
	for {
		tok := lx.Next()
		fmt.Println(tok.String(source))
		if tok.Kind == token.EOF {
			break
		}
	}
	return subcommands.ExitSuccess
}
