// Entry point for the knight CLI. Registers the run/lex/parse/bytecode
// subcommands, following cmd/evalfilter/main.go's google/subcommands
// registration pattern.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/google/subcommands"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintln(os.Stderr, "panic: "+fmt.Sprint(r)+"\n"+string(debug.Stack()))
			os.Exit(2)
		}
	}()

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&lexCmd{}, "")
	subcommands.Register(&parseCmd{}, "")
	subcommands.Register(&bytecodeCmd{}, "")
	subcommands.Register(&runCmd{}, "")

	flag.Parse()
	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}

// readSource returns the program text for a subcommand: either -e expr,
// or the contents of a single positional file path (spec.md §6's CLI
// surface: `-e <expr>` evaluates a source string, `-f <path>` loads a
// file -- here expressed as a positional argument instead of `-f`, to
// match how subcommands.FlagSet already separates flags from args).
func readSource(expr, file string) (string, error) {
	if expr != "" {
		return expr, nil
	}
	if file == "" {
		return "", fmt.Errorf("no source given: pass -e <expr> or a script file path")
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
