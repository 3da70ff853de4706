package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	knight "github.com/knight-lang/knight-go"
	"github.com/knight-lang/knight-go/code"
	"github.com/knight-lang/knight-go/object"
)

// bytecodeCmd shows the compiled program for a script, adapted from
// cmd/evalfilter/bytecode_cmd.go (dropping its optimizer-dump flags:
// this emitter has no bytecode optimizer pass).
type bytecodeCmd struct {
	expr string
}

func (*bytecodeCmd) Name() string     { return "bytecode" }
func (*bytecodeCmd) Synopsis() string { return "show the compiled bytecode for a program" }
func (*bytecodeCmd) Usage() string {
	return `bytecode [-e expr] [file]:
  Show the Program (code, constants, blocks) compiled for a source.
`
}

func (c *bytecodeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.expr, "e", "", "evaluate expr instead of a file argument")
}

func (c *bytecodeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var file string
	if f.NArg() > 0 {
		file = f.Arg(0)
	}
	source, err := readSource(c.expr, file)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	env := knight.DefaultEnvironment(os.Stdin, os.Stdout, 1)
	eval := knight.New(source, env)
	if err := eval.Prepare(); err != nil {
		fmt.Fprintln(os.Stderr, "compile error:", err)
		return subcommands.ExitFailure
	}

	printProgram(eval.Program())
	return subcommands.ExitSuccess
}

func printProgram(prog *code.Program) {
	fmt.Printf("variable_count: %d\n", prog.VariableCount)
	fmt.Println("constants:")
	for i, c := range prog.Constants {
		fmt.Printf("  %4d: %s\n", i, debugValue(c))
	}
	fmt.Println("code:")
	printCode(prog.Code, "  ")
	for i, block := range prog.Blocks {
		fmt.Printf("block %d:\n", i)
		printCode(block, "  ")
	}
}

func printCode(ins []code.Instruction, indent string) {
	for i, instr := range ins {
		fmt.Printf("%s%4d: %v %d\n", indent, i, instr.Op, instr.Operand)
	}
}

func debugValue(v object.Value) string {
	return object.Dump(v)
}
