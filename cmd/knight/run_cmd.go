package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"
	knight "github.com/knight-lang/knight-go"
	"github.com/knight-lang/knight-go/environment"
)

// runCmd runs a program to completion, adapted from
// cmd/evalfilter/run_cmd.go: dropped the JSON-object-under-test and
// user-defined-function wiring (no Knight equivalent), kept the
// -debug and -timeout flags spec.md §6's CLI surface calls for.
type runCmd struct {
	expr    string
	debug   bool
	lenient bool
	timeout time.Duration
	seed    int64
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "run a program" }
func (*runCmd) Usage() string {
	return `run [-e expr] [-debug] [-lenient] [-timeout d] [file]:
  Compile and execute a Knight program.
`
}

func (c *runCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.expr, "e", "", "evaluate expr instead of a file argument")
	f.BoolVar(&c.debug, "debug", false, "print the compiled bytecode before running")
	f.BoolVar(&c.lenient, "lenient", false, "run in lenient mode instead of strict (spec.md §7)")
	f.DurationVar(&c.timeout, "timeout", 0, "maximum execution duration (0 disables the timeout)")
	f.Int64Var(&c.seed, "seed", 1, "seed for the RANDOM source")
}

func (c *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var file string
	if f.NArg() > 0 {
		file = f.Arg(0)
	}
	source, err := readSource(c.expr, file)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	mode := environment.Strict
	if c.lenient {
		mode = environment.Lenient
	}
	env := environment.New(mode, os.Stdin, os.Stdout, newRand(c.seed))
	eval := knight.New(source, env)
	if err := eval.Prepare(); err != nil {
		fmt.Fprintln(os.Stderr, "compile error:", err)
		return subcommands.ExitFailure
	}
	if c.debug {
		printProgram(eval.Program())
	}

	if c.timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	result := make(chan struct {
		quit *byte
		err  error
	}, 1)
	go func() {
		quit, err := eval.Execute()
		result <- struct {
			quit *byte
			err  error
		}{quit, err}
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(os.Stderr, "execution timed out")
		return subcommands.ExitFailure
	case r := <-result:
		if r.err != nil {
			fmt.Fprintln(os.Stderr, "execution error:", r.err)
			return subcommands.ExitFailure
		}
		if r.quit != nil {
			os.Exit(int(*r.quit))
		}
		return subcommands.ExitSuccess
	}
}
