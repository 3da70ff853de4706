// Package knight ties the pipeline together: parse, analyze, compile,
// then run. Grounded on skx-evalfilter/evalfilter.go's Eval struct and
// its New/Prepare/Execute two-phase contract (construct with source,
// Prepare to compile once, Execute to run, possibly repeatedly);
// adapted to return (*byte, error) per spec.md §4.3's execute contract
// rather than an object.Object, since Knight has no notion of a
// filter's boolean verdict.
package knight

import (
	"io"
	"math/rand"

	"github.com/knight-lang/knight-go/analyzer"
	"github.com/knight-lang/knight-go/code"
	"github.com/knight-lang/knight-go/compiler"
	"github.com/knight-lang/knight-go/environment"
	"github.com/knight-lang/knight-go/parser"
	"github.com/knight-lang/knight-go/vm"
)

// Eval holds one program through its parse/analyze/compile/run
// lifecycle.
type Eval struct {
	Source string

	env     *environment.Environment
	program *code.Program
}

// New creates an Eval over the given source. Call Prepare before
// Execute.
func New(source string, env *environment.Environment) *Eval {
	return &Eval{Source: source, env: env}
}

// Prepare parses, analyzes and compiles the source into bytecode. It
// must be called before Execute.
func (e *Eval) Prepare() error {
	tree, err := parser.New(e.Source).ParseProgram()
	if err != nil {
		return err
	}
	info := analyzer.Analyze(tree)
	program, err := compiler.Compile(tree, info)
	if err != nil {
		return err
	}
	e.program = program
	return nil
}

// Program returns the compiled bytecode, for callers that want to
// inspect it (e.g. the `bytecode` CLI subcommand) without re-running
// it.
func (e *Eval) Program() *code.Program {
	return e.program
}

// Execute runs the prepared program against the Eval's environment.
// See code.Program/vm.Machine.Run for the return contract.
func (e *Eval) Execute() (*byte, error) {
	machine := vm.New(e.env, e.program)
	return machine.Run()
}

// DefaultEnvironment builds a strict-mode Environment wired to the
// given streams with a random source seeded from seed, for callers that
// don't need to customize execution mode or randomness.
func DefaultEnvironment(input io.Reader, output io.Writer, seed int64) *environment.Environment {
	return environment.New(environment.Strict, input, output, rand.New(rand.NewSource(seed)))
}
