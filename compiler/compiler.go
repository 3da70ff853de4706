// Package compiler lowers a parsed, analyzed AST into bytecode
// (spec.md §4.2). This is one of the two HARD PARTS of the core: the
// control-flow templates for short-circuit `&`/`|`, `WHILE`, `IF`, and
// the constant/block-table relocation `BLOCK` needs to compile nested
// deferred code.
//
// The emit/addConstant/changeOperand primitives and the jump-patching
// shape of IF/WHILE follow skx-evalfilter's compiler.go
// (e.emit/e.addConstant/e.changeOperand and its IfExpression/
// WhileStatement cases); short-circuit `&`/`|` and BLOCK lowering have
// no equivalent there and are built from spec.md's lowering rules
// directly, in the same idiom.
package compiler

import (
	"strconv"

	"github.com/knight-lang/knight-go/analyzer"
	"github.com/knight-lang/knight-go/ast"
	"github.com/knight-lang/knight-go/code"
	kerr "github.com/knight-lang/knight-go/errors"
	"github.com/knight-lang/knight-go/object"
)

// Emitter accumulates one Program's worth of bytecode plus its
// constant and block-table side pools.
type Emitter struct {
	tree *ast.Tree
	info *analyzer.Info

	code      []code.Instruction
	constants []object.Value
	blocks    [][]code.Instruction
}

// New creates an Emitter over an analyzed tree.
func New(tree *ast.Tree, info *analyzer.Info) *Emitter {
	return &Emitter{tree: tree, info: info}
}

// Compile lowers tree starting at ast.Root into a complete Program.
func Compile(tree *ast.Tree, info *analyzer.Info) (*code.Program, error) {
	e := New(tree, info)
	if err := e.compileNode(ast.Root); err != nil {
		return nil, err
	}
	return &code.Program{
		Code:          e.code,
		Blocks:        e.blocks,
		Constants:     e.constants,
		VariableCount: info.Count,
	}, nil
}

// emit appends an instruction and returns its position.
func (e *Emitter) emit(op code.Op, operand int) int {
	pos := len(e.code)
	e.code = append(e.code, code.Instruction{Op: op, Operand: operand})
	return pos
}

// changeOperand patches the operand of an already-emitted instruction,
// used to back-patch jump targets once their destination is known.
func (e *Emitter) changeOperand(pos int, operand int) {
	e.code[pos].Operand = operand
}

// pc returns the position the next emit call will land at.
func (e *Emitter) pc() int {
	return len(e.code)
}

// addConstant interns obj into the constants pool, returning its index.
// Constants are only ever Number or String (spec.md §3), so a cheap
// linear scan with value equality is enough to dedup them, following
// the teacher's addConstant.
func (e *Emitter) addConstant(obj object.Value) int {
	for i, c := range e.constants {
		if c.Type() != obj.Type() {
			continue
		}
		switch x := obj.(type) {
		case *object.Number:
			if c.(*object.Number).Value == x.Value {
				return i
			}
		case *object.String:
			if c.(*object.String).Value == x.Value {
				return i
			}
		}
	}
	e.constants = append(e.constants, obj)
	return len(e.constants) - 1
}

func (e *Emitter) compileNode(node int) error {
	tree := e.tree
	kind := tree.Kinds[node]

	switch kind {
	case ast.IntegerLiteral:
		n, err := strconv.ParseInt(tree.Text(node), 10, 64)
		if err != nil {
			return kerr.New(kerr.ParseError, "integer literal %q does not fit in 64 bits", tree.Text(node))
		}
		e.emit(code.OpConstant, e.addConstant(&object.Number{Value: n}))
		return nil

	case ast.StringLiteral:
		e.emit(code.OpConstant, e.addConstant(&object.String{Value: tree.Text(node)}))
		return nil

	case ast.Identifier:
		slot := e.info.Slots[tree.Text(node)]
		e.emit(code.OpLoadVariable, slot)
		return nil

	case ast.EmptyList:
		e.emit(code.OpEmptyList, 0)
		return nil
	case ast.True:
		e.emit(code.OpTrue, 0)
		return nil
	case ast.False:
		e.emit(code.OpFalse, 0)
		return nil
	case ast.Null:
		e.emit(code.OpNull, 0)
		return nil
	case ast.Prompt:
		e.emit(code.OpPrompt, 0)
		return nil
	case ast.Random:
		e.emit(code.OpRandom, 0)
		return nil

	case ast.Identity:
		return e.compileNode(tree.Child(node, 0))

	case ast.BlockOf:
		return e.compileBlock(node)

	case ast.Output:
		return e.compileOutput(node)

	case ast.Not, ast.Negate, ast.Box, ast.Head, ast.Tail, ast.Ascii,
		ast.Call, ast.Dump, ast.Length, ast.Quit:
		if err := e.compileNode(tree.Child(node, 0)); err != nil {
			return err
		}
		e.emit(unaryOp[kind], 0)
		return nil

	case ast.Add, ast.Sub, ast.Mult, ast.Div, ast.Mod, ast.Exp,
		ast.Less, ast.Greater, ast.Equal:
		if err := e.compileNode(tree.Child(node, 0)); err != nil {
			return err
		}
		if err := e.compileNode(tree.Child(node, 1)); err != nil {
			return err
		}
		e.emit(binaryOp[kind], 0)
		return nil

	case ast.Sequence:
		if err := e.compileNode(tree.Child(node, 0)); err != nil {
			return err
		}
		e.emit(code.OpDrop, 0)
		return e.compileNode(tree.Child(node, 1))

	case ast.Assign:
		return e.compileAssign(node)

	case ast.And:
		return e.compileShortCircuit(node, false)
	case ast.Or:
		return e.compileShortCircuit(node, true)

	case ast.While:
		return e.compileWhile(node)
	case ast.If:
		return e.compileIf(node)

	case ast.Get:
		for i := 0; i < 3; i++ {
			if err := e.compileNode(tree.Child(node, i)); err != nil {
				return err
			}
		}
		e.emit(code.OpGet, 0)
		return nil

	case ast.Set:
		for i := 0; i < 4; i++ {
			if err := e.compileNode(tree.Child(node, i)); err != nil {
				return err
			}
		}
		e.emit(code.OpSet, 0)
		return nil

	case ast.Invalid:
		e.emit(code.OpInvalid, 0)
		return nil

	default:
		return kerr.New(kerr.ParseError, "compiler: unhandled node kind %v", kind)
	}
}

var unaryOp = map[ast.Kind]code.Op{
	ast.Not:    code.OpNot,
	ast.Negate: code.OpNegate,
	ast.Box:    code.OpBox,
	ast.Head:   code.OpHead,
	ast.Tail:   code.OpTail,
	ast.Ascii:  code.OpAscii,
	ast.Call:   code.OpCall,
	ast.Dump:   code.OpDump,
	ast.Length: code.OpLength,
	ast.Quit:   code.OpQuit,
}

var binaryOp = map[ast.Kind]code.Op{
	ast.Add:     code.OpAdd,
	ast.Sub:     code.OpSub,
	ast.Mult:    code.OpMult,
	ast.Div:     code.OpDiv,
	ast.Mod:     code.OpMod,
	ast.Exp:     code.OpExp,
	ast.Less:    code.OpLess,
	ast.Greater: code.OpGreater,
	ast.Equal:   code.OpEqual,
}

// compileOutput implements the `O` lowering rule, including the
// Open-Questions carve-out: `O` applied directly to a bare identifier
// emits a single Invalid opcode instead of evaluating the identifier
// and writing it (spec.md §9).
func (e *Emitter) compileOutput(node int) error {
	arg := e.tree.Child(node, 0)
	if e.tree.Kinds[arg] == ast.Identifier {
		e.emit(code.OpInvalid, 0)
		return nil
	}
	if err := e.compileNode(arg); err != nil {
		return err
	}
	e.emit(code.OpOutput, 0)
	return nil
}

// compileAssign implements `= var expr`: the target must be a bare
// identifier (spec.md §4.2).
func (e *Emitter) compileAssign(node int) error {
	target := e.tree.Child(node, 0)
	if e.tree.Kinds[target] != ast.Identifier {
		return kerr.New(kerr.InvalidStoreDestination, "assignment target must be an identifier")
	}
	slot := e.info.Slots[e.tree.Text(target)]
	if err := e.compileNode(e.tree.Child(node, 1)); err != nil {
		return err
	}
	e.emit(code.OpStoreVariable, slot)
	return nil
}

// compileShortCircuit implements `&`/`|` via the dupe-cond-drop idiom
// (spec.md §4.2, §9): evaluate arg0 once, duplicate it, and only
// evaluate arg1 when the duplicate's truthiness calls for it -- this
// keeps arg0's value as the result when short-circuiting.
//
// negateCond is true for `|` (OR): an extra Not between Dupe and Cond
// makes the conditional jump fire when arg0 is truthy.
func (e *Emitter) compileShortCircuit(node int, negateCond bool) error {
	if err := e.compileNode(e.tree.Child(node, 0)); err != nil {
		return err
	}
	e.emit(code.OpDupe, 0)
	if negateCond {
		e.emit(code.OpNot, 0)
	}
	condPos := e.emit(code.OpCond, 9999)
	e.emit(code.OpDrop, 0)
	if err := e.compileNode(e.tree.Child(node, 1)); err != nil {
		return err
	}
	e.changeOperand(condPos, e.pc()-1)
	return nil
}

// compileWhile implements `W cond body` (spec.md §4.2): a pre-emitted
// Nop keeps jump targets addressable at -1 when the loop is the very
// first thing in the program, following the chosen jump convention
// (absolute target, patched as current_pc - 1, spec.md §4.2.2).
func (e *Emitter) compileWhile(node int) error {
	if e.pc() == 0 {
		e.emit(code.Nop, 0)
	}
	condPC := e.pc()
	if err := e.compileNode(e.tree.Child(node, 0)); err != nil {
		return err
	}
	jPos := e.emit(code.OpCond, 9999)
	if err := e.compileNode(e.tree.Child(node, 1)); err != nil {
		return err
	}
	e.emit(code.OpDrop, 0)
	e.emit(code.OpJump, condPC-1)
	e.changeOperand(jPos, e.pc()-1)
	e.emit(code.OpNull, 0)
	return nil
}

// compileIf implements `I cond tb fb` (spec.md §4.2).
func (e *Emitter) compileIf(node int) error {
	if err := e.compileNode(e.tree.Child(node, 0)); err != nil {
		return err
	}
	j1 := e.emit(code.OpCond, 9999)
	if err := e.compileNode(e.tree.Child(node, 1)); err != nil {
		return err
	}
	j2 := e.emit(code.OpJump, 9999)
	e.changeOperand(j1, j2)
	if err := e.compileNode(e.tree.Child(node, 2)); err != nil {
		return err
	}
	e.changeOperand(j2, e.pc()-1)
	return nil
}

// compileBlock implements §4.2.1: `B expr` compiles expr into a fresh
// sub-emitter with its own pools, relocates that sub-program's
// constant and block indices by this emitter's current pool lengths,
// appends the sub-program's tables onto this emitter's tables, stores
// its code as a new blocks-table entry, and emits Block(idx) in this
// emitter's own stream. The body does not execute here; only CALL
// later executes it.
func (e *Emitter) compileBlock(node int) error {
	sub := New(e.tree, e.info)
	if err := sub.compileNode(e.tree.Child(node, 0)); err != nil {
		return err
	}

	constOffset := len(e.constants)
	blockOffset := len(e.blocks)

	relocate := func(ins []code.Instruction) []code.Instruction {
		out := make([]code.Instruction, len(ins))
		for i, instr := range ins {
			switch instr.Op {
			case code.OpConstant:
				instr.Operand += constOffset
			case code.OpBlock:
				instr.Operand += blockOffset
			}
			out[i] = instr
		}
		return out
	}

	relocatedCode := relocate(sub.code)
	relocatedBlocks := make([][]code.Instruction, len(sub.blocks))
	for i, b := range sub.blocks {
		relocatedBlocks[i] = relocate(b)
	}

	e.constants = append(e.constants, sub.constants...)
	e.blocks = append(e.blocks, relocatedBlocks...)
	blockIdx := len(e.blocks)
	e.blocks = append(e.blocks, relocatedCode)

	e.emit(code.OpBlock, blockIdx)
	return nil
}
