// Package code defines the bytecode format the compiler emits and the
// VM executes: a flat instruction stream plus the constant and block
// pools it indexes into (spec.md §3, §4.2).
package code

import "github.com/knight-lang/knight-go/object"

// Op identifies the operation an Instruction performs. Some ops carry
// no payload (Nop, True, Add, ...); others index into a pool or encode
// a jump target, and use the Operand field (spec.md §3).
type Op int

const (
	// Nullary: no operand.
	Nop Op = iota
	OpTrue
	OpFalse
	OpNull
	OpEmptyList
	OpDrop
	OpDupe
	OpNot
	OpNegate
	OpAscii
	OpBox
	OpHead
	OpTail
	OpLength
	OpAdd
	OpSub
	OpMult
	OpDiv
	OpMod
	OpExp
	OpLess
	OpGreater
	OpEqual
	OpAndThen
	OpOrThen
	OpPrompt
	OpRandom
	OpOutput
	OpDump
	OpQuit
	OpCall
	OpGet
	OpSet
	OpInvalid

	// Indexed: Operand carries a pool index or jump target.
	OpConstant
	OpBlock
	OpLoadVariable
	OpStoreVariable
	OpJump
	OpCond
)

var opNames = map[Op]string{
	Nop: "Nop", OpTrue: "True", OpFalse: "False", OpNull: "Null", OpEmptyList: "EmptyList",
	OpDrop: "Drop", OpDupe: "Dupe", OpNot: "Not", OpNegate: "Negate", OpAscii: "Ascii",
	OpBox: "Box", OpHead: "Head", OpTail: "Tail", OpLength: "Length", OpAdd: "Add",
	OpSub: "Sub", OpMult: "Mult", OpDiv: "Div", OpMod: "Mod", OpExp: "Exp", OpLess: "Less",
	OpGreater: "Greater", OpEqual: "Equal", OpAndThen: "AndThen", OpOrThen: "OrThen",
	OpPrompt: "Prompt", OpRandom: "Random", OpOutput: "Output", OpDump: "Dump",
	OpQuit: "Quit", OpCall: "Call", OpGet: "Get", OpSet: "Set", OpInvalid: "Invalid",
	OpConstant: "Constant", OpBlock: "Block", OpLoadVariable: "LoadVariable",
	OpStoreVariable: "StoreVariable", OpJump: "Jump", OpCond: "Cond",
}

func (op Op) String() string {
	if s, ok := opNames[op]; ok {
		return s
	}
	return "UnknownOp"
}

// Instruction is the VM's unit of dispatch: an opcode plus the operand
// indexed opcodes need (a pool index or an absolute jump target).
// Nullary opcodes leave Operand at its zero value.
type Instruction struct {
	Op      Op
	Operand int
}

// Program is a fully compiled, ready-to-run Knight program: the main
// code vector, the tables it indexes into, and the dense variable
// count the analyzer computed (spec.md §4.2, §4.4).
type Program struct {
	Code          []Instruction
	Blocks        [][]Instruction
	Constants     []object.Value
	VariableCount int
}
