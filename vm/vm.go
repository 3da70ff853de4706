// Package vm implements the stack-based virtual machine that executes
// a compiled code.Program (spec.md §4.3). This is the other HARD PART
// of the core: Knight's coercion rules, ownership-aware value
// manipulation (deep copy on push), and CALL's host-stack recursion.
//
// The dispatch loop shape (fetch/execute/increment, with Jump/Cond
// overwriting the program counter) and the panic-recovery wrapping at
// the Run boundary follow db47h-ngaro's vm/core.go Run() method
// (recover + github.com/pkg/errors.Wrapf with positional context).
// Every ordinary error is enriched with the instruction pointer and
// stack depth it occurred at (Machine.fault) before it leaves runCode,
// mirroring that same method's "@pc=%d/%d, stack %d/%d" message
// (spec.md §4.5); a panic whose value is an error is recovered in Run
// and wrapped with the innermost frame's pc and the stack depth, and a
// panic with any other value is re-raised.
// CALL's "save current (code, instr_idx), swap in the target, execute
// to completion, restore" (spec.md §4.3.1, §9) is implemented as plain
// Go recursion into runCode rather than manual state-swapping, since
// the value stack itself is shared process-wide state and the host
// call stack already gives CALL the nesting + unwind-on-QUIT behavior
// spec.md asks for.
package vm

import (
	"strings"

	"github.com/knight-lang/knight-go/code"
	"github.com/knight-lang/knight-go/environment"
	kerr "github.com/knight-lang/knight-go/errors"
	"github.com/knight-lang/knight-go/object"
	"github.com/knight-lang/knight-go/vm/stack"
	"github.com/pkg/errors"
)

// Machine holds all VM-owned state: the value stack, the flat
// variables array, and the environment it was constructed with.
type Machine struct {
	env       *environment.Environment
	program   *code.Program
	stack     *stack.Stack
	variables []object.Value

	// curIP is the instruction index the innermost runCode frame is
	// currently executing, kept up to date so Run's panic recovery can
	// report where execution was when it died.
	curIP int
}

// New constructs a Machine ready to execute program.
func New(env *environment.Environment, program *code.Program) *Machine {
	variables := make([]object.Value, program.VariableCount)
	for i := range variables {
		variables[i] = object.TheNull
	}
	return &Machine{
		env:       env,
		program:   program,
		stack:     stack.New(),
		variables: variables,
		curIP:     -1,
	}
}

// Run executes the program to completion. It returns (nil, nil) if the
// program ran off the end of its code without calling QUIT, (code,
// nil) if QUIT fired, or a non-nil error on an execution fault.
func (m *Machine) Run() (quit *byte, err error) {
	defer func() {
		if e := recover(); e != nil {
			if asErr, ok := e.(error); ok {
				err = errors.Wrapf(asErr, "vm: recovered panic @pc=%d, stack=%d", m.curIP, m.stack.Size())
			} else {
				panic(e)
			}
		}
	}()
	return m.runCode(m.program.Code)
}

// fault enriches err with the instruction pointer and stack depth it was
// raised at: a *kerr.Error gets that context attached directly (so
// callers switching on Kind still work), anything else is wrapped with
// github.com/pkg/errors, matching db47h-ngaro's "@pc=%d/%d, stack %d/%d"
// idiom. Returns (nil, nil) when err is nil, so call sites can write
// `return m.fault(ip, err)` in place of `return nil, err`.
func (m *Machine) fault(ip int, err error) (*byte, error) {
	if err == nil {
		return nil, nil
	}
	depth := m.stack.Size()
	if fe, ok := err.(*kerr.Error); ok {
		return nil, fe.WithContext(ip, depth)
	}
	return nil, errors.Wrapf(err, "@pc=%d, stack=%d", ip, depth)
}

// runCode executes one code vector (the main program or a block body)
// to completion or until a QUIT propagates out of it.
func (m *Machine) runCode(ins []code.Instruction) (*byte, error) {
	for ip := 0; ip < len(ins); ip++ {
		m.curIP = ip
		instr := ins[ip]

		switch instr.Op {
		case code.Nop:

		case code.OpTrue:
			m.stack.Push(object.True)
		case code.OpFalse:
			m.stack.Push(object.False)
		case code.OpNull:
			m.stack.Push(object.TheNull)
		case code.OpEmptyList:
			m.stack.Push(&object.List{Values: []object.Value{}})

		case code.OpConstant:
			m.stack.Push(m.program.Constants[instr.Operand].Clone())
		case code.OpBlock:
			m.stack.Push(&object.Block{Index: instr.Operand})

		case code.OpLoadVariable:
			m.stack.Push(m.variables[instr.Operand].Clone())
		case code.OpStoreVariable:
			top, err := m.stack.Peek()
			if err != nil {
				return m.fault(ip, err)
			}
			m.variables[instr.Operand] = top.Clone()

		case code.OpDrop:
			if _, err := m.stack.Pop(); err != nil {
				return m.fault(ip, err)
			}
		case code.OpDupe:
			if err := m.stack.Dup(); err != nil {
				return m.fault(ip, err)
			}

		case code.OpJump:
			ip = instr.Operand
		case code.OpCond:
			v, err := m.stack.Pop()
			if err != nil {
				return m.fault(ip, err)
			}
			if !object.ToBool(v) {
				ip = instr.Operand
			}

		case code.OpNot:
			v, err := m.stack.Pop()
			if err != nil {
				return m.fault(ip, err)
			}
			m.stack.Push(object.BoolOf(!object.ToBool(v)))
		case code.OpNegate:
			v, err := m.stack.Pop()
			if err != nil {
				return m.fault(ip, err)
			}
			m.stack.Push(&object.Number{Value: -object.ToNumber(v)})

		case code.OpAscii:
			if err := m.execAscii(); err != nil {
				return m.fault(ip, err)
			}
		case code.OpBox:
			v, err := m.stack.Pop()
			if err != nil {
				return m.fault(ip, err)
			}
			m.stack.Push(&object.List{Values: []object.Value{v}})
		case code.OpHead:
			if err := m.execHead(); err != nil {
				return m.fault(ip, err)
			}
		case code.OpTail:
			if err := m.execTail(); err != nil {
				return m.fault(ip, err)
			}
		case code.OpLength:
			v, err := m.stack.Pop()
			if err != nil {
				return m.fault(ip, err)
			}
			m.stack.Push(&object.Number{Value: length(v)})

		case code.OpAdd, code.OpSub, code.OpMult, code.OpDiv, code.OpMod, code.OpExp:
			if err := m.execArith(instr.Op); err != nil {
				return m.fault(ip, err)
			}
		case code.OpLess, code.OpGreater:
			if err := m.execOrder(instr.Op); err != nil {
				return m.fault(ip, err)
			}
		case code.OpEqual:
			b, err := m.stack.Pop()
			if err != nil {
				return m.fault(ip, err)
			}
			a, err := m.stack.Pop()
			if err != nil {
				return m.fault(ip, err)
			}
			m.stack.Push(object.BoolOf(object.StrictEqual(a, b)))

		case code.OpAndThen:
			b, err := m.stack.Pop()
			if err != nil {
				return m.fault(ip, err)
			}
			a, err := m.stack.Pop()
			if err != nil {
				return m.fault(ip, err)
			}
			if object.ToBool(a) {
				m.stack.Push(b)
			} else {
				m.stack.Push(a)
			}
		case code.OpOrThen:
			b, err := m.stack.Pop()
			if err != nil {
				return m.fault(ip, err)
			}
			a, err := m.stack.Pop()
			if err != nil {
				return m.fault(ip, err)
			}
			if object.ToBool(a) {
				m.stack.Push(a)
			} else {
				m.stack.Push(b)
			}

		case code.OpPrompt:
			v, err := m.execPrompt()
			if err != nil {
				return m.fault(ip, err)
			}
			m.stack.Push(v)
		case code.OpRandom:
			m.stack.Push(&object.Number{Value: m.env.Rand.Int63()})

		case code.OpOutput:
			if err := m.execOutput(); err != nil {
				return m.fault(ip, err)
			}
		case code.OpDump:
			top, err := m.stack.Peek()
			if err != nil {
				return m.fault(ip, err)
			}
			m.env.Output.WriteString(object.Dump(top))
			m.env.Output.Flush()

		case code.OpQuit:
			v, err := m.stack.Pop()
			if err != nil {
				return m.fault(ip, err)
			}
			c := byte(((object.ToNumber(v) % 256) + 256) % 256)
			return &c, nil

		case code.OpCall:
			v, err := m.stack.Pop()
			if err != nil {
				return m.fault(ip, err)
			}
			block, ok := v.(*object.Block)
			if !ok {
				return m.fault(ip, kerr.New(kerr.BlockNotAllowed, "CALL requires a Block value"))
			}
			// The nested frame already attached its own (innermost) pc/stack
			// context via m.fault; propagate it as-is instead of re-wrapping
			// with this frame's ip.
			quit, err := m.runCode(m.program.Blocks[block.Index])
			if err != nil {
				return nil, err
			}
			if quit != nil {
				return quit, nil
			}
			m.curIP = ip // restore: the nested call clobbered m.curIP

		case code.OpGet:
			if err := m.execGet(); err != nil {
				return m.fault(ip, err)
			}
		case code.OpSet:
			if err := m.execSet(); err != nil {
				return m.fault(ip, err)
			}

		case code.OpInvalid:
			if m.env.Mode == environment.Strict {
				return m.fault(ip, kerr.New(kerr.InvalidOutputTarget, "invalid OUTPUT target"))
			}
			m.stack.Push(object.TheNull)

		default:
			return m.fault(ip, kerr.New(kerr.ParseError, "vm: unknown opcode %v", instr.Op))
		}
	}
	return nil, nil
}

// length implements the Length table (spec.md §4.3.1).
func length(v object.Value) int64 {
	switch x := v.(type) {
	case *object.List:
		return int64(len(x.Values))
	case *object.String:
		return int64(len(x.Value))
	case *object.Number:
		n := x.Value
		if n < 0 {
			n = -n
		}
		digits := int64(1)
		for n >= 10 {
			n /= 10
			digits++
		}
		return digits
	case *object.Bool:
		if x.Value {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func (m *Machine) execAscii() error {
	v, err := m.stack.Pop()
	if err != nil {
		return err
	}
	switch x := v.(type) {
	case *object.Number:
		n := ((x.Value % 256) + 256) % 256
		m.stack.Push(&object.String{Value: string([]byte{byte(n)})})
		return nil
	case *object.String:
		if len(x.Value) == 0 {
			return m.typeFault(kerr.BadAscii, "ASCII on empty string")
		}
		m.stack.Push(&object.Number{Value: int64(x.Value[0])})
		return nil
	default:
		return m.typeFault(kerr.BadAscii, "ASCII requires a Number or non-empty String")
	}
}

func (m *Machine) execHead() error {
	v, err := m.stack.Pop()
	if err != nil {
		return err
	}
	switch x := v.(type) {
	case *object.String:
		if len(x.Value) == 0 {
			return m.typeFault(kerr.BadHead, "HEAD of empty string")
		}
		m.stack.Push(&object.String{Value: x.Value[:1]})
		return nil
	case *object.List:
		if len(x.Values) == 0 {
			return m.typeFault(kerr.BadHead, "HEAD of empty list")
		}
		m.stack.Push(x.Values[0].Clone())
		return nil
	default:
		return m.typeFault(kerr.BadHead, "HEAD requires a String or List")
	}
}

func (m *Machine) execTail() error {
	v, err := m.stack.Pop()
	if err != nil {
		return err
	}
	switch x := v.(type) {
	case *object.String:
		if len(x.Value) == 0 {
			return m.typeFault(kerr.BadTail, "TAIL of empty string")
		}
		m.stack.Push(&object.String{Value: x.Value[1:]})
		return nil
	case *object.List:
		if len(x.Values) == 0 {
			return m.typeFault(kerr.BadTail, "TAIL of empty list")
		}
		rest := make([]object.Value, len(x.Values)-1)
		for i, e := range x.Values[1:] {
			rest[i] = e.Clone()
		}
		m.stack.Push(&object.List{Values: rest})
		return nil
	default:
		return m.typeFault(kerr.BadTail, "TAIL requires a String or List")
	}
}

// typeFault raises kind in Strict mode; in Lenient mode it pushes Null
// and continues, per spec.md §7 ("propagate silently" / "benign
// default").
func (m *Machine) typeFault(kind kerr.Kind, msg string) error {
	if m.env.Mode == environment.Strict {
		return kerr.New(kind, msg)
	}
	m.stack.Push(object.TheNull)
	return nil
}

func (m *Machine) checkBlockOperand(kind kerr.Kind, vs ...object.Value) error {
	if m.env.Mode != environment.Strict {
		return nil
	}
	for _, v := range vs {
		if _, ok := v.(*object.Block); ok {
			return kerr.New(kerr.BlockNotAllowed, "%v: Block operand not allowed in Strict mode", kind)
		}
	}
	return nil
}

func (m *Machine) execArith(op code.Op) error {
	b, err := m.stack.Pop()
	if err != nil {
		return err
	}
	a, err := m.stack.Pop()
	if err != nil {
		return err
	}

	var kind kerr.Kind
	switch op {
	case code.OpAdd:
		kind = kerr.BadAdd
	case code.OpSub:
		kind = kerr.BadSub
	case code.OpMult:
		kind = kerr.BadMult
	case code.OpDiv:
		kind = kerr.BadDiv
	case code.OpMod:
		kind = kerr.BadMod
	case code.OpExp:
		kind = kerr.BadExp
	}
	if err := m.checkBlockOperand(kind, a, b); err != nil {
		return err
	}

	switch op {
	case code.OpAdd:
		return m.execAdd(a, b, kind)
	case code.OpSub:
		return m.execSub(a, b, kind)
	case code.OpMult:
		return m.execMult(a, b, kind)
	case code.OpDiv:
		return m.execDiv(a, b, kind)
	case code.OpMod:
		return m.execMod(a, b, kind)
	case code.OpExp:
		return m.execExp(a, b, kind)
	}
	return nil
}

func (m *Machine) execAdd(a, b object.Value, kind kerr.Kind) error {
	switch x := a.(type) {
	case *object.Number:
		m.stack.Push(&object.Number{Value: x.Value + object.ToNumber(b)})
		return nil
	case *object.String:
		m.stack.Push(&object.String{Value: x.Value + object.ToString(b)})
		return nil
	case *object.List:
		bl := object.ToList(b)
		values := make([]object.Value, 0, len(x.Values)+len(bl.Values))
		for _, v := range x.Values {
			values = append(values, v.Clone())
		}
		values = append(values, bl.Values...)
		m.stack.Push(&object.List{Values: values})
		return nil
	default:
		return m.typeFault(kind, "ADD requires a Number, String or List")
	}
}

func (m *Machine) execSub(a, b object.Value, kind kerr.Kind) error {
	if _, ok := a.(*object.Number); !ok && m.env.Mode == environment.Strict {
		return kerr.New(kind, "SUB requires a Number")
	}
	m.stack.Push(&object.Number{Value: object.ToNumber(a) - object.ToNumber(b)})
	return nil
}

func (m *Machine) execMult(a, b object.Value, kind kerr.Kind) error {
	switch x := a.(type) {
	case *object.Number:
		m.stack.Push(&object.Number{Value: x.Value * object.ToNumber(b)})
		return nil
	case *object.String:
		n := object.ToNumber(b)
		if n < 0 {
			n = 0
		}
		m.stack.Push(&object.String{Value: strings.Repeat(x.Value, int(n))})
		return nil
	case *object.List:
		n := object.ToNumber(b)
		if n < 0 {
			n = 0
		}
		values := make([]object.Value, 0, int64(len(x.Values))*n)
		for i := int64(0); i < n; i++ {
			for _, v := range x.Values {
				values = append(values, v.Clone())
			}
		}
		m.stack.Push(&object.List{Values: values})
		return nil
	default:
		return m.typeFault(kind, "MULT requires a Number, String or List")
	}
}

func (m *Machine) execDiv(a, b object.Value, kind kerr.Kind) error {
	if _, ok := a.(*object.Number); !ok && m.env.Mode == environment.Strict {
		return kerr.New(kind, "DIV requires a Number")
	}
	divisor := object.ToNumber(b)
	if divisor == 0 {
		return kerr.New(kind, "division by zero")
	}
	m.stack.Push(&object.Number{Value: object.ToNumber(a) / divisor})
	return nil
}

func (m *Machine) execMod(a, b object.Value, kind kerr.Kind) error {
	if _, ok := a.(*object.Number); !ok && m.env.Mode == environment.Strict {
		return kerr.New(kind, "MOD requires a Number")
	}
	left := object.ToNumber(a)
	right := object.ToNumber(b)
	if right == 0 {
		return kerr.New(kind, "modulo by zero")
	}
	if left < 0 || right < 0 {
		return kerr.New(kind, "MOD operands must be non-negative")
	}
	m.stack.Push(&object.Number{Value: left % right})
	return nil
}

func (m *Machine) execExp(a, b object.Value, kind kerr.Kind) error {
	if list, ok := a.(*object.List); ok {
		sep := object.ToString(b)
		parts := make([]string, len(list.Values))
		for i, v := range list.Values {
			parts[i] = object.ToString(v)
		}
		m.stack.Push(&object.String{Value: strings.Join(parts, sep)})
		return nil
	}
	if _, ok := a.(*object.Number); !ok && m.env.Mode == environment.Strict {
		return kerr.New(kind, "EXP requires a Number or List")
	}
	m.stack.Push(&object.Number{Value: intPow(object.ToNumber(a), object.ToNumber(b))})
	return nil
}

// intPow computes base**exp, yielding 0 on overflow (spec.md §9: the
// reference implementation swallows Exp overflow as 0).
func intPow(base, exp int64) int64 {
	if exp < 0 {
		return 0
	}
	result := int64(1)
	for i := int64(0); i < exp; i++ {
		next := result * base
		if base != 0 && next/base != result {
			return 0
		}
		result = next
	}
	return result
}

func (m *Machine) execOrder(op code.Op) error {
	b, err := m.stack.Pop()
	if err != nil {
		return err
	}
	a, err := m.stack.Pop()
	if err != nil {
		return err
	}
	if err := m.checkBlockOperand(kerr.BlockNotAllowed, a, b); err != nil {
		return err
	}
	order := object.Order(a, b)
	if op == code.OpLess {
		m.stack.Push(object.BoolOf(order == object.Lt))
	} else {
		m.stack.Push(object.BoolOf(order == object.Gt))
	}
	return nil
}

func (m *Machine) execPrompt() (object.Value, error) {
	line, readErr := m.env.Input.ReadString('\n')
	if line == "" && readErr != nil {
		return object.TheNull, nil
	}
	if len(line) > 0 && line[len(line)-1] == '\n' {
		line = line[:len(line)-1]
	}
	for len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}
	return &object.String{Value: line}, nil
}

func (m *Machine) execOutput() error {
	v, err := m.stack.Pop()
	if err != nil {
		return err
	}
	s := object.ToString(v)
	if strings.HasSuffix(s, `\`) {
		m.env.Output.WriteString(s[:len(s)-1])
	} else {
		m.env.Output.WriteString(s)
		m.env.Output.WriteByte('\n')
	}
	m.env.Output.Flush()
	m.stack.Push(object.TheNull)
	return nil
}

func (m *Machine) execGet() error {
	l, err := m.stack.Pop()
	if err != nil {
		return err
	}
	i, err := m.stack.Pop()
	if err != nil {
		return err
	}
	a, err := m.stack.Pop()
	if err != nil {
		return err
	}
	start := clampNonNegative(object.ToNumber(i))
	count := clampNonNegative(object.ToNumber(l))

	switch x := a.(type) {
	case *object.String:
		end := start + count
		if end > int64(len(x.Value)) {
			end = int64(len(x.Value))
		}
		if start > end {
			start = end
		}
		m.stack.Push(&object.String{Value: x.Value[start:end]})
		return nil
	case *object.List:
		end := start + count
		if end > int64(len(x.Values)) {
			end = int64(len(x.Values))
		}
		if start > end {
			start = end
		}
		values := make([]object.Value, end-start)
		for i, v := range x.Values[start:end] {
			values[i] = v.Clone()
		}
		m.stack.Push(&object.List{Values: values})
		return nil
	default:
		return kerr.New(kerr.BadGet, "GET requires a String or List")
	}
}

func (m *Machine) execSet() error {
	v, err := m.stack.Pop()
	if err != nil {
		return err
	}
	l, err := m.stack.Pop()
	if err != nil {
		return err
	}
	i, err := m.stack.Pop()
	if err != nil {
		return err
	}
	a, err := m.stack.Pop()
	if err != nil {
		return err
	}
	start := clampNonNegative(object.ToNumber(i))
	count := clampNonNegative(object.ToNumber(l))

	switch x := a.(type) {
	case *object.String:
		end := start + count
		if end > int64(len(x.Value)) {
			end = int64(len(x.Value))
		}
		if start > end {
			start = end
		}
		replacement := object.ToString(v)
		result := x.Value[:start] + replacement + x.Value[end:]
		m.stack.Push(&object.String{Value: result})
		return nil
	case *object.List:
		end := start + count
		if end > int64(len(x.Values)) {
			end = int64(len(x.Values))
		}
		if start > end {
			start = end
		}
		replacement := object.ToList(v)
		values := make([]object.Value, 0, start+int64(len(replacement.Values))+int64(len(x.Values))-end)
		for _, e := range x.Values[:start] {
			values = append(values, e.Clone())
		}
		values = append(values, replacement.Values...)
		for _, e := range x.Values[end:] {
			values = append(values, e.Clone())
		}
		m.stack.Push(&object.List{Values: values})
		return nil
	default:
		return kerr.New(kerr.BadSet, "SET requires a String or List")
	}
}

func clampNonNegative(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}
