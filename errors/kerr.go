// Package kerr defines the typed error kinds the VM and emitter raise
// under strict (sanitizing) mode (spec.md §7).
package kerr

import "fmt"

// Kind identifies the category of a runtime or compile-time fault.
type Kind int

const (
	BlockNotAllowed Kind = iota
	BadAscii
	BadAdd
	BadSub
	BadMult
	BadDiv
	BadMod
	BadExp
	BadHead
	BadTail
	BadGet
	BadSet
	InvalidStoreDestination
	InvalidOutputTarget
	ParseError
	OverflowError
)

var names = map[Kind]string{
	BlockNotAllowed:         "BlockNotAllowed",
	BadAscii:                "BadAscii",
	BadAdd:                  "BadAdd",
	BadSub:                  "BadSub",
	BadMult:                 "BadMult",
	BadDiv:                  "BadDiv",
	BadMod:                  "BadMod",
	BadExp:                  "BadExp",
	BadHead:                 "BadHead",
	BadTail:                 "BadTail",
	BadGet:                  "BadGet",
	BadSet:                  "BadSet",
	InvalidStoreDestination: "InvalidStoreDestination",
	InvalidOutputTarget:     "InvalidOutputTarget",
	ParseError:              "ParseError",
	OverflowError:           "OverflowError",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return "UnknownError"
}

// Error is a typed failure carrying a Kind (for callers that want to
// switch on category), a human-readable message, and -- once a vm.Machine
// catches it -- the instruction pointer and stack depth it occurred at
// (spec.md §4.5's fault-context requirement, grounded on
// db47h-ngaro/vm/core.go's "@pc=%d/%d, stack %d/%d" recovery message).
// InstrIdx/StackDepth are -1 until WithContext attaches them.
type Error struct {
	Kind       Kind
	Message    string
	InstrIdx   int
	StackDepth int
}

func (e *Error) Error() string {
	if e.InstrIdx < 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s (@pc=%d, stack=%d)", e.Kind, e.Message, e.InstrIdx, e.StackDepth)
}

// New builds an *Error with a formatted message and no context yet.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), InstrIdx: -1, StackDepth: -1}
}

// WithContext attaches the instruction pointer and stack depth a fault
// occurred at, the first time it is set -- a CALL frame unwinding past an
// already-contextualized error from a nested block must not overwrite the
// innermost failure's pc with its own.
func (e *Error) WithContext(ip, stackDepth int) *Error {
	if e.InstrIdx < 0 {
		e.InstrIdx = ip
		e.StackDepth = stackDepth
	}
	return e
}
