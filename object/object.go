// Package object defines Knight's runtime value representation: the
// tagged sum described in spec.md §3 (Number, String, List, Bool, Block,
// Null), plus the coercion, ordering, equality and canonical-dump rules
// that operate on it (spec.md §4.3.3, §6).
//
// Following the teacher's one-type-per-file convention (object_int.go,
// object_string.go, ...), each variant gets its own file and implements
// the Value interface below.
package object

// Type identifies a Value's variant, for fast dispatch without a type
// assertion where only the tag (not the payload) is needed.
type Type int

const (
	NumberType Type = iota
	StringType
	ListType
	BoolType
	BlockType
	NullType
)

func (t Type) String() string {
	switch t {
	case NumberType:
		return "Number"
	case StringType:
		return "String"
	case ListType:
		return "List"
	case BoolType:
		return "Bool"
	case BlockType:
		return "Block"
	case NullType:
		return "Null"
	default:
		return "Unknown"
	}
}

// Value is the interface every Knight runtime value implements.
//
// Clone returns a value safe to store somewhere that outlives the
// receiver without aliasing mutable state. Number, Bool, Null and Block
// are immutable once constructed, so their Clone is the receiver itself;
// String and List own their contents (spec.md §3) and Clone deep-copies
// them -- this is what makes Constant/LoadVariable/Dupe/StoreVariable
// "deep copy on push" safe to implement as a single Clone call at each of
// those opcodes (spec.md §4.3.1).
type Value interface {
	Type() Type
	Clone() Value
}
